package importer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BearBump/ShipBox/internal/broker/messages"
	"github.com/BearBump/ShipBox/internal/cache/rediscache"
	"github.com/BearBump/ShipBox/internal/metrics"
	"github.com/BearBump/ShipBox/internal/models"
	"github.com/BearBump/ShipBox/internal/validation"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type BulkCreator interface {
	CreateBulk(ctx context.Context, records []models.ShipmentCreateInput) ([]models.BulkRecordResult, error)
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// Importer handles bulk import batches: one Kafka message in, one result message out.
type Importer struct {
	bulk     BulkCreator
	producer Producer
	rl       RateLimiter

	resultsTopic string

	tenantID           string
	rateLimitPerMinute int64
	limitDelay         time.Duration
	now                func() time.Time
	publishAttempts    int
	publishBackoff     time.Duration

	startedAtUnixNano int64
	lastBatchUnixNano atomic.Int64
	totalBatches      atomic.Int64
	totalRecords      atomic.Int64
	totalSucceeded    atomic.Int64
	totalFailed       atomic.Int64
	totalErrors       atomic.Int64
	totalThrottled    atomic.Int64
	inFlight          atomic.Int64
	lastErrorMu       sync.Mutex
	lastError         string
}

func New(bulk BulkCreator, producer Producer, rl RateLimiter, resultsTopic string) *Importer {
	return &Importer{
		bulk: bulk, producer: producer, rl: rl, resultsTopic: resultsTopic,
		tenantID:           "default",
		rateLimitPerMinute: 60,
		limitDelay:         500 * time.Millisecond,
		publishAttempts:    10,
		publishBackoff:     150 * time.Millisecond,
		startedAtUnixNano:  time.Now().UTC().UnixNano(),
		now:                time.Now,
	}
}

func (i *Importer) WithSettings(tenantID string, rlPerMin int64) *Importer {
	if tenantID != "" {
		i.tenantID = tenantID
	}
	if rlPerMin > 0 {
		i.rateLimitPerMinute = rlPerMin
	}
	return i
}

type Stats struct {
	StartedAt      time.Time  `json:"startedAt"`
	LastBatchAt    *time.Time `json:"lastBatchAt,omitempty"`
	TotalBatches   int64      `json:"totalBatches"`
	TotalRecords   int64      `json:"totalRecords"`
	TotalSucceeded int64      `json:"totalSucceeded"`
	TotalFailed    int64      `json:"totalFailed"`
	TotalErrors    int64      `json:"totalErrors"`
	TotalThrottled int64      `json:"totalThrottled"`
	InFlight       int64      `json:"inFlight"`
	LastError      string     `json:"lastError,omitempty"`
}

func (i *Importer) Stats() Stats {
	st := Stats{
		StartedAt:      time.Unix(0, i.startedAtUnixNano).UTC(),
		TotalBatches:   i.totalBatches.Load(),
		TotalRecords:   i.totalRecords.Load(),
		TotalSucceeded: i.totalSucceeded.Load(),
		TotalFailed:    i.totalFailed.Load(),
		TotalErrors:    i.totalErrors.Load(),
		TotalThrottled: i.totalThrottled.Load(),
		InFlight:       i.inFlight.Load(),
	}
	if n := i.lastBatchUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastBatchAt = &t
	}
	i.lastErrorMu.Lock()
	st.LastError = i.lastError
	i.lastErrorMu.Unlock()
	return st
}

// Handle processes one BulkImportRequested message. Undecodable messages are skipped.
// A non-nil error means the batch must be redelivered.
func (i *Importer) Handle(ctx context.Context, key, value []byte) error {
	i.inFlight.Add(1)
	defer i.inFlight.Add(-1)
	i.lastBatchUnixNano.Store(time.Now().UTC().UnixNano())

	var req messages.BulkImportRequested
	if err := json.Unmarshal(value, &req); err != nil {
		i.fail(errors.Wrap(err, "decode bulk import"))
		metrics.ImportBatches.WithLabelValues(metrics.ResultInvalid).Inc()
		slog.Error("skip undecodable bulk import", "key", string(key), "error", err.Error())
		return nil
	}
	if req.BatchID == "" {
		req.BatchID = string(key)
	}
	if req.BatchID == "" {
		req.BatchID = uuid.NewString()
	}
	if req.TenantID == "" {
		req.TenantID = i.tenantID
	}
	for n := range req.Records {
		if req.Records[n].TenantID == "" {
			req.Records[n].TenantID = req.TenantID
		}
	}

	if err := i.throttle(ctx, req.TenantID); err != nil {
		i.fail(err)
		return err
	}

	results, err := i.bulk.CreateBulk(ctx, req.Records)
	if err != nil {
		if !validation.IsValidation(err) {
			i.fail(err)
			metrics.ImportBatches.WithLabelValues(metrics.ResultError).Inc()
			return errors.Wrap(err, "bulk create")
		}
		results = rejectAll(len(req.Records), err)
	}

	out := messages.BulkImportCompleted{BatchID: req.BatchID, TenantID: req.TenantID, Results: results}
	for _, r := range results {
		if r.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}

	if err := i.publish(ctx, out); err != nil {
		i.fail(err)
		metrics.ImportBatches.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	i.totalBatches.Add(1)
	i.totalRecords.Add(int64(len(results)))
	i.totalSucceeded.Add(int64(out.Succeeded))
	i.totalFailed.Add(int64(out.Failed))
	metrics.ImportBatches.WithLabelValues(metrics.ResultOK).Inc()

	slog.Info("bulk import done", "batch_id", req.BatchID, "tenant_id", req.TenantID,
		"succeeded", out.Succeeded, "failed", out.Failed)
	return nil
}

// throttle delays, never drops, a batch over the tenant's per-minute budget: it waits for
// the next window until one admits the batch or ctx ends.
func (i *Importer) throttle(ctx context.Context, tenantID string) error {
	if i.rl == nil || i.rateLimitPerMinute <= 0 {
		return nil
	}
	for throttled := false; ; throttled = true {
		now := i.now()
		w := rediscache.TenantMinuteWindow(tenantID, now)
		allowed, n, err := i.rl.Allow(ctx, w.Key, i.rateLimitPerMinute, w.TTL(now))
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}
		if !throttled {
			i.totalThrottled.Add(1)
		}
		wait := w.Remaining(now) + i.limitDelay
		slog.Warn("bulk import rate limit exceeded, waiting for next window",
			"tenant_id", tenantID, "count", n, "wait", wait)
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (i *Importer) publish(ctx context.Context, out messages.BulkImportCompleted) error {
	b, err := json.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "marshal bulk import result")
	}

	var pubErr error
	for attempt := 0; attempt < i.publishAttempts; attempt++ {
		if pubErr = i.producer.Publish(ctx, i.resultsTopic, []byte(out.BatchID), b); pubErr == nil {
			return nil
		}
		if err := sleep(ctx, time.Duration(attempt+1)*i.publishBackoff); err != nil {
			return err
		}
	}
	return pubErr
}

func (i *Importer) fail(err error) {
	i.totalErrors.Add(1)
	i.lastErrorMu.Lock()
	i.lastError = err.Error()
	i.lastErrorMu.Unlock()
}

func rejectAll(n int, err error) []models.BulkRecordResult {
	out := make([]models.BulkRecordResult, n)
	for idx := range out {
		out[idx] = models.BulkRecordResult{Index: idx, Message: err.Error()}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
