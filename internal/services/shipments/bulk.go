package shipments

import (
	"context"
	"fmt"
	"strings"

	"github.com/BearBump/ShipBox/internal/metrics"
	"github.com/BearBump/ShipBox/internal/models"
	"github.com/BearBump/ShipBox/internal/validation"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type bulkAction int

const (
	bulkStandalone bulkAction = iota
	bulkAttach
	bulkOpen
	bulkFollow
)

type bulkStep struct {
	action bulkAction
	// opener is the batch index of the record that opens this record's group.
	opener int
}

// CreateBulk creates records independently and reports one result per input index.
// Records without groupID become Single. A record whose groupID is already live is attached to
// that group. Otherwise the first record of the groupID in the batch opens the group as Multi
// and the rest attach once it exists.
func (s *Service) CreateBulk(ctx context.Context, records []models.ShipmentCreateInput) ([]models.BulkRecordResult, error) {
	if len(records) == 0 {
		return nil, validation.Field("records", "records must not be empty")
	}
	if len(records) > s.opts.BulkMaxRecords {
		return nil, validation.Field("records", fmt.Sprintf("too many records (max %d)", s.opts.BulkMaxRecords))
	}

	norm := make([]models.ShipmentCreateInput, len(records))
	for i, rec := range records {
		rec.GroupID = strings.TrimSpace(rec.GroupID)
		if rec.GroupID == "" {
			rec.Type = models.ShipmentTypeSingle
		} else {
			rec.Type = models.ShipmentTypeMulti
		}
		norm[i] = rec
	}

	plan, err := s.planBulk(ctx, norm)
	if err != nil {
		return nil, err
	}

	results := make([]models.BulkRecordResult, len(norm))
	for i := range results {
		results[i].Index = i
	}

	run := func(indexes []int) {
		g := new(errgroup.Group)
		g.SetLimit(s.opts.BulkConcurrency)
		for _, i := range indexes {
			g.Go(func() error {
				results[i] = s.createOne(ctx, i, norm[i], plan[i].action)
				return nil
			})
		}
		_ = g.Wait()
	}

	var first, followers []int
	for i, st := range plan {
		if st.action == bulkFollow {
			followers = append(followers, i)
		} else {
			first = append(first, i)
		}
	}

	run(first)

	ready := make([]int, 0, len(followers))
	for _, i := range followers {
		if results[plan[i].opener].Success {
			ready = append(ready, i)
			continue
		}
		results[i] = models.BulkRecordResult{Index: i, Message: models.ErrGroupNotFound.Error()}
	}
	run(ready)

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	metrics.RecordBulk(succeeded, len(results)-succeeded)

	return results, nil
}

// planBulk decides per record how it is written. Live groups are looked up once per groupID.
func (s *Service) planBulk(ctx context.Context, records []models.ShipmentCreateInput) ([]bulkStep, error) {
	live := make(map[string]bool)
	openers := make(map[string]int)
	plan := make([]bulkStep, len(records))

	for i, rec := range records {
		if rec.GroupID == "" {
			plan[i] = bulkStep{action: bulkStandalone}
			continue
		}

		exists, seen := live[rec.GroupID]
		if !seen {
			var err error
			exists, err = s.repo.GroupExists(ctx, rec.GroupID)
			if err != nil {
				return nil, errors.Wrap(err, "error checking group")
			}
			live[rec.GroupID] = exists
		}

		switch {
		case exists:
			plan[i] = bulkStep{action: bulkAttach}
		case hasOpener(openers, rec.GroupID):
			plan[i] = bulkStep{action: bulkFollow, opener: openers[rec.GroupID]}
		default:
			openers[rec.GroupID] = i
			plan[i] = bulkStep{action: bulkOpen}
		}
	}
	return plan, nil
}

func hasOpener(openers map[string]int, groupID string) bool {
	_, ok := openers[groupID]
	return ok
}

func (s *Service) createOne(ctx context.Context, i int, rec models.ShipmentCreateInput, action bulkAction) models.BulkRecordResult {
	var (
		sh  *models.Shipment
		err error
	)
	switch action {
	case bulkAttach, bulkFollow:
		sh, err = s.AddToGroup(ctx, memberInput(rec))
	default:
		sh, err = s.Create(ctx, rec)
	}
	if err != nil {
		return models.BulkRecordResult{Index: i, Message: err.Error()}
	}
	return models.BulkRecordResult{Index: i, Success: true, Shipment: sh}
}

func memberInput(rec models.ShipmentCreateInput) models.GroupMemberInput {
	return models.GroupMemberInput{
		TenantID:      rec.TenantID,
		GroupID:       rec.GroupID,
		Source:        rec.Source,
		Destination:   rec.Destination,
		TransporterID: rec.TransporterID,
		VehicleTypeID: rec.VehicleTypeID,
		Material:      rec.Material,
		TotalWeight:   rec.TotalWeight,
		Volume:        rec.Volume,
		Quantity:      rec.Quantity,
	}
}
