package shipments

import (
	"context"
	"log/slog"

	"github.com/BearBump/ShipBox/internal/broker/messages"
	"github.com/BearBump/ShipBox/internal/metrics"
	"github.com/BearBump/ShipBox/internal/models"
)

const (
	eventCreated   = messages.ShipmentCreated
	eventUpdated   = messages.ShipmentUpdated
	eventDeleted   = messages.ShipmentDeleted
	eventConverted = messages.ShipmentConverted
	eventGrouped   = messages.ShipmentGrouped
)

// afterWrite drops the cached group IDs and publishes a change event. Both are best effort.
func (s *Service) afterWrite(ctx context.Context, event string, sh *models.Shipment) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, groupIDsKey); err != nil {
			slog.Warn("group ids cache invalidate failed", "err", err, "shipment_id", sh.ShipmentID)
		}
	}

	if s.events == nil || s.opts.EventsTopic == "" {
		return
	}
	msg := messages.ShipmentChanged{
		Event:      event,
		ShipmentID: sh.ShipmentID,
		GroupID:    sh.GroupID,
		OccurredAt: s.now().UTC(),
		Shipment:   sh,
	}
	if err := s.events.PublishJSON(ctx, s.opts.EventsTopic, sh.ShipmentID, msg); err != nil {
		metrics.EventPublishFailures.Inc()
		slog.Warn("publish shipment event failed", "err", err, "event", event, "shipment_id", sh.ShipmentID)
	}
}
