package messages

import (
	"time"

	"github.com/BearBump/ShipBox/internal/models"
)

const (
	ShipmentCreated   = "created"
	ShipmentUpdated   = "updated"
	ShipmentDeleted   = "deleted"
	ShipmentConverted = "converted"
	ShipmentGrouped   = "grouped"
)

// ShipmentChanged is published after every successful shipment write, keyed by shipment_id.
type ShipmentChanged struct {
	Event      string           `json:"event"`
	ShipmentID string           `json:"shipment_id"`
	GroupID    string           `json:"group_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
	Shipment   *models.Shipment `json:"shipment,omitempty"`
}
