package models

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	ShipmentTypeSingle = "Single"
	ShipmentTypeMulti  = "Multi"
)

type Shipment struct {
	ShipmentID    string    `json:"shipmentID"`
	TenantID      string    `json:"tenantID"`
	Source        string    `json:"source"`
	Destination   string    `json:"destination"`
	TransporterID string    `json:"transporterID"`
	VehicleTypeID string    `json:"vehicleTypeID"`
	Material      string    `json:"material"`
	TotalWeight   float64   `json:"totalWeight"`
	Volume        float64   `json:"volume"`
	Quantity      int64     `json:"quantity"`
	Type          string    `json:"type"`
	GroupID       string    `json:"groupID,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsGroupMember reports whether the record belongs to a Multi group.
func (s *Shipment) IsGroupMember() bool {
	return s.Type == ShipmentTypeMulti && s.GroupID != ""
}

// GroupInvariantHolds checks that type=Multi exactly when groupID is set.
func GroupInvariantHolds(typ, groupID string) bool {
	return (typ == ShipmentTypeMulti) == (groupID != "")
}

type ShipmentCreateInput struct {
	TenantID      string  `json:"tenantID" validate:"omitempty,max=64"`
	Source        string  `json:"source" validate:"required,min=2,max=100"`
	Destination   string  `json:"destination" validate:"required,min=2,max=100"`
	TransporterID string  `json:"transporterID" validate:"required"`
	VehicleTypeID string  `json:"vehicleTypeID" validate:"required"`
	Material      string  `json:"material" validate:"required"`
	TotalWeight   float64 `json:"totalWeight" validate:"gt=0"`
	Volume        float64 `json:"volume" validate:"gt=0"`
	Quantity      int64   `json:"quantity" validate:"gt=0"`
	Type          string  `json:"type" validate:"required,oneof=Single Multi"`
	GroupID       string  `json:"groupID" validate:"required_if=Type Multi,excluded_if=Type Single"`
}

// Normalize trims every string field; inputs are validated after trimming.
func (in ShipmentCreateInput) Normalize() ShipmentCreateInput {
	in.TenantID = strings.TrimSpace(in.TenantID)
	in.Source = strings.TrimSpace(in.Source)
	in.Destination = strings.TrimSpace(in.Destination)
	in.TransporterID = strings.TrimSpace(in.TransporterID)
	in.VehicleTypeID = strings.TrimSpace(in.VehicleTypeID)
	in.Material = strings.TrimSpace(in.Material)
	in.Type = strings.TrimSpace(in.Type)
	in.GroupID = strings.TrimSpace(in.GroupID)
	return in
}

// GroupMemberInput is a shipment attached to an existing group; its type is always Multi.
type GroupMemberInput struct {
	TenantID      string  `json:"tenantID" validate:"omitempty,max=64"`
	GroupID       string  `json:"groupID" validate:"required"`
	Source        string  `json:"source" validate:"required,min=2,max=100"`
	Destination   string  `json:"destination" validate:"required,min=2,max=100"`
	TransporterID string  `json:"transporterID" validate:"required"`
	VehicleTypeID string  `json:"vehicleTypeID" validate:"required"`
	Material      string  `json:"material" validate:"required"`
	TotalWeight   float64 `json:"totalWeight" validate:"gt=0"`
	Volume        float64 `json:"volume" validate:"gt=0"`
	Quantity      int64   `json:"quantity" validate:"gt=0"`
}

func (in GroupMemberInput) Normalize() GroupMemberInput {
	in.TenantID = strings.TrimSpace(in.TenantID)
	in.GroupID = strings.TrimSpace(in.GroupID)
	in.Source = strings.TrimSpace(in.Source)
	in.Destination = strings.TrimSpace(in.Destination)
	in.TransporterID = strings.TrimSpace(in.TransporterID)
	in.VehicleTypeID = strings.TrimSpace(in.VehicleTypeID)
	in.Material = strings.TrimSpace(in.Material)
	return in
}

// AsCreateInput converts the member into a plain Multi create input.
func (in GroupMemberInput) AsCreateInput() ShipmentCreateInput {
	return ShipmentCreateInput{
		TenantID:      in.TenantID,
		Source:        in.Source,
		Destination:   in.Destination,
		TransporterID: in.TransporterID,
		VehicleTypeID: in.VehicleTypeID,
		Material:      in.Material,
		TotalWeight:   in.TotalWeight,
		Volume:        in.Volume,
		Quantity:      in.Quantity,
		Type:          ShipmentTypeMulti,
		GroupID:       in.GroupID,
	}
}

// ShipmentPatch holds a partial update; nil fields are left untouched.
type ShipmentPatch struct {
	TenantID      *string  `json:"tenantID" validate:"omitempty,max=64"`
	Source        *string  `json:"source" validate:"omitempty,min=2,max=100"`
	Destination   *string  `json:"destination" validate:"omitempty,min=2,max=100"`
	TransporterID *string  `json:"transporterID" validate:"omitempty,min=1"`
	VehicleTypeID *string  `json:"vehicleTypeID" validate:"omitempty,min=1"`
	Material      *string  `json:"material" validate:"omitempty,min=1"`
	TotalWeight   *float64 `json:"totalWeight" validate:"omitempty,gt=0"`
	Volume        *float64 `json:"volume" validate:"omitempty,gt=0"`
	Quantity      *int64   `json:"quantity" validate:"omitempty,gt=0"`
	Type          *string  `json:"type" validate:"omitempty,oneof=Single Multi"`
	GroupID       *string  `json:"groupID"`
}

// Normalize trims the supplied string fields in place of the originals.
func (p ShipmentPatch) Normalize() ShipmentPatch {
	for _, f := range []**string{
		&p.TenantID, &p.Source, &p.Destination, &p.TransporterID,
		&p.VehicleTypeID, &p.Material, &p.Type, &p.GroupID,
	} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
	return p
}

func (p ShipmentPatch) IsEmpty() bool {
	return p.TenantID == nil && p.Source == nil && p.Destination == nil &&
		p.TransporterID == nil && p.VehicleTypeID == nil && p.Material == nil &&
		p.TotalWeight == nil && p.Volume == nil && p.Quantity == nil &&
		p.Type == nil && p.GroupID == nil
}

// Apply returns a copy of s with the patch applied.
func (p ShipmentPatch) Apply(s Shipment) Shipment {
	if p.TenantID != nil {
		s.TenantID = *p.TenantID
	}
	if p.Source != nil {
		s.Source = *p.Source
	}
	if p.Destination != nil {
		s.Destination = *p.Destination
	}
	if p.TransporterID != nil {
		s.TransporterID = *p.TransporterID
	}
	if p.VehicleTypeID != nil {
		s.VehicleTypeID = *p.VehicleTypeID
	}
	if p.Material != nil {
		s.Material = *p.Material
	}
	if p.TotalWeight != nil {
		s.TotalWeight = *p.TotalWeight
	}
	if p.Volume != nil {
		s.Volume = *p.Volume
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.GroupID != nil {
		s.GroupID = *p.GroupID
	}
	return s
}

// ShipmentSelection is the reduced projection used by pickers.
type ShipmentSelection struct {
	ShipmentID  string  `json:"shipmentID"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Material    string  `json:"material"`
	Type        string  `json:"type"`
	GroupID     string  `json:"groupID,omitempty"`
	TotalWeight float64 `json:"totalWeight"`
	Volume      float64 `json:"volume"`
	Quantity    int64   `json:"quantity"`
}

// ShipmentFilter narrows a store query; empty fields are ignored.
type ShipmentFilter struct {
	TransporterID string
	VehicleTypeID string
	GroupID       string
	Type          string
	Source        string
	Destination   string
}

// GroupSummary is a transient roll-up of every shipment sharing a groupID.
type GroupSummary struct {
	GroupID       string      `json:"groupID"`
	Type          string      `json:"type"`
	Source        string      `json:"source"`
	Destination   string      `json:"destination"`
	TransporterID string      `json:"transporterID"`
	VehicleTypeID string      `json:"vehicleTypeID"`
	Material      string      `json:"material"`
	TotalWeight   float64     `json:"totalWeight"`
	Volume        float64     `json:"volume"`
	Quantity      int64       `json:"quantity"`
	ItemCount     int         `json:"itemCount"`
	Items         []*Shipment `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ShipmentRow is one row of a grouped listing: exactly one of Group or Shipment is set.
type ShipmentRow struct {
	Group    *GroupSummary
	Shipment *Shipment
}

func GroupRow(g *GroupSummary) ShipmentRow { return ShipmentRow{Group: g} }

func StandaloneRow(s *Shipment) ShipmentRow { return ShipmentRow{Shipment: s} }

func (r ShipmentRow) IsGrouped() bool { return r.Group != nil }

func (r ShipmentRow) CreatedAt() time.Time {
	if r.Group != nil {
		return r.Group.CreatedAt
	}
	if r.Shipment != nil {
		return r.Shipment.CreatedAt
	}
	return time.Time{}
}

func (r ShipmentRow) MarshalJSON() ([]byte, error) {
	if r.Group != nil {
		return json.Marshal(struct {
			*GroupSummary
			IsGrouped bool `json:"isGrouped"`
		}{r.Group, true})
	}
	return json.Marshal(struct {
		*Shipment
		IsGrouped bool `json:"isGrouped"`
	}{r.Shipment, false})
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ShipmentPage struct {
	Items      []*Shipment
	Pagination Pagination
}

type RowPage struct {
	Items      []ShipmentRow
	Pagination Pagination
}

// BulkRecordResult reports the outcome of one record of a bulk create, by input position.
type BulkRecordResult struct {
	Index    int       `json:"index"`
	Success  bool      `json:"success"`
	Shipment *Shipment `json:"shipment,omitempty"`
	Message  string    `json:"message,omitempty"`
}
