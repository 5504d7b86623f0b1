// Package grouping turns a flat, store-ordered list of shipments into listing rows:
// one summary per Multi group and one row per standalone shipment.
package grouping

import (
	"slices"

	"github.com/BearBump/ShipBox/internal/models"
)

// Aggregate partitions records into group summaries and standalone rows and
// re-sorts the combined rows by createdAt (descending unless ascending is set).
//
// Records are read in input order: the first member seen for a groupID supplies the
// descriptive fields of its summary, later members only add to the totals and widen
// the createdAt/updatedAt range. Aggregate never mutates the records it is given.
func Aggregate(records []*models.Shipment, ascending bool) []models.ShipmentRow {
	groups := make(map[string]*models.GroupSummary)
	var order []string
	var standalone []models.ShipmentRow

	for _, s := range records {
		if s == nil {
			continue
		}
		if !s.IsGroupMember() {
			standalone = append(standalone, models.StandaloneRow(s))
			continue
		}

		g, ok := groups[s.GroupID]
		if !ok {
			g = seedSummary(s)
			groups[s.GroupID] = g
			order = append(order, s.GroupID)
		}
		accumulate(g, s)
	}

	rows := make([]models.ShipmentRow, 0, len(order)+len(standalone))
	for _, id := range order {
		rows = append(rows, models.GroupRow(groups[id]))
	}
	rows = append(rows, standalone...)

	SortRows(rows, ascending)
	return rows
}

func seedSummary(s *models.Shipment) *models.GroupSummary {
	return &models.GroupSummary{
		GroupID:       s.GroupID,
		Type:          models.ShipmentTypeMulti,
		Source:        s.Source,
		Destination:   s.Destination,
		TransporterID: s.TransporterID,
		VehicleTypeID: s.VehicleTypeID,
		Material:      s.Material,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func accumulate(g *models.GroupSummary, s *models.Shipment) {
	g.TotalWeight += s.TotalWeight
	g.Volume += s.Volume
	g.Quantity += s.Quantity
	g.ItemCount++
	g.Items = append(g.Items, s)

	if s.CreatedAt.Before(g.CreatedAt) {
		g.CreatedAt = s.CreatedAt
	}
	if s.UpdatedAt.After(g.UpdatedAt) {
		g.UpdatedAt = s.UpdatedAt
	}
}

// SortRows orders rows by createdAt in place. Ties keep their current relative order.
func SortRows(rows []models.ShipmentRow, ascending bool) {
	slices.SortStableFunc(rows, func(a, b models.ShipmentRow) int {
		c := a.CreatedAt().Compare(b.CreatedAt())
		if ascending {
			return c
		}
		return -c
	})
}
