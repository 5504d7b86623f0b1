package grouping

import (
	"testing"
	"time"

	"github.com/BearBump/ShipBox/internal/models"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

func single(id string, weight float64, created int) *models.Shipment {
	return &models.Shipment{
		ShipmentID: id, Type: models.ShipmentTypeSingle,
		Source: "Mumbai", Destination: "Delhi", Material: "Steel",
		TotalWeight: weight, Volume: 1, Quantity: 1,
		CreatedAt: at(created), UpdatedAt: at(created),
	}
}

func member(id, group string, weight, volume float64, qty int64, created, updated int) *models.Shipment {
	return &models.Shipment{
		ShipmentID: id, Type: models.ShipmentTypeMulti, GroupID: group,
		Source: "src-" + id, Destination: "dst-" + id, Material: "mat-" + id,
		TransporterID: "tr-" + id, VehicleTypeID: "vt-" + id,
		TotalWeight: weight, Volume: volume, Quantity: qty,
		CreatedAt: at(created), UpdatedAt: at(updated),
	}
}

func TestAggregate_Empty(t *testing.T) {
	require.Empty(t, Aggregate(nil, false))
	require.Empty(t, Aggregate([]*models.Shipment{}, true))
}

func TestAggregate_OnlyStandalone(t *testing.T) {
	rows := Aggregate([]*models.Shipment{
		single("a", 10, 3),
		single("b", 20, 2),
		single("c", 30, 1),
	}, false)

	require.Len(t, rows, 3)
	for _, r := range rows {
		require.False(t, r.IsGrouped())
		require.NotNil(t, r.Shipment)
	}
	require.Equal(t, "a", rows[0].Shipment.ShipmentID)
	require.Equal(t, "c", rows[2].Shipment.ShipmentID)
}

func TestAggregate_OneGroupSumsMembers(t *testing.T) {
	rows := Aggregate([]*models.Shipment{
		member("x", "G1", 10, 1.5, 2, 5, 5),
		member("y", "G1", 20, 2.5, 3, 4, 4),
	}, false)

	require.Len(t, rows, 1)
	g := rows[0].Group
	require.NotNil(t, g)
	require.True(t, rows[0].IsGrouped())
	require.Equal(t, "G1", g.GroupID)
	require.Equal(t, models.ShipmentTypeMulti, g.Type)
	require.Equal(t, 30.0, g.TotalWeight)
	require.Equal(t, 4.0, g.Volume)
	require.Equal(t, int64(5), g.Quantity)
	require.Equal(t, 2, g.ItemCount)
	require.Len(t, g.Items, 2)
}

func TestAggregate_FirstSeenMemberWinsDescriptiveFields(t *testing.T) {
	rows := Aggregate([]*models.Shipment{
		member("late", "G1", 1, 1, 1, 10, 10),
		member("early", "G1", 1, 1, 1, 1, 20),
	}, false)

	g := rows[0].Group
	require.Equal(t, "src-late", g.Source)
	require.Equal(t, "dst-late", g.Destination)
	require.Equal(t, "tr-late", g.TransporterID)
	require.Equal(t, "vt-late", g.VehicleTypeID)
	require.Equal(t, "mat-late", g.Material)
	require.Equal(t, "late", g.Items[0].ShipmentID)
	require.Equal(t, "early", g.Items[1].ShipmentID)
}

func TestAggregate_TimestampExtremes(t *testing.T) {
	rows := Aggregate([]*models.Shipment{
		member("a", "G1", 1, 1, 1, 10, 11),
		member("b", "G1", 1, 1, 1, 2, 30),
		member("c", "G1", 1, 1, 1, 7, 8),
	}, true)

	g := rows[0].Group
	require.Equal(t, at(2), g.CreatedAt)
	require.Equal(t, at(30), g.UpdatedAt)
}

func TestAggregate_SingleMemberGroupStaysGrouped(t *testing.T) {
	rows := Aggregate([]*models.Shipment{member("a", "G9", 7, 1, 1, 0, 0)}, false)
	require.Len(t, rows, 1)
	require.True(t, rows[0].IsGrouped())
	require.Equal(t, 1, rows[0].Group.ItemCount)
}

func TestAggregate_MultiWithoutGroupIDIsStandalone(t *testing.T) {
	orphan := &models.Shipment{ShipmentID: "o", Type: models.ShipmentTypeMulti, CreatedAt: at(0)}
	rows := Aggregate([]*models.Shipment{orphan}, false)
	require.Len(t, rows, 1)
	require.False(t, rows[0].IsGrouped())
}

func TestAggregate_MixedSortedByCreatedAt(t *testing.T) {
	in := []*models.Shipment{
		single("s1", 1, 50),
		member("g1a", "G1", 1, 1, 1, 40, 40),
		single("s2", 1, 30),
		member("g2a", "G2", 1, 1, 1, 20, 20),
		member("g1b", "G1", 1, 1, 1, 10, 10),
	}

	desc := Aggregate(in, false)
	require.Len(t, desc, 4)
	require.Equal(t, "s1", desc[0].Shipment.ShipmentID)
	require.Equal(t, "s2", desc[1].Shipment.ShipmentID)
	require.Equal(t, "G2", desc[2].Group.GroupID)
	require.Equal(t, "G1", desc[3].Group.GroupID) // createdAt = min(40, 10)

	asc := Aggregate(in, true)
	require.Equal(t, "G1", asc[0].Group.GroupID)
	require.Equal(t, "G2", asc[1].Group.GroupID)
	require.Equal(t, "s2", asc[2].Shipment.ShipmentID)
	require.Equal(t, "s1", asc[3].Shipment.ShipmentID)

	for i := 1; i < len(desc); i++ {
		require.False(t, desc[i].CreatedAt().After(desc[i-1].CreatedAt()))
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	a := member("a", "G1", 5, 1, 1, 3, 3)
	b := member("b", "G1", 6, 1, 1, 1, 9)
	snapshot := *a

	Aggregate([]*models.Shipment{a, b}, false)
	require.Equal(t, snapshot, *a)
}

func TestAggregate_Deterministic(t *testing.T) {
	in := []*models.Shipment{
		member("a", "G1", 5, 1, 1, 3, 3),
		single("s", 1, 3),
		member("b", "G2", 6, 1, 1, 3, 9),
	}
	first := Aggregate(in, false)
	second := Aggregate(in, false)
	require.Equal(t, first, second)
}

func TestAggregate_CountMatchesDistinctGroupsPlusStandalone(t *testing.T) {
	in := []*models.Shipment{
		member("a", "G1", 1, 1, 1, 1, 1),
		member("b", "G1", 1, 1, 1, 2, 2),
		member("c", "G2", 1, 1, 1, 3, 3),
		single("d", 1, 4),
		single("e", 1, 5),
	}
	rows := Aggregate(in, false)
	require.Len(t, rows, 2+2)

	_, p := Paginate(rows, 1, 3)
	require.Equal(t, 4, p.Total)
	require.Equal(t, 2, p.TotalPages)
}
