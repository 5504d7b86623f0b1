package pgshipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BearBump/ShipBox/internal/models"
	"github.com/BearBump/ShipBox/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const shipmentColumns = `shipment_id, tenant_id, source, destination, transporter_id, vehicle_type_id,
  material, total_weight, volume, quantity, type, group_id, created_at, updated_at`

const checkViolation = "23514"

// FindOptions controls ordering and windowing of FindShipments. Limit 0 means no limit.
type FindOptions struct {
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}

var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"totalWeight": "total_weight",
	"volume":      "volume",
	"quantity":    "quantity",
	"source":      "source",
	"destination": "destination",
}

func (s *Storage) InsertShipment(ctx context.Context, sh *models.Shipment) (*models.Shipment, error) {
	now := time.Now().UTC()

	row := s.db.QueryRow(ctx, `
INSERT INTO shipments (
  shipment_id, tenant_id, source, destination, transporter_id, vehicle_type_id,
  material, total_weight, volume, quantity, type, group_id, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
RETURNING `+shipmentColumns,
		sh.ShipmentID, sh.TenantID, sh.Source, sh.Destination, sh.TransporterID, sh.VehicleTypeID,
		sh.Material, sh.TotalWeight, sh.Volume, sh.Quantity, sh.Type, sh.GroupID, now)

	out, err := scanShipment(row)
	if err != nil {
		return nil, mapWriteErr(err, "insert shipment")
	}
	return out, nil
}

// InsertGroupMember inserts sh as a Multi record only if its group already has a Multi member.
// The existence check and the insert run as one statement.
func (s *Storage) InsertGroupMember(ctx context.Context, sh *models.Shipment) (*models.Shipment, error) {
	now := time.Now().UTC()

	row := s.db.QueryRow(ctx, `
INSERT INTO shipments (
  shipment_id, tenant_id, source, destination, transporter_id, vehicle_type_id,
  material, total_weight, volume, quantity, type, group_id, created_at, updated_at
)
SELECT
  $1::text, $2::text, $3::text, $4::text, $5::text, $6::text,
  $7::text, $8::double precision, $9::double precision, $10::bigint,
  'Multi', $11::text, $12::timestamptz, $12::timestamptz
WHERE EXISTS (
  SELECT 1 FROM shipments WHERE group_id = $11::text AND type = 'Multi'
)
RETURNING `+shipmentColumns,
		sh.ShipmentID, sh.TenantID, sh.Source, sh.Destination, sh.TransporterID, sh.VehicleTypeID,
		sh.Material, sh.TotalWeight, sh.Volume, sh.Quantity, sh.GroupID, now)

	out, err := scanShipment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, mapWriteErr(err, "insert group member")
	}
	return out, nil
}

func (s *Storage) GetShipment(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	row := s.db.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE shipment_id = $1`, shipmentID)

	out, err := scanShipment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrShipmentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select shipment")
	}
	return out, nil
}

func (s *Storage) FindShipments(ctx context.Context, f models.ShipmentFilter, opts FindOptions) ([]*models.Shipment, error) {
	where, args := whereClause(f)

	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if opts.Ascending {
		dir = "ASC"
	}

	q := `SELECT ` + shipmentColumns + ` FROM shipments` + where +
		fmt.Sprintf(" ORDER BY %s %s, shipment_id %s", col, dir, dir)
	if opts.Limit > 0 {
		args = append(args, opts.Limit, opts.Offset)
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select shipments")
	}
	defer rows.Close()

	out := make([]*models.Shipment, 0)
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan shipment")
		}
		out = append(out, sh)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) CountShipments(ctx context.Context, f models.ShipmentFilter) (int, error) {
	where, args := whereClause(f)

	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM shipments`+where, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count shipments")
	}
	return int(n), nil
}

// UpdateShipment applies the non-nil fields of p and bumps updated_at.
func (s *Storage) UpdateShipment(ctx context.Context, shipmentID string, p models.ShipmentPatch) (*models.Shipment, error) {
	row := s.db.QueryRow(ctx, `
UPDATE shipments
SET
  tenant_id = COALESCE($2, tenant_id),
  source = COALESCE($3, source),
  destination = COALESCE($4, destination),
  transporter_id = COALESCE($5, transporter_id),
  vehicle_type_id = COALESCE($6, vehicle_type_id),
  material = COALESCE($7, material),
  total_weight = COALESCE($8, total_weight),
  volume = COALESCE($9, volume),
  quantity = COALESCE($10, quantity),
  type = COALESCE($11, type),
  group_id = COALESCE($12, group_id),
  updated_at = $13
WHERE shipment_id = $1
RETURNING `+shipmentColumns,
		shipmentID, p.TenantID, p.Source, p.Destination, p.TransporterID, p.VehicleTypeID,
		p.Material, p.TotalWeight, p.Volume, p.Quantity, p.Type, p.GroupID, time.Now().UTC())

	out, err := scanShipment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrShipmentNotFound
	}
	if err != nil {
		return nil, mapWriteErr(err, "update shipment")
	}
	return out, nil
}

// DeleteShipment removes the record and returns what was deleted.
func (s *Storage) DeleteShipment(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	row := s.db.QueryRow(ctx, `DELETE FROM shipments WHERE shipment_id = $1 RETURNING `+shipmentColumns, shipmentID)

	out, err := scanShipment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrShipmentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "delete shipment")
	}
	return out, nil
}

// ConvertToMulti relabels a record as a Multi member of groupID in one statement.
func (s *Storage) ConvertToMulti(ctx context.Context, shipmentID, groupID string) (*models.Shipment, error) {
	row := s.db.QueryRow(ctx, `
UPDATE shipments
SET type = 'Multi', group_id = $2, updated_at = $3
WHERE shipment_id = $1
RETURNING `+shipmentColumns, shipmentID, groupID, time.Now().UTC())

	out, err := scanShipment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrShipmentNotFound
	}
	if err != nil {
		return nil, mapWriteErr(err, "convert shipment")
	}
	return out, nil
}

func (s *Storage) GroupExists(ctx context.Context, groupID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM shipments WHERE group_id = $1 AND type = 'Multi')
`, groupID).Scan(&ok)
	if err != nil {
		return false, errors.Wrap(err, "group exists")
	}
	return ok, nil
}

// DistinctGroupIDs returns every live group ID in ascending order.
func (s *Storage) DistinctGroupIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `
SELECT DISTINCT group_id
FROM shipments
WHERE type = 'Multi' AND group_id <> ''
ORDER BY group_id
`)
	if err != nil {
		return nil, errors.Wrap(err, "select group ids")
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan group id")
		}
		out = append(out, id)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) ListForSelection(ctx context.Context, limit int) ([]*models.ShipmentSelection, error) {
	rows, err := s.db.Query(ctx, `
SELECT shipment_id, source, destination, material, type, group_id, total_weight, volume, quantity
FROM shipments
ORDER BY created_at DESC, shipment_id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select for selection")
	}
	defer rows.Close()

	out := make([]*models.ShipmentSelection, 0, limit)
	for rows.Next() {
		var sel models.ShipmentSelection
		if err := rows.Scan(
			&sel.ShipmentID, &sel.Source, &sel.Destination, &sel.Material, &sel.Type,
			&sel.GroupID, &sel.TotalWeight, &sel.Volume, &sel.Quantity,
		); err != nil {
			return nil, errors.Wrap(err, "scan selection")
		}
		out = append(out, &sel)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func scanShipment(r pgx.Row) (*models.Shipment, error) {
	var sh models.Shipment
	if err := r.Scan(
		&sh.ShipmentID, &sh.TenantID, &sh.Source, &sh.Destination, &sh.TransporterID, &sh.VehicleTypeID,
		&sh.Material, &sh.TotalWeight, &sh.Volume, &sh.Quantity, &sh.Type, &sh.GroupID,
		&sh.CreatedAt, &sh.UpdatedAt,
	); err != nil {
		return nil, err
	}
	sh.CreatedAt = sh.CreatedAt.UTC()
	sh.UpdatedAt = sh.UpdatedAt.UTC()
	return &sh, nil
}

func whereClause(f models.ShipmentFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(col, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	add("transporter_id", f.TransporterID)
	add("vehicle_type_id", f.VehicleTypeID)
	add("group_id", f.GroupID)
	add("type", f.Type)
	add("source", f.Source)
	add("destination", f.Destination)

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// mapWriteErr turns check-constraint violations into validation errors.
func mapWriteErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
		if pgErr.ConstraintName == groupInvariantConstraint {
			return validation.Field("groupID", "groupID must be set exactly when type is Multi")
		}
		return validation.Field("type", "type must be one of [Single, Multi]")
	}
	return errors.Wrap(err, op)
}
