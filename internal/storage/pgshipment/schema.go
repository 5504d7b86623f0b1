package pgshipment

import (
	"context"

	"github.com/pkg/errors"
)

const groupInvariantConstraint = "shipments_group_invariant"

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS shipments (
  shipment_id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  source TEXT NOT NULL,
  destination TEXT NOT NULL,
  transporter_id TEXT NOT NULL,
  vehicle_type_id TEXT NOT NULL,
  material TEXT NOT NULL,
  total_weight DOUBLE PRECISION NOT NULL,
  volume DOUBLE PRECISION NOT NULL,
  quantity BIGINT NOT NULL,
  type TEXT NOT NULL DEFAULT 'Single',
  group_id TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  CONSTRAINT shipments_type_check CHECK (type IN ('Single', 'Multi')),
  CONSTRAINT ` + groupInvariantConstraint + ` CHECK ((type = 'Multi') = (group_id <> ''))
)`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_created_at ON shipments(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_transporter_id ON shipments(transporter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_vehicle_type_id ON shipments(vehicle_type_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_route ON shipments(source, destination)`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_group ON shipments(group_id, type) WHERE group_id <> ''`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
