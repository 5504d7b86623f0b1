package shipments

import (
	"context"

	"github.com/BearBump/ShipBox/internal/grouping"
	"github.com/BearBump/ShipBox/internal/metrics"
	"github.com/BearBump/ShipBox/internal/models"
	"github.com/BearBump/ShipBox/internal/storage/pgshipment"
	"github.com/pkg/errors"
)

// List pages over raw shipment records in the store.
func (s *Service) List(ctx context.Context, opts models.ListOptions) (*models.ShipmentPage, error) {
	opts = opts.Normalized()

	items, err := s.repo.FindShipments(ctx, models.ShipmentFilter{}, pgshipment.FindOptions{
		SortBy:    opts.SortBy,
		Ascending: opts.Ascending(),
		Limit:     opts.Limit,
		Offset:    opts.Offset(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error fetching shipments")
	}

	total, err := s.repo.CountShipments(ctx, models.ShipmentFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "error counting shipments")
	}

	return &models.ShipmentPage{
		Items: items,
		Pagination: models.Pagination{
			Total:      total,
			Page:       opts.Page,
			Limit:      opts.Limit,
			TotalPages: models.TotalPages(total, opts.Limit),
		},
	}, nil
}

// ListGrouped loads the whole sorted record set, folds group members into summaries and
// pages over the combined rows, so totals count one row per group.
func (s *Service) ListGrouped(ctx context.Context, opts models.ListOptions) (*models.RowPage, error) {
	opts = opts.Normalized()

	records, err := s.repo.FindShipments(ctx, models.ShipmentFilter{}, pgshipment.FindOptions{
		SortBy:    opts.SortBy,
		Ascending: opts.Ascending(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error fetching grouped shipments")
	}

	rows := grouping.Aggregate(records, opts.Ascending())

	groups := 0
	for _, r := range rows {
		if r.IsGrouped() {
			groups++
		}
	}
	metrics.RecordGrouping(groups, len(rows)-groups)

	items, p := grouping.Paginate(rows, opts.Page, opts.Limit)
	return &models.RowPage{Items: items, Pagination: p}, nil
}
