package shipments

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/BearBump/ShipBox/internal/cache"
	"github.com/BearBump/ShipBox/internal/models"
	"github.com/BearBump/ShipBox/internal/storage/pgshipment"
	"github.com/BearBump/ShipBox/internal/validation"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	groupIDsKey       = "shipments:group_ids"
	selectionLimit    = 100
	defaultTenantID   = "default"
	defaultBulkLimit  = 1000
	defaultConcurrent = 8
)

type Repository interface {
	InsertShipment(ctx context.Context, sh *models.Shipment) (*models.Shipment, error)
	InsertGroupMember(ctx context.Context, sh *models.Shipment) (*models.Shipment, error)
	GetShipment(ctx context.Context, shipmentID string) (*models.Shipment, error)
	FindShipments(ctx context.Context, f models.ShipmentFilter, opts pgshipment.FindOptions) ([]*models.Shipment, error)
	CountShipments(ctx context.Context, f models.ShipmentFilter) (int, error)
	UpdateShipment(ctx context.Context, shipmentID string, p models.ShipmentPatch) (*models.Shipment, error)
	DeleteShipment(ctx context.Context, shipmentID string) (*models.Shipment, error)
	ConvertToMulti(ctx context.Context, shipmentID, groupID string) (*models.Shipment, error)
	GroupExists(ctx context.Context, groupID string) (bool, error)
	DistinctGroupIDs(ctx context.Context) ([]string, error)
	ListForSelection(ctx context.Context, limit int) ([]*models.ShipmentSelection, error)
}

// EventPublisher delivers shipment change events; failures never fail the write.
type EventPublisher interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}

type Options struct {
	TenantID        string
	EventsTopic     string
	GroupIDsTTL     time.Duration
	BulkConcurrency int
	BulkMaxRecords  int
}

type Service struct {
	repo     Repository
	cache    cache.BytesCache
	events   EventPublisher
	validate *validation.Validator
	opts     Options

	newID func() string
	now   func() time.Time
}

func New(repo Repository, c cache.BytesCache, events EventPublisher, opts Options) *Service {
	if opts.TenantID == "" {
		opts.TenantID = defaultTenantID
	}
	if opts.BulkConcurrency <= 0 {
		opts.BulkConcurrency = defaultConcurrent
	}
	if opts.BulkMaxRecords <= 0 {
		opts.BulkMaxRecords = defaultBulkLimit
	}
	return &Service{
		repo:     repo,
		cache:    c,
		events:   events,
		validate: validation.New(),
		opts:     opts,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, in models.ShipmentCreateInput) (*models.Shipment, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	sh, err := s.repo.InsertShipment(ctx, s.newShipment(in))
	if err != nil {
		return nil, wrapStoreErr(err, "error creating shipment")
	}

	s.afterWrite(ctx, eventCreated, sh)
	return sh, nil
}

func (s *Service) Get(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	if err := requireID("shipmentID", shipmentID); err != nil {
		return nil, err
	}
	sh, err := s.repo.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, wrapStoreErr(err, "error fetching shipment")
	}
	return sh, nil
}

// Update applies a partial change. The type cannot be changed here: promotion goes through
// ConvertToMulti and demotion is not supported.
func (s *Service) Update(ctx context.Context, shipmentID string, p models.ShipmentPatch) (*models.Shipment, error) {
	if err := requireID("shipmentID", shipmentID); err != nil {
		return nil, err
	}
	p = p.Normalize()
	if p.IsEmpty() {
		return nil, validation.Field("body", "at least one field must be provided for update")
	}
	if err := s.validate.Struct(p); err != nil {
		return nil, err
	}

	cur, err := s.repo.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, wrapStoreErr(err, "error updating shipment")
	}
	if p.Type != nil && *p.Type != cur.Type {
		return nil, validation.Field("type", "type cannot be changed by update, use convert-to-multi")
	}
	next := p.Apply(*cur)
	if !models.GroupInvariantHolds(next.Type, next.GroupID) {
		return nil, validation.Field("groupID", "groupID must be set exactly when type is Multi")
	}

	sh, err := s.repo.UpdateShipment(ctx, shipmentID, p)
	if err != nil {
		return nil, wrapStoreErr(err, "error updating shipment")
	}

	s.afterWrite(ctx, eventUpdated, sh)
	return sh, nil
}

// Delete removes a shipment and returns the deleted record.
func (s *Service) Delete(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	if err := requireID("shipmentID", shipmentID); err != nil {
		return nil, err
	}
	sh, err := s.repo.DeleteShipment(ctx, shipmentID)
	if err != nil {
		return nil, wrapStoreErr(err, "error deleting shipment")
	}

	s.afterWrite(ctx, eventDeleted, sh)
	return sh, nil
}

func (s *Service) ByTransporter(ctx context.Context, transporterID string) ([]*models.Shipment, error) {
	if err := requireID("transporterID", transporterID); err != nil {
		return nil, err
	}
	return s.findNewest(ctx, models.ShipmentFilter{TransporterID: transporterID})
}

func (s *Service) ByVehicleType(ctx context.Context, vehicleTypeID string) ([]*models.Shipment, error) {
	if err := requireID("vehicleTypeID", vehicleTypeID); err != nil {
		return nil, err
	}
	return s.findNewest(ctx, models.ShipmentFilter{VehicleTypeID: vehicleTypeID})
}

// ByGroup lists the members of a group; an unknown group yields an empty list.
func (s *Service) ByGroup(ctx context.Context, groupID string) ([]*models.Shipment, error) {
	if err := requireID("groupID", groupID); err != nil {
		return nil, err
	}
	return s.findNewest(ctx, models.ShipmentFilter{GroupID: groupID, Type: models.ShipmentTypeMulti})
}

// ByRoute filters on whichever of source and destination are given.
func (s *Service) ByRoute(ctx context.Context, source, destination string) ([]*models.Shipment, error) {
	return s.findNewest(ctx, models.ShipmentFilter{Source: source, Destination: destination})
}

// GroupIDs returns the distinct live group IDs, served from cache when possible.
func (s *Service) GroupIDs(ctx context.Context) ([]string, error) {
	if s.cacheEnabled() {
		b, ok, err := s.cache.Get(ctx, groupIDsKey)
		if err != nil {
			slog.Warn("group ids cache get failed", "err", err)
		}
		if ok {
			var ids []string
			if json.Unmarshal(b, &ids) == nil {
				return ids, nil
			}
		}
	}

	ids, err := s.repo.DistinctGroupIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching group IDs")
	}

	if s.cacheEnabled() {
		b, _ := json.Marshal(ids)
		if err := s.cache.Set(ctx, groupIDsKey, b, s.opts.GroupIDsTTL); err != nil {
			slog.Warn("group ids cache set failed", "err", err)
		}
	}
	return ids, nil
}

func (s *Service) ForSelection(ctx context.Context) ([]*models.ShipmentSelection, error) {
	out, err := s.repo.ListForSelection(ctx, selectionLimit)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching shipments for selection")
	}
	return out, nil
}

func (s *Service) findNewest(ctx context.Context, f models.ShipmentFilter) ([]*models.Shipment, error) {
	out, err := s.repo.FindShipments(ctx, f, pgshipment.FindOptions{SortBy: models.SortByCreatedAt})
	if err != nil {
		return nil, errors.Wrap(err, "error fetching shipments")
	}
	return out, nil
}

func (s *Service) newShipment(in models.ShipmentCreateInput) *models.Shipment {
	tenant := in.TenantID
	if tenant == "" {
		tenant = s.opts.TenantID
	}
	return &models.Shipment{
		ShipmentID:    s.newID(),
		TenantID:      tenant,
		Source:        in.Source,
		Destination:   in.Destination,
		TransporterID: in.TransporterID,
		VehicleTypeID: in.VehicleTypeID,
		Material:      in.Material,
		TotalWeight:   in.TotalWeight,
		Volume:        in.Volume,
		Quantity:      in.Quantity,
		Type:          in.Type,
		GroupID:       in.GroupID,
	}
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.opts.GroupIDsTTL > 0
}

func requireID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return validation.Field(field, field+" is required")
	}
	return nil
}

// wrapStoreErr adds operation context to store failures; domain errors keep their message.
func wrapStoreErr(err error, msg string) error {
	if errors.Is(err, models.ErrNotFound) || validation.IsValidation(err) {
		return err
	}
	return errors.Wrap(err, msg)
}
