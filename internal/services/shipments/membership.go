package shipments

import (
	"context"
	"strings"

	"github.com/BearBump/ShipBox/internal/metrics"
	"github.com/BearBump/ShipBox/internal/models"
	"github.com/BearBump/ShipBox/internal/validation"
	"github.com/pkg/errors"
)

const (
	opConvert    = "convert_to_multi"
	opAddToGroup = "add_to_group"
)

// ConvertToMulti moves an existing shipment into group groupID in one conditional write.
// groupID is not checked for prior use; callers pick collision-free IDs.
func (s *Service) ConvertToMulti(ctx context.Context, shipmentID, groupID string) (*models.Shipment, error) {
	groupID = strings.TrimSpace(groupID)

	if err := requireID("shipmentID", shipmentID); err != nil {
		metrics.RecordMembership(opConvert, metrics.ResultInvalid)
		return nil, err
	}
	if groupID == "" {
		metrics.RecordMembership(opConvert, metrics.ResultInvalid)
		return nil, validation.Field("groupID", "groupID is required")
	}

	sh, err := s.repo.ConvertToMulti(ctx, shipmentID, groupID)
	if err != nil {
		metrics.RecordMembership(opConvert, resultOf(err))
		return nil, wrapStoreErr(err, "error converting shipment to multi")
	}

	metrics.RecordMembership(opConvert, metrics.ResultOK)
	s.afterWrite(ctx, eventConverted, sh)
	return sh, nil
}

// AddToGroup creates a new Multi shipment inside an existing group. The group must already
// hold at least one Multi record; the check and the insert are a single statement.
func (s *Service) AddToGroup(ctx context.Context, in models.GroupMemberInput) (*models.Shipment, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		metrics.RecordMembership(opAddToGroup, metrics.ResultInvalid)
		return nil, err
	}

	sh, err := s.repo.InsertGroupMember(ctx, s.newShipment(in.AsCreateInput()))
	if err != nil {
		metrics.RecordMembership(opAddToGroup, resultOf(err))
		return nil, wrapStoreErr(err, "error adding shipment to group")
	}

	metrics.RecordMembership(opAddToGroup, metrics.ResultOK)
	s.afterWrite(ctx, eventGrouped, sh)
	return sh, nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return metrics.ResultNotFound
	case validation.IsValidation(err):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
