package shipments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/BearBump/ShipBox/internal/broker/messages"
	cachemocks "github.com/BearBump/ShipBox/internal/cache/mocks"
	"github.com/BearBump/ShipBox/internal/models"
	"github.com/BearBump/ShipBox/internal/storage/pgshipment"
	"github.com/BearBump/ShipBox/internal/validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	shipmentsmocks "github.com/BearBump/ShipBox/internal/services/shipments/mocks"
)

type ServiceSuite struct {
	suite.Suite

	repo   *shipmentsmocks.MockRepository
	cache  *cachemocks.MockBytesCache
	events *shipmentsmocks.MockEventPublisher
	svc    *Service
}

func (s *ServiceSuite) SetupTest() {
	s.repo = &shipmentsmocks.MockRepository{}
	s.cache = &cachemocks.MockBytesCache{}
	s.events = &shipmentsmocks.MockEventPublisher{}
	s.svc = New(s.repo, s.cache, s.events, Options{
		TenantID:    "acme",
		EventsTopic: "shipments.events",
		GroupIDsTTL: time.Minute,
	})
	s.svc.newID = func() string { return "id-1" }
}

func (s *ServiceSuite) expectAfterWrite(event string) {
	s.cache.On("Del", mock.Anything, groupIDsKey).Return(nil).Once()
	s.events.On("PublishJSON", mock.Anything, "shipments.events", mock.Anything,
		mock.MatchedBy(func(v any) bool {
			msg, ok := v.(messages.ShipmentChanged)
			return ok && msg.Event == event
		})).
		Return(nil).
		Once()
}

func (s *ServiceSuite) TestCreate_FillsIDAndTenant() {
	s.repo.On("InsertShipment", mock.Anything, mock.MatchedBy(func(sh *models.Shipment) bool {
		return sh.ShipmentID == "id-1" && sh.TenantID == "acme" && sh.Type == models.ShipmentTypeSingle
	})).
		Return(&models.Shipment{ShipmentID: "id-1", Type: models.ShipmentTypeSingle}, nil).
		Once()
	s.expectAfterWrite(messages.ShipmentCreated)

	out, err := s.svc.Create(context.Background(), input(10))
	s.Require().NoError(err)
	s.Require().Equal("id-1", out.ShipmentID)
	s.repo.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
	s.events.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestCreate_StoreErrorWrapped() {
	s.repo.On("InsertShipment", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := s.svc.Create(context.Background(), input(10))
	s.Require().Error(err)
	s.Require().Equal("error creating shipment: db down", err.Error())
	s.cache.AssertNotCalled(s.T(), "Del", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestCreate_ValidationSkipsStore() {
	_, err := s.svc.Create(context.Background(), models.ShipmentCreateInput{})
	s.Require().True(validation.IsValidation(err))
	s.repo.AssertNotCalled(s.T(), "InsertShipment", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestEventFailureDoesNotFailWrite() {
	s.repo.On("InsertShipment", mock.Anything, mock.Anything).
		Return(&models.Shipment{ShipmentID: "id-1"}, nil).Once()
	s.cache.On("Del", mock.Anything, groupIDsKey).Return(errors.New("redis gone")).Once()
	s.events.On("PublishJSON", mock.Anything, mock.Anything, "id-1", mock.Anything).
		Return(errors.New("kafka gone")).Once()

	_, err := s.svc.Create(context.Background(), input(10))
	s.Require().NoError(err)
	s.events.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestGroupIDs_CacheHit_NoDB() {
	b, _ := json.Marshal([]string{"G1", "G2"})
	s.cache.On("Get", mock.Anything, groupIDsKey).Return(b, true, nil).Once()

	ids, err := s.svc.GroupIDs(context.Background())
	s.Require().NoError(err)
	s.Require().Equal([]string{"G1", "G2"}, ids)
	s.repo.AssertNotCalled(s.T(), "DistinctGroupIDs", mock.Anything)
}

func (s *ServiceSuite) TestGroupIDs_MissLoadsAndStores() {
	s.cache.On("Get", mock.Anything, groupIDsKey).Return(nil, false, nil).Once()
	s.repo.On("DistinctGroupIDs", mock.Anything).Return([]string{"G1"}, nil).Once()
	s.cache.On("Set", mock.Anything, groupIDsKey, []byte(`["G1"]`), time.Minute).Return(nil).Once()

	ids, err := s.svc.GroupIDs(context.Background())
	s.Require().NoError(err)
	s.Require().Equal([]string{"G1"}, ids)
	s.cache.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestGroupIDs_CacheErrorFallsBackToDB() {
	s.cache.On("Get", mock.Anything, groupIDsKey).Return(nil, false, errors.New("timeout")).Once()
	s.repo.On("DistinctGroupIDs", mock.Anything).Return([]string{}, nil).Once()
	s.cache.On("Set", mock.Anything, groupIDsKey, mock.Anything, time.Minute).Return(nil).Once()

	ids, err := s.svc.GroupIDs(context.Background())
	s.Require().NoError(err)
	s.Require().Empty(ids)
}

func (s *ServiceSuite) TestConvertToMulti_OK() {
	s.repo.On("ConvertToMulti", mock.Anything, "s1", "G2").
		Return(&models.Shipment{ShipmentID: "s1", Type: models.ShipmentTypeMulti, GroupID: "G2"}, nil).Once()
	s.expectAfterWrite(messages.ShipmentConverted)

	out, err := s.svc.ConvertToMulti(context.Background(), "s1", " G2 ")
	s.Require().NoError(err)
	s.Require().Equal("G2", out.GroupID)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestConvertToMulti_EmptyGroupID() {
	_, err := s.svc.ConvertToMulti(context.Background(), "s1", "  ")
	s.Require().True(validation.IsValidation(err))
	s.repo.AssertNotCalled(s.T(), "ConvertToMulti", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestConvertToMulti_NotFoundKeepsMessage() {
	s.repo.On("ConvertToMulti", mock.Anything, "missing-id", "G3").Return(nil, models.ErrShipmentNotFound).Once()

	_, err := s.svc.ConvertToMulti(context.Background(), "missing-id", "G3")
	s.Require().ErrorIs(err, models.ErrShipmentNotFound)
	s.Require().Equal("shipment not found", err.Error())
	s.cache.AssertNotCalled(s.T(), "Del", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestAddToGroup_ForcesMulti() {
	s.repo.On("InsertGroupMember", mock.Anything, mock.MatchedBy(func(sh *models.Shipment) bool {
		return sh.Type == models.ShipmentTypeMulti && sh.GroupID == "G1" && sh.TenantID == "acme"
	})).
		Return(&models.Shipment{ShipmentID: "id-1", Type: models.ShipmentTypeMulti, GroupID: "G1"}, nil).Once()
	s.expectAfterWrite(messages.ShipmentGrouped)

	out, err := s.svc.AddToGroup(context.Background(), member("G1"))
	s.Require().NoError(err)
	s.Require().Equal(models.ShipmentTypeMulti, out.Type)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestAddToGroup_GroupNotFound() {
	s.repo.On("InsertGroupMember", mock.Anything, mock.Anything).Return(nil, models.ErrGroupNotFound).Once()

	_, err := s.svc.AddToGroup(context.Background(), member("nope"))
	s.Require().ErrorIs(err, models.ErrGroupNotFound)
	s.Require().False(validation.IsValidation(err))
}

func (s *ServiceSuite) TestByRoute_PassesFilter() {
	s.repo.On("FindShipments", mock.Anything,
		models.ShipmentFilter{Source: "Mumbai", Destination: "Delhi"},
		pgshipment.FindOptions{SortBy: models.SortByCreatedAt}).
		Return([]*models.Shipment{{ShipmentID: "a"}}, nil).Once()

	out, err := s.svc.ByRoute(context.Background(), "Mumbai", "Delhi")
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestByGroup_RestrictsToMulti() {
	s.repo.On("FindShipments", mock.Anything,
		models.ShipmentFilter{GroupID: "G1", Type: models.ShipmentTypeMulti}, mock.Anything).
		Return([]*models.Shipment{}, nil).Once()

	out, err := s.svc.ByGroup(context.Background(), "G1")
	s.Require().NoError(err)
	s.Require().Empty(out)
}

func (s *ServiceSuite) TestForSelection_UsesLimit() {
	s.repo.On("ListForSelection", mock.Anything, 100).Return([]*models.ShipmentSelection{}, nil).Once()

	_, err := s.svc.ForSelection(context.Background())
	s.Require().NoError(err)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestListGrouped_FetchesWholeSetSorted() {
	s.repo.On("FindShipments", mock.Anything, models.ShipmentFilter{},
		pgshipment.FindOptions{SortBy: "totalWeight", Ascending: true}).
		Return([]*models.Shipment{
			{ShipmentID: "a", Type: models.ShipmentTypeSingle},
		}, nil).Once()

	page, err := s.svc.ListGrouped(context.Background(), models.ListOptions{SortBy: "totalWeight", Order: "asc"})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Require().Equal(1, page.Pagination.Total)
	s.repo.AssertNotCalled(s.T(), "CountShipments", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestCreateBulk_GroupCheckFailureAbortsBeforeWrites() {
	s.repo.On("GroupExists", mock.Anything, "G1").Return(false, errors.New("db down")).Once()

	_, err := s.svc.CreateBulk(context.Background(), []models.ShipmentCreateInput{input(1), multi(1, "G1")})
	s.Require().Error(err)
	s.Require().Contains(err.Error(), "error checking group")
	s.repo.AssertNotCalled(s.T(), "InsertShipment", mock.Anything, mock.Anything)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
