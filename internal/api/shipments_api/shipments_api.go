package shipments_api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/BearBump/ShipBox/internal/models"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	Create(ctx context.Context, in models.ShipmentCreateInput) (*models.Shipment, error)
	CreateBulk(ctx context.Context, records []models.ShipmentCreateInput) ([]models.BulkRecordResult, error)
	Get(ctx context.Context, shipmentID string) (*models.Shipment, error)
	Update(ctx context.Context, shipmentID string, p models.ShipmentPatch) (*models.Shipment, error)
	Delete(ctx context.Context, shipmentID string) (*models.Shipment, error)
	List(ctx context.Context, opts models.ListOptions) (*models.ShipmentPage, error)
	ListGrouped(ctx context.Context, opts models.ListOptions) (*models.RowPage, error)
	ByTransporter(ctx context.Context, transporterID string) ([]*models.Shipment, error)
	ByVehicleType(ctx context.Context, vehicleTypeID string) ([]*models.Shipment, error)
	ByGroup(ctx context.Context, groupID string) ([]*models.Shipment, error)
	ByRoute(ctx context.Context, source, destination string) ([]*models.Shipment, error)
	GroupIDs(ctx context.Context) ([]string, error)
	ForSelection(ctx context.Context) ([]*models.ShipmentSelection, error)
	ConvertToMulti(ctx context.Context, shipmentID, groupID string) (*models.Shipment, error)
	AddToGroup(ctx context.Context, in models.GroupMemberInput) (*models.Shipment, error)
}

type ShipmentsAPI struct {
	svc Service
}

func New(svc Service) *ShipmentsAPI {
	return &ShipmentsAPI{svc: svc}
}

// Routes returns the /shipments sub-router.
func (a *ShipmentsAPI) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.create)
	r.Get("/", a.list)
	r.Post("/bulk", a.createBulk)
	r.Post("/add-to-group", a.addToGroup)

	r.Get("/group-ids/all", a.groupIDs)
	r.Get("/selection/all", a.selection)
	r.Get("/transporter/{id}", a.byTransporter)
	r.Get("/vehicle-type/{id}", a.byVehicleType)
	r.Get("/group/{id}", a.byGroup)
	r.Get("/route", a.byRoute)

	r.Get("/{id}", a.get)
	r.Put("/{id}", a.update)
	r.Delete("/{id}", a.delete)
	r.Patch("/{id}/convert-to-multi", a.convertToMulti)

	return r
}

func (a *ShipmentsAPI) create(w http.ResponseWriter, r *http.Request) {
	var in models.ShipmentCreateInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sh, err := a.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Shipment created successfully", sh)
}

type bulkRequest struct {
	Records []models.ShipmentCreateInput `json:"records"`
}

type bulkResponse struct {
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
	Results   []models.BulkRecordResult `json:"results"`
}

func (a *ShipmentsAPI) createBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	results, err := a.svc.CreateBulk(r.Context(), req.Records)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := bulkResponse{Results: results}
	for _, res := range results {
		if res.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	writeOK(w, http.StatusOK, "Bulk create processed", out)
}

func (a *ShipmentsAPI) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := models.ListOptions{
		Page:   atoiOrZero(q.Get("page")),
		Limit:  atoiOrZero(q.Get("limit")),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}

	if q.Get("grouped") == "true" {
		page, err := a.svc.ListGrouped(r.Context(), opts)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePage(w, page.Items, page.Pagination)
		return
	}

	page, err := a.svc.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, page.Items, page.Pagination)
}

func (a *ShipmentsAPI) get(w http.ResponseWriter, r *http.Request) {
	sh, err := a.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", sh)
}

func (a *ShipmentsAPI) update(w http.ResponseWriter, r *http.Request) {
	var p models.ShipmentPatch
	if err := decodeBody(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	sh, err := a.svc.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Shipment updated successfully", sh)
}

func (a *ShipmentsAPI) delete(w http.ResponseWriter, r *http.Request) {
	sh, err := a.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Shipment deleted successfully", sh)
}

func (a *ShipmentsAPI) groupIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := a.svc.GroupIDs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeOK(w, http.StatusOK, "", ids)
}

func (a *ShipmentsAPI) selection(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.ForSelection(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", out)
}

func (a *ShipmentsAPI) byTransporter(w http.ResponseWriter, r *http.Request) {
	a.writeList(w, r)(a.svc.ByTransporter(r.Context(), chi.URLParam(r, "id")))
}

func (a *ShipmentsAPI) byVehicleType(w http.ResponseWriter, r *http.Request) {
	a.writeList(w, r)(a.svc.ByVehicleType(r.Context(), chi.URLParam(r, "id")))
}

func (a *ShipmentsAPI) byGroup(w http.ResponseWriter, r *http.Request) {
	a.writeList(w, r)(a.svc.ByGroup(r.Context(), chi.URLParam(r, "id")))
}

func (a *ShipmentsAPI) byRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.writeList(w, r)(a.svc.ByRoute(r.Context(), q.Get("source"), q.Get("destination")))
}

type convertRequest struct {
	GroupID string `json:"groupID"`
}

func (a *ShipmentsAPI) convertToMulti(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sh, err := a.svc.ConvertToMulti(r.Context(), chi.URLParam(r, "id"), req.GroupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Shipment converted to multi successfully", sh)
}

func (a *ShipmentsAPI) addToGroup(w http.ResponseWriter, r *http.Request) {
	var in models.GroupMemberInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sh, err := a.svc.AddToGroup(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Shipment added to group successfully", sh)
}

func (a *ShipmentsAPI) writeList(w http.ResponseWriter, r *http.Request) func([]*models.Shipment, error) {
	return func(items []*models.Shipment, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeOK(w, http.StatusOK, "", items)
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
