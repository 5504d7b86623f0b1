package messages

import "github.com/BearBump/ShipBox/internal/models"

// BulkImportRequested carries pre-shaped records produced by an upstream file parser.
type BulkImportRequested struct {
	BatchID  string                       `json:"batch_id"`
	TenantID string                       `json:"tenant_id,omitempty"`
	Records  []models.ShipmentCreateInput `json:"records"`
}

type BulkImportCompleted struct {
	BatchID   string                    `json:"batch_id"`
	TenantID  string                    `json:"tenant_id,omitempty"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
	Results   []models.BulkRecordResult `json:"results"`
}
