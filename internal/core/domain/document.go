package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusProcessed  DocumentStatus = "processed"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	StoragePath string         `json:"storage_path"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ExtractedField is one labeled value pulled out of a stored document.
type ExtractedField struct {
	DocumentID string `json:"document_id"`
	FieldName  string `json:"field_name"`
	FieldValue string `json:"field_value"`
}

// BatchDocument references one uploaded document inside a queue message.
type BatchDocument struct {
	DocumentID string `json:"document_id"`
	Locator    string `json:"locator"`
}

// DocumentBatch is the queue message shape. Delivery is at-least-once, so
// consumers must tolerate duplicates.
type DocumentBatch struct {
	Documents   []BatchDocument `json:"documents"`
	DatasetFile string          `json:"dataset_file"`
}
