package store

import (
	"time"
)

// IngestionHistory represents the 'ingestion_history' table: one row per
// indexing run, whatever triggered it.
type IngestionHistory struct {
	ID             int64     `db:"id" json:"id"`
	ReferenceDate  time.Time `db:"reference_date" json:"reference_date"`
	SourceFile     string    `db:"source_file" json:"source_file"`
	TriggerType    string    `db:"trigger_type" json:"trigger_type"`
	Status         string    `db:"status" json:"status"`
	TotalDocuments int       `db:"total_documents" json:"total_documents"`
	Batches        int       `db:"batches" json:"batches"`
	ProcessedAt    time.Time `db:"processed_at" json:"processed_at"`
}
