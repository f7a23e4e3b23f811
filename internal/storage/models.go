// Package storage provides database models and repositories for ClauseLens.
package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded legal document.
type Document struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Filename     *string   `json:"filename,omitempty" db:"filename"`
	DocumentType string    `json:"document_type" db:"document_type"`
	Language     string    `json:"language" db:"language"`
	SizeBytes    int64     `json:"size_bytes" db:"size_bytes"`
	Content      string    `json:"content" db:"content"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// AnalysisRecord represents one stored analysis run for a document.
// Result holds the full serialized analysis output; the risk columns
// are denormalized for listing without unmarshalling.
type AnalysisRecord struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	DocumentID  uuid.UUID       `json:"document_id" db:"document_id"`
	OverallRisk string          `json:"overall_risk" db:"overall_risk"`
	RiskScore   int             `json:"risk_score" db:"risk_score"`
	Result      json.RawMessage `json:"result" db:"result"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
