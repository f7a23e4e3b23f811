package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DocumentRepository handles document CRUD operations.
type DocumentRepository struct {
	db DB
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document.
func (r *DocumentRepository) Create(ctx context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.Language == "" {
		doc.Language = "en"
	}
	doc.SizeBytes = int64(len(doc.Content))
	doc.UploadedAt = time.Now()

	query := `
		INSERT INTO documents (id, title, filename, document_type, language, size_bytes, content, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Title, doc.Filename, doc.DocumentType, doc.Language,
		doc.SizeBytes, doc.Content, doc.UploadedAt,
	)
	return err
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `
		SELECT id, title, filename, document_type, language, size_bytes, content, uploaded_at
		FROM documents WHERE id = $1
	`
	doc := &Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.Title, &doc.Filename, &doc.DocumentType, &doc.Language,
		&doc.SizeBytes, &doc.Content, &doc.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// List retrieves documents ordered by upload time, newest first.
func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]*Document, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, title, filename, document_type, language, size_bytes, content, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		if err := rows.Scan(
			&doc.ID, &doc.Title, &doc.Filename, &doc.DocumentType, &doc.Language,
			&doc.SizeBytes, &doc.Content, &doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AnalysisRepository handles stored analysis operations.
type AnalysisRepository struct {
	db DB
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(db DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create creates a new analysis record.
func (r *AnalysisRepository) Create(ctx context.Context, record *AnalysisRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()

	query := `
		INSERT INTO analyses (id, document_id, overall_risk, risk_score, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.DocumentID, record.OverallRisk, record.RiskScore,
		[]byte(record.Result), record.CreatedAt,
	)
	return err
}

// GetByID retrieves an analysis record by ID.
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	query := `
		SELECT id, document_id, overall_risk, risk_score, result, created_at
		FROM analyses WHERE id = $1
	`
	record := &AnalysisRecord{}
	var result []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.DocumentID, &record.OverallRisk, &record.RiskScore,
		&result, &record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	record.Result = result
	return record, err
}

// LatestByDocument retrieves the most recent analysis for a document.
func (r *AnalysisRepository) LatestByDocument(ctx context.Context, documentID uuid.UUID) (*AnalysisRecord, error) {
	query := `
		SELECT id, document_id, overall_risk, risk_score, result, created_at
		FROM analyses
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	record := &AnalysisRecord{}
	var result []byte
	err := r.db.QueryRowContext(ctx, query, documentID).Scan(
		&record.ID, &record.DocumentID, &record.OverallRisk, &record.RiskScore,
		&result, &record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	record.Result = result
	return record, err
}

// ListByDocument retrieves all analyses for a document, newest first.
func (r *AnalysisRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*AnalysisRecord, error) {
	query := `
		SELECT id, document_id, overall_risk, risk_score, result, created_at
		FROM analyses
		WHERE document_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		record := &AnalysisRecord{}
		var result []byte
		if err := rows.Scan(
			&record.ID, &record.DocumentID, &record.OverallRisk, &record.RiskScore,
			&result, &record.CreatedAt,
		); err != nil {
			return nil, err
		}
		record.Result = result
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteByDocument removes all analyses for a document and reports how
// many were deleted.
func (r *AnalysisRepository) DeleteByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE document_id = $1`, documentID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteOlderThan removes analyses created before the cutoff and
// reports how many were deleted.
func (r *AnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Repositories bundles all repositories together.
type Repositories struct {
	Documents *DocumentRepository
	Analyses  *AnalysisRepository
}

// NewRepositories creates all repositories with the given database connection.
func NewRepositories(db DB) *Repositories {
	return &Repositories{
		Documents: NewDocumentRepository(db),
		Analyses:  NewAnalysisRepository(db),
	}
}
