// Package service orchestrates document analysis, persistence, and
// caching behind a single facade used by the HTTP and RPC layers.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/cache"
	"github.com/clauselens/clauselens/internal/glossary"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/storage"
)

// Input validation errors, mapped to bad-request responses upstream.
var (
	ErrEmptyContent = errors.New("document content is required")
	ErrEmptyTerm    = errors.New("term is required")
)

// Config holds service tuning knobs.
type Config struct {
	CacheTTL     time.Duration
	RetentionAge time.Duration
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		CacheTTL:     15 * time.Minute,
		RetentionAge: 90 * 24 * time.Hour,
	}
}

// AnalysisService coordinates the analyzer, glossary, repositories,
// and cache.
type AnalysisService struct {
	logger   *observability.Logger
	analyzer *analysis.Analyzer
	glossary *glossary.Glossary
	repos    *storage.Repositories
	cache    cache.Client
	metrics  *observability.Metrics
	config   Config
}

// NewAnalysisService creates the service. Cache and metrics may be nil;
// zero config fields fall back to defaults.
func NewAnalysisService(
	logger *observability.Logger,
	analyzer *analysis.Analyzer,
	gloss *glossary.Glossary,
	repos *storage.Repositories,
	cacheClient cache.Client,
	metrics *observability.Metrics,
	cfg Config,
) *AnalysisService {
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{Level: "error", Output: io.Discard})
	}
	defaults := DefaultConfig()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.RetentionAge <= 0 {
		cfg.RetentionAge = defaults.RetentionAge
	}

	return &AnalysisService{
		logger:   logger,
		analyzer: analyzer,
		glossary: gloss,
		repos:    repos,
		cache:    cacheClient,
		metrics:  metrics,
		config:   cfg,
	}
}

// Analyze runs the full analysis over raw content, consulting the
// cache before the analyzer and storing fresh results after it.
func (s *AnalysisService) Analyze(ctx context.Context, content, documentType string) (*analysis.Result, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	key := cache.AnalysisKey(content, documentType)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			result := &analysis.Result{}
			if err := json.Unmarshal(data, result); err == nil {
				s.metrics.RecordCacheHit()
				return result, nil
			}
			s.logger.Warn().Err(err).Msg("Discarding undecodable cached analysis")
		}
		s.metrics.RecordCacheMiss()
	}

	start := time.Now()
	result := s.analyzer.Analyze(ctx, analysis.Input{Content: content, DocumentType: documentType})
	duration := time.Since(start)

	s.metrics.RecordAnalysis(string(result.RiskAssessment.OverallRisk), documentType, duration)
	if result.Summary.ConfidenceScore > 0 {
		s.metrics.RecordSimplifierCall("success")
	} else {
		s.metrics.RecordSimplifierCall("degraded")
	}

	s.logger.Info().
		Str("document_type", documentType).
		Str("overall_risk", string(result.RiskAssessment.OverallRisk)).
		Int("risk_score", result.RiskAssessment.RiskScore).
		Dur("duration", duration).
		Msg("Document analysis completed")

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to cache analysis result")
			}
		}
	}

	return result, nil
}

// UploadRequest holds the fields accepted when storing a document.
type UploadRequest struct {
	Title        string
	Filename     string
	Content      string
	DocumentType string
	Language     string
}

// UploadDocument stores a document, inferring a title from the content
// when none is supplied.
func (s *AnalysisService) UploadDocument(ctx context.Context, req UploadRequest) (*storage.Document, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = s.analyzer.AnalyzeStructure(req.Content).Title
	}
	if title == "" {
		title = "Untitled document"
	}

	doc := &storage.Document{
		Title:        title,
		DocumentType: req.DocumentType,
		Language:     req.Language,
		Content:      req.Content,
	}
	if req.Filename != "" {
		doc.Filename = &req.Filename
	}

	if err := s.repos.Documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	s.logger.Info().
		Str("document_id", doc.ID.String()).
		Str("title", doc.Title).
		Int64("size_bytes", doc.SizeBytes).
		Msg("Document uploaded")

	return doc, nil
}

// DocumentAnalysis pairs a document with one analysis run over it.
type DocumentAnalysis struct {
	Document *storage.Document
	Record   *storage.AnalysisRecord
	Result   *analysis.Result
}

// AnalyzeDocument analyzes a stored document and persists the result.
// An empty documentType falls back to the type recorded at upload.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, documentID uuid.UUID, documentType string) (*DocumentAnalysis, error) {
	doc, err := s.repos.Documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if documentType == "" {
		documentType = doc.DocumentType
	}

	result, err := s.Analyze(ctx, doc.Content, documentType)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode analysis result: %w", err)
	}

	record := &storage.AnalysisRecord{
		DocumentID:  doc.ID,
		OverallRisk: string(result.RiskAssessment.OverallRisk),
		RiskScore:   result.RiskAssessment.RiskScore,
		Result:      data,
	}
	if err := s.repos.Analyses.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store analysis record: %w", err)
	}

	return &DocumentAnalysis{Document: doc, Record: record, Result: result}, nil
}

// GetDocument retrieves a stored document.
func (s *AnalysisService) GetDocument(ctx context.Context, documentID uuid.UUID) (*storage.Document, error) {
	return s.repos.Documents.GetByID(ctx, documentID)
}

// ListDocuments lists stored documents, newest first.
func (s *AnalysisService) ListDocuments(ctx context.Context, limit, offset int) ([]*storage.Document, error) {
	return s.repos.Documents.List(ctx, limit, offset)
}

// DeleteDocument removes a document, its analyses, and its cache entry.
func (s *AnalysisService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.repos.Documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	if _, err := s.repos.Analyses.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete analyses: %w", err)
	}
	if err := s.repos.Documents.Delete(ctx, documentID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.AnalysisKey(doc.Content, doc.DocumentType)); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to evict cached analysis")
		}
	}

	s.logger.Info().Str("document_id", documentID.String()).Msg("Document deleted")
	return nil
}

// LatestAnalysis retrieves the most recent stored analysis for a document.
func (s *AnalysisService) LatestAnalysis(ctx context.Context, documentID uuid.UUID) (*storage.AnalysisRecord, error) {
	return s.repos.Analyses.LatestByDocument(ctx, documentID)
}

// AnalysisHistory retrieves all stored analyses for a document, newest
// first.
func (s *AnalysisService) AnalysisHistory(ctx context.Context, documentID uuid.UUID) ([]*storage.AnalysisRecord, error) {
	return s.repos.Analyses.ListByDocument(ctx, documentID)
}

// GlossaryTerms lists the curated glossary vocabulary.
func (s *AnalysisService) GlossaryTerms() []string {
	return s.glossary.Terms()
}

// ExplainTerm answers a glossary lookup, caching confident answers so
// repeated lookups skip the simplifier.
func (s *AnalysisService) ExplainTerm(ctx context.Context, term, complexityLevel string) (*glossary.Explanation, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptyTerm
	}

	key := cache.GlossaryKey(term, complexityLevel)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			explanation := &glossary.Explanation{}
			if err := json.Unmarshal(data, explanation); err == nil {
				s.metrics.RecordCacheHit()
				return explanation, nil
			}
			s.logger.Warn().Err(err).Msg("Discarding undecodable cached explanation")
		}
		s.metrics.RecordCacheMiss()
	}

	explanation, err := s.glossary.Explain(ctx, term, complexityLevel)
	if err != nil {
		return nil, err
	}

	// Degraded answers are not cached so a recovered simplifier can
	// improve the next lookup.
	if s.cache != nil && explanation.ConfidenceScore > 0 {
		if data, err := json.Marshal(explanation); err == nil {
			if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to cache explanation")
			}
		}
	}

	return explanation, nil
}
