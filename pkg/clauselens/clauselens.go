// Package clauselens provides the public Go SDK for the ClauseLens API.
package clauselens

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is the public SDK client for the ClauseLens API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a new ClauseLens client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8090"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// APIError is a structured error returned by the ClauseLens API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clauselens: %s (code %s, http %d)", e.Message, e.Code, e.StatusCode)
}

// AnalyzeRequest represents a direct analysis request.
type AnalyzeRequest struct {
	Content      string `json:"content"`
	DocumentType string `json:"document_type,omitempty"`
}

// StructureMetrics describes document size and organization.
type StructureMetrics struct {
	TotalCharacters        int      `json:"total_characters"`
	TotalWords             int      `json:"total_words"`
	TotalSentences         int      `json:"total_sentences"`
	TotalParagraphs        int      `json:"total_paragraphs"`
	AverageSentenceLength  float64  `json:"average_sentence_length"`
	AverageParagraphLength float64  `json:"average_paragraph_length"`
	PotentialSections      []string `json:"potential_sections"`
	Title                  string   `json:"title,omitempty"`
}

// ReadabilityMetrics describes how hard the document is to read.
type ReadabilityMetrics struct {
	FleschReadingEase    float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade   float64 `json:"flesch_kincaid_grade"`
	ReadingLevel         string  `json:"reading_level"`
	ComplexityAssessment string  `json:"complexity_assessment"`
}

// KeySection is a matched section with surrounding context.
type KeySection struct {
	SectionType     string `json:"section_type"`
	Content         string `json:"content"`
	StartPosition   int    `json:"start_position"`
	ImportanceLevel string `json:"importance_level"`
	MatchText       string `json:"match_text"`
}

// RiskFactor is one matched occurrence of a risk pattern.
type RiskFactor struct {
	RiskType    string `json:"risk_type"`
	RiskLevel   string `json:"risk_level"`
	Description string `json:"description"`
	Context     string `json:"context"`
	Position    int    `json:"position"`
}

// RiskAssessment aggregates all matched risk factors.
type RiskAssessment struct {
	OverallRisk     string       `json:"overall_risk"`
	RiskScore       int          `json:"risk_score"`
	RiskFactors     []RiskFactor `json:"risk_factors"`
	Recommendations []string     `json:"recommendations"`
}

// DateMention is one matched date or deadline phrase.
type DateMention struct {
	DateText string `json:"date_text"`
	Context  string `json:"context"`
	Position int    `json:"position"`
	Type     string `json:"type"`
}

// TermMention is the first occurrence of a vocabulary term.
type TermMention struct {
	Term     string `json:"term"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}

// DocumentSummary is the plain-language summary block.
type DocumentSummary struct {
	BriefSummary    string   `json:"brief_summary"`
	KeyPoints       []string `json:"key_points"`
	WhatItMeans     string   `json:"what_it_means,omitempty"`
	RedFlags        []string `json:"red_flags,omitempty"`
	MainParties     []string `json:"main_parties"`
	DocumentPurpose string   `json:"document_purpose"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// AnalyzeResponse is the complete output of one analysis run.
type AnalyzeResponse struct {
	DocumentStructure StructureMetrics   `json:"document_structure"`
	Readability       ReadabilityMetrics `json:"readability"`
	KeySections       []KeySection       `json:"key_sections"`
	RiskAssessment    RiskAssessment     `json:"risk_assessment"`
	ImportantDates    []DateMention      `json:"important_dates"`
	LegalTerms        []TermMention      `json:"legal_terms"`
	Summary           DocumentSummary    `json:"summary"`
	AnalyzedAt        time.Time          `json:"analysis_timestamp"`
}

// Analyze runs a direct analysis without storing the document.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	var out AnalyzeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDocumentRequest represents a document to store.
type UploadDocumentRequest struct {
	Title        string `json:"title,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Content      string `json:"content"`
	DocumentType string `json:"document_type,omitempty"`
	Language     string `json:"language,omitempty"`
}

// Document represents a stored document.
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename,omitempty"`
	DocumentType string    `json:"document_type"`
	Language     string    `json:"language"`
	SizeBytes    int64     `json:"size_bytes"`
	Content      string    `json:"content,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// DocumentListResponse represents a document listing.
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
	Count     int        `json:"count"`
}

// UploadDocument stores a document for later analysis.
func (c *Client) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodPost, "/v1/documents", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocument retrieves a stored document with its content.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodGet, "/v1/documents/"+url.PathEscape(documentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocuments lists stored documents, newest first. Listed documents
// do not carry content; fetch one with GetDocument.
func (c *Client) ListDocuments(ctx context.Context, limit, offset int) (*DocumentListResponse, error) {
	path := "/v1/documents"
	if limit > 0 || offset > 0 {
		path += "?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	}

	var out DocumentListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a stored document and its analyses.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/documents/"+url.PathEscape(documentID), nil, nil)
}

// DocumentAnalysis represents a freshly persisted analysis run.
type DocumentAnalysis struct {
	Document   Document         `json:"document"`
	AnalysisID string           `json:"analysis_id"`
	CreatedAt  time.Time        `json:"created_at"`
	Analysis   *AnalyzeResponse `json:"analysis"`
}

// AnalysisRecord represents one stored analysis run. Result holds the
// serialized AnalyzeResponse.
type AnalysisRecord struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"document_id"`
	OverallRisk string          `json:"overall_risk"`
	RiskScore   int             `json:"risk_score"`
	Result      json.RawMessage `json:"result"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AnalysisListResponse represents stored analysis runs for one document.
type AnalysisListResponse struct {
	Analyses []AnalysisRecord `json:"analyses"`
	Count    int              `json:"count"`
}

// AnalyzeDocument analyzes a stored document and persists the run. An
// empty documentType reuses the document's stored type.
func (c *Client) AnalyzeDocument(ctx context.Context, documentID, documentType string) (*DocumentAnalysis, error) {
	req := struct {
		DocumentType string `json:"document_type,omitempty"`
	}{DocumentType: documentType}

	var out DocumentAnalysis
	if err := c.do(ctx, http.MethodPost, "/v1/documents/"+url.PathEscape(documentID)+"/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LatestAnalysis retrieves the most recent stored analysis for a document.
func (c *Client) LatestAnalysis(ctx context.Context, documentID string) (*AnalysisRecord, error) {
	var out AnalysisRecord
	if err := c.do(ctx, http.MethodGet, "/v1/documents/"+url.PathEscape(documentID)+"/analysis", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalysisHistory lists all stored analysis runs for a document, newest
// first.
func (c *Client) AnalysisHistory(ctx context.Context, documentID string) (*AnalysisListResponse, error) {
	var out AnalysisListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/documents/"+url.PathEscape(documentID)+"/analyses", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GlossaryResponse represents the curated vocabulary listing.
type GlossaryResponse struct {
	Terms []string `json:"terms"`
	Count int      `json:"count"`
}

// TermExplanation represents a plain-language term explanation.
type TermExplanation struct {
	Term             string   `json:"term"`
	Definition       string   `json:"definition"`
	SimpleDefinition string   `json:"simple_definition,omitempty"`
	Examples         []string `json:"examples"`
	ConfidenceScore  float64  `json:"confidence_score"`
	Source           string   `json:"source"`
}

// GlossaryTerms lists the curated glossary vocabulary.
func (c *Client) GlossaryTerms(ctx context.Context) (*GlossaryResponse, error) {
	var out GlossaryResponse
	if err := c.do(ctx, http.MethodGet, "/v1/glossary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExplainTerm explains a legal term. An empty complexityLevel uses the
// service default.
func (c *Client) ExplainTerm(ctx context.Context, term, complexityLevel string) (*TermExplanation, error) {
	path := "/v1/glossary/" + url.PathEscape(term)
	if complexityLevel != "" {
		path += "?complexity=" + url.QueryEscape(complexityLevel)
	}

	var out TermExplanation
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// Health checks the service health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one JSON request and decodes the response into out. Non-2xx
// responses decode the API error envelope into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError turns an error response into an *APIError, tolerating
// non-JSON bodies from intermediaries.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown"}

	var envelope struct {
		Error APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
