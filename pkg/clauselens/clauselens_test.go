package clauselens

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{BaseURL: serverURL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(ClientConfig{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8090", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)

	client, err = NewClient(ClientConfig{BaseURL: "http://example.com/api/"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api", client.baseURL)
}

func TestClient_Analyze_Success(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody AnalyzeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"document_structure": {
				"total_characters": 1200,
				"total_words": 220,
				"total_sentences": 12,
				"total_paragraphs": 4,
				"average_sentence_length": 18.3,
				"average_paragraph_length": 55.0,
				"potential_sections": ["1. TERM", "2. RENT"],
				"title": "Residential Lease Agreement"
			},
			"readability": {
				"flesch_reading_ease": 42.5,
				"flesch_kincaid_grade": 13.1,
				"reading_level": "College",
				"complexity_assessment": "Complex - requires careful reading"
			},
			"key_sections": [{
				"section_type": "payment_terms",
				"content": "Rent is due on the first of each month.",
				"start_position": 140,
				"importance_level": "High",
				"match_text": "rent"
			}],
			"risk_assessment": {
				"overall_risk": "Medium",
				"risk_score": 9,
				"risk_factors": [{
					"risk_type": "automatic_renewal",
					"risk_level": "Medium",
					"description": "Contract may renew automatically",
					"context": "shall automatically renew for successive terms",
					"position": 210
				}],
				"recommendations": ["Note the automatic renewal terms and cancellation deadlines"]
			},
			"important_dates": [{
				"date_text": "August 31, 2027",
				"context": "This lease expires August 31, 2027.",
				"position": 88,
				"type": "explicit_date"
			}],
			"legal_terms": [{
				"term": "indemnification",
				"context": "Tenant agrees to indemnification of Landlord",
				"position": 540
			}],
			"summary": {
				"brief_summary": "A one-year residential lease.",
				"key_points": ["Rent is $1,500 monthly"],
				"what_it_means": "You rent the unit for a year.",
				"red_flags": ["Automatic renewal"],
				"main_parties": ["Landlord", "Tenant"],
				"document_purpose": "Rental of residential property",
				"confidence_score": 0.9
			},
			"analysis_timestamp": "2026-08-25T10:30:00Z"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Analyze(context.Background(), AnalyzeRequest{
		Content:      "This lease expires August 31, 2027.",
		DocumentType: "lease",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/analyze", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "lease", gotBody.DocumentType)

	assert.Equal(t, "Residential Lease Agreement", result.DocumentStructure.Title)
	assert.Equal(t, 220, result.DocumentStructure.TotalWords)
	assert.InDelta(t, 42.5, result.Readability.FleschReadingEase, 0.001)
	assert.Equal(t, "College", result.Readability.ReadingLevel)
	require.Len(t, result.KeySections, 1)
	assert.Equal(t, "payment_terms", result.KeySections[0].SectionType)
	assert.Equal(t, "Medium", result.RiskAssessment.OverallRisk)
	assert.Equal(t, 9, result.RiskAssessment.RiskScore)
	require.Len(t, result.RiskAssessment.RiskFactors, 1)
	assert.Equal(t, "automatic_renewal", result.RiskAssessment.RiskFactors[0].RiskType)
	require.Len(t, result.ImportantDates, 1)
	assert.Equal(t, "explicit_date", result.ImportantDates[0].Type)
	require.Len(t, result.LegalTerms, 1)
	assert.Equal(t, "indemnification", result.LegalTerms[0].Term)
	assert.Equal(t, "A one-year residential lease.", result.Summary.BriefSummary)
	assert.Equal(t, []string{"Landlord", "Tenant"}, result.Summary.MainParties)
	assert.Equal(t, 2026, result.AnalyzedAt.Year())
}

func TestClient_Analyze_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": "invalid_request", "message": "content is required"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Analyze(context.Background(), AnalyzeRequest{})
	require.Error(t, err)
	assert.Nil(t, result)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_request", apiErr.Code)
	assert.Equal(t, "content is required", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "content is required")
}

func TestClient_Analyze_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Analyze(context.Background(), AnalyzeRequest{Content: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "unknown", apiErr.Code)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_DocumentLifecycle(t *testing.T) {
	var deleted bool

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/documents", func(w http.ResponseWriter, r *http.Request) {
		var req UploadDocumentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Document{
			ID:           "doc-1",
			Title:        req.Title,
			DocumentType: req.DocumentType,
			Language:     "en",
			SizeBytes:    int64(len(req.Content)),
			UploadedAt:   time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		})
	})
	mux.HandleFunc("GET /v1/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Document{ID: "doc-1", Title: "Lease", Content: "full text"})
	})
	mux.HandleFunc("DELETE /v1/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	doc, err := client.UploadDocument(ctx, UploadDocumentRequest{
		Title:        "Lease",
		Content:      "full text",
		DocumentType: "lease",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, int64(9), doc.SizeBytes)

	fetched, err := client.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "full text", fetched.Content)

	require.NoError(t, client.DeleteDocument(ctx, "doc-1"))
	assert.True(t, deleted)
}

func TestClient_ListDocuments_Pagination(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(DocumentListResponse{
			Documents: []Document{{ID: "doc-2"}, {ID: "doc-1"}},
			Count:     2,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	list, err := client.ListDocuments(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "limit=10&offset=20", gotQuery)
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Documents, 2)
	assert.Equal(t, "doc-2", list.Documents[0].ID)

	// Zero values omit the query entirely so the server applies defaults.
	_, err = client.ListDocuments(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestClient_AnalyzeDocument(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(DocumentAnalysis{
			Document:   Document{ID: "doc-1", Title: "Lease"},
			AnalysisID: "an-1",
			CreatedAt:  time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC),
			Analysis: &AnalyzeResponse{
				RiskAssessment: RiskAssessment{OverallRisk: "High", RiskScore: 14},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	run, err := client.AnalyzeDocument(context.Background(), "doc-1", "lease")
	require.NoError(t, err)

	assert.Equal(t, "/v1/documents/doc-1/analyze", gotPath)
	assert.Equal(t, "lease", gotBody["document_type"])
	assert.Equal(t, "an-1", run.AnalysisID)
	require.NotNil(t, run.Analysis)
	assert.Equal(t, "High", run.Analysis.RiskAssessment.OverallRisk)
}

func TestClient_AnalysisHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/documents/doc-1/analysis", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AnalysisRecord{
			ID:          "an-2",
			DocumentID:  "doc-1",
			OverallRisk: "Medium",
			RiskScore:   8,
			Result:      json.RawMessage(`{"readability": {"reading_level": "College"}}`),
		})
	})
	mux.HandleFunc("GET /v1/documents/doc-1/analyses", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AnalysisListResponse{
			Analyses: []AnalysisRecord{{ID: "an-2"}, {ID: "an-1"}},
			Count:    2,
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	latest, err := client.LatestAnalysis(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "an-2", latest.ID)
	assert.Equal(t, "Medium", latest.OverallRisk)

	// The stored result round-trips back into a full analysis.
	var stored AnalyzeResponse
	require.NoError(t, json.Unmarshal(latest.Result, &stored))
	assert.Equal(t, "College", stored.Readability.ReadingLevel)

	history, err := client.AnalysisHistory(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, history.Count)
	assert.Equal(t, "an-2", history.Analyses[0].ID)
}

func TestClient_ExplainTerm_EscapesPath(t *testing.T) {
	var gotEscapedPath, gotComplexity string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEscapedPath = r.URL.EscapedPath()
		gotComplexity = r.URL.Query().Get("complexity")
		json.NewEncoder(w).Encode(TermExplanation{
			Term:            "force majeure",
			Definition:      "Unforeseeable circumstances preventing contract fulfillment",
			Examples:        []string{"A hurricane destroys the venue before the event."},
			ConfidenceScore: 1.0,
			Source:          "database",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	explanation, err := client.ExplainTerm(context.Background(), "force majeure", "elementary")
	require.NoError(t, err)

	assert.Equal(t, "/v1/glossary/force%20majeure", gotEscapedPath)
	assert.Equal(t, "elementary", gotComplexity)
	assert.Equal(t, "force majeure", explanation.Term)
	assert.Equal(t, "database", explanation.Source)
	assert.InDelta(t, 1.0, explanation.ConfidenceScore, 0.001)
}

func TestClient_GlossaryTerms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/glossary", r.URL.Path)
		json.NewEncoder(w).Encode(GlossaryResponse{
			Terms: []string{"arbitration", "indemnification", "severability"},
			Count: 3,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	glossary, err := client.GlossaryTerms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, glossary.Count)
	assert.Contains(t, glossary.Terms, "indemnification")
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Service: "clauselens"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "clauselens", health.Service)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body first: the server only watches for the client
		// disconnect that cancels r.Context() once the body is consumed,
		// so without this the deferred Close blocks forever.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Analyze(ctx, AnalyzeRequest{Content: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
