package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/cache"
	"github.com/clauselens/clauselens/internal/glossary"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/simplify"
	"github.com/clauselens/clauselens/internal/storage"
)

const leaseContent = `Residential Lease Agreement

The tenant shall pay rent monthly on the first day of each month.
This lease will automatically renew unless notice is given 30 days before expiration.`

// countingSimplifier counts calls before delegating.
type countingSimplifier struct {
	inner simplify.Simplifier
	calls int
}

func (c *countingSimplifier) Simplify(ctx context.Context, req simplify.Request) (*simplify.Summary, error) {
	c.calls++
	return c.inner.Simplify(ctx, req)
}

func newTestService(t *testing.T, sim simplify.Simplifier, cfg Config) *AnalysisService {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.Migrate(context.Background(), db, "sqlite3"))

	logger := observability.NewLogger(observability.LogConfig{Level: "error", Output: io.Discard})
	analyzer := analysis.NewAnalyzer(sim, logger, analysis.Config{})
	gloss := glossary.New(sim, logger)
	repos := storage.NewRepositories(db)
	memCache := cache.NewMemoryClient(100)
	t.Cleanup(func() { memCache.Close() })

	return NewAnalysisService(logger, analyzer, gloss, repos, memCache, nil, cfg)
}

func TestAnalysisService_Analyze_CachesResult(t *testing.T) {
	counter := &countingSimplifier{inner: &simplify.Mock{}}
	svc := newTestService(t, counter, Config{})

	first, err := svc.Analyze(context.Background(), leaseContent, "lease")
	require.NoError(t, err)
	require.Equal(t, 1, counter.calls)

	second, err := svc.Analyze(context.Background(), leaseContent, "lease")
	require.NoError(t, err)

	// Served from cache, so the simplifier was not consulted again.
	assert.Equal(t, 1, counter.calls)

	// The cached copy is the same analysis, down to the timestamp.
	assert.True(t, first.AnalyzedAt.Equal(second.AnalyzedAt))
	first.AnalyzedAt = time.Time{}
	second.AnalyzedAt = time.Time{}
	assert.Equal(t, first, second)

	// A different document type is a separate cache entry.
	_, err = svc.Analyze(context.Background(), leaseContent, "contract")
	require.NoError(t, err)
	assert.Equal(t, 2, counter.calls)
}

func TestAnalysisService_Analyze_EmptyContent(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	_, err := svc.Analyze(context.Background(), "   \n ", "lease")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestAnalysisService_UploadDocument_InfersTitle(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	doc, err := svc.UploadDocument(context.Background(), UploadRequest{
		Content:      leaseContent,
		DocumentType: "lease",
	})
	require.NoError(t, err)

	assert.Equal(t, "Residential Lease Agreement", doc.Title)
	assert.Equal(t, "lease", doc.DocumentType)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, int64(len(leaseContent)), doc.SizeBytes)
	assert.Nil(t, doc.Filename)
}

func TestAnalysisService_UploadDocument_FallbackTitle(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	// No line is long enough to serve as a title.
	doc, err := svc.UploadDocument(context.Background(), UploadRequest{Content: "Short.\nAlso."})
	require.NoError(t, err)
	assert.Equal(t, "Untitled document", doc.Title)
}

func TestAnalysisService_UploadDocument_KeepsGivenFields(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	doc, err := svc.UploadDocument(context.Background(), UploadRequest{
		Title:    "My Lease",
		Filename: "lease.txt",
		Content:  leaseContent,
		Language: "de",
	})
	require.NoError(t, err)

	assert.Equal(t, "My Lease", doc.Title)
	require.NotNil(t, doc.Filename)
	assert.Equal(t, "lease.txt", *doc.Filename)
	assert.Equal(t, "de", doc.Language)
}

func TestAnalysisService_UploadDocument_EmptyContent(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	_, err := svc.UploadDocument(context.Background(), UploadRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestAnalysisService_AnalyzeDocument_PersistsRecord(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	doc, err := svc.UploadDocument(context.Background(), UploadRequest{
		Content:      leaseContent,
		DocumentType: "lease",
	})
	require.NoError(t, err)

	out, err := svc.AnalyzeDocument(context.Background(), doc.ID, "")
	require.NoError(t, err)

	require.NotNil(t, out.Document)
	require.NotNil(t, out.Record)
	require.NotNil(t, out.Result)
	assert.Equal(t, doc.ID, out.Record.DocumentID)
	assert.Equal(t, string(out.Result.RiskAssessment.OverallRisk), out.Record.OverallRisk)
	assert.Equal(t, out.Result.RiskAssessment.RiskScore, out.Record.RiskScore)

	latest, err := svc.LatestAnalysis(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Record.ID, latest.ID)

	stored := &analysis.Result{}
	require.NoError(t, json.Unmarshal(latest.Result, stored))
	assert.Equal(t, out.Result.RiskAssessment, stored.RiskAssessment)
}

func TestAnalysisService_AnalyzeDocument_NotFound(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	_, err := svc.AnalyzeDocument(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAnalysisService_AnalysisHistory(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	doc, err := svc.UploadDocument(context.Background(), UploadRequest{Content: leaseContent})
	require.NoError(t, err)

	_, err = svc.AnalyzeDocument(context.Background(), doc.ID, "lease")
	require.NoError(t, err)
	_, err = svc.AnalyzeDocument(context.Background(), doc.ID, "contract")
	require.NoError(t, err)

	history, err := svc.AnalysisHistory(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAnalysisService_DeleteDocument(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	doc, err := svc.UploadDocument(context.Background(), UploadRequest{
		Content:      leaseContent,
		DocumentType: "lease",
	})
	require.NoError(t, err)
	_, err = svc.AnalyzeDocument(context.Background(), doc.ID, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(context.Background(), doc.ID))

	_, err = svc.GetDocument(context.Background(), doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.LatestAnalysis(context.Background(), doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = svc.DeleteDocument(context.Background(), doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAnalysisService_ListDocuments(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	first, err := svc.UploadDocument(context.Background(), UploadRequest{Title: "first", Content: "a long enough content line"})
	require.NoError(t, err)
	second, err := svc.UploadDocument(context.Background(), UploadRequest{Title: "second", Content: "another long enough content line"})
	require.NoError(t, err)

	docs, err := svc.ListDocuments(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, second.ID, docs[0].ID)
	assert.Equal(t, first.ID, docs[1].ID)
}

func TestAnalysisService_ExplainTerm_CachesConfidentAnswers(t *testing.T) {
	counter := &countingSimplifier{inner: &simplify.Mock{}}
	svc := newTestService(t, counter, Config{})

	// Unknown term goes to the simplifier once; the confident answer is
	// cached for the second lookup.
	first, err := svc.ExplainTerm(context.Background(), "estoppel", simplify.LevelHighSchool)
	require.NoError(t, err)
	require.Equal(t, 1, counter.calls)
	assert.Equal(t, glossary.SourceAIGenerated, first.Source)
	assert.Greater(t, first.ConfidenceScore, 0.0)

	second, err := svc.ExplainTerm(context.Background(), "estoppel", simplify.LevelHighSchool)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, first, second)
}

func TestAnalysisService_ExplainTerm_EmptyTerm(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{})

	_, err := svc.ExplainTerm(context.Background(), " ", "")
	assert.ErrorIs(t, err, ErrEmptyTerm)
}

func TestAnalysisService_PurgeOldAnalyses(t *testing.T) {
	svc := newTestService(t, &simplify.Mock{}, Config{RetentionAge: time.Millisecond})

	doc, err := svc.UploadDocument(context.Background(), UploadRequest{Content: leaseContent})
	require.NoError(t, err)
	_, err = svc.AnalyzeDocument(context.Background(), doc.ID, "lease")
	require.NoError(t, err)

	// Let the record age past the retention window.
	time.Sleep(10 * time.Millisecond)

	deleted, err := svc.PurgeOldAnalyses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.LatestAnalysis(context.Background(), doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Nothing further to purge.
	deleted, err = svc.PurgeOldAnalyses(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
