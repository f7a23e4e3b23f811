package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/cache"
	"github.com/clauselens/clauselens/internal/glossary"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/service"
	"github.com/clauselens/clauselens/internal/storage"
)

const leaseContent = `Residential Lease Agreement

This lease shall automatically renew for successive one-year terms unless
either party gives notice. Late payments incur a penalty of $75. Tenant
agrees to indemnify and hold harmless the Landlord from any loss. This
agreement is governed by the laws of the State of Washington.`

// newStackService wires the analyzer, glossary, repositories, and redis
// cache over the containers, the way cmd/clauselens-api does at startup.
func newStackService(t *testing.T, setup *TestContainerSetup) (*service.AnalysisService, *cache.RedisClient) {
	t.Helper()

	db := setup.OpenDatabase(t)
	t.Cleanup(func() { db.Close() })

	cacheClient := setup.OpenCache(t)
	t.Cleanup(func() { cacheClient.Close() })

	logger := observability.NewLogger(observability.LogConfig{Level: "error"})
	analyzer := analysis.NewAnalyzer(nil, logger, analysis.Config{})
	gloss := glossary.New(nil, logger)

	svc := service.NewAnalysisService(
		logger, analyzer, gloss, storage.NewRepositories(db), cacheClient, nil,
		service.Config{CacheTTL: time.Minute},
	)
	return svc, cacheClient
}

func TestAnalysisService_FullStack(t *testing.T) {
	skipUnlessDocker(t)

	setup := SetupTestContainers(t)
	defer setup.Cleanup()

	svc, cacheClient := newStackService(t, setup)
	ctx := context.Background()

	doc, err := svc.UploadDocument(ctx, service.UploadRequest{
		Content:      leaseContent,
		DocumentType: "lease",
	})
	require.NoError(t, err)
	assert.Equal(t, "Residential Lease Agreement", doc.Title)

	run, err := svc.AnalyzeDocument(ctx, doc.ID, "")
	require.NoError(t, err)
	assert.NotEmpty(t, run.Record.OverallRisk)
	assert.Positive(t, run.Record.RiskScore)
	assert.NotEmpty(t, run.Result.RiskAssessment.RiskFactors)

	// The analysis is cached under the document content, so a direct
	// analyze of the same text returns the stored run verbatim.
	key := cache.AnalysisKey(leaseContent, "lease")
	_, err = cacheClient.Get(ctx, key)
	require.NoError(t, err)

	again, err := svc.Analyze(ctx, leaseContent, "lease")
	require.NoError(t, err)
	assert.True(t, again.AnalyzedAt.Equal(run.Result.AnalyzedAt))

	latest, err := svc.LatestAnalysis(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Record.ID, latest.ID)

	var stored analysis.Result
	require.NoError(t, json.Unmarshal(latest.Result, &stored))
	assert.Equal(t, run.Result.RiskAssessment.OverallRisk, stored.RiskAssessment.OverallRisk)
	assert.Equal(t, run.Result.RiskAssessment.RiskScore, stored.RiskAssessment.RiskScore)

	history, err := svc.AnalysisHistory(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	// Deletion removes the document, its analyses, and the cache entry.
	require.NoError(t, svc.DeleteDocument(ctx, doc.ID))
	_, err = svc.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.LatestAnalysis(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = cacheClient.Get(ctx, key)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestAnalysisService_RetentionFullStack(t *testing.T) {
	skipUnlessDocker(t)

	setup := SetupTestContainers(t)
	defer setup.Cleanup()

	svc, _ := newStackService(t, setup)
	ctx := context.Background()

	doc, err := svc.UploadDocument(ctx, service.UploadRequest{Content: leaseContent})
	require.NoError(t, err)

	_, err = svc.AnalyzeDocument(ctx, doc.ID, "lease")
	require.NoError(t, err)

	// The run is newer than the retention window, so nothing purges.
	purged, err := svc.PurgeOldAnalyses(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	history, err := svc.AnalysisHistory(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
