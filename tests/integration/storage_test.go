package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/storage"
)

func TestDocumentRepository_Postgres(t *testing.T) {
	skipUnlessDocker(t)

	setup := SetupTestContainers(t)
	defer setup.Cleanup()

	db := setup.OpenDatabase(t)
	defer db.Close()

	repos := storage.NewRepositories(db)
	ctx := context.Background()

	filename := "lease.txt"
	doc := &storage.Document{
		Title:        "Residential Lease Agreement",
		Filename:     &filename,
		DocumentType: "lease",
		Content:      "Tenant shall pay monthly rent of $1,500 due on the 1st.",
	}
	require.NoError(t, repos.Documents.Create(ctx, doc))

	assert.NotEqual(t, uuid.Nil, doc.ID)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, int64(len(doc.Content)), doc.SizeBytes)
	assert.False(t, doc.UploadedAt.IsZero())

	got, err := repos.Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Content, got.Content)
	require.NotNil(t, got.Filename)
	assert.Equal(t, "lease.txt", *got.Filename)
	assert.WithinDuration(t, doc.UploadedAt, got.UploadedAt, time.Second)

	// Listing returns newest first; the inserts are spaced so the
	// timestamps order deterministically.
	time.Sleep(5 * time.Millisecond)
	second := &storage.Document{Title: "Employment Contract", Content: "The Employee agrees to..."}
	require.NoError(t, repos.Documents.Create(ctx, second))

	list, err := repos.Documents.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, doc.ID, list[1].ID)

	page, err := repos.Documents.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, doc.ID, page[0].ID)

	require.NoError(t, repos.Documents.Delete(ctx, doc.ID))
	_, err = repos.Documents.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repos.Documents.Delete(ctx, doc.ID), storage.ErrNotFound)
}

func TestAnalysisRepository_Postgres(t *testing.T) {
	skipUnlessDocker(t)

	setup := SetupTestContainers(t)
	defer setup.Cleanup()

	db := setup.OpenDatabase(t)
	defer db.Close()

	repos := storage.NewRepositories(db)
	ctx := context.Background()

	doc := &storage.Document{Title: "Lease", Content: "Tenant shall pay rent."}
	require.NoError(t, repos.Documents.Create(ctx, doc))

	first := &storage.AnalysisRecord{
		DocumentID:  doc.ID,
		OverallRisk: "Low",
		RiskScore:   2,
		Result:      json.RawMessage(`{"risk_assessment":{"overall_risk":"Low","risk_score":2}}`),
	}
	require.NoError(t, repos.Analyses.Create(ctx, first))

	time.Sleep(5 * time.Millisecond)
	second := &storage.AnalysisRecord{
		DocumentID:  doc.ID,
		OverallRisk: "Medium",
		RiskScore:   8,
		Result:      json.RawMessage(`{"risk_assessment":{"overall_risk":"Medium","risk_score":8}}`),
	}
	require.NoError(t, repos.Analyses.Create(ctx, second))

	latest, err := repos.Analyses.LatestByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "Medium", latest.OverallRisk)
	assert.Equal(t, 8, latest.RiskScore)

	// The serialized result survives the TEXT column intact.
	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(latest.Result, &stored))
	assert.Contains(t, stored, "risk_assessment")

	history, err := repos.Analyses.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	deleted, err := repos.Analyses.DeleteByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repos.Analyses.LatestByDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAnalysisRepository_RetentionPostgres(t *testing.T) {
	skipUnlessDocker(t)

	setup := SetupTestContainers(t)
	defer setup.Cleanup()

	db := setup.OpenDatabase(t)
	defer db.Close()

	repos := storage.NewRepositories(db)
	ctx := context.Background()

	doc := &storage.Document{Title: "Lease", Content: "Tenant shall pay rent."}
	require.NoError(t, repos.Documents.Create(ctx, doc))

	record := &storage.AnalysisRecord{
		DocumentID:  doc.ID,
		OverallRisk: "Low",
		Result:      json.RawMessage(`{}`),
	}
	require.NoError(t, repos.Analyses.Create(ctx, record))

	// A cutoff before the record leaves it in place.
	deleted, err := repos.Analyses.DeleteOlderThan(ctx, record.CreatedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = repos.Analyses.DeleteOlderThan(ctx, record.CreatedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
