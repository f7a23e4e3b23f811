package simplify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    serverURL,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func chatReply(content string) string {
	resp := map[string]interface{}{
		"id": "gen-1",
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestClient_Simplify_Success(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(chatReply(`{
			"simplified_text": "You pay rent on the first of each month.",
			"key_points": ["Rent is $1,500", "Due on the 1st"],
			"what_it_means": "Pay on time or face late fees.",
			"red_flags": ["Late fee applies"],
			"confidence_score": 0.92,
			"legal_terms_used": [{"term": "liability", "definition": "being responsible"}]
		}`)))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	summary, err := client.Simplify(context.Background(), Request{
		Text:         "Tenant shall pay monthly rent of $1,500 due on the 1st.",
		DocumentType: "lease",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "You pay rent on the first of each month.", summary.SimplifiedText)
	assert.Equal(t, []string{"Rent is $1,500", "Due on the 1st"}, summary.KeyPoints)
	assert.Equal(t, "Pay on time or face late fees.", summary.WhatItMeans)
	assert.Equal(t, []string{"Late fee applies"}, summary.RedFlags)
	assert.InDelta(t, 0.92, summary.ConfidenceScore, 0.001)
	require.Len(t, summary.LegalTermsUsed, 1)
	assert.Equal(t, "liability", summary.LegalTermsUsed[0].Term)

	// Prompt carries document-type guidance and requests JSON output.
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[0].Content, "Document Type: lease")
	assert.Contains(t, gotBody.Messages[0].Content, "Emphasize rent, deposits")
	assert.Contains(t, gotBody.Messages[0].Content, "Response Format (JSON)")
	assert.Contains(t, gotBody.Messages[1].Content, "Tenant shall pay monthly rent")
}

func TestClient_Simplify_StripsCodeFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "```json\n{\"simplified_text\": \"Plain words.\", \"confidence_score\": 0.8}\n```"
		w.Write([]byte(chatReply(content)))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	summary, err := client.Simplify(context.Background(), Request{Text: "some legal text"})
	require.NoError(t, err)
	assert.Equal(t, "Plain words.", summary.SimplifiedText)
	assert.InDelta(t, 0.8, summary.ConfidenceScore, 0.001)
}

func TestClient_Simplify_MissingConfidenceDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`{"simplified_text": "Plain words."}`)))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	summary, err := client.Simplify(context.Background(), Request{Text: "some legal text"})
	require.NoError(t, err)
	assert.InDelta(t, defaultConfidence, summary.ConfidenceScore, 0.001)
}

func TestClient_Simplify_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply("I could not produce JSON, sorry.")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Simplify(context.Background(), Request{Text: "some legal text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse summary")
}

func TestClient_Simplify_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(chatReply(`{"simplified_text": "Recovered.", "confidence_score": 0.75}`)))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	summary, err := client.Simplify(context.Background(), Request{Text: "some legal text"})
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", summary.SimplifiedText)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Simplify_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Simplify(context.Background(), Request{Text: "some legal text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Equal(t, int32(3), calls.Load()) // initial call + 2 retries
}

func TestClient_Simplify_NonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key", "type": "auth"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Simplify(context.Background(), Request{Text: "some legal text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Simplify_EmptyText(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	_, err := client.Simplify(context.Background(), Request{Text: "   "})
	require.Error(t, err)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestBuildSystemPrompt_UnknownLevelFallsBack(t *testing.T) {
	prompt := buildSystemPrompt("postdoc", "")
	assert.Contains(t, prompt, complexityPrompts[LevelHighSchool])
	assert.NotContains(t, prompt, "Document Type:")
}

func TestGuidanceFor_UnknownTypeUsesDefault(t *testing.T) {
	assert.Equal(t, defaultGuidance, GuidanceFor("treaty"))
	assert.True(t, strings.HasPrefix(GuidanceFor("loan"), "Emphasize interest rates"))
}

func TestParseSummaryJSON_SurroundingProse(t *testing.T) {
	payload, err := parseSummaryJSON("Here is the result: {\"simplified_text\": \"ok\"} hope that helps")
	require.NoError(t, err)
	assert.Equal(t, "ok", payload.SimplifiedText)
}

func TestMock_ScriptedError(t *testing.T) {
	mock := &Mock{Err: errors.New("boom")}
	_, err := mock.Simplify(context.Background(), Request{Text: "x"})
	require.Error(t, err)
}
