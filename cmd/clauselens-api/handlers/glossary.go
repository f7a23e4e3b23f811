package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/service"
)

// GlossaryHandler handles legal-term explanation requests.
type GlossaryHandler struct {
	logger *observability.Logger
	svc    *service.AnalysisService
}

// NewGlossaryHandler creates a new glossary handler.
func NewGlossaryHandler(logger *observability.Logger, svc *service.AnalysisService) *GlossaryHandler {
	return &GlossaryHandler{
		logger: logger,
		svc:    svc,
	}
}

// TermListResponse represents the curated glossary vocabulary.
type TermListResponse struct {
	Terms []string `json:"terms"`
	Count int      `json:"count"`
}

// Terms handles GET /v1/glossary.
func (h *GlossaryHandler) Terms(w http.ResponseWriter, r *http.Request) {
	terms := h.svc.GlossaryTerms()
	writeJSON(w, http.StatusOK, TermListResponse{
		Terms: terms,
		Count: len(terms),
	})
}

// Explain handles GET /v1/glossary/{term}.
func (h *GlossaryHandler) Explain(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	if unescaped, err := url.PathUnescape(term); err == nil {
		term = unescaped
	}
	complexity := r.URL.Query().Get("complexity")

	explanation, err := h.svc.ExplainTerm(r.Context(), term, complexity)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTerm) {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "term is required")
			return
		}
		h.logger.Error().Err(err).Msg("Glossary lookup failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "glossary lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, explanation)
}
