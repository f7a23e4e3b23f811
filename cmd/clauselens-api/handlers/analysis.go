package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/service"
)

// AnalysisHandler handles ad-hoc document analysis requests.
type AnalysisHandler struct {
	logger *observability.Logger
	svc    *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(logger *observability.Logger, svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		logger: logger,
		svc:    svc,
	}
}

// AnalyzeRequestDTO represents the API request for ad-hoc analysis.
type AnalyzeRequestDTO struct {
	Content      string `json:"content"`
	DocumentType string `json:"document_type,omitempty"`
}

// Analyze handles POST /v1/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var reqDTO AnalyzeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}

	result, err := h.svc.Analyze(r.Context(), reqDTO.Content, reqDTO.DocumentType)
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "content is required")
			return
		}
		h.logger.Error().Err(err).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
