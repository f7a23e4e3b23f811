package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/service"
	"github.com/clauselens/clauselens/internal/storage"
)

// DocumentHandler handles stored-document requests.
type DocumentHandler struct {
	logger *observability.Logger
	svc    *service.AnalysisService
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(logger *observability.Logger, svc *service.AnalysisService) *DocumentHandler {
	return &DocumentHandler{
		logger: logger,
		svc:    svc,
	}
}

// UploadDocumentRequest represents the API request for storing a document.
type UploadDocumentRequest struct {
	Title        string `json:"title,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Content      string `json:"content"`
	DocumentType string `json:"document_type,omitempty"`
	Language     string `json:"language,omitempty"`
}

// AnalyzeDocumentRequest represents the optional body for a stored-document
// analysis. An empty body reuses the document's stored type.
type AnalyzeDocumentRequest struct {
	DocumentType string `json:"document_type,omitempty"`
}

// DocumentSummaryDTO represents a stored document without its content.
type DocumentSummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Filename     *string   `json:"filename,omitempty"`
	DocumentType string    `json:"document_type"`
	Language     string    `json:"language"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// DocumentListResponse represents the API response for a document listing.
type DocumentListResponse struct {
	Documents []DocumentSummaryDTO `json:"documents"`
	Count     int                  `json:"count"`
}

// DocumentAnalysisResponse represents a freshly persisted analysis run.
type DocumentAnalysisResponse struct {
	Document   DocumentSummaryDTO `json:"document"`
	AnalysisID uuid.UUID          `json:"analysis_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Analysis   *analysis.Result   `json:"analysis"`
}

// AnalysisListResponse represents stored analysis runs for one document.
type AnalysisListResponse struct {
	Analyses []*storage.AnalysisRecord `json:"analyses"`
	Count    int                       `json:"count"`
}

// Upload handles POST /v1/documents.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var reqDTO UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}

	doc, err := h.svc.UploadDocument(r.Context(), service.UploadRequest{
		Title:        reqDTO.Title,
		Filename:     reqDTO.Filename,
		Content:      reqDTO.Content,
		DocumentType: reqDTO.DocumentType,
		Language:     reqDTO.Language,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "content is required")
			return
		}
		h.logger.Error().Err(err).Msg("Document upload failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to store document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// List handles GET /v1/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	docs, err := h.svc.ListDocuments(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Document listing failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to list documents")
		return
	}

	resp := DocumentListResponse{
		Documents: make([]DocumentSummaryDTO, 0, len(docs)),
		Count:     len(docs),
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toDocumentSummaryDTO(doc))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /v1/documents/{documentID}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, "document not found", "failed to load document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /v1/documents/{documentID}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteDocument(r.Context(), id); err != nil {
		h.writeLookupError(w, err, "document not found", "failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Analyze handles POST /v1/documents/{documentID}/analyze.
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	var reqDTO AnalyzeDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}

	out, err := h.svc.AnalyzeDocument(r.Context(), id, reqDTO.DocumentType)
	if err != nil {
		h.writeLookupError(w, err, "document not found", "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, DocumentAnalysisResponse{
		Document:   toDocumentSummaryDTO(out.Document),
		AnalysisID: out.Record.ID,
		CreatedAt:  out.Record.CreatedAt,
		Analysis:   out.Result,
	})
}

// LatestAnalysis handles GET /v1/documents/{documentID}/analysis.
func (h *DocumentHandler) LatestAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	record, err := h.svc.LatestAnalysis(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, "no analysis found for document", "failed to load analysis")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// History handles GET /v1/documents/{documentID}/analyses.
func (h *DocumentHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	records, err := h.svc.AnalysisHistory(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Msg("Analysis history lookup failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "failed to load analyses")
		return
	}

	writeJSON(w, http.StatusOK, AnalysisListResponse{
		Analyses: records,
		Count:    len(records),
	})
}

func (h *DocumentHandler) documentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid document id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *DocumentHandler) writeLookupError(w http.ResponseWriter, err error, notFound, fallback string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, CodeNotFound, notFound)
		return
	}
	h.logger.Error().Err(err).Msg("Document operation failed")
	writeError(w, http.StatusInternalServerError, CodeInternal, fallback)
}

func toDocumentSummaryDTO(doc *storage.Document) DocumentSummaryDTO {
	return DocumentSummaryDTO{
		ID:           doc.ID,
		Title:        doc.Title,
		Filename:     doc.Filename,
		DocumentType: doc.DocumentType,
		Language:     doc.Language,
		SizeBytes:    doc.SizeBytes,
		UploadedAt:   doc.UploadedAt,
	}
}
