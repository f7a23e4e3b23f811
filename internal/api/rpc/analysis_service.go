// Package rpc provides Connect service implementations for ClauseLens.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/service"
)

// Procedure paths for mounting the service on an HTTP router.
const (
	ProcedureAnalyze     = "/clauselens.v1.AnalysisService/Analyze"
	ProcedureExplainTerm = "/clauselens.v1.AnalysisService/ExplainTerm"
)

// AnalysisService implements the Connect analysis service.
type AnalysisService struct {
	logger *observability.Logger
	svc    *service.AnalysisService
}

// NewAnalysisService creates a new Connect analysis service.
func NewAnalysisService(logger *observability.Logger, svc *service.AnalysisService) *AnalysisService {
	return &AnalysisService{
		logger: logger,
		svc:    svc,
	}
}

// AnalyzeRequest represents the Connect request message for Analyze.
type AnalyzeRequest struct {
	Content      string `json:"content"`
	DocumentType string `json:"document_type,omitempty"`
}

// AnalyzeResponse represents the Connect response message for Analyze.
type AnalyzeResponse struct {
	DocumentStructure *StructureMetrics   `json:"document_structure"`
	Readability       *ReadabilityMetrics `json:"readability"`
	KeySections       []*KeySection       `json:"key_sections"`
	RiskAssessment    *RiskAssessment     `json:"risk_assessment"`
	ImportantDates    []*DateMention      `json:"important_dates"`
	LegalTerms        []*TermMention      `json:"legal_terms"`
	Summary           *DocumentSummary    `json:"summary"`
	AnalyzedAt        string              `json:"analysis_timestamp"`
}

// StructureMetrics represents document structure metrics in Connect.
type StructureMetrics struct {
	TotalCharacters        int32    `json:"total_characters"`
	TotalWords             int32    `json:"total_words"`
	TotalSentences         int32    `json:"total_sentences"`
	TotalParagraphs        int32    `json:"total_paragraphs"`
	AverageSentenceLength  float64  `json:"average_sentence_length"`
	AverageParagraphLength float64  `json:"average_paragraph_length"`
	PotentialSections      []string `json:"potential_sections"`
	Title                  string   `json:"title,omitempty"`
}

// ReadabilityMetrics represents readability metrics in Connect.
type ReadabilityMetrics struct {
	FleschReadingEase    float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade   float64 `json:"flesch_kincaid_grade"`
	ReadingLevel         string  `json:"reading_level"`
	ComplexityAssessment string  `json:"complexity_assessment"`
}

// KeySection represents a matched key section in Connect.
type KeySection struct {
	SectionType     string `json:"section_type"`
	Content         string `json:"content"`
	StartPosition   int32  `json:"start_position"`
	ImportanceLevel string `json:"importance_level"`
	MatchText       string `json:"match_text"`
}

// RiskAssessment represents the aggregated risk assessment in Connect.
type RiskAssessment struct {
	OverallRisk     string        `json:"overall_risk"`
	RiskScore       int32         `json:"risk_score"`
	RiskFactors     []*RiskFactor `json:"risk_factors"`
	Recommendations []string      `json:"recommendations"`
}

// RiskFactor represents one matched risk occurrence in Connect.
type RiskFactor struct {
	RiskType    string `json:"risk_type"`
	RiskLevel   string `json:"risk_level"`
	Description string `json:"description"`
	Context     string `json:"context"`
	Position    int32  `json:"position"`
}

// DateMention represents one matched date phrase in Connect.
type DateMention struct {
	DateText string `json:"date_text"`
	Context  string `json:"context"`
	Position int32  `json:"position"`
	Type     string `json:"type"`
}

// TermMention represents one matched vocabulary term in Connect.
type TermMention struct {
	Term     string `json:"term"`
	Context  string `json:"context"`
	Position int32  `json:"position"`
}

// DocumentSummary represents the plain-language summary in Connect.
type DocumentSummary struct {
	BriefSummary    string   `json:"brief_summary"`
	KeyPoints       []string `json:"key_points"`
	WhatItMeans     string   `json:"what_it_means,omitempty"`
	RedFlags        []string `json:"red_flags,omitempty"`
	MainParties     []string `json:"main_parties"`
	DocumentPurpose string   `json:"document_purpose"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// ExplainTermRequest represents the Connect request message for ExplainTerm.
type ExplainTermRequest struct {
	Term            string `json:"term"`
	ComplexityLevel string `json:"complexity_level,omitempty"`
}

// ExplainTermResponse represents the Connect response message for ExplainTerm.
type ExplainTermResponse struct {
	Term             string   `json:"term"`
	Definition       string   `json:"definition"`
	SimpleDefinition string   `json:"simple_definition,omitempty"`
	Examples         []string `json:"examples"`
	ConfidenceScore  float64  `json:"confidence_score"`
	Source           string   `json:"source"`
}

// Analyze handles Connect analysis requests.
func (s *AnalysisService) Analyze(ctx context.Context, req *connect.Request[AnalyzeRequest]) (*connect.Response[AnalyzeResponse], error) {
	msg := req.Msg

	// Validate required fields
	if msg.Content == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("content is required"))
	}

	// Execute analysis
	result, err := s.svc.Analyze(ctx, msg.Content, msg.DocumentType)
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		s.logger.Error().Err(err).Msg("Analyze failed")
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(s.toAnalyzeResponse(result)), nil
}

// ExplainTerm handles Connect glossary requests.
func (s *AnalysisService) ExplainTerm(ctx context.Context, req *connect.Request[ExplainTermRequest]) (*connect.Response[ExplainTermResponse], error) {
	msg := req.Msg

	// Validate required fields
	if msg.Term == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("term is required"))
	}

	explanation, err := s.svc.ExplainTerm(ctx, msg.Term, msg.ComplexityLevel)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTerm) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		s.logger.Error().Err(err).Msg("ExplainTerm failed")
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&ExplainTermResponse{
		Term:             explanation.Term,
		Definition:       explanation.Definition,
		SimpleDefinition: explanation.SimpleDefinition,
		Examples:         explanation.Examples,
		ConfidenceScore:  explanation.ConfidenceScore,
		Source:           explanation.Source,
	}), nil
}

// Handlers returns the HTTP handler for each procedure, keyed by procedure path.
func (s *AnalysisService) Handlers() map[string]http.Handler {
	codec := connect.WithCodec(jsonCodec{})
	return map[string]http.Handler{
		ProcedureAnalyze:     connect.NewUnaryHandler(ProcedureAnalyze, s.Analyze, codec),
		ProcedureExplainTerm: connect.NewUnaryHandler(ProcedureExplainTerm, s.ExplainTerm, codec),
	}
}

func (s *AnalysisService) toAnalyzeResponse(res *analysis.Result) *AnalyzeResponse {
	resp := &AnalyzeResponse{
		DocumentStructure: &StructureMetrics{
			TotalCharacters:        int32(res.DocumentStructure.TotalCharacters),
			TotalWords:             int32(res.DocumentStructure.TotalWords),
			TotalSentences:         int32(res.DocumentStructure.TotalSentences),
			TotalParagraphs:        int32(res.DocumentStructure.TotalParagraphs),
			AverageSentenceLength:  res.DocumentStructure.AverageSentenceLength,
			AverageParagraphLength: res.DocumentStructure.AverageParagraphLength,
			PotentialSections:      res.DocumentStructure.PotentialSections,
			Title:                  res.DocumentStructure.Title,
		},
		Readability: &ReadabilityMetrics{
			FleschReadingEase:    res.Readability.FleschReadingEase,
			FleschKincaidGrade:   res.Readability.FleschKincaidGrade,
			ReadingLevel:         res.Readability.ReadingLevel,
			ComplexityAssessment: res.Readability.ComplexityAssessment,
		},
		KeySections:    make([]*KeySection, 0, len(res.KeySections)),
		ImportantDates: make([]*DateMention, 0, len(res.ImportantDates)),
		LegalTerms:     make([]*TermMention, 0, len(res.LegalTerms)),
		Summary: &DocumentSummary{
			BriefSummary:    res.Summary.BriefSummary,
			KeyPoints:       res.Summary.KeyPoints,
			WhatItMeans:     res.Summary.WhatItMeans,
			RedFlags:        res.Summary.RedFlags,
			MainParties:     res.Summary.MainParties,
			DocumentPurpose: res.Summary.DocumentPurpose,
			ConfidenceScore: res.Summary.ConfidenceScore,
		},
		AnalyzedAt: res.AnalyzedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	for _, sec := range res.KeySections {
		resp.KeySections = append(resp.KeySections, &KeySection{
			SectionType:     string(sec.SectionType),
			Content:         sec.Content,
			StartPosition:   int32(sec.StartPosition),
			ImportanceLevel: string(sec.ImportanceLevel),
			MatchText:       sec.MatchText,
		})
	}

	risk := &RiskAssessment{
		OverallRisk:     string(res.RiskAssessment.OverallRisk),
		RiskScore:       int32(res.RiskAssessment.RiskScore),
		RiskFactors:     make([]*RiskFactor, 0, len(res.RiskAssessment.RiskFactors)),
		Recommendations: res.RiskAssessment.Recommendations,
	}
	for _, factor := range res.RiskAssessment.RiskFactors {
		risk.RiskFactors = append(risk.RiskFactors, &RiskFactor{
			RiskType:    string(factor.RiskType),
			RiskLevel:   string(factor.RiskLevel),
			Description: factor.Description,
			Context:     factor.Context,
			Position:    int32(factor.Position),
		})
	}
	resp.RiskAssessment = risk

	for _, date := range res.ImportantDates {
		resp.ImportantDates = append(resp.ImportantDates, &DateMention{
			DateText: date.DateText,
			Context:  date.Context,
			Position: int32(date.Position),
			Type:     date.Type,
		})
	}

	for _, term := range res.LegalTerms {
		resp.LegalTerms = append(resp.LegalTerms, &TermMention{
			Term:     term.Term,
			Context:  term.Context,
			Position: int32(term.Position),
		})
	}

	return resp
}

// jsonCodec encodes Connect messages as plain JSON so the procedures serve
// hand-rolled message structs instead of generated protobuf types.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) { return json.Marshal(message) }

func (jsonCodec) Unmarshal(data []byte, message any) error { return json.Unmarshal(data, message) }
