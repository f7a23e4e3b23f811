package analysis

import "time"

// SectionType identifies one of the fixed section categories.
type SectionType string

const (
	SectionDefinitions          SectionType = "definitions"
	SectionObligations          SectionType = "obligations"
	SectionRights               SectionType = "rights"
	SectionTermination          SectionType = "termination"
	SectionPayment              SectionType = "payment"
	SectionLiability            SectionType = "liability"
	SectionDispute              SectionType = "dispute"
	SectionPrivacy              SectionType = "privacy"
	SectionIntellectualProperty SectionType = "intellectual_property"
	SectionForceMajeure         SectionType = "force_majeure"
)

// RiskType identifies one of the fixed risk categories.
type RiskType string

const (
	RiskAutomaticRenewal   RiskType = "automatic_renewal"
	RiskPenaltyClauses     RiskType = "penalty_clauses"
	RiskBroadLiability     RiskType = "broad_liability"
	RiskIndemnification    RiskType = "indemnification"
	RiskWaiverOfRights     RiskType = "waiver_of_rights"
	RiskBindingArbitration RiskType = "binding_arbitration"
	RiskChoiceOfLaw        RiskType = "choice_of_law"
	RiskAttorneyFees       RiskType = "attorney_fees"
)

// ImportanceLevel grades how much a section matters to the reader.
type ImportanceLevel string

const (
	ImportanceCritical ImportanceLevel = "critical"
	ImportanceHigh     ImportanceLevel = "high"
	ImportanceMedium   ImportanceLevel = "medium"
	ImportanceLow      ImportanceLevel = "low"
)

// RiskLevel buckets a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"

	// RiskUnknown appears only in the total-failure fallback result.
	RiskUnknown RiskLevel = "unknown"
)

// Document type hints that adjust importance weighting. The hint is an
// unconstrained string; unrecognized values use the default weighting.
const (
	DocumentTypeContract       = "contract"
	DocumentTypeLease          = "lease"
	DocumentTypeEmployment     = "employment"
	DocumentTypePrivacyPolicy  = "privacy_policy"
	DocumentTypeTermsOfService = "terms_of_service"
	DocumentTypeInsurance      = "insurance"
	DocumentTypeLoan           = "loan"
)

// Input is the immutable input to one analysis run.
type Input struct {
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

// KeySection is a pattern-matched section with surrounding context.
// Positions are byte offsets into the analyzed content.
type KeySection struct {
	SectionType     SectionType     `json:"section_type"`
	Content         string          `json:"content"`
	StartPosition   int             `json:"start_position"`
	ImportanceLevel ImportanceLevel `json:"importance_level"`
	MatchText       string          `json:"match_text"`
}

// RiskFactor is one matched occurrence of a risk pattern.
type RiskFactor struct {
	RiskType    RiskType  `json:"risk_type"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Description string    `json:"description"`
	Context     string    `json:"context"`
	Position    int       `json:"position"`
}

// RiskAssessment aggregates all matched risk factors.
type RiskAssessment struct {
	OverallRisk     RiskLevel    `json:"overall_risk"`
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

// DocumentSummary combines the collaborator's simplified rendering with
// locally derived parties and purpose.
type DocumentSummary struct {
	BriefSummary    string   `json:"brief_summary"`
	KeyPoints       []string `json:"key_points"`
	WhatItMeans     string   `json:"what_it_means,omitempty"`
	RedFlags        []string `json:"red_flags,omitempty"`
	MainParties     []string `json:"main_parties"`
	DocumentPurpose string   `json:"document_purpose"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// Result is the complete output of one analysis run.
type Result struct {
	DocumentStructure StructureMetrics   `json:"document_structure"`
	Readability       ReadabilityMetrics `json:"readability"`
	KeySections       []KeySection       `json:"key_sections"`
	RiskAssessment    RiskAssessment     `json:"risk_assessment"`
	ImportantDates    []DateMention      `json:"important_dates"`
	LegalTerms        []TermMention      `json:"legal_terms"`
	Summary           DocumentSummary    `json:"summary"`
	AnalyzedAt        time.Time          `json:"analysis_timestamp"`
}
