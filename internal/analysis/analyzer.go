// Package analysis implements regex and heuristic analysis of legal
// document text: structure metrics, readability scoring, key section
// identification, risk assessment, date and legal-term extraction, and
// a plain-language summary delegated to the simplify collaborator.
//
// Analysis is deterministic for a given pattern set: the same content
// always yields the same result apart from the timestamp. Offsets are
// byte offsets into the original content.
package analysis

import (
	"context"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/simplify"
)

// Config configures an Analyzer. Zero values select the defaults.
type Config struct {
	Patterns *Patterns
	Limits   Limits

	// ReadabilityBackend selects the scoring implementation:
	// ReadabilityFlesch (default) or ReadabilityHeuristic.
	ReadabilityBackend string
}

// Analyzer performs document analysis against a fixed pattern set.
// It is safe for concurrent use.
type Analyzer struct {
	patterns   *Patterns
	limits     Limits
	scorer     readabilityScorer
	simplifier simplify.Simplifier
	logger     *observability.Logger
}

// NewAnalyzer creates an analyzer. The simplifier may be nil, in which
// case every summary degrades to the unavailable placeholder.
func NewAnalyzer(simplifier simplify.Simplifier, logger *observability.Logger, cfg Config) *Analyzer {
	if cfg.Patterns == nil {
		cfg.Patterns = DefaultPatterns()
	}
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits()
	}
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{Level: "error", Output: io.Discard})
	}

	var scorer readabilityScorer = fleschScorer{}
	if cfg.ReadabilityBackend == ReadabilityHeuristic {
		scorer = heuristicScorer{}
	}

	return &Analyzer{
		patterns:   cfg.Patterns,
		limits:     cfg.Limits,
		scorer:     scorer,
		simplifier: simplifier,
		logger:     logger,
	}
}

// Analyze runs the full analysis pipeline over one document. It always
// returns a complete result: summary generation degrades to a
// placeholder when the simplifier fails, and any internal panic is
// recovered into a minimal fallback result.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("document analysis failed")
			result = a.fallbackResult(in.Content)
		}
	}()

	result = &Result{
		DocumentStructure: a.AnalyzeStructure(in.Content),
		Readability:       a.AnalyzeReadability(in.Content),
		KeySections:       a.IdentifyKeySections(in.Content, in.DocumentType),
		RiskAssessment:    a.AssessRisks(in.Content),
		ImportantDates:    a.ExtractDates(in.Content),
		LegalTerms:        a.ExtractLegalTerms(in.Content),
		Summary:           a.GenerateSummary(ctx, in.Content, in.DocumentType),
		AnalyzedAt:        time.Now().UTC(),
	}
	return result
}

// GenerateSummary asks the simplifier for a plain-language summary of
// a bounded content preview and merges in locally derived parties and
// purpose. Simplifier failure degrades to the unavailable placeholder
// without failing the analysis.
func (a *Analyzer) GenerateSummary(ctx context.Context, content, documentType string) DocumentSummary {
	prompt := "Provide a brief summary of this legal document"
	if documentType != "" {
		prompt += " (" + documentType + ")"
	}
	prompt += ". Focus on key obligations, rights, and important terms."

	preview := content
	if len(content) > a.limits.SummaryPreviewBytes {
		preview = content[:a.limits.SummaryPreviewBytes] + "..."
	}

	var (
		sum *simplify.Summary
		err error
	)
	if a.simplifier != nil && strings.TrimSpace(content) != "" {
		sum, err = a.simplifier.Simplify(ctx, simplify.Request{
			Text:            preview,
			ComplexityLevel: simplify.LevelHighSchool,
			Context:         prompt,
			DocumentType:    documentType,
		})
	}
	if sum == nil || err != nil {
		if err != nil {
			a.logger.Warn().Err(err).Msg("summary generation failed")
		}
		return DocumentSummary{
			BriefSummary:    "Summary generation temporarily unavailable",
			KeyPoints:       []string{},
			MainParties:     []string{},
			DocumentPurpose: "Unknown",
			ConfidenceScore: 0,
		}
	}

	brief := sum.SimplifiedText
	if brief == "" {
		brief = "Summary not available"
	}
	keyPoints := sum.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return DocumentSummary{
		BriefSummary:    brief,
		KeyPoints:       keyPoints,
		WhatItMeans:     sum.WhatItMeans,
		RedFlags:        sum.RedFlags,
		MainParties:     a.identifyParties(content),
		DocumentPurpose: inferDocumentPurpose(content, documentType),
		ConfidenceScore: sum.ConfidenceScore,
	}
}

// Party mentions are detected near the top of the document where the
// parties are customarily introduced.
var partyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(company|corporation|llc|inc\.?|ltd\.?)`),
	regexp.MustCompile(`(?i)(client|customer|user|member|tenant|employee|contractor)`),
}

// identifyParties extracts party role mentions from the opening of the
// document, deduplicated in first-seen order.
func (a *Analyzer) identifyParties(content string) []string {
	scan := content
	if len(scan) > a.limits.PartyScanBytes {
		scan = scan[:a.limits.PartyScanBytes]
	}

	parties := []string{}
	seen := make(map[string]bool)
	for _, pattern := range partyPatterns {
		matches := pattern.FindAllStringSubmatch(scan, -1)
		if len(matches) > a.limits.MaxPartiesPerPattern {
			matches = matches[:a.limits.MaxPartiesPerPattern]
		}
		for _, m := range matches {
			if seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			parties = append(parties, m[1])
		}
	}
	if len(parties) > a.limits.MaxParties {
		parties = parties[:a.limits.MaxParties]
	}
	return parties
}

var documentPurposes = map[string]string{
	DocumentTypeContract:       "Establish contractual relationship and obligations",
	DocumentTypeLease:          "Rental agreement for property",
	DocumentTypeEmployment:     "Define employment terms and conditions",
	DocumentTypePrivacyPolicy:  "Explain data collection and usage practices",
	DocumentTypeTermsOfService: "Set rules for using a service or platform",
	DocumentTypeInsurance:      "Provide insurance coverage terms",
	DocumentTypeLoan:           "Define loan terms and repayment conditions",
}

var (
	rentalContent     = regexp.MustCompile(`(?i)(rent|lease|premises|landlord|tenant)`)
	employmentContent = regexp.MustCompile(`(?i)(employ|job|salary|wage|benefits)`)
	privacyContent    = regexp.MustCompile(`(?i)(privacy|data|personal information)`)
)

// inferDocumentPurpose maps a declared document type to its purpose,
// or guesses from content when no type was given.
func inferDocumentPurpose(content, documentType string) string {
	if documentType != "" {
		if purpose, ok := documentPurposes[documentType]; ok {
			return purpose
		}
		return "Legal agreement"
	}

	switch {
	case rentalContent.MatchString(content):
		return "Property rental agreement"
	case employmentContent.MatchString(content):
		return "Employment agreement"
	case privacyContent.MatchString(content):
		return "Privacy policy"
	default:
		return "Legal agreement"
	}
}

// fallbackResult carries basic counts and explicit unknown markers so
// callers always get a well-formed result even after a panic.
func (a *Analyzer) fallbackResult(content string) *Result {
	return &Result{
		DocumentStructure: StructureMetrics{
			TotalCharacters:   len(content),
			TotalWords:        len(strings.Fields(content)),
			PotentialSections: []string{},
		},
		Readability: ReadabilityMetrics{
			ReadingLevel:         "Unknown",
			ComplexityAssessment: "Unknown",
		},
		KeySections: []KeySection{},
		RiskAssessment: RiskAssessment{
			OverallRisk:     RiskUnknown,
			RiskFactors:     []RiskFactor{},
			Recommendations: []string{},
		},
		ImportantDates: []DateMention{},
		LegalTerms:     []TermMention{},
		Summary: DocumentSummary{
			BriefSummary:    "Document analysis temporarily unavailable",
			KeyPoints:       []string{},
			MainParties:     []string{},
			DocumentPurpose: "Unknown",
			ConfidenceScore: 0,
		},
		AnalyzedAt: time.Now().UTC(),
	}
}

// contextWindow returns the trimmed content between lo and hi, clamped
// to the content bounds.
func contextWindow(content string, lo, hi int) string {
	if lo < 0 {
		lo = 0
	}
	if hi > len(content) {
		hi = len(content)
	}
	if lo >= hi {
		return ""
	}
	return strings.TrimSpace(content[lo:hi])
}
