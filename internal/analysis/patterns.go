package analysis

import "regexp"

// SectionPattern pairs a section category with the expression that
// detects it. Order matters: ties in start position keep table order.
type SectionPattern struct {
	Type    SectionType
	Pattern *regexp.Regexp
}

// RiskPattern pairs a risk category with its detection expression,
// base severity and reader-facing description.
type RiskPattern struct {
	Type        RiskType
	Pattern     *regexp.Regexp
	BaseScore   int
	Description string
}

// TermPattern matches one vocabulary term as a whole word.
type TermPattern struct {
	Term    string
	Pattern *regexp.Regexp
}

// RecommendationRule emits advice when a risk type was detected.
type RecommendationRule struct {
	Trigger RiskType
	Advice  string
}

// Patterns is the immutable pattern configuration for an Analyzer.
// Build it once with DefaultPatterns; tests may substitute smaller or
// deliberately broken tables.
type Patterns struct {
	Sections        []SectionPattern
	Risks           []RiskPattern
	Dates           []*regexp.Regexp
	Terms           []TermPattern
	Recommendations []RecommendationRule

	// ManyRisksAdvice is appended when more than ManyRisksThreshold
	// risk factors were reported.
	ManyRisksThreshold int
	ManyRisksAdvice    string
}

// Limits bounds result sizes and context windows. Zero values are
// replaced with DefaultLimits at construction.
type Limits struct {
	MaxKeySections       int
	MaxImportantDates    int
	MaxLegalTerms        int
	MaxMatchesPerRisk    int
	MaxRecommendations   int
	MaxPotentialSections int
	MaxParties           int
	MaxPartiesPerPattern int

	// Context windows in bytes around a match.
	SectionContextBefore int
	SectionContextAfter  int
	RiskContextRadius    int
	DateContextRadius    int
	TermContextRadius    int

	// SummaryPreviewBytes caps how much content is sent for
	// summarization; PartyScanBytes caps the party scan.
	SummaryPreviewBytes int
	PartyScanBytes      int
}

// DefaultLimits returns the standard result caps and context windows.
func DefaultLimits() Limits {
	return Limits{
		MaxKeySections:       20,
		MaxImportantDates:    10,
		MaxLegalTerms:        15,
		MaxMatchesPerRisk:    3,
		MaxRecommendations:   5,
		MaxPotentialSections: 10,
		MaxParties:           5,
		MaxPartiesPerPattern: 2,
		SectionContextBefore: 200,
		SectionContextAfter:  500,
		RiskContextRadius:    100,
		DateContextRadius:    50,
		TermContextRadius:    100,
		SummaryPreviewBytes:  2000,
		PartyScanBytes:       1000,
	}
}

// DefaultPatterns returns the standard legal-document pattern tables.
func DefaultPatterns() *Patterns {
	return &Patterns{
		Sections: []SectionPattern{
			{SectionDefinitions, regexp.MustCompile(`(?i)(definitions?|defined terms?)`)},
			{SectionObligations, regexp.MustCompile(`(?i)(obligations?|duties|responsibilities|shall|must)`)},
			{SectionRights, regexp.MustCompile(`(?i)(rights?|entitled|may|authorized)`)},
			{SectionTermination, regexp.MustCompile(`(?i)(termination|terminate|end|expir|cancel)`)},
			{SectionPayment, regexp.MustCompile(`(?i)(payment|fee|cost|charge|price|amount)`)},
			{SectionLiability, regexp.MustCompile(`(?i)(liability|liable|responsible|damages)`)},
			{SectionDispute, regexp.MustCompile(`(?i)(dispute|arbitration|litigation|court|legal action)`)},
			{SectionPrivacy, regexp.MustCompile(`(?i)(privacy|confidential|personal information|data)`)},
			{SectionIntellectualProperty, regexp.MustCompile(`(?i)(intellectual property|copyright|trademark|patent)`)},
			{SectionForceMajeure, regexp.MustCompile(`(?i)(force majeure|act of god|unforeseeable)`)},
		},
		Risks: []RiskPattern{
			{RiskAutomaticRenewal, regexp.MustCompile(`(?i)(automatic|auto).{0,50}(renew|extend)`), 2,
				"Contract may automatically renew without notice"},
			{RiskPenaltyClauses, regexp.MustCompile(`(?i)(penalty|fine|liquidated damages)`), 2,
				"Contains penalty or fine provisions"},
			{RiskBroadLiability, regexp.MustCompile(`(?i)(unlimited liability|all damages|any loss)`), 3,
				"Broad or unlimited liability exposure"},
			{RiskIndemnification, regexp.MustCompile(`(?i)(indemnif|hold harmless)`), 2,
				"Requires you to pay for others' losses"},
			{RiskWaiverOfRights, regexp.MustCompile(`(?i)(waive|waiver).{0,30}(right|claim)`), 3,
				"You may be giving up important rights"},
			{RiskBindingArbitration, regexp.MustCompile(`(?i)(binding arbitration|mandatory arbitration)`), 3,
				"Disputes must be resolved through arbitration"},
			{RiskChoiceOfLaw, regexp.MustCompile(`(?i)(governed by|choice of law|applicable law)`), 1,
				"Different state/country laws may apply"},
			{RiskAttorneyFees, regexp.MustCompile(`(?i)(attorney.{0,10}fee|legal fee|court cost)`), 1,
				"You may have to pay the other party's legal costs"},
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(due|expires?|expiration|deadline|by|before|within)\s+(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}-\d{1,2}-\d{2,4}|\w+\s+\d{1,2},?\s+\d{4})`),
			regexp.MustCompile(`(?i)(\d{1,2})\s+(days?|weeks?|months?|years?)\s+(from|after|before)`),
			regexp.MustCompile(`(?i)(annually|monthly|quarterly|weekly)\s+(on|by)`),
		},
		Terms: termPatterns(
			"indemnify", "indemnification", "liability", "arbitration", "force majeure",
			"liquidated damages", "breach", "default", "waiver", "severability",
			"intellectual property", "confidentiality", "non-disclosure", "governing law",
			"jurisdiction", "covenant", "warranty", "representations", "assignment",
		),
		Recommendations: []RecommendationRule{
			{RiskBroadLiability, "Consider negotiating liability caps or limitations"},
			{RiskAutomaticRenewal, "Set calendar reminders before renewal dates"},
			{RiskBindingArbitration, "Understand that you cannot take disputes to court"},
			{RiskWaiverOfRights, "Carefully review what rights you're giving up"},
		},
		ManyRisksThreshold: 5,
		ManyRisksAdvice:    "Consider having a lawyer review this document",
	}
}

// termPatterns compiles whole-word, case-insensitive matchers for the
// vocabulary, preserving the given order.
func termPatterns(terms ...string) []TermPattern {
	out := make([]TermPattern, 0, len(terms))
	for _, term := range terms {
		out = append(out, TermPattern{
			Term:    term,
			Pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}
	return out
}
