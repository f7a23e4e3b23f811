package analysis

// Severity scale bound and aggregate score thresholds.
const (
	maxRiskLevel    = 5
	highRiskScore   = 15
	mediumRiskScore = 8
)

// AssessRisks scans for risk patterns, grades each detected type by
// base severity and occurrence count, and aggregates an overall level
// with recommendations.
func (a *Analyzer) AssessRisks(content string) RiskAssessment {
	factors := []RiskFactor{}
	score := 0

	for _, rp := range a.patterns.Risks {
		locs := rp.Pattern.FindAllStringIndex(content, -1)
		if len(locs) == 0 {
			continue
		}

		level := riskLevel(rp.BaseScore, len(locs))
		score += level
		label := riskLabel(level)

		if len(locs) > a.limits.MaxMatchesPerRisk {
			locs = locs[:a.limits.MaxMatchesPerRisk]
		}
		for _, loc := range locs {
			factors = append(factors, RiskFactor{
				RiskType:    rp.Type,
				RiskLevel:   label,
				Description: rp.Description,
				Context:     contextWindow(content, loc[0]-a.limits.RiskContextRadius, loc[1]+a.limits.RiskContextRadius),
				Position:    loc[0],
			})
		}
	}

	overall := RiskLow
	switch {
	case score >= highRiskScore:
		overall = RiskHigh
	case score >= mediumRiskScore:
		overall = RiskMedium
	}

	return RiskAssessment{
		OverallRisk:     overall,
		RiskScore:       score,
		RiskFactors:     factors,
		Recommendations: a.riskRecommendations(factors),
	}
}

// riskLevel grades one risk type: base severity plus one per extra
// occurrence, capped at maxRiskLevel.
func riskLevel(base, occurrences int) int {
	level := base + occurrences - 1
	if level > maxRiskLevel {
		level = maxRiskLevel
	}
	return level
}

func riskLabel(level int) RiskLevel {
	switch {
	case level >= 3:
		return RiskHigh
	case level >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// riskRecommendations emits rule-table advice for the detected risk
// types, in table order, plus the lawyer-review suggestion when many
// factors were reported.
func (a *Analyzer) riskRecommendations(factors []RiskFactor) []string {
	present := make(map[RiskType]bool, len(factors))
	for _, f := range factors {
		present[f.RiskType] = true
	}

	recommendations := []string{}
	for _, rule := range a.patterns.Recommendations {
		if present[rule.Trigger] {
			recommendations = append(recommendations, rule.Advice)
		}
	}
	if len(factors) > a.patterns.ManyRisksThreshold && a.patterns.ManyRisksAdvice != "" {
		recommendations = append(recommendations, a.patterns.ManyRisksAdvice)
	}
	if len(recommendations) > a.limits.MaxRecommendations {
		recommendations = recommendations[:a.limits.MaxRecommendations]
	}
	return recommendations
}
