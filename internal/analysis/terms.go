package analysis

// ExtractLegalTerms reports the first occurrence of each vocabulary
// term, in vocabulary order, capped. The reported term keeps the
// casing found in the document.
func (a *Analyzer) ExtractLegalTerms(content string) []TermMention {
	terms := []TermMention{}

	for _, tp := range a.patterns.Terms {
		loc := tp.Pattern.FindStringIndex(content)
		if loc == nil {
			continue
		}
		terms = append(terms, TermMention{
			Term:     content[loc[0]:loc[1]],
			Context:  contextWindow(content, loc[0]-a.limits.TermContextRadius, loc[1]+a.limits.TermContextRadius),
			Position: loc[0],
		})
	}

	if len(terms) > a.limits.MaxLegalTerms {
		terms = terms[:a.limits.MaxLegalTerms]
	}
	return terms
}
