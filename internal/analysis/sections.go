package analysis

import "sort"

// IdentifyKeySections finds every section-pattern match with its
// surrounding context, sorted by start position and capped. Pattern
// table order breaks position ties.
func (a *Analyzer) IdentifyKeySections(content, documentType string) []KeySection {
	sections := []KeySection{}

	for _, sp := range a.patterns.Sections {
		for _, loc := range sp.Pattern.FindAllStringIndex(content, -1) {
			start := loc[0]
			sections = append(sections, KeySection{
				SectionType:     sp.Type,
				Content:         contextWindow(content, start-a.limits.SectionContextBefore, start+a.limits.SectionContextAfter),
				StartPosition:   start,
				ImportanceLevel: SectionImportance(sp.Type, documentType),
				MatchText:       content[loc[0]:loc[1]],
			})
		}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].StartPosition < sections[j].StartPosition
	})
	if len(sections) > a.limits.MaxKeySections {
		sections = sections[:a.limits.MaxKeySections]
	}
	return sections
}

// SectionImportance grades a section type, with document-type overrides
// for the clauses that matter most in that kind of document.
func SectionImportance(sectionType SectionType, documentType string) ImportanceLevel {
	switch documentType {
	case DocumentTypeEmployment:
		switch sectionType {
		case SectionObligations, SectionTermination, SectionPayment:
			return ImportanceCritical
		}
	case DocumentTypeLease:
		switch sectionType {
		case SectionPayment, SectionTermination, SectionObligations:
			return ImportanceCritical
		}
	case DocumentTypePrivacyPolicy:
		switch sectionType {
		case SectionPrivacy, SectionRights:
			return ImportanceCritical
		}
	}

	switch sectionType {
	case SectionObligations, SectionTermination, SectionPayment, SectionLiability:
		return ImportanceHigh
	case SectionRights, SectionDispute, SectionDefinitions:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}
