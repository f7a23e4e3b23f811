package analysis

import "sort"

// ExtractDates finds date and deadline phrases with nearby context,
// sorted by position and capped. Every mention is typed "deadline";
// finer classification is not implemented.
func (a *Analyzer) ExtractDates(content string) []DateMention {
	dates := []DateMention{}

	for _, pattern := range a.patterns.Dates {
		for _, loc := range pattern.FindAllStringIndex(content, -1) {
			dates = append(dates, DateMention{
				DateText: content[loc[0]:loc[1]],
				Context:  contextWindow(content, loc[0]-a.limits.DateContextRadius, loc[1]+a.limits.DateContextRadius),
				Position: loc[0],
				Type:     "deadline",
			})
		}
	}

	sort.SliceStable(dates, func(i, j int) bool {
		return dates[i].Position < dates[j].Position
	})
	if len(dates) > a.limits.MaxImportantDates {
		dates = dates[:a.limits.MaxImportantDates]
	}
	return dates
}
