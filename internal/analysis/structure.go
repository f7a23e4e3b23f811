package analysis

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Heading detection: numbered clauses ("3. Termination") or lines that
// start with a capital and contain no lowercase letters.
var (
	numberedHeading = regexp.MustCompile(`^\d+\.`)
	capitalHeading  = regexp.MustCompile(`^[A-Z][^a-z]*$`)
)

// AnalyzeStructure computes size and organization metrics. Sentences
// are naive period splits and words are whitespace fields; the counts
// are indicative, not linguistic.
func (a *Analyzer) AnalyzeStructure(content string) StructureMetrics {
	if content == "" {
		return StructureMetrics{PotentialSections: []string{}}
	}

	sentences := strings.Split(content, ".")
	wordCount := len(strings.Fields(content))

	paragraphCount := 0
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphCount++
		}
	}

	metrics := StructureMetrics{
		TotalCharacters:   len(content),
		TotalWords:        wordCount,
		TotalSentences:    len(sentences),
		TotalParagraphs:   paragraphCount,
		PotentialSections: []string{},
	}
	if len(sentences) > 0 {
		metrics.AverageSentenceLength = float64(wordCount) / float64(len(sentences))
	}
	if paragraphCount > 0 {
		metrics.AverageParagraphLength = float64(wordCount) / float64(paragraphCount)
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isHeadingLine(line) {
			if len(metrics.PotentialSections) < a.limits.MaxPotentialSections {
				metrics.PotentialSections = append(metrics.PotentialSections, line)
			}
			continue
		}
		if metrics.Title == "" && utf8.RuneCountInString(line) > 10 {
			metrics.Title = line
		}
	}

	return metrics
}

func isHeadingLine(line string) bool {
	return isUpperLine(line) || numberedHeading.MatchString(line) || capitalHeading.MatchString(line)
}

// isUpperLine reports whether the line contains at least one letter
// and no lowercase letters.
func isUpperLine(line string) bool {
	hasUpper := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
