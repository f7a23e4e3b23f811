package analysis

import (
	"regexp"
	"strings"
)

// Readability backend names accepted by Config.ReadabilityBackend.
const (
	ReadabilityFlesch    = "flesch"
	ReadabilityHeuristic = "heuristic"
)

// readabilityScorer produces raw Flesch reading-ease and grade-level
// scores for a text.
type readabilityScorer interface {
	score(content string) (ease, grade float64)
}

// AnalyzeReadability scores the document with the configured backend
// and buckets the result into a reading level and complexity label.
// Scorer failure degrades to an unknown, high-complexity assessment.
func (a *Analyzer) AnalyzeReadability(content string) (metrics ReadabilityMetrics) {
	defer func() {
		if r := recover(); r != nil {
			metrics = ReadabilityMetrics{
				FleschReadingEase:    0,
				FleschKincaidGrade:   12,
				ReadingLevel:         "Unknown",
				ComplexityAssessment: "High",
			}
		}
	}()

	ease, grade := a.scorer.score(content)
	return ReadabilityMetrics{
		FleschReadingEase:    ease,
		FleschKincaidGrade:   grade,
		ReadingLevel:         readingLevelFor(ease),
		ComplexityAssessment: complexityFor(ease),
	}
}

func readingLevelFor(ease float64) string {
	switch {
	case ease >= 90:
		return "Very Easy (5th grade)"
	case ease >= 80:
		return "Easy (6th grade)"
	case ease >= 70:
		return "Fairly Easy (7th grade)"
	case ease >= 60:
		return "Standard (8th-9th grade)"
	case ease >= 50:
		return "Fairly Difficult (10th-12th grade)"
	case ease >= 30:
		return "Difficult (College level)"
	default:
		return "Very Difficult (Graduate level)"
	}
}

func complexityFor(ease float64) string {
	switch {
	case ease < 50:
		return "High"
	case ease < 70:
		return "Medium"
	default:
		return "Low"
	}
}

// fleschScorer implements the Flesch reading-ease and Flesch-Kincaid
// grade formulas with a vowel-group syllable estimate.
type fleschScorer struct{}

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

func (fleschScorer) score(content string) (float64, float64) {
	words := strings.Fields(content)
	if len(words) == 0 {
		return 0, 0
	}

	sentences := len(sentenceEnd.FindAllString(content, -1))
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	ease := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	return ease, grade
}

// countSyllables estimates syllables as vowel groups, discounting a
// trailing silent e. Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(word)

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

// heuristicScorer estimates readability from average sentence length
// alone. Useful where the full formula is too strict for fragmentary
// text, and as a cheap comparison backend.
type heuristicScorer struct{}

func (heuristicScorer) score(content string) (float64, float64) {
	sentences := strings.Split(content, ".")
	words := strings.Fields(content)

	avgSentenceLength := 0.0
	if len(sentences) > 0 {
		avgSentenceLength = float64(len(words)) / float64(len(sentences))
	}

	switch {
	case avgSentenceLength < 10:
		return 80, 6
	case avgSentenceLength < 20:
		return 60, 10
	default:
		return 30, 14
	}
}
