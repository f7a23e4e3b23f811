package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLegalTerms_VocabularyOrder(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})

	// "breach" appears first in the text but "liability" comes first
	// in the vocabulary.
	content := "A breach occurs when liability arises."
	terms := a.ExtractLegalTerms(content)

	require.Len(t, terms, 2)
	assert.Equal(t, "liability", terms[0].Term)
	assert.Equal(t, "breach", terms[1].Term)
	assert.Equal(t, strings.Index(content, "liability"), terms[0].Position)
}

func TestExtractLegalTerms_FirstOccurrenceOnly(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})

	content := "Liability here, liability there, liability everywhere."
	terms := a.ExtractLegalTerms(content)

	require.Len(t, terms, 1)
	assert.Equal(t, "Liability", terms[0].Term, "casing from the document is kept")
	assert.Equal(t, 0, terms[0].Position)
}

func TestExtractLegalTerms_WholeWordOnly(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})

	assert.Empty(t, a.ExtractLegalTerms("The reliability of the system matters."))
}

func TestExtractLegalTerms_MultiWordTerms(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})

	terms := a.ExtractLegalTerms("Delays caused by force majeure are excused.")

	require.Len(t, terms, 1)
	assert.Equal(t, "force majeure", terms[0].Term)
}

func TestExtractLegalTerms_ContextWindow(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})

	content := strings.Repeat("x", 150) + " warranty " + strings.Repeat("y", 150)
	terms := a.ExtractLegalTerms(content)

	require.Len(t, terms, 1)
	assert.Equal(t, 151, terms[0].Position)
	assert.Contains(t, terms[0].Context, "warranty")
	assert.Len(t, terms[0].Context, 208)
}

func TestExtractLegalTerms_Capped(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxLegalTerms = 2
	a := NewAnalyzer(nil, nil, Config{Limits: limits})

	terms := a.ExtractLegalTerms("breach of covenant voids the warranty")

	assert.Len(t, terms, 2)
}

func TestExtractLegalTerms_Empty(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})
	assert.Empty(t, a.ExtractLegalTerms(""))
}
