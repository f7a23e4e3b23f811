// Package glossary serves curated legal-term explanations, optionally
// reworded by the simplify collaborator for a requested complexity
// level. Unknown terms are delegated to the collaborator entirely.
package glossary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/simplify"
)

// Explanation sources, most to least authoritative.
const (
	SourceDatabase         = "database"
	SourceDatabaseEnhanced = "database_enhanced"
	SourceAIGenerated      = "ai_generated"
)

// Entry is one curated glossary record.
type Entry struct {
	Term       string
	Definition string
	Simple     string
	Example    string
}

// Explanation is the reader-facing answer for one term.
type Explanation struct {
	Term             string   `json:"term"`
	Definition       string   `json:"definition"`
	SimpleDefinition string   `json:"simple_definition,omitempty"`
	Examples         []string `json:"examples"`
	ConfidenceScore  float64  `json:"confidence_score"`
	Source           string   `json:"source"`
}

// Glossary answers term lookups from the curated table, falling back
// to the simplifier for unknown terms.
type Glossary struct {
	entries    map[string]Entry
	simplifier simplify.Simplifier
	logger     *observability.Logger
}

// New creates a glossary over the built-in term table. The simplifier
// may be nil; enhancement and unknown-term definitions then degrade.
func New(simplifier simplify.Simplifier, logger *observability.Logger) *Glossary {
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{Level: "error", Output: io.Discard})
	}
	return &Glossary{
		entries:    builtinEntries(),
		simplifier: simplifier,
		logger:     logger,
	}
}

// Lookup returns the curated entry for a term, if any.
func (g *Glossary) Lookup(term string) (Entry, bool) {
	entry, ok := g.entries[strings.ToLower(strings.TrimSpace(term))]
	return entry, ok
}

// Terms lists the curated vocabulary in alphabetical order.
func (g *Glossary) Terms() []string {
	terms := make([]string, 0, len(g.entries))
	for _, e := range g.entries {
		terms = append(terms, e.Term)
	}
	sort.Strings(terms)
	return terms
}

// Explain answers a term at the requested complexity level. Curated
// terms are served directly at the default level and reworded by the
// simplifier otherwise; unknown terms are defined by the simplifier.
// Failures degrade inside the returned explanation, never as an error.
func (g *Glossary) Explain(ctx context.Context, term, complexityLevel string) (*Explanation, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("term is required")
	}
	if complexityLevel == "" {
		complexityLevel = simplify.LevelHighSchool
	}

	entry, ok := g.entries[strings.ToLower(term)]
	if !ok {
		return g.defineUnknown(ctx, term, complexityLevel), nil
	}
	if complexityLevel != simplify.LevelHighSchool {
		return g.enhance(ctx, term, entry, complexityLevel), nil
	}

	return &Explanation{
		Term:             term,
		Definition:       entry.Definition,
		SimpleDefinition: entry.Simple,
		Examples:         []string{entry.Example},
		ConfidenceScore:  0.9,
		Source:           SourceDatabase,
	}, nil
}

// enhance rewords a curated entry for a non-default complexity level.
// When the simplifier is unavailable or degrades, the curated simple
// definition is served instead.
func (g *Glossary) enhance(ctx context.Context, term string, entry Entry, complexityLevel string) *Explanation {
	out := &Explanation{
		Term:             term,
		Definition:       entry.Simple,
		SimpleDefinition: entry.Simple,
		Examples:         []string{entry.Example},
		ConfidenceScore:  0.8,
		Source:           SourceDatabaseEnhanced,
	}
	if g.simplifier == nil {
		return out
	}

	text := fmt.Sprintf("Legal term: %s\nDefinition: %s\nExample: %s", term, entry.Definition, entry.Example)
	sum, err := g.simplifier.Simplify(ctx, simplify.Request{
		Text:            text,
		ComplexityLevel: complexityLevel,
	})
	if err != nil || sum == nil || sum.ConfidenceScore == 0 {
		if err != nil {
			g.logger.Warn().Err(err).Str("term", term).Msg("glossary enhancement failed, serving curated entry")
		}
		return out
	}

	if sum.SimplifiedText != "" {
		out.Definition = sum.SimplifiedText
	}
	out.ConfidenceScore = sum.ConfidenceScore
	return out
}

// defineUnknown asks the simplifier to define a term we do not carry.
// Failure yields a low-confidence not-found answer.
func (g *Glossary) defineUnknown(ctx context.Context, term, complexityLevel string) *Explanation {
	out := &Explanation{
		Term:            term,
		Definition:      fmt.Sprintf("Definition for '%s' not found", term),
		Examples:        []string{},
		ConfidenceScore: 0,
		Source:          SourceAIGenerated,
	}
	if g.simplifier == nil {
		return out
	}

	prompt := fmt.Sprintf("Define the legal term '%s' and provide a simple explanation and example.", term)
	sum, err := g.simplifier.Simplify(ctx, simplify.Request{
		Text:            prompt,
		ComplexityLevel: complexityLevel,
	})
	if err != nil || sum == nil || sum.ConfidenceScore == 0 {
		if err != nil {
			g.logger.Warn().Err(err).Str("term", term).Msg("glossary definition failed")
		}
		return out
	}

	if sum.SimplifiedText != "" {
		out.Definition = sum.SimplifiedText
	}
	out.SimpleDefinition = sum.WhatItMeans
	if len(sum.KeyPoints) > 0 {
		out.Examples = sum.KeyPoints
	}
	out.ConfidenceScore = sum.ConfidenceScore
	return out
}

// builtinEntries returns the curated table: the classic explainers plus
// the extraction vocabulary.
func builtinEntries() map[string]Entry {
	entries := []Entry{
		{
			Term:       "indemnify",
			Definition: "To compensate someone for harm or loss",
			Simple:     "Pay for any damage or losses you cause",
			Example:    "If you break something, you'll pay to fix it",
		},
		{
			Term:       "liability",
			Definition: "Legal responsibility for something",
			Simple:     "Being responsible when something goes wrong",
			Example:    "If you cause an accident, you're liable for the damages",
		},
		{
			Term:       "arbitration",
			Definition: "Settling disputes outside of court with a neutral party",
			Simple:     "Having someone else decide your dispute instead of going to court",
			Example:    "Instead of suing, you both agree to let a mediator decide",
		},
		{
			Term:       "force majeure",
			Definition: "Unforeseeable circumstances preventing contract fulfillment",
			Simple:     "Events beyond anyone's control that make contracts impossible to complete",
			Example:    "Natural disasters, wars, or pandemics that stop business",
		},
		{
			Term:       "indemnification",
			Definition: "The obligation to compensate another party for harm or loss",
			Simple:     "A promise to cover someone else's costs if things go wrong",
			Example:    "The contractor pays the owner's legal bills for injury claims on site",
		},
		{
			Term:       "liquidated damages",
			Definition: "A fixed sum agreed in advance as compensation for a breach",
			Simple:     "A pre-agreed penalty amount written into the contract",
			Example:    "Pay $200 per day for every day the delivery is late",
		},
		{
			Term:       "breach",
			Definition: "Failure to perform an obligation required by a contract",
			Simple:     "Breaking a promise the contract requires",
			Example:    "Missing a payment deadline is a breach of the agreement",
		},
		{
			Term:       "default",
			Definition: "Failure to meet a legal obligation, often a payment",
			Simple:     "Not doing what the contract says, like missing payments",
			Example:    "Skipping two loan payments puts the borrower in default",
		},
		{
			Term:       "waiver",
			Definition: "Voluntarily giving up a known right or claim",
			Simple:     "Agreeing not to use a right you would normally have",
			Example:    "Signing away your right to sue after an accident",
		},
		{
			Term:       "severability",
			Definition: "Keeping the rest of a contract valid when one clause fails",
			Simple:     "If one part of the contract is struck down, the rest still applies",
			Example:    "A court voids one clause but enforces the remaining terms",
		},
		{
			Term:       "intellectual property",
			Definition: "Creations of the mind protected by law, such as inventions and works",
			Simple:     "Ideas and creations that someone legally owns",
			Example:    "A company logo is protected intellectual property",
		},
		{
			Term:       "confidentiality",
			Definition: "The duty to keep designated information secret",
			Simple:     "Keeping private information private",
			Example:    "An employee may not share customer lists with competitors",
		},
		{
			Term:       "non-disclosure",
			Definition: "An agreement not to reveal specified information",
			Simple:     "A written promise not to share secrets",
			Example:    "Signing an NDA before seeing a product prototype",
		},
		{
			Term:       "governing law",
			Definition: "The jurisdiction whose law controls the interpretation of the contract",
			Simple:     "Which state's or country's rules apply to the contract",
			Example:    "This agreement is governed by the laws of Delaware",
		},
		{
			Term:       "jurisdiction",
			Definition: "The authority of a court to hear and decide a case",
			Simple:     "Which court gets to decide your dispute",
			Example:    "A Texas dispute clause keeps the case out of New York courts",
		},
		{
			Term:       "covenant",
			Definition: "A formal promise within a contract to do or not do something",
			Simple:     "A binding promise inside the agreement",
			Example:    "A covenant not to compete after leaving the company",
		},
		{
			Term:       "warranty",
			Definition: "A promise that a fact or condition is true, with remedies if it is not",
			Simple:     "A guarantee about quality or condition",
			Example:    "The seller warrants the car has never been in an accident",
		},
		{
			Term:       "representations",
			Definition: "Statements of fact made to induce another party to enter a contract",
			Simple:     "Claims of fact you rely on when signing",
			Example:    "The seller represents that the business has no pending lawsuits",
		},
		{
			Term:       "assignment",
			Definition: "Transferring contract rights or duties to another party",
			Simple:     "Handing your side of the contract to someone else",
			Example:    "A landlord assigns the lease payments to a new owner",
		},
	}

	table := make(map[string]Entry, len(entries))
	for _, e := range entries {
		table[strings.ToLower(e.Term)] = e
	}
	return table
}
