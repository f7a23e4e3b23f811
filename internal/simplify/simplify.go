// Package simplify provides plain-language rendering of legal text
// through an LLM-backed text-simplification service.
package simplify

import (
	"context"
	"time"
)

// Complexity levels for simplified output.
const (
	LevelElementary = "elementary"
	LevelHighSchool = "high_school"
	LevelCollege    = "college"
	LevelExpert     = "expert"
)

// Request describes one simplification call.
type Request struct {
	Text            string
	ComplexityLevel string // defaults to LevelHighSchool
	Context         string // additional instructions, e.g. a summary prompt
	DocumentType    string // optional hint (contract, lease, ...)
}

// Summary is the simplified rendering returned by the collaborator.
type Summary struct {
	SimplifiedText  string      `json:"simplified_text"`
	KeyPoints       []string    `json:"key_points"`
	WhatItMeans     string      `json:"what_it_means"`
	RedFlags        []string    `json:"red_flags"`
	ConfidenceScore float64     `json:"confidence_score"`
	LegalTermsUsed  []TermUsage `json:"legal_terms_used,omitempty"`
	ModelUsed       string      `json:"model_used"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// TermUsage pairs a legal term with its plain definition.
type TermUsage struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Simplifier defines the interface for text simplification.
type Simplifier interface {
	Simplify(ctx context.Context, req Request) (*Summary, error)
}
