package simplify

import "strings"

// complexityPrompts maps each complexity level to its instruction.
var complexityPrompts = map[string]string{
	LevelElementary: "Explain this like you're talking to a 5th grader. Use simple words and short sentences.",
	LevelHighSchool: "Explain this in plain English that a high school student would understand.",
	LevelCollege:    "Provide a clear explanation with some technical detail, suitable for a college-level reader.",
	LevelExpert:     "Provide a comprehensive explanation maintaining legal precision while improving clarity.",
}

// documentGuidance maps a document type to simplification guidance.
var documentGuidance = map[string]string{
	"contract":         "Focus on obligations, payment terms, cancellation rights, and penalties.",
	"lease":            "Emphasize rent, deposits, maintenance responsibilities, and termination conditions.",
	"employment":       "Highlight job duties, compensation, benefits, termination clauses, and non-compete terms.",
	"privacy_policy":   "Explain data collection, usage, sharing, and user rights clearly.",
	"terms_of_service": "Focus on user rights, restrictions, liability, and account termination.",
	"insurance":        "Clarify coverage, exclusions, deductibles, and claim procedures.",
	"loan":             "Emphasize interest rates, payment schedules, penalties, and default consequences.",
}

const defaultGuidance = "Focus on key obligations, rights, and important terms."

// GuidanceFor returns the simplification guidance for a document type.
func GuidanceFor(documentType string) string {
	if g, ok := documentGuidance[documentType]; ok {
		return g
	}
	return defaultGuidance
}

// buildSystemPrompt assembles the system prompt for a simplification call.
func buildSystemPrompt(complexityLevel, documentType string) string {
	levelPrompt, ok := complexityPrompts[complexityLevel]
	if !ok {
		levelPrompt = complexityPrompts[LevelHighSchool]
	}

	var b strings.Builder
	b.WriteString("You are a legal expert specializing in making legal documents accessible to everyone.\n\n")
	b.WriteString("Your task is to translate complex legal language into clear, understandable text while maintaining accuracy.\n\n")
	b.WriteString("Complexity Level: ")
	b.WriteString(levelPrompt)
	b.WriteString("\n\n")
	b.WriteString(`Guidelines:
1. Maintain legal accuracy - never change the meaning
2. Replace legal jargon with everyday terms
3. Break down complex sentences into shorter ones
4. Explain obligations and rights clearly
5. Highlight important deadlines and consequences
6. Point out potential risks or red flags
7. Use active voice when possible
8. Provide specific examples when helpful

`)

	if documentType != "" {
		b.WriteString("Document Type: ")
		b.WriteString(documentType)
		b.WriteString("\n")
		b.WriteString(GuidanceFor(documentType))
		b.WriteString("\n")
	}

	b.WriteString(`
Response Format (JSON):
{
    "simplified_text": "The simplified version of the legal text",
    "key_points": ["bullet point 1", "bullet point 2"],
    "what_it_means": "What this means for the reader in practical terms",
    "red_flags": ["potential issue 1", "potential issue 2"],
    "confidence_score": 0.85,
    "legal_terms_used": [{"term": "legal term", "definition": "simple definition"}]
}

Return ONLY the JSON object, with no surrounding prose or code fences.`)

	return b.String()
}

// buildUserPrompt assembles the user prompt with the text and optional context.
func buildUserPrompt(text, context string) string {
	prompt := "Please simplify this legal text:\n\n" + text
	if context != "" {
		prompt += "\n\nAdditional Context: " + context
	}
	return prompt
}
