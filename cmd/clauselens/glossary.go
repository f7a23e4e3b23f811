package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clauselens/clauselens/internal/glossary"
)

// newGlossaryCmd creates the glossary subcommand.
func newGlossaryCmd() *cobra.Command {
	var complexity string

	cmd := &cobra.Command{
		Use:   "glossary [term]",
		Short: "Explain a legal term in plain language",
		Long: `Glossary looks up a legal term in the curated vocabulary and prints a
plain-language explanation. Unknown terms are defined by the configured
language model when an OPENROUTER_API_KEY is set.

Run without arguments to list the curated vocabulary.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			gloss := glossary.New(buildSimplifier(true), logger)
			ui := NewUI(outputJSON, noColor)
			defer ui.Close()

			if len(args) == 0 {
				terms := gloss.Terms()
				if outputJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(map[string]interface{}{
						"terms": terms,
						"count": len(terms),
					})
				}

				ui.Section("Glossary")
				for _, term := range terms {
					fmt.Printf("  • %s\n", term)
				}
				ui.Newline()
				ui.Info("%d curated terms. Run 'clauselens glossary <term>' for an explanation.", len(terms))
				return nil
			}

			explanation, err := gloss.Explain(ctx, args[0], complexity)
			if err != nil {
				return fmt.Errorf("explain term: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(explanation)
			}

			ui.Section(explanation.Term)
			ui.KeyValue("Definition", explanation.Definition)
			if explanation.SimpleDefinition != "" {
				ui.KeyValue("In plain words", explanation.SimpleDefinition)
			}
			for _, example := range explanation.Examples {
				if example != "" {
					fmt.Printf("    e.g. %s\n", example)
				}
			}
			ui.KeyValue("Source", explanation.Source)
			ui.KeyValue("Confidence", fmt.Sprintf("%.2f", explanation.ConfidenceScore))

			if explanation.Source == glossary.SourceAIGenerated && explanation.ConfidenceScore == 0 {
				ui.Warning("Term not in the curated vocabulary and no language model is configured.")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&complexity, "complexity", "", "explanation complexity (elementary, high_school, college, expert)")

	return cmd
}
