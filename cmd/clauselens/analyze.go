package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/clauselens/clauselens/internal/analysis"
)

// fileReport pairs an analyzed file with its result for JSON output.
type fileReport struct {
	File     string           `json:"file"`
	Analysis *analysis.Result `json:"analysis"`
}

// newAnalyzeCmd creates the analyze subcommand.
func newAnalyzeCmd() *cobra.Command {
	var (
		docType   string
		summarize bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze legal documents from local files",
		Long: `Analyze runs the full pipeline over one or more documents: structure
metrics, readability scoring, key section identification, risk
assessment, date extraction, and legal vocabulary.

With --summary and an OPENROUTER_API_KEY, the plain-language summary is
generated by the configured language model; otherwise summaries degrade
to a local placeholder.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputJSON {
				output = "json"
			}
			if output != "json" && output != "pretty" {
				return fmt.Errorf("unsupported output format: %s (want json or pretty)", output)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			simplifier := buildSimplifier(summarize)

			limits := analysis.DefaultLimits()
			limits.MaxKeySections = cfg.Analysis.MaxKeySections
			limits.MaxImportantDates = cfg.Analysis.MaxDates
			limits.MaxLegalTerms = cfg.Analysis.MaxTerms
			limits.MaxMatchesPerRisk = cfg.Analysis.MaxOccurrencesPerRisk

			analyzer := analysis.NewAnalyzer(simplifier, logger, analysis.Config{
				Limits:             limits,
				ReadabilityBackend: cfg.Analysis.Readability,
			})

			ui := NewUI(output == "json", noColor)

			if summarize && simplifier == nil {
				ui.Warning("No API key configured, summaries degrade to placeholders")
			}

			// A batch gets a determinate bar; a single summarized document
			// gets a spinner because model latency is unknown.
			var bar *mpb.Bar
			if len(args) > 1 {
				bar = ui.ProgressBar("Analyzing", int64(len(args)))
			} else if summarize && simplifier != nil {
				bar = ui.Spinner("Analyzing " + filepath.Base(args[0]))
			}

			started := time.Now()
			reports := make([]fileReport, 0, len(args))
			for _, file := range args {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}

				result := analyzer.Analyze(ctx, analysis.Input{
					Content:      string(content),
					DocumentType: docType,
				})
				reports = append(reports, fileReport{File: file, Analysis: result})

				if bar != nil && len(args) > 1 {
					bar.Increment()
				}
			}
			if bar != nil && len(args) == 1 {
				bar.SetTotal(-1, true)
			}
			ui.Close()

			if output == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if len(reports) == 1 {
					return enc.Encode(reports[0])
				}
				return enc.Encode(reports)
			}

			for _, report := range reports {
				renderResult(ui, filepath.Base(report.File), report.Analysis)
			}
			ui.Newline()
			ui.Success("Analyzed %d document(s) in %s", len(reports), FormatDuration(time.Since(started)))

			return nil
		},
	}

	cmd.Flags().StringVar(&docType, "type", "", "document type hint (contract, lease, employment, privacy_policy, terms_of_service, insurance, loan)")
	cmd.Flags().BoolVar(&summarize, "summary", false, "generate a plain-language summary via the configured language model")
	cmd.Flags().StringVar(&output, "output", "pretty", "output format (json or pretty)")

	return cmd
}

// renderResult prints the human-readable report for one document.
func renderResult(ui *UI, name string, result *analysis.Result) {
	ui.Section(name)

	ds := result.DocumentStructure
	if ds.Title != "" {
		ui.KeyValue("Title", ds.Title)
	}
	ui.KeyValue("Size", fmt.Sprintf("%d words, %d sentences, %d paragraphs",
		ds.TotalWords, ds.TotalSentences, ds.TotalParagraphs))
	ui.KeyValue("Avg sentence length", fmt.Sprintf("%.1f words", ds.AverageSentenceLength))
	if len(ds.PotentialSections) > 0 {
		ui.KeyValue("Headings", strings.Join(ds.PotentialSections, " | "))
	}

	rd := result.Readability
	ui.KeyValue("Reading level", fmt.Sprintf("%s (Flesch %.1f, grade %.1f)",
		rd.ReadingLevel, rd.FleschReadingEase, rd.FleschKincaidGrade))
	ui.KeyValue("Complexity", rd.ComplexityAssessment)

	ra := result.RiskAssessment
	ui.Newline()
	fmt.Printf("  Overall risk: %s\n", ui.Colorize(riskColor(ra.OverallRisk),
		"%s (score %d)", strings.ToUpper(string(ra.OverallRisk)), ra.RiskScore))
	for _, factor := range ra.RiskFactors {
		fmt.Printf("    %s %s\n",
			ui.Colorize(riskColor(factor.RiskLevel), "[%s]", factor.RiskLevel),
			factor.Description)
		if verbose {
			fmt.Printf("        \"%s\"\n", trimSnippet(factor.Context, 100))
		}
	}
	for _, rec := range ra.Recommendations {
		fmt.Printf("    → %s\n", rec)
	}

	if len(result.KeySections) > 0 {
		ui.Newline()
		fmt.Println("  Key sections:")
		for _, sec := range result.KeySections {
			fmt.Printf("    %s %s at byte %d\n",
				ui.Colorize(importanceColor(sec.ImportanceLevel), "[%s]", sec.ImportanceLevel),
				sec.SectionType, sec.StartPosition)
		}
	}

	if len(result.ImportantDates) > 0 {
		ui.Newline()
		fmt.Println("  Important dates:")
		rows := make([][]string, 0, len(result.ImportantDates))
		for _, d := range result.ImportantDates {
			rows = append(rows, []string{d.DateText, d.Type, trimSnippet(d.Context, 60)})
		}
		ui.Table([]string{"DATE", "TYPE", "CONTEXT"}, rows)
	}

	if len(result.LegalTerms) > 0 {
		terms := make([]string, 0, len(result.LegalTerms))
		for _, t := range result.LegalTerms {
			terms = append(terms, t.Term)
		}
		ui.Newline()
		ui.KeyValue("Legal terms", strings.Join(terms, ", "))
	}

	sum := result.Summary
	ui.Newline()
	fmt.Println("  Summary:")
	fmt.Printf("    %s\n", sum.BriefSummary)
	for _, point := range sum.KeyPoints {
		fmt.Printf("     • %s\n", point)
	}
	if sum.WhatItMeans != "" {
		ui.KeyValue("What it means", sum.WhatItMeans)
	}
	for _, flag := range sum.RedFlags {
		ui.Warning("%s", flag)
	}
	if len(sum.MainParties) > 0 {
		ui.KeyValue("Parties", strings.Join(sum.MainParties, ", "))
	}
	ui.KeyValue("Purpose", sum.DocumentPurpose)
	ui.KeyValue("Summary confidence", fmt.Sprintf("%.2f", sum.ConfidenceScore))
}

// riskColor maps a risk level to its display color.
func riskColor(level analysis.RiskLevel) *color.Color {
	switch level {
	case analysis.RiskHigh:
		return color.New(color.FgRed, color.Bold)
	case analysis.RiskMedium:
		return color.New(color.FgYellow)
	case analysis.RiskLow:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

// importanceColor maps a section importance level to its display color.
func importanceColor(level analysis.ImportanceLevel) *color.Color {
	switch level {
	case analysis.ImportanceCritical:
		return color.New(color.FgRed, color.Bold)
	case analysis.ImportanceHigh:
		return color.New(color.FgRed)
	case analysis.ImportanceMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// trimSnippet collapses whitespace and truncates a snippet for
// single-line display.
func trimSnippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
