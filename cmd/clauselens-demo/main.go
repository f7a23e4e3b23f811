// Package main provides an interactive terminal demo of ClauseLens.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"

	"github.com/clauselens/clauselens/internal/analysis"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/simplify"
	"github.com/clauselens/clauselens/internal/storage"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// demoLease is the bundled sample document. It deliberately trips most
// of the risk and vocabulary patterns so the walkthrough has something
// to show.
const demoLease = `Residential Lease Agreement

This Residential Lease Agreement is made between Juniper Property Management LLC (the "Landlord") and the undersigned tenant (the "Tenant") for the premises at 12 Juniper Lane, Apartment 4B.

1. TERM AND RENEWAL
The initial term begins September 1, 2026 and expires August 31, 2027. This lease will automatically renew for successive one year terms unless either party delivers written notice at least 60 days before the expiration date.

2. RENT AND LATE FEES
Tenant shall pay rent of $1,950, due monthly on the first day of each month. Payments received more than three days late incur a penalty of $75, and returned checks incur an additional charge.

3. SECURITY DEPOSIT
A security deposit of $1,950 is due by September 1, 2026. The Landlord may apply the deposit to any loss, damage, or unpaid amount caused by the Tenant and shall return the balance within 30 days after the lease ends.

4. TENANT OBLIGATIONS
The Tenant must keep the premises clean and shall not sublet without prior written consent. Any breach of these obligations is a default under this lease.

5. LIABILITY AND INDEMNIFICATION
The Tenant agrees to indemnify and hold harmless the Landlord from any loss, claim, or liability arising from the Tenant's use of the premises, including reasonable attorney fees.

6. DISPUTES AND GOVERNING LAW
Any dispute under this lease shall be resolved through binding arbitration, and the Tenant waives the right to a jury trial. This agreement is governed by the laws of the State of Oregon, and jurisdiction lies with its courts.

7. MISCELLANEOUS
If any provision is held invalid, the remainder survives under the severability clause. No waiver of any term is a continuing waiver. This lease is not subject to force majeure extensions except as required by law.
`

type demoSession struct {
	analyzer *analysis.Analyzer
	document *storage.Document
	result   *analysis.Result
}

func main() {
	printBanner()

	ctx := context.Background()
	logger := observability.NewLogger(observability.LogConfig{
		Level:       "warn",
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: "clauselens-demo",
	})

	// Initialize database
	dbPath := filepath.Join(os.TempDir(), "clauselens_demo.db")
	fmt.Printf("%sInitializing database at: %s%s\n", colorCyan, dbPath, colorReset)

	db, err := storage.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL")
	if err != nil {
		fmt.Printf("%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db, "sqlite3"); err != nil {
		fmt.Printf("%sError running migrations: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	repos := storage.NewRepositories(db)
	doc, err := loadOrStoreSample(ctx, repos)
	if err != nil {
		fmt.Printf("%sError storing sample document: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	session := &demoSession{
		analyzer: analysis.NewAnalyzer(pickSimplifier(), logger, analysis.Config{}),
		document: doc,
	}

	session.runAnalysis(ctx)

	if err := persistAnalysis(ctx, repos, session); err != nil {
		fmt.Printf("%sWarning: could not persist analysis: %v%s\n", colorYellow, err, colorReset)
	}

	session.printReport()
	session.menu()
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════════╗
║                                                               ║
║   📄  ClauseLens Interactive Demo                             ║
║                                                               ║
║   Plain-language analysis of a sample rental lease            ║
║                                                               ║
╚═══════════════════════════════════════════════════════════════╝
`
	fmt.Println(colorCyan + banner + colorReset)
}

// loadOrStoreSample reuses the stored demo document from a previous run
// or inserts the bundled sample.
func loadOrStoreSample(ctx context.Context, repos *storage.Repositories) (*storage.Document, error) {
	docs, err := repos.Documents.List(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		fmt.Printf("%s✓ Found existing demo document%s\n", colorGreen, colorReset)
		return docs[0], nil
	}

	doc := &storage.Document{
		Title:        "Residential Lease Agreement",
		DocumentType: analysis.DocumentTypeLease,
		Content:      demoLease,
	}
	if err := repos.Documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	fmt.Printf("%s✓ Stored the sample lease (%d bytes)%s\n", colorGreen, doc.SizeBytes, colorReset)
	return doc, nil
}

// pickSimplifier returns a real language-model client when a key is
// available, otherwise a scripted stand-in so the demo still shows a
// complete summary.
func pickSimplifier() simplify.Simplifier {
	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
		client, err := simplify.NewClient(simplify.Config{APIKey: apiKey})
		if err == nil {
			fmt.Printf("%s✓ Using OpenRouter for plain-language summaries%s\n", colorGreen, colorReset)
			return simplify.NewGuarded(client, 30*time.Second, nil)
		}
	}

	fmt.Printf("%s⚠ Using scripted summaries (set OPENROUTER_API_KEY for model-generated ones)%s\n", colorYellow, colorReset)
	return &simplify.Mock{Response: scriptedSummary()}
}

func scriptedSummary() *simplify.Summary {
	return &simplify.Summary{
		SimplifiedText: "You are renting the apartment at 12 Juniper Lane for one year at $1,950 per month. The lease renews by itself unless you give 60 days written notice, and late rent costs extra.",
		KeyPoints: []string{
			"Rent is $1,950 due on the first of each month",
			"The lease automatically renews unless you give 60 days written notice",
			"Late payments add a $75 penalty after a three day grace period",
			"You must cover the landlord's losses and legal costs in most disputes",
		},
		WhatItMeans: "Mark the notice deadline on your calendar; missing it commits you to another full year.",
		RedFlags: []string{
			"Automatic renewal with a 60 day notice window",
			"Binding arbitration replaces your right to go to court",
		},
		ConfidenceScore: 0.85,
		ModelUsed:       "demo-script",
		GeneratedAt:     time.Now().UTC(),
	}
}

// runAnalysis walks the deterministic pattern passes behind a progress
// bar, then generates the summary behind a spinner since model latency
// is unknown.
func (s *demoSession) runAnalysis(ctx context.Context) {
	content := s.document.Content
	docType := s.document.DocumentType
	result := &analysis.Result{AnalyzedAt: time.Now().UTC()}

	passes := []struct {
		name string
		run  func()
	}{
		{"document structure", func() { result.DocumentStructure = s.analyzer.AnalyzeStructure(content) }},
		{"readability", func() { result.Readability = s.analyzer.AnalyzeReadability(content) }},
		{"key sections", func() { result.KeySections = s.analyzer.IdentifyKeySections(content, docType) }},
		{"risk assessment", func() { result.RiskAssessment = s.analyzer.AssessRisks(content) }},
		{"important dates", func() { result.ImportantDates = s.analyzer.ExtractDates(content) }},
		{"legal terms", func() { result.LegalTerms = s.analyzer.ExtractLegalTerms(content) }},
	}

	fmt.Println()
	bar := newPassBar(int64(len(passes)))
	for _, pass := range passes {
		pass.run()
		_ = bar.Add(1)
		// The passes finish in microseconds; pause so the walkthrough
		// is legible.
		time.Sleep(150 * time.Millisecond)
	}
	_ = bar.Finish()

	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	spin.Suffix = " Generating plain-language summary..."
	spin.Writer = os.Stderr
	spin.Start()
	result.Summary = s.analyzer.GenerateSummary(ctx, content, docType)
	spin.Stop()
	fmt.Printf("%s✓ Summary ready%s\n", colorGreen, colorReset)

	s.result = result
}

// newPassBar builds the deterministic progress bar for the pattern
// passes.
func newPassBar(total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}

func persistAnalysis(ctx context.Context, repos *storage.Repositories, s *demoSession) error {
	raw, err := json.Marshal(s.result)
	if err != nil {
		return err
	}
	return repos.Analyses.Create(ctx, &storage.AnalysisRecord{
		DocumentID:  s.document.ID,
		OverallRisk: string(s.result.RiskAssessment.OverallRisk),
		RiskScore:   s.result.RiskAssessment.RiskScore,
		Result:      raw,
	})
}

func (s *demoSession) menu() {
	fmt.Println("\n" + colorBold + "Interactive Mode" + colorReset)
	fmt.Println("Type a command to explore the analysis. Type 'help' for the list, 'quit' to exit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(colorBold + "📄 clauselens> " + colorReset)
		if !scanner.Scan() {
			break
		}

		command := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch command {
		case "":
			continue
		case "quit", "exit":
			fmt.Println("\n" + colorCyan + "Goodbye! 👋" + colorReset)
			return
		case "help":
			printHelp()
		case "report":
			s.printReport()
		case "structure":
			s.printStructure()
		case "readability":
			s.printReadability()
		case "sections":
			s.printSections()
		case "risks":
			s.printRisks()
		case "dates":
			s.printDates()
		case "terms":
			s.printTerms()
		case "summary":
			s.printSummary()
		default:
			fmt.Printf("%sUnknown command %q. Type 'help' for the list.%s\n", colorYellow, command, colorReset)
		}
	}
}

func printHelp() {
	fmt.Println(colorCyan + "Commands:" + colorReset)
	fmt.Println("  report       full analysis report")
	fmt.Println("  structure    size and organization metrics")
	fmt.Println("  readability  reading-level scores")
	fmt.Println("  sections     key sections found in the lease")
	fmt.Println("  risks        risk factors and recommendations")
	fmt.Println("  dates        deadlines and date mentions")
	fmt.Println("  terms        legal vocabulary found")
	fmt.Println("  summary      plain-language summary")
	fmt.Println("  quit         exit the demo")
}

func (s *demoSession) printReport() {
	s.printStructure()
	s.printReadability()
	s.printSections()
	s.printRisks()
	s.printDates()
	s.printTerms()
	s.printSummary()
}

func sectionHeader(title string) {
	fmt.Printf("\n%s%s━━━ %s ━━━%s\n", colorPurple, colorBold, strings.ToUpper(title), colorReset)
}

func (s *demoSession) printStructure() {
	ds := s.result.DocumentStructure
	sectionHeader("Structure")
	if ds.Title != "" {
		fmt.Printf("  Title:       %s\n", ds.Title)
	}
	fmt.Printf("  Size:        %d characters, %d words\n", ds.TotalCharacters, ds.TotalWords)
	fmt.Printf("  Shape:       %d sentences in %d paragraphs (%.1f words/sentence)\n",
		ds.TotalSentences, ds.TotalParagraphs, ds.AverageSentenceLength)
	if len(ds.PotentialSections) > 0 {
		fmt.Printf("  Headings:\n")
		for _, heading := range ds.PotentialSections {
			fmt.Printf("    %s•%s %s\n", colorBlue, colorReset, heading)
		}
	}
}

func (s *demoSession) printReadability() {
	rd := s.result.Readability
	sectionHeader("Readability")
	fmt.Printf("  Reading level:  %s\n", rd.ReadingLevel)
	fmt.Printf("  Flesch ease:    %.1f\n", rd.FleschReadingEase)
	fmt.Printf("  Grade level:    %.1f\n", rd.FleschKincaidGrade)
	fmt.Printf("  Assessment:     %s\n", rd.ComplexityAssessment)
}

func (s *demoSession) printSections() {
	sectionHeader("Key Sections")
	if len(s.result.KeySections) == 0 {
		fmt.Println("  No key sections matched.")
		return
	}
	for _, sec := range s.result.KeySections {
		fmt.Printf("  %s[%s]%s %s at byte %d\n",
			importanceTint(sec.ImportanceLevel), sec.ImportanceLevel, colorReset,
			sec.SectionType, sec.StartPosition)
	}
}

func (s *demoSession) printRisks() {
	ra := s.result.RiskAssessment
	sectionHeader("Risk Assessment")
	fmt.Printf("  Overall: %s%s (score %d)%s\n",
		riskTint(ra.OverallRisk), strings.ToUpper(string(ra.OverallRisk)), ra.RiskScore, colorReset)
	for _, factor := range ra.RiskFactors {
		fmt.Printf("  %s[%s]%s %s\n", riskTint(factor.RiskLevel), factor.RiskLevel, colorReset, factor.Description)
		fmt.Printf("      \"%s\"\n", condense(factor.Context, 90))
	}
	if len(ra.Recommendations) > 0 {
		fmt.Println()
		for _, rec := range ra.Recommendations {
			fmt.Printf("  %s→ %s%s\n", colorYellow, rec, colorReset)
		}
	}
}

func (s *demoSession) printDates() {
	sectionHeader("Important Dates")
	if len(s.result.ImportantDates) == 0 {
		fmt.Println("  No date mentions matched.")
		return
	}
	for _, d := range s.result.ImportantDates {
		fmt.Printf("  %s%-24s%s %s\n", colorCyan, d.DateText, colorReset, condense(d.Context, 70))
	}
}

func (s *demoSession) printTerms() {
	sectionHeader("Legal Terms")
	if len(s.result.LegalTerms) == 0 {
		fmt.Println("  No legal vocabulary matched.")
		return
	}
	for _, term := range s.result.LegalTerms {
		fmt.Printf("  %s%-22s%s %s\n", colorBlue, term.Term, colorReset, condense(term.Context, 70))
	}
}

func (s *demoSession) printSummary() {
	sum := s.result.Summary
	sectionHeader("Plain-Language Summary")
	fmt.Printf("  %s\n", sum.BriefSummary)
	for _, point := range sum.KeyPoints {
		fmt.Printf("  %s•%s %s\n", colorGreen, colorReset, point)
	}
	if sum.WhatItMeans != "" {
		fmt.Printf("\n  What it means: %s\n", sum.WhatItMeans)
	}
	for _, flag := range sum.RedFlags {
		fmt.Printf("  %s⚠ %s%s\n", colorRed, flag, colorReset)
	}
	if len(sum.MainParties) > 0 {
		fmt.Printf("\n  Parties:    %s\n", strings.Join(sum.MainParties, ", "))
	}
	fmt.Printf("  Purpose:    %s\n", sum.DocumentPurpose)
	fmt.Printf("  Confidence: %.2f\n", sum.ConfidenceScore)
}

func riskTint(level analysis.RiskLevel) string {
	switch level {
	case analysis.RiskHigh:
		return colorRed
	case analysis.RiskMedium:
		return colorYellow
	case analysis.RiskLow:
		return colorGreen
	default:
		return colorReset
	}
}

func importanceTint(level analysis.ImportanceLevel) string {
	switch level {
	case analysis.ImportanceCritical, analysis.ImportanceHigh:
		return colorRed
	case analysis.ImportanceMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

// condense collapses whitespace and truncates for one-line display.
func condense(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
