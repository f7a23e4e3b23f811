// Package main provides the ClauseLens CLI entrypoint.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/simplify"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool
	noColor    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "clauselens",
	Short: "ClauseLens CLI for legal document analysis",
	Long: `ClauseLens CLI analyzes legal documents locally, without a running server.

Use this tool to:
- Analyze contracts, leases, and policies from files on disk
- Score readability and surface risky clauses
- Extract deadlines, dates, and legal vocabulary
- Look up plain-language explanations of legal terms

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := "console"
		if outputJSON {
			logFormat = "json"
		}

		logLevel := cfg.Observability.LogLevel
		if verbose {
			logLevel = "debug"
		}

		// Logs go to stderr so --json output on stdout stays parseable.
		logger = observability.NewLogger(observability.LogConfig{
			Level:       logLevel,
			Format:      logFormat,
			Output:      os.Stderr,
			ServiceName: "clauselens-cli",
		})

		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newGlossaryCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.Encode(map[string]string{
					"version": "0.1.0",
					"go":      "1.25",
				})
				return
			}
			fmt.Println("clauselens v0.1.0")
		},
	}
}

// buildSimplifier returns a guarded language-model client when wanted and
// an API key is configured, nil otherwise. A nil simplifier degrades
// summaries and unknown-term definitions to local placeholders.
func buildSimplifier(want bool) simplify.Simplifier {
	if !want {
		return nil
	}

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		apiKey = cfg.Simplifier.APIKey
	}
	if apiKey == "" {
		return nil
	}

	client, err := simplify.NewClient(simplify.Config{
		APIKey:      apiKey,
		Model:       cfg.Simplifier.Model,
		BaseURL:     cfg.Simplifier.BaseURL,
		MaxTokens:   cfg.Simplifier.MaxTokens,
		Temperature: cfg.Simplifier.Temperature,
		Timeout:     cfg.Simplifier.Timeout,
		MaxRetries:  cfg.Simplifier.MaxRetries,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create simplifier client, summaries will degrade")
		return nil
	}

	return simplify.NewGuarded(client, cfg.Simplifier.Timeout, logger)
}
