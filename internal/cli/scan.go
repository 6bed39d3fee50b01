package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mallardhq/mallard/internal/cache"
	"github.com/mallardhq/mallard/internal/config"
	"github.com/mallardhq/mallard/internal/embed"
	"github.com/mallardhq/mallard/internal/gitdiff"
	"github.com/mallardhq/mallard/internal/providers"
	"github.com/mallardhq/mallard/internal/report"
	"github.com/mallardhq/mallard/internal/review"
	"github.com/mallardhq/mallard/internal/scan"
	"github.com/mallardhq/mallard/internal/types"
)

var (
	flagAll      bool
	flagAgent    string
	flagProvider string
	flagModel    string
	flagNoRedact bool
	flagNoReport bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Review staged changes with an LLM",
	Long:  "Scan reviews the staged diff (or the full working tree diff with --all), using cached results for diffs it has seen before.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithFlags(config.FindFile(""), cmd.Flags())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}
		applyScanFlags(&cfg)
		config.SetupLogging(cfg.LogLevel)
		runScan(cfg)
		return nil
	},
}

func applyScanFlags(cfg *config.Config) {
	if flagAgent != "" {
		cfg.Agent = flagAgent
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagNoRedact {
		cfg.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
}

func runScan(cfg config.Config) {
	var rawDiff string
	var err error
	if flagAll {
		rawDiff, err = gitdiff.All()
	} else {
		if !gitdiff.HasStagedChanges() {
			fmt.Fprintln(os.Stdout, "No staged changes to review.")
			return
		}
		rawDiff, err = gitdiff.Staged()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	diffs := gitdiff.ParseByFile(rawDiff)
	if len(diffs) == 0 {
		fmt.Fprintln(os.Stdout, "No changes to review.")
		return
	}

	client, err := providers.New(cfg.Agent, cfg.Provider, cfg.Model, cfg.APIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return
	}

	embedder, err := embed.New(cfg.EmbeddingProvider, cfg.EmbeddingModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir, err = cache.DefaultDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
	}
	store, err := cache.Open(cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	defer store.Close()

	adapter := review.NewAdapter(client, cfg.Checks.EnabledCategories(), cfg.RedactSecrets)

	result, err := scan.Run(context.Background(), diffs, adapter, embedder, store, scan.Options{
		Threshold:         cfg.CacheThreshold,
		MaxTokensPerBatch: cfg.MaxTokensPerBatch,
		TokenBudget:       cfg.TokenBudget,
		MaxConcurrent:     cfg.MaxConcurrent,
	})
	if err != nil {
		if providers.IsAuthError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if !flagNoReport {
		path, rerr := report.Generate(result, cfg.ReportDir, cfg.ReportFormat)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write report: %v\n", rerr)
		} else {
			fmt.Fprintf(os.Stdout, "Report: %s\n", path)
		}
	}

	printSummary(result)

	if result.ShouldBlock(cfg.BlockOn) {
		fmt.Fprintln(os.Stderr, "Commit blocked. Fix the issues above or adjust blockOn in .mallardrc.")
		exitCode = ExitBlocked
	}
}

func printSummary(result *types.ScanResult) {
	critical, warning, info := 0, 0, 0
	for _, issue := range result.Issues {
		switch issue.Severity {
		case types.SeverityCritical:
			critical++
		case types.SeverityWarning:
			warning++
		case types.SeverityInfo:
			info++
		}
	}

	fmt.Fprintf(os.Stdout, "Scanned %d files (%d cached, %d deduped, %d skipped), %d tokens used\n",
		result.FilesScanned, result.FilesCached, result.FilesDeduped, result.FilesSkipped, result.TokensUsed)

	if len(result.Issues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%d issues: %d critical, %d warning, %d info\n", len(result.Issues), critical, warning, info)
	for _, issue := range result.Issues {
		loc := issue.File
		if issue.Line != nil {
			loc = fmt.Sprintf("%s:%d", issue.File, *issue.Line)
		}
		fmt.Fprintf(os.Stdout, "  [%s] %s (%s): %s\n", issue.Severity, loc, issue.Category, issue.Message)
	}
}

func init() {
	scanCmd.Flags().BoolVar(&flagAll, "all", false, "Review all uncommitted changes, not just staged")
	scanCmd.Flags().StringVar(&flagAgent, "agent", "", "Agent mode (copilot, manual)")
	scanCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (openai, anthropic, gemini, ollama)")
	scanCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	scanCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	scanCmd.Flags().BoolVar(&flagNoReport, "no-report", false, "Skip writing the report file")
}
