package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mallardhq/mallard/internal/config"
	"github.com/mallardhq/mallard/internal/gitdiff"
	"github.com/mallardhq/mallard/internal/providers"
)

var (
	setupAgent    string
	setupProvider string
	setupModel    string
	setupNoHook   bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a default .mallardrc and install the pre-commit hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := gitdiff.RepoRoot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		cfg := config.Default()
		if setupAgent != "" {
			cfg.Agent = setupAgent
		}
		if setupProvider != "" {
			cfg.Provider = setupProvider
			cfg.Agent = "manual"
		}
		if setupModel != "" {
			cfg.Model = setupModel
		}

		if cfg.Agent == "copilot" {
			status := providers.DetectCopilot()
			if !status.Available {
				fmt.Fprintf(os.Stderr, "Note: copilot agent unavailable (%s). Set a provider with --provider or authenticate gh.\n", status.Reason)
			}
		}

		if err := config.Validate(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		path, err := config.Save(cfg, root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)

		if !setupNoHook {
			if err := installHook(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupAgent, "agent", "", "Agent mode (copilot, manual)")
	setupCmd.Flags().StringVar(&setupProvider, "provider", "", "LLM provider for manual mode (openai, anthropic, gemini, ollama)")
	setupCmd.Flags().StringVar(&setupModel, "model", "", "Model name")
	setupCmd.Flags().BoolVar(&setupNoHook, "no-hook", false, "Skip installing the pre-commit hook")
}
