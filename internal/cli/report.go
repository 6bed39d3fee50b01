package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mallardhq/mallard/internal/config"
	"github.com/mallardhq/mallard/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the path of the latest review report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}
		path, err := report.Latest(cfg.ReportDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if path == "" {
			fmt.Fprintln(os.Stdout, "No reports found. Run `mallard scan` first.")
			return nil
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}
