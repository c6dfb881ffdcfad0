package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/doctor/am"
	"github.com/teranos/doctor/cmd/doctor/commands"
	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/logger"
)

var rootCmd = &cobra.Command{
	Use:   "doctor",
	Short: "doctor - reconcile declared types with documented types",
	Long: `doctor - reconcile declared types with documented types.

doctor compares the native type of every function, method, parameter and property
with the type written in its documentation, and reports types missing from either
side.

Available commands:
  check    - Check declarations and report type mismatches
  registry - Import, show and snapshot the class hierarchy index
  history  - List recorded check runs
  am       - Manage doctor configuration ("I am")
  version  - Show version information

Examples:
  doctor check decls.jsonl --index types.toml
  doctor check --extractor "php bin/extract.php src/" --record
  doctor check decls.json --watch
  doctor registry import types.toml
  doctor history --limit 5`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		if !cmd.Flags().Changed("json-logs") {
			jsonLogs = cfg.Log.JSON
		}
		if cfg.Log.Theme != "" {
			logger.SetTheme(cfg.Log.Theme)
		}

		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if logger.ShouldOutput(verbosity, logger.OutputConfig) {
			if info, err := am.GetConfigIntrospection(); err == nil {
				logger.Infow("Configuration loaded", logger.FieldFiles, info.Files)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write diagnostic logs to stderr as JSON")

	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.RegistryCmd)
	rootCmd.AddCommand(commands.HistoryCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	// Mismatches were already reported on stdout
	if errors.Is(err, commands.ErrMismatches) {
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		for _, hint := range hints {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
	}
	os.Exit(2)
}
