package commands

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/history"
	"github.com/teranos/doctor/logger"
)

// HistoryCmd represents the history command
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded check runs",
	Long: `List check runs recorded with ` + "`doctor check --record`" + `, newest first.

Examples:
  doctor history                  # Last 20 runs
  doctor history --limit 5
  doctor history show <run-id>    # One run
  doctor history --format json`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	HistoryCmd.PersistentFlags().String("database", "", "Database path (default from database.path)")
	HistoryCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text, json, yaml")
	HistoryCmd.Flags().Int("limit", history.DefaultListLimit, "Number of runs to show")

	HistoryCmd.AddCommand(historyShowCmd)
}

func historyStore(cmd *cobra.Command) (*history.Store, func(), error) {
	dbPath, _ := cmd.Flags().GetString("database")
	database, err := openDatabase(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return history.NewStore(database, logger.ComponentLogger("history")), func() { database.Close() }, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, closeDB, err := historyStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return writeRuns(cmd.OutOrStdout(), runs, format)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, closeDB, err := historyStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return writeRuns(cmd.OutOrStdout(), []history.Run{run}, format)
}

// writeRuns renders runs as a table, or as a JSON or YAML list.
func writeRuns(w io.Writer, runs []history.Run, format string) error {
	if runs == nil {
		runs = []history.Run{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(runs); err != nil {
			return err
		}
		return enc.Close()
	case "text":
	default:
		return errors.NewUnsupportedFormatError("history format %q (want text, json or yaml)", format)
	}

	if len(runs) == 0 {
		pterm.Fprintln(w, "No recorded runs. Use `doctor check --record` to record one.")
		return nil
	}

	data := pterm.TableData{{"ID", "Started", "Duration", "Declarations", "Files", "Messages", "Source"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration().Round(time.Millisecond).String(),
			strconv.Itoa(r.Declarations),
			strconv.Itoa(r.Files),
			strconv.Itoa(r.Messages),
			r.Source,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render(); err != nil {
		return errors.Wrap(err, "failed to render history")
	}
	return nil
}
