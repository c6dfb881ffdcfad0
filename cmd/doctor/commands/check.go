package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/doctor/am"
	"github.com/teranos/doctor/check"
	"github.com/teranos/doctor/decl"
	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/history"
	"github.com/teranos/doctor/logger"
	"github.com/teranos/doctor/recon"
	"github.com/teranos/doctor/report"
	"github.com/teranos/doctor/watch"
)

// ErrMismatches is returned by check when any message was reported.
var ErrMismatches = errors.New("type mismatches reported")

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check [manifest]",
	Short: "Check declarations and report type mismatches",
	Long: `Check every declaration for types missing from the documentation or from the code.

Declarations come from a manifest file (.json, .jsonl, .yaml) or from an extractor
command that prints one JSON declaration per line. Class and interface rules need a
registry: an index file (--index) or the database (--use-database).

Exit status is 0 when nothing is reported, 1 when mismatches are reported and 2 on errors.

Examples:
  doctor check decls.jsonl --index types.toml
  doctor check --extractor "php bin/extract.php src/" --label phpdoc
  doctor check decls.json --format json --record
  doctor check decls.json --index types.toml --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	addCheckFlags(CheckCmd.Flags())
}

func addCheckFlags(fs *pflag.FlagSet) {
	fs.String("manifest", "", "Declarations file (.json, .jsonl, .ndjson, .yaml)")
	fs.String("extractor", "", "Command printing JSON lines declarations")
	fs.String("index", "", "Registry index file (.toml, .yaml, .json, .msgpack)")
	fs.Bool("use-database", false, "Load the registry stored by `doctor registry import`")
	fs.String("database", "", "Database path (default from database.path)")
	fs.StringP("format", "f", am.DefaultOutputFormat, "Output format: text, json, yaml, toml")
	fs.String("label", am.DefaultDocLabel, "Documentation source named in messages")
	fs.Int("workers", am.DefaultWorkers, "Parallel workers (0 = GOMAXPROCS)")
	fs.Bool("skip-ambiguous", false, "Do not report untyped declarations that carry a doc type")
	fs.StringSlice("iterable-marker", am.DefaultIterableMarkers, "Declared types accepting a documented T[] (repeatable)")
	fs.Bool("color", true, "Color text output")
	fs.Bool("summary", true, "Append a summary to the report")
	fs.Bool("record", false, "Record the run in the history database")
	fs.Bool("watch", false, "Re-run when the manifest or index changes")
}

// checkConfig overlays explicitly set flags and the positional manifest onto base.
// base is not modified.
func checkConfig(base *am.Config, fs *pflag.FlagSet, args []string) (*am.Config, error) {
	cfg := *base
	cfg.Check.IterableMarkers = append([]string(nil), base.Check.IterableMarkers...)

	if fs.Changed("manifest") && fs.Changed("extractor") {
		return nil, errors.New("--manifest and --extractor are mutually exclusive")
	}
	if fs.Changed("index") && fs.Changed("use-database") {
		return nil, errors.New("--index and --use-database are mutually exclusive")
	}

	if len(args) == 1 {
		cfg.Check.Manifest, cfg.Check.Extractor = args[0], ""
	}
	if fs.Changed("manifest") {
		cfg.Check.Manifest, _ = fs.GetString("manifest")
		cfg.Check.Extractor = ""
	}
	if fs.Changed("extractor") {
		cfg.Check.Extractor, _ = fs.GetString("extractor")
		cfg.Check.Manifest = ""
	}
	if fs.Changed("index") {
		cfg.Registry.Index, _ = fs.GetString("index")
		cfg.Registry.UseDatabase = false
	}
	if fs.Changed("use-database") {
		cfg.Registry.UseDatabase, _ = fs.GetBool("use-database")
		if cfg.Registry.UseDatabase {
			cfg.Registry.Index = ""
		}
	}
	if fs.Changed("database") {
		cfg.Database.Path, _ = fs.GetString("database")
	}
	if fs.Changed("format") {
		cfg.Output.Format, _ = fs.GetString("format")
	}
	if fs.Changed("label") {
		cfg.Check.DocLabel, _ = fs.GetString("label")
	}
	if fs.Changed("workers") {
		cfg.Check.Workers, _ = fs.GetInt("workers")
	}
	if fs.Changed("skip-ambiguous") {
		cfg.Check.SkipAmbiguous, _ = fs.GetBool("skip-ambiguous")
	}
	if fs.Changed("iterable-marker") {
		cfg.Check.IterableMarkers, _ = fs.GetStringSlice("iterable-marker")
	}
	if fs.Changed("color") {
		cfg.Output.Color, _ = fs.GetBool("color")
	}

	if cfg.Check.Manifest == "" && cfg.Check.Extractor == "" {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("no declarations to check"),
			"pass a manifest file, --extractor, or set check.manifest in am.toml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkSession runs checks for one configuration. Watch mode reuses it across runs.
type checkSession struct {
	cfg     *am.Config
	out     io.Writer
	record  bool
	summary bool
}

// run performs one complete check and writes its report.
func (s *checkSession) run(ctx context.Context) (recon.Diagnostics, error) {
	started := time.Now()

	idx, _, err := loadIndex(ctx, s.cfg)
	if err != nil {
		return recon.Diagnostics{}, err
	}

	decls, source, err := s.declarations(ctx)
	if err != nil {
		return recon.Diagnostics{}, err
	}

	markers := make([]recon.Token, 0, len(s.cfg.Check.IterableMarkers))
	for _, m := range s.cfg.Check.IterableMarkers {
		markers = append(markers, recon.Token(m))
	}
	engine := recon.NewEngine(engineRegistry(idx),
		recon.WithLabel(s.cfg.Check.DocLabel),
		recon.WithRules(recon.Rules{IterableMarkers: markers}),
		recon.WithLogger(logger.ComponentLogger("recon")))

	checker := check.New(engine, check.Options{
		Workers:       s.cfg.Check.Workers,
		SkipAmbiguous: s.cfg.Check.SkipAmbiguous,
		Verbosity:     logger.Verbosity,
	}, logger.ComponentLogger("check"))

	diags, summary, err := checker.Run(ctx, decls)
	if err != nil {
		return recon.Diagnostics{}, err
	}

	format, err := report.ParseFormat(s.cfg.Output.Format)
	if err != nil {
		return recon.Diagnostics{}, err
	}
	opts := report.Options{Color: s.cfg.Output.Color && !color.NoColor}
	if s.summary {
		opts.Summary = &summary
	}
	if err := report.Write(s.out, diags, format, opts); err != nil {
		return recon.Diagnostics{}, err
	}

	if s.record {
		if err := s.recordRun(ctx, source, started, summary); err != nil {
			return diags, err
		}
	}
	return diags, nil
}

// declarations loads the manifest or runs the extractor.
func (s *checkSession) declarations(ctx context.Context) ([]decl.Declaration, string, error) {
	if s.cfg.Check.Extractor != "" {
		if logger.ShouldOutput(logger.Verbosity, logger.OutputExtractor) {
			logger.Debugw("Extractor command line", logger.FieldCommand, s.cfg.Check.Extractor)
		}
		decls, err := decl.FromCommand(ctx, s.cfg.Check.Extractor, logger.ComponentLogger("extractor"))
		return decls, s.cfg.Check.Extractor, err
	}
	decls, err := decl.ReadFile(s.cfg.Check.Manifest)
	if err != nil {
		return nil, "", err
	}
	logger.Debugw("Read manifest", logger.FieldManifest, s.cfg.Check.Manifest, logger.FieldDeclarations, len(decls))
	return decls, s.cfg.Check.Manifest, nil
}

func (s *checkSession) recordRun(ctx context.Context, source string, started time.Time, summary check.Summary) error {
	database, err := openDatabase(s.cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	run := history.NewRun(source, started, summary)
	if err := history.NewStore(database, logger.ComponentLogger("history")).Record(ctx, &run); err != nil {
		return errors.Wrap(err, "failed to record run")
	}
	logger.LoggerFromContext(logger.WithRunID(ctx, run.ID)).Infow("Recorded run", logger.FieldMessages, run.Messages)
	return nil
}

// watchPaths lists the inputs watch mode follows.
func (s *checkSession) watchPaths() []string {
	var paths []string
	if s.cfg.Check.Manifest != "" {
		paths = append(paths, s.cfg.Check.Manifest)
	}
	if s.cfg.Registry.Index != "" {
		paths = append(paths, s.cfg.Registry.Index)
	}
	return paths
}

// watchLoop re-runs the check whenever a watched input changes until ctx is done.
func (s *checkSession) watchLoop(ctx context.Context) error {
	paths := s.watchPaths()
	if len(paths) == 0 {
		return errors.WithHint(
			errors.New("nothing to watch"),
			"--watch follows a manifest file or index file; extractor output cannot be watched")
	}

	w, err := watch.New(paths, logger.ComponentLogger("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Infow("Watching for changes", logger.FieldFiles, w.Files())
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		_, err := s.run(ctx)
		return err
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	base, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	cfg, err := checkConfig(base, cmd.Flags(), args)
	if err != nil {
		return err
	}

	record, _ := cmd.Flags().GetBool("record")
	summary, _ := cmd.Flags().GetBool("summary")
	watching, _ := cmd.Flags().GetBool("watch")

	session := &checkSession{cfg: cfg, out: cmd.OutOrStdout(), record: record, summary: summary}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diags, err := session.run(ctx)
	if watching {
		// A failing first run is reported but does not stop watching
		if err != nil {
			logger.Errorw("Check failed", logger.FieldError, err)
		}
		return session.watchLoop(ctx)
	}
	if err != nil {
		return err
	}
	if report.ExitCode(diags) != 0 {
		return ErrMismatches
	}
	return nil
}
