package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/doctor/am"
	"github.com/teranos/doctor/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage doctor configuration",
	Long: `am - Manage doctor configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (DOCTOR_* prefix, e.g. DOCTOR_CHECK_WORKERS)
3. Project config (am.toml or doctor.toml, searched upwards from the working directory)
4. User config (~/.doctor/am.toml)
5. System config (/etc/doctor/config.toml)
6. Default values

Examples:
  doctor am show                  # Show current configuration
  doctor am show --format json    # Show configuration in JSON format
  doctor am get check.workers     # Get specific config value
  doctor am where                 # Show which source set each value
  doctor am init                  # Write ./am.toml with the current values`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g. check.doc_label, database.path)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value comes from",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the current configuration to a project am.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAmInit,
}

func init() {
	amShowCmd.Flags().StringP("format", "f", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().Bool("force", false, "Replace an existing file (kept as .back1)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	format, _ := cmd.Flags().GetString("format")
	return writeConfig(cmd.OutOrStdout(), cfg, format)
}

func writeConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# doctor configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# doctor configuration\n%s", data)

	default:
		return errors.NewUnsupportedFormatError("config format %q (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	v := am.GetViper()
	if !v.IsSet(args[0]) {
		return errors.NewNotFoundError("configuration key %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Get(args[0]))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}
	writeWhere(cmd.OutOrStdout(), intro)
	return nil
}

// writeWhere prints the cascade and every setting with the source that won.
func writeWhere(w io.Writer, intro *am.ConfigIntrospection) {
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(w, "  2. [SYSTEM]   /etc/doctor/config.toml")
	fmt.Fprintln(w, "  3. [USER]     ~/.doctor/am.toml")
	fmt.Fprintln(w, "  4. [PROJECT]  am.toml or doctor.toml (searches up directories)")
	fmt.Fprintln(w, "  5. [ENV]      DOCTOR_* environment variables")
	fmt.Fprintln(w)

	if len(intro.Files) == 0 {
		fmt.Fprintln(w, "No config files found.")
	} else {
		fmt.Fprintln(w, "Merged files:")
		for _, f := range intro.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Active configuration:")
	for _, s := range intro.Settings {
		origin := string(s.Source)
		if s.Source != am.SourceDefault && s.SourcePath != "" {
			origin += " " + s.SourcePath
		}
		fmt.Fprintf(w, "  %-24s = %-20v [%s]\n", s.Key, s.Value, origin)
	}
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := "am.toml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := am.WriteConfig(path, cfg, force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
