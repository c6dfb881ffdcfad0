package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/doctor/am"
	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/logger"
	"github.com/teranos/doctor/registry"
)

// RegistryCmd represents the registry command
var RegistryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the class hierarchy index",
	Long: `Manage the class and interface hierarchy used by the covering rules.

The hierarchy is read from an index file (registry.index) or from the database after
an import (registry.use_database).

Examples:
  doctor registry import types.toml           # Store an index in the database
  doctor registry show --format yaml          # Print the active index
  doctor registry ancestors 'App\Cat'         # Supertypes of one type
  doctor registry snapshot types.msgpack      # Write the active index to a file`,
}

var registryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an index file into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryImport,
}

var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active index",
	RunE:  runRegistryShow,
}

var registryAncestorsCmd = &cobra.Command{
	Use:   "ancestors <type>",
	Short: "List every class and interface a type extends or implements",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryAncestors,
}

var registrySnapshotCmd = &cobra.Command{
	Use:   "snapshot <out>",
	Short: "Write the active index to a file (format from extension, e.g. .msgpack)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistrySnapshot,
}

func init() {
	for _, cmd := range []*cobra.Command{registryShowCmd, registryAncestorsCmd, registrySnapshotCmd} {
		cmd.Flags().String("index", "", "Index file (default from registry.index, else the database)")
	}
	RegistryCmd.PersistentFlags().String("database", "", "Database path (default from database.path)")
	registryShowCmd.Flags().StringP("format", "f", "toml", "Output format: toml, yaml, json")

	RegistryCmd.AddCommand(registryImportCmd)
	RegistryCmd.AddCommand(registryShowCmd)
	RegistryCmd.AddCommand(registryAncestorsCmd)
	RegistryCmd.AddCommand(registrySnapshotCmd)
}

func runRegistryImport(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("database")
	n, err := importIndex(cmd.Context(), args[0], dbPath)
	if err != nil {
		return err
	}
	pterm.Fprintln(cmd.OutOrStdout(), pterm.Green(fmt.Sprintf("✓ Imported %d types from %s", n, args[0])))
	return nil
}

// importIndex loads an index file and replaces the stored registry with it.
func importIndex(ctx context.Context, path, dbPath string) (int, error) {
	idx, err := registry.LoadFile(path)
	if err != nil {
		return 0, err
	}

	database, err := openDatabase(dbPath)
	if err != nil {
		return 0, err
	}
	defer database.Close()

	if err := registry.NewStore(database, logger.ComponentLogger("registry")).Save(ctx, idx); err != nil {
		return 0, err
	}
	return idx.Len(), nil
}

// activeIndex resolves --index, then registry.index, then the database.
func activeIndex(cmd *cobra.Command) (*registry.Index, error) {
	base, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	cfg := *base

	if path, _ := cmd.Flags().GetString("index"); path != "" {
		cfg.Registry.Index = path
	}
	if dbPath, _ := cmd.Flags().GetString("database"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if cfg.Registry.Index == "" {
		cfg.Registry.UseDatabase = true
	}

	idx, _, err := loadIndex(cmd.Context(), &cfg)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func runRegistryShow(cmd *cobra.Command, args []string) error {
	idx, err := activeIndex(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	return showIndex(cmd.OutOrStdout(), idx, formatName)
}

func showIndex(w io.Writer, idx *registry.Index, formatName string) error {
	format := registry.Format(strings.ToLower(formatName))
	if format == registry.FormatMsgpack {
		return errors.WithHint(
			errors.NewUnsupportedFormatError("msgpack is binary"),
			"use `doctor registry snapshot <file>.msgpack` instead")
	}
	return registry.Encode(w, format, idx)
}

func runRegistryAncestors(cmd *cobra.Command, args []string) error {
	idx, err := activeIndex(cmd)
	if err != nil {
		return err
	}
	if !idx.IsKnownType(args[0]) {
		return errors.NewNotFoundError("type %q is not in the index", args[0])
	}
	for _, name := range idx.Ancestors(args[0]) {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runRegistrySnapshot(cmd *cobra.Command, args []string) error {
	idx, err := activeIndex(cmd)
	if err != nil {
		return err
	}
	if err := registry.WriteFile(args[0], idx); err != nil {
		return err
	}
	pterm.Fprintln(cmd.OutOrStdout(), pterm.Green(fmt.Sprintf("✓ Wrote %d types to %s", idx.Len(), args[0])))
	return nil
}
