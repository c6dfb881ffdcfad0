package am

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Default values shared with flag definitions.
const (
	DefaultWorkers      = 4
	DefaultDocLabel     = "annotation"
	DefaultDatabasePath = "doctor.db"
	DefaultOutputFormat = "text"
	DefaultLogTheme     = "everforest"
)

// DefaultIterableMarkers are the declared types that accept a documented T[] like array.
var DefaultIterableMarkers = []string{"Generator"}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("check.workers", DefaultWorkers)
	v.SetDefault("check.doc_label", DefaultDocLabel)
	v.SetDefault("check.skip_ambiguous", false)
	v.SetDefault("check.iterable_markers", DefaultIterableMarkers)
	v.SetDefault("check.manifest", "")
	v.SetDefault("check.extractor", "")

	v.SetDefault("registry.index", "")
	v.SetDefault("registry.use_database", false)

	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("output.color", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// envAliases are extra environment names accepted for a key besides DOCTOR_<KEY>.
var envAliases = map[string][]string{
	"database.path":   {"DOCTOR_DB"},
	"check.extractor": {"DOCTOR_EXTRACTOR"},
}

// BindEnvVars binds the environment aliases. The canonical DOCTOR_<KEY> name is
// always bound first so it wins over an alias.
func BindEnvVars(v *viper.Viper) {
	for key, aliases := range envAliases {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		v.BindEnv(append([]string{key}, names...)...)
	}
}

// Defaults returns a Config holding only built-in defaults.
func Defaults() *Config {
	return &Config{
		Check: CheckConfig{
			Workers:         DefaultWorkers,
			DocLabel:        DefaultDocLabel,
			IterableMarkers: append([]string(nil), DefaultIterableMarkers...),
		},
		Database: DatabaseConfig{Path: DefaultDatabasePath},
		Output:   OutputConfig{Format: DefaultOutputFormat, Color: true},
		Log:      LogConfig{Theme: DefaultLogTheme},
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Check: {Workers: %d, DocLabel: %s}, Registry: %s, Database: %s, Output: %s}",
		c.Check.Workers, c.Check.DocLabel, c.Registry.Index, c.Database.Path, c.Output.Format)
}
