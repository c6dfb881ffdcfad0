// Package am loads doctor's configuration ("am" as in "I am configured like this").
//
// Values cascade from built-in defaults through /etc/doctor/config.toml,
// ~/.doctor/am.toml and the nearest project am.toml or doctor.toml, with DOCTOR_*
// environment variables on top.
package am

// Config represents the doctor configuration
type Config struct {
	Check    CheckConfig    `mapstructure:"check" toml:"check"`
	Registry RegistryConfig `mapstructure:"registry" toml:"registry"`
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// CheckConfig configures a check run
type CheckConfig struct {
	Workers         int      `mapstructure:"workers" toml:"workers"`                   // Parallel workers (default: 4, 0 = GOMAXPROCS)
	DocLabel        string   `mapstructure:"doc_label" toml:"doc_label"`               // Documentation source named in messages (default: annotation)
	SkipAmbiguous   bool     `mapstructure:"skip_ambiguous" toml:"skip_ambiguous"`     // Do not report untyped declarations that carry a doc type
	IterableMarkers []string `mapstructure:"iterable_markers" toml:"iterable_markers"` // Declared types accepting documented T[] (default: ["Generator"])
	Manifest        string   `mapstructure:"manifest" toml:"manifest"`                 // Declarations file (.json, .jsonl, .yaml)
	Extractor       string   `mapstructure:"extractor" toml:"extractor"`               // Command printing JSON lines declarations
}

// RegistryConfig configures where class hierarchy information comes from
type RegistryConfig struct {
	Index       string `mapstructure:"index" toml:"index"`               // Index file (.toml, .yaml, .json, .msgpack)
	UseDatabase bool   `mapstructure:"use_database" toml:"use_database"` // Load the index stored with `doctor registry import`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format"` // text, json, yaml or toml
	Color  bool   `mapstructure:"color" toml:"color"`
}

// LogConfig configures diagnostic logging of doctor itself
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Theme string `mapstructure:"theme" toml:"theme"` // Console color theme: everforest, gruvbox
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
