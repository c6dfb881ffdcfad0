package am

import (
	"strings"

	"github.com/teranos/doctor/errors"
)

var validOutputFormats = []string{"text", "json", "yaml", "toml"}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Workers: 0 = GOMAXPROCS, negative = invalid
	if c.Check.Workers < 0 {
		return errors.Newf("check.workers must be >= 0, got %d", c.Check.Workers)
	}

	if strings.TrimSpace(c.Check.DocLabel) == "" {
		return errors.New("check.doc_label cannot be empty")
	}

	for _, marker := range c.Check.IterableMarkers {
		if strings.TrimSpace(marker) == "" {
			return errors.New("check.iterable_markers cannot contain empty names")
		}
	}

	if c.Check.Manifest != "" && c.Check.Extractor != "" {
		return errors.WithHint(
			errors.New("check.manifest and check.extractor are mutually exclusive"),
			"set one of them, or pass --manifest or --extractor on the command line")
	}

	if c.Registry.UseDatabase && c.Registry.Index != "" {
		return errors.New("registry.index and registry.use_database are mutually exclusive")
	}

	// Database path is only needed for registry storage and history
	if c.Registry.UseDatabase && c.Database.Path == "" {
		return errors.New("database.path cannot be empty when registry.use_database is set")
	}

	format := strings.ToLower(c.Output.Format)
	known := false
	for _, f := range validOutputFormats {
		if format == f {
			known = true
			break
		}
	}
	if !known {
		return errors.Newf("output.format must be one of %s, got %q",
			strings.Join(validOutputFormats, ", "), c.Output.Format)
	}

	return nil
}
