package registry

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/teranos/doctor/errors"
)

// SchemaVersion is written into every index file this package produces.
const SchemaVersion = "1.0.0"

// SupportedSchemas is the semver constraint an index file's schema_version must satisfy.
const SupportedSchemas = "^1"

// Format is an index file encoding.
type Format string

const (
	FormatTOML    Format = "toml"
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// File is the on-disk shape of an index.
type File struct {
	SchemaVersion string `json:"schema_version" yaml:"schema_version" toml:"schema_version" msgpack:"schema_version"`
	Types         []Type `json:"types" yaml:"types" toml:"types" msgpack:"types"`
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return "", errors.NewUnsupportedFormatError("index file %s: unknown extension %q", path, filepath.Ext(path))
}

// LoadFile reads an index file, choosing the decoder from its extension.
func LoadFile(path string) (*Index, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open index %s", path)
	}
	defer f.Close()

	idx, err := Decode(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load index %s", path)
	}
	return idx, nil
}

// WriteFile encodes idx to path, choosing the encoder from its extension.
func WriteFile(path string, idx *Index) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, format, idx); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write index %s", path)
	}
	return nil
}

// Decode reads an index in the given format and builds it.
func Decode(r io.Reader, format Format) (*Index, error) {
	var file File
	var err error

	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&file)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&file)
		if err == io.EOF {
			err = nil
		}
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&file)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&file)
	default:
		return nil, errors.NewUnsupportedFormatError("index format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s index", format)
	}

	if err := checkSchema(file.SchemaVersion); err != nil {
		return nil, err
	}
	return NewIndex(file.Types)
}

// Encode writes idx in the given format with the current schema version.
func Encode(w io.Writer, format Format, idx *Index) error {
	file := File{SchemaVersion: SchemaVersion, Types: idx.Types()}

	var err error
	switch format {
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(file)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(file); err == nil {
			err = enc.Close()
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(file)
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(file)
	default:
		return errors.NewUnsupportedFormatError("index format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s index", format)
	}
	return nil
}

func checkSchema(version string) error {
	if version == "" {
		return errors.WithHint(
			errors.Wrap(errors.ErrIncompatibleIndex, "index has no schema_version"),
			`add schema_version = "`+SchemaVersion+`" at the top of the file`)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(errors.ErrIncompatibleIndex, "invalid schema_version %q: %v", version, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchemas)
	if err != nil {
		return errors.Wrap(err, "invalid schema constraint")
	}
	if !constraint.Check(v) {
		return errors.Wrapf(errors.ErrIncompatibleIndex, "schema_version %s does not satisfy %s", v, SupportedSchemas)
	}
	return nil
}
