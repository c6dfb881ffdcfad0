package decl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/doctor/errors"
)

// Format is a manifest encoding.
type Format string

const (
	FormatJSON      Format = "json"
	FormatJSONLines Format = "jsonl"
	FormatYAML      Format = "yaml"
)

// maxLineSize bounds a single JSON lines record.
const maxLineSize = 4 << 20

// FormatFromPath picks the manifest encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONLines, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.NewUnsupportedFormatError("manifest %s: unknown extension %q", path, filepath.Ext(path))
}

// ReadFile reads a manifest, choosing the decoder from its extension.
func ReadFile(path string) ([]Declaration, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open manifest %s", path)
	}
	defer f.Close()

	decls, err := Read(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	return decls, nil
}

// Read decodes a manifest and validates every record.
func Read(r io.Reader, format Format) ([]Declaration, error) {
	var decls []Declaration
	var err error

	switch format {
	case FormatJSON:
		decls, err = readJSON(r)
	case FormatJSONLines:
		decls, err = ReadJSONLines(r)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&decls)
		if err == io.EOF {
			err = nil
		}
	default:
		return nil, errors.NewUnsupportedFormatError("manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}

	for i, d := range decls {
		if err := d.Validate(); err != nil {
			return nil, errors.Wrapf(err, "record %d", i+1)
		}
	}
	return decls, nil
}

// readJSON accepts a top-level array or an object with a "declarations" array.
func readJSON(r io.Reader) ([]Declaration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '{' {
		var wrapped struct {
			Declarations []Declaration `json:"declarations"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, errors.Wrap(err, "failed to decode manifest")
		}
		return wrapped.Declarations, nil
	}

	var decls []Declaration
	if err := json.Unmarshal(data, &decls); err != nil {
		return nil, errors.Wrap(err, "failed to decode manifest")
	}
	return decls, nil
}

// ReadJSONLines decodes one declaration per non-blank line. It does not validate.
func ReadJSONLines(r io.Reader) ([]Declaration, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var decls []Declaration
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var d Declaration
		if err := json.Unmarshal(line, &d); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		decls = append(decls, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan declarations")
	}
	return decls, nil
}
