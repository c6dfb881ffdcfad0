package decl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/doctor/errors"
)

const jsonManifest = `[
  {"name": "voku\\tests\\Dummy3->lall3()", "class": "voku\\tests\\Dummy3", "file": "Dummy3.php", "line": 74, "type": "int", "doc_type": "string", "kind": "method"},
  {"name": "voku\\tests\\Dummy3->lall3_1()", "parameter": "foo", "file": "Dummy3.php", "line": 84, "type": "int", "doc_type": "string"}
]`

const jsonlManifest = `
{"name": "voku\\tests\\Dummy3->lall3()", "class": "voku\\tests\\Dummy3", "file": "Dummy3.php", "line": 74, "type": "int", "doc_type": "string", "kind": "method"}

{"name": "voku\\tests\\Dummy3->lall3_1()", "parameter": "foo", "file": "Dummy3.php", "line": 84, "type": "int", "doc_type": "string"}
`

const yamlManifest = `
- name: voku\tests\Dummy3->lall3()
  class: voku\tests\Dummy3
  file: Dummy3.php
  line: 74
  type: int
  doc_type: string
  kind: method
- name: voku\tests\Dummy3->lall3_1()
  parameter: foo
  file: Dummy3.php
  line: 84
  type: int
  doc_type: string
`

func TestRead_Formats(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, jsonManifest},
		{FormatJSONLines, jsonlManifest},
		{FormatYAML, yamlManifest},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			decls, err := Read(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			require.Len(t, decls, 2)

			assert.Equal(t, `voku\tests\Dummy3->lall3()`, decls[0].Name)
			assert.Equal(t, `voku\tests\Dummy3`, decls[0].Class)
			assert.Equal(t, 74, decls[0].Line)
			assert.Equal(t, KindMethod, decls[0].Kind)

			assert.Equal(t, "foo", decls[1].Parameter)
			assert.Equal(t, KindParameter, decls[1].EffectiveKind())
		})
	}
}

func TestRead_WrappedJSON(t *testing.T) {
	decls, err := Read(strings.NewReader(`{"declarations": [{"name": "f()", "type": "int"}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "f()", decls[0].Name)
}

func TestRead_Empty(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatJSONLines, FormatYAML} {
		decls, err := Read(strings.NewReader("  \n"), format)
		require.NoError(t, err, format)
		assert.Empty(t, decls, format)
	}
}

func TestRead_Errors(t *testing.T) {
	t.Run("invalid record", func(t *testing.T) {
		_, err := Read(strings.NewReader(`[{"name": "f()"}, {"type": "int"}]`), FormatJSON)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record 2")
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})

	t.Run("bad json line", func(t *testing.T) {
		_, err := Read(strings.NewReader("{\"name\": \"f()\"}\n{oops\n"), FormatJSONLines)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Read(strings.NewReader(""), "xml")
		assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"decls.json":   jsonManifest,
		"decls.ndjson": jsonlManifest,
		"decls.yml":    yamlManifest,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		decls, err := ReadFile(path)
		require.NoError(t, err, name)
		assert.Len(t, decls, 2, name)
	}

	_, err := ReadFile(filepath.Join(dir, "decls.csv"))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
