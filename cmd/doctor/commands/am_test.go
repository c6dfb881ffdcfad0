package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/doctor/am"
)

func TestWriteConfig(t *testing.T) {
	cfg := am.Defaults()

	var out bytes.Buffer
	require.NoError(t, writeConfig(&out, cfg, "toml"))
	assert.Contains(t, out.String(), "# doctor configuration")
	assert.Regexp(t, `doc_label = ['"]annotation['"]`, out.String())

	out.Reset()
	require.NoError(t, writeConfig(&out, cfg, "yaml"))
	assert.Contains(t, out.String(), "doclabel: annotation")

	out.Reset()
	require.NoError(t, writeConfig(&out, cfg, "json"))
	assert.Contains(t, out.String(), `"DocLabel": "annotation"`)

	assert.Error(t, writeConfig(&out, cfg, "ini"))
}

func TestWriteWhere(t *testing.T) {
	intro := &am.ConfigIntrospection{
		Files: []string{"/home/dev/.doctor/am.toml"},
		Settings: []am.SettingInfo{
			{Key: "check.doc_label", Value: "phpdoc", Source: am.SourceUser, SourcePath: "/home/dev/.doctor/am.toml"},
			{Key: "check.workers", Value: 4, Source: am.SourceDefault, SourcePath: "built-in default"},
		},
	}

	var out bytes.Buffer
	writeWhere(&out, intro)
	text := out.String()

	assert.Contains(t, text, "DOCTOR_* environment variables")
	assert.Contains(t, text, "  /home/dev/.doctor/am.toml\n")
	assert.Regexp(t, `check\.doc_label\s+= phpdoc\s+\[user /home/dev/\.doctor/am\.toml\]`, text)
	assert.Regexp(t, `check\.workers\s+= 4\s+\[default\]`, text)
}
