package commands

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/doctor/history"
)

func TestWriteRuns(t *testing.T) {
	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	runs := []history.Run{{
		ID:           "7a1c7f6e-3b8a-4b43-9d0c-2f1d1c9b5e01",
		Source:       "decls.jsonl",
		StartedAt:    started,
		FinishedAt:   started.Add(1500 * time.Millisecond),
		Declarations: 120,
		Files:        4,
		Messages:     9,
	}}

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeRuns(&out, runs, "text"))
		text := out.String()
		for _, want := range []string{"ID", "Messages", runs[0].ID, "1.5s", "120", "decls.jsonl"} {
			assert.Contains(t, text, want)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeRuns(&out, nil, "text"))
		assert.Contains(t, out.String(), "No recorded runs")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeRuns(&out, runs, "json"))
		var decoded []history.Run
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, runs, decoded)

		out.Reset()
		require.NoError(t, writeRuns(&out, nil, "json"))
		assert.Equal(t, "[]\n", out.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeRuns(&out, runs, "yaml"))
		assert.Contains(t, out.String(), "source: decls.jsonl")
	})

	assert.Error(t, writeRuns(&bytes.Buffer{}, runs, "csv"))
}
