package logger

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The console encoder must never silently discard fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "recon",
		Message:    "Declared type missing from documentation",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("name", `App\User->rename()`), `name=App\User->rename()`},
		{zap.String("token", "int"), "token=int"},
		{zap.Int("line", 42), "line=42"},
		{zap.Int64("declarations", 9999999), "declarations=9999999"},
		{zap.Float64("ratio", 0.8), "ratio=0.8"},
		{zap.Bool("skip_ambiguous", false), "skip_ambiguous=false"},
		{zap.Strings("iterable_markers", []string{"Generator", "Traversable"}), "iterable_markers=[Generator,Traversable]"},
		{zap.Duration("duration", 1500 * time.Millisecond), "duration=1.5s"},
		{zap.Error(errors.New("disk full")), "error=disk full"},
		{zap.Error(nil), ""},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
	}

	var fields []zapcore.Field
	for _, tf := range testFields {
		fields = append(fields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	require.NoError(t, err)
	clean := stripANSI(buf.String())

	assert.True(t, strings.HasPrefix(clean, "13:04:35  recon  Declared type missing from documentation  "), clean)
	assert.True(t, strings.HasSuffix(clean, "\n"))
	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, clean, tf.mustFind, "field was discarded")
		}
	}
}

func TestMinimalEncoderLevels(t *testing.T) {
	encoder := newMinimalEncoder()
	for level, want := range map[zapcore.Level]string{
		zapcore.DebugLevel: "DEBUG",
		zapcore.WarnLevel:  "WARN",
		zapcore.ErrorLevel: "ERROR",
	} {
		buf, err := encoder.EncodeEntry(zapcore.Entry{Level: level, Message: "m"}, nil)
		require.NoError(t, err)
		assert.Contains(t, stripANSI(buf.String()), "  "+want+"  m", level.String())
	}

	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Message: "calm"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, stripANSI(buf.String()), "INFO")
}

func TestMinimalEncoderKeepsWithFields(t *testing.T) {
	var out bytes.Buffer
	core := zapcore.NewCore(newMinimalEncoder(), zapcore.AddSync(&out), zapcore.DebugLevel)
	log := zap.New(core).Sugar().With("run_id", "abc", "workers", 4)

	log.Infow("Check finished", "messages", 3)
	log.Debugw("second")

	lines := strings.Split(strings.TrimSpace(stripANSI(out.String())), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run_id=abc workers=4 messages=3")
	assert.Contains(t, lines[1], "run_id=abc workers=4")
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	assert.Equal(t, "gruvbox", currentTheme)

	SetTheme("solarized")
	assert.Equal(t, "gruvbox", currentTheme, "unknown themes are ignored")
}
