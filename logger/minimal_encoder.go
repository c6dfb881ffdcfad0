package logger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme.
type palette struct {
	time      string
	component string
	message   string
	key       string
	number    string
	warn      string
	warnBg    string
	err       string
	errBg     string
	debug     string
}

var themes = map[string]palette{
	// Everforest Dark: natural forest greens
	"everforest": {
		time:      "\x1b[38;5;107m",
		component: "\x1b[38;5;208m",
		message:   "\x1b[38;5;223m",
		key:       "\x1b[38;5;65m",
		number:    "\x1b[38;5;108m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
		debug:     "\x1b[38;5;109m",
	},
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		time:      "\x1b[38;5;108m",
		component: "\x1b[38;5;214m",
		message:   "\x1b[38;5;223m",
		key:       "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
		debug:     "\x1b[38;5;109m",
	},
}

// Current active theme (set from log.theme or DOCTOR_LOG_THEME)
var currentTheme = "everforest"

// SetTheme configures the color scheme for console log output. Unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return themes[currentTheme]
}

// minimalEncoder is a compact console encoder.
// Format: "13:04:35  DEBUG  recon  Declared type missing  name=f() token=int"
type minimalEncoder struct {
	zapcore.Encoder // Embedded for fields added through With
	context         []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		context: append([]zapcore.Field(nil), enc.context...),
	}
}

func (enc *minimalEncoder) addContext(f zapcore.Field) {
	enc.context = append(enc.context, f)
}

// Fields attached with Logger.With arrive through these methods; they are kept and
// printed with every entry. Other value kinds fall through to the embedded encoder.
func (enc *minimalEncoder) AddString(key, value string) { enc.addContext(zap.String(key, value)) }
func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.addContext(zap.Int64(key, value))
}
func (enc *minimalEncoder) AddBool(key string, value bool) { enc.addContext(zap.Bool(key, value)) }
func (enc *minimalEncoder) AddFloat64(key string, value float64) {
	enc.addContext(zap.Float64(key, value))
}
func (enc *minimalEncoder) AddDuration(key string, value time.Duration) {
	enc.addContext(zap.Duration(key, value))
}
func (enc *minimalEncoder) AddReflected(key string, value interface{}) error {
	enc.addContext(zap.Any(key, value))
	return nil
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if lvl := levelString(ent.Level, c); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.component)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.message)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := fields
	if len(enc.context) > 0 {
		all = append(append([]zapcore.Field(nil), enc.context...), fields...)
	}
	if rendered := renderFields(all, c); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelString is empty for INFO, which is the calm default.
func levelString(level zapcore.Level, c palette) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return c.debug + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// renderFields prints every field as key=value in the order given. Fields are never
// dropped; values zap cannot flatten are printed with %v.
func renderFields(fields []zapcore.Field, c palette) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.SkipType {
			continue
		}
		value, numeric := fieldValue(f)
		color := c.message
		if numeric {
			color = c.number
		}
		parts = append(parts, c.key+f.Key+"="+colorReset+color+value+colorReset)
	}
	return strings.Join(parts, " ")
}

func fieldValue(f zapcore.Field) (string, bool) {
	m := zapcore.NewMapObjectEncoder()
	f.AddTo(m)

	v, ok := m.Fields[f.Key]
	if !ok {
		// Namespaced or inline fields land under other keys.
		keys := make([]string, 0, len(m.Fields))
		for k := range m.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s:%v", k, m.Fields[k]))
		}
		return "{" + strings.Join(pairs, " ") + "}", false
	}

	switch val := v.(type) {
	case string:
		return val, false
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", val), true
	case []interface{}:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = fmt.Sprintf("%v", item)
		}
		return "[" + strings.Join(items, ",") + "]", false
	default:
		return fmt.Sprintf("%v", val), false
	}
}
