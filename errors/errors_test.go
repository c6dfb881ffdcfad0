package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	original := New("bad toml")
	wrapped := Wrapf(original, "load index %s", "types.toml")

	assert.Contains(t, wrapped.Error(), "load index types.toml")
	assert.Contains(t, wrapped.Error(), "bad toml")
	assert.True(t, Is(wrapped, original))
}

type decodeError struct {
	line int
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decode failed at line %d", e.line)
}

func TestAs(t *testing.T) {
	wrapped := Wrap(&decodeError{line: 3}, "read manifest")

	var target *decodeError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, 3, target.line)
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("registry is empty"), "run `doctor registry import` first")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "run `doctor registry import` first", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"not found", NewNotFoundError("type %s", "Foo"), IsNotFoundError, true},
		{"invalid request", NewInvalidRequestError("line %d", 4), IsInvalidRequestError, true},
		{"unsupported format is not invalid request", NewUnsupportedFormatError("ext %s", ".ini"), IsInvalidRequestError, false},
		{"nil is never not-found", nil, IsNotFoundError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	err := Wrap(NewUnsupportedFormatError("extension %q", ".ini"), "read manifest")
	assert.True(t, Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), `extension ".ini"`)
}

func ExampleWrap() {
	baseErr := New("no such table: types")
	err := Wrap(baseErr, "load registry")
	fmt.Println(err)
	// Output: load registry: no such table: types
}
