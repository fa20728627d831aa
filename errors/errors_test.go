package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("bad graph"), "regenerate the graph document")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "regenerate the graph document", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"unsupported format wrapped", Wrap(ErrUnsupportedFormat, "graph.xml"), IsUnsupportedFormat, true},
		{"incompatible version wrapped", Wrapf(ErrIncompatibleVersion, "version %s", "2.0.0"), IsIncompatibleVersion, true},
		{"invalid config constructor", NewInvalidConfigError("generator.max_depth must be >= 0, got %d", -1), IsInvalidConfig, true},
		{"unrelated error", New("boom"), IsInvalidConfig, false},
		{"nil error", nil, IsUnsupportedFormat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestNewInvalidConfigErrorMessage(t *testing.T) {
	err := NewInvalidConfigError("output.dir cannot be empty")
	assert.Contains(t, err.Error(), "output.dir cannot be empty")
	assert.Contains(t, err.Error(), "invalid configuration")
}

func ExampleWrap() {
	baseErr := New("unexpected token")
	err := Wrap(baseErr, "failed to decode graph document")
	fmt.Println(err)
	// Output: failed to decode graph document: unexpected token
}
