package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		in        string
		event     string
		namespace string
	}{
		{"open", "open", ""},
		{"open.ui", "open", ".ui"},
		{"open.ui.extra", "open", ".ui.extra"},
		{".ui", "", ".ui"},
		{"open.", "open", "."},
	}

	for _, tc := range tests {
		tok := parseToken(tc.in)
		assert.Equal(t, tc.event, tok.event, "event for %q", tc.in)
		assert.Equal(t, tc.namespace, tok.namespace, "namespace for %q", tc.in)
	}
}

func TestParseSpec(t *testing.T) {
	tokens, err := parseSpec("  open \t close.ui\n.ns ")
	assert.NoError(t, err)
	assert.Equal(t, []token{
		{event: "open"},
		{event: "close", namespace: ".ui"},
		{event: "", namespace: ".ns"},
	}, tokens)
}

func TestParseSpec_Empty(t *testing.T) {
	for _, spec := range []string{"", "   ", "\t\n"} {
		_, err := parseSpec(spec)
		assert.ErrorIs(t, err, ErrEmptySpec, "spec %q", spec)
		assert.ErrorIs(t, err, ErrInvalidArgument, "spec %q", spec)
	}
}
