package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminatedAtPreviousLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		rest   string
		split  bool
	}{
		{"two statements", "a = 1\nb = 2\n", "b = 2\n", true},
		{"block then call", "def f\nend\nf\n", "f\n", true},
		{"single line", "a = 1\n", "", false},
		{"open block", "if a\nb\n", "", false},
		{"leading dot", "foo\n.bar\n", "", false},
		{"leading safe navigation", "foo\n  &.bar\n", "", false},
		{"operator continues", "a +\nb\n", "", false},
		{"blank buffer", "\n\n", "", false},
		{"comment line", "a\n# note\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rest, ok := New(Options{}).TerminatedAtPreviousLine(tt.source)
			assert.Equal(t, tt.split, ok)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
