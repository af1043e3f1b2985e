package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rubynest/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for name, style := range map[string]func(...string) string{
		"Bold":    styles.Bold.Render,
		"Error":   styles.Error.Render,
		"Keyword": styles.Keyword.Render,
		"DiffAdd": styles.DiffAdd.Render,
	} {
		assert.Equal(t, "test", style("test"), "no-color %s should not add formatting", name)
	}
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	// Lipgloss may drop ANSI codes off a TTY, so only the text is checked.
	assert.Contains(t, styles.Error.Render("x"), "x")
	assert.Contains(t, styles.Literal.Render("x"), "x")
	assert.Contains(t, styles.TableWarnRow.Render("x"), "x")
}

func TestIsColorEnabled_AlwaysMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
}

func TestIsColorEnabled_NeverMode(t *testing.T) {
	t.Parallel()

	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf), "empty mode with non-TTY")
	assert.False(t, pretty.IsColorEnabled("unknown", &buf), "unknown mode with non-TTY")
}
