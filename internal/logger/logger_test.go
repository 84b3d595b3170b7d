package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":     DEBUG,
		" DEBUG ":   DEBUG,
		"info":      INFO,
		"inform":    INFORM,
		"highlight": HIGHLIGHT,
		"warn":      WARN,
		"warning":   WARN,
		"error":     ERROR,
		"fatal":     FATAL,
		"":          INFO,
		"verbose":   INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := GetLevel()
	SetWriters(&buf, &buf)
	t.Cleanup(func() {
		SetLevel(prev)
		SetWriters(os.Stderr, os.Stderr)
	})

	SetLevel(ParseLevel("warn"))
	assert.Equal(t, WARN, GetLevel())
	Info("hidden")
	Warn("shown", 42)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "shown 42")
}

func TestArgumentsAreNotFormatDirectives(t *testing.T) {
	var buf bytes.Buffer
	prev := GetLevel()
	SetWriters(&buf, &buf)
	t.Cleanup(func() {
		SetLevel(prev)
		SetWriters(os.Stderr, os.Stderr)
	})

	SetLevel(DEBUG)
	Debug("Fuzzy match", "50% off", 1.5)
	assert.Contains(t, buf.String(), "Fuzzy match 50% off 1.50")
}
