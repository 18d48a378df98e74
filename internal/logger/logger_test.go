package logger

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, hclog.Trace, ParseLevel("trace"))
	assert.Equal(t, hclog.Debug, ParseLevel(" DEBUG "))
	assert.Equal(t, hclog.Warn, ParseLevel("warn"))
	assert.Equal(t, hclog.Error, ParseLevel("ERROR"))
	assert.Equal(t, hclog.Info, ParseLevel(""))
	assert.Equal(t, hclog.Info, ParseLevel("verbose"))
}

func TestNewWithOutput_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("premolt", "warn", &buf)
	log.Info("hidden")
	log.Warn("registry slow", "skill", "calculator")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "registry slow")
	assert.Contains(t, out, "skill=calculator")
}
