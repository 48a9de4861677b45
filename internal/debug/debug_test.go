package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// reset restores package state after a test mutates it.
func reset(t *testing.T) *bytes.Buffer {
	t.Helper()
	oldEnabled, oldVerbose, oldQuiet, oldOut := enabled, verboseMode, quietMode, out
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		enabled = oldEnabled
		SetVerbose(oldVerbose)
		SetQuiet(oldQuiet)
		SetOutput(oldOut)
	})
	return &buf
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name    string
		env     bool
		verbose bool
		want    bool
	}{
		{"env set", true, false, true},
		{"verbose flag", false, true, true},
		{"both off", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset(t)
			enabled = tt.env
			SetVerbose(tt.verbose)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestLogf(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		contains string
	}{
		{"outputs when enabled", true, "msg=\"test message: hello\""},
		{"no output when disabled", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := reset(t)
			enabled = tt.enabled
			SetVerbose(false)
			SetQuiet(false)

			Logf("test message: %s\n", "hello")

			if tt.contains == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), "level=DEBUG")
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestWarnfRespectsQuiet(t *testing.T) {
	buf := reset(t)
	enabled = false
	SetVerbose(false)

	SetQuiet(false)
	Warnf("careful")
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	SetQuiet(true)
	Warnf("careful")
	assert.Empty(t, buf.String())
}

func TestQuietSilencesDebug(t *testing.T) {
	buf := reset(t)
	enabled = true
	SetQuiet(true)

	Logf("hidden")
	assert.Empty(t, buf.String())
	assert.True(t, IsQuiet())
}
