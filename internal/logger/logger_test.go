package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetLogger() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestDebugSuppressedByDefault(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())
}

func TestDebugVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("visible %s", "msg")
	assert.Contains(t, buf.String(), "[DEBUG] visible msg")
}

func TestErrorAlwaysPrinted(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)

	Error("boom: %s", "disk full")
	assert.Contains(t, buf.String(), "[ERROR] boom: disk full")
}

func TestSection(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Phase 1")
	assert.Contains(t, buf.String(), "=== Phase 1 ===")
}

func TestIsVerbose(t *testing.T) {
	defer resetLogger()

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
