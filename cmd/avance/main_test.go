package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_UnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"avance", "frobnicate"}, &out, &errOut)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "Unknown command: frobnicate")
}

func TestRun_Help(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"avance", "help"}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "avance <command>")
}

func TestRun_DefaultsToServer(t *testing.T) {
	orig := startServer
	defer func() { startServer = orig }()

	called := false
	startServer = func(_, _ io.Writer) int {
		called = true
		return 0
	}

	code := Run([]string{"avance"}, io.Discard, io.Discard)
	assert.Equal(t, 0, code)
	assert.True(t, called)
}

func TestRun_ReportRequiresInput(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"avance", "report"}, &out, &errOut)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "--fixture or --project")
}

func TestRun_SeedRequiresFixture(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"avance", "seed"}, &out, &errOut)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "--fixture is required")
}
