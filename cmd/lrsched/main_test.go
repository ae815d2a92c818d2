package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearYAML = `
optimizer:
  lrs: [1.0]
warmup:
  steps: 2
after:
  policy: linear
  total_steps: 4
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestRun_CSV(t *testing.T) {
	path := writeConfig(t, linearYAML)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", path, "--format", "csv"}, &stdout, &stderr)
	require.NoError(t, err)

	want := strings.Join([]string{
		"step,stage,lr_0",
		"0,0,0",
		"1,0,0.5",
		"2,0,1",
		"3,1,0.5",
		"4,1,0",
		"",
	}, "\n")
	assert.Equal(t, want, stdout.String())
	assert.Contains(t, stderr.String(), "Simulating schedule")
	assert.NotContains(t, stderr.String(), "Switched scheduler", "handoffs are logged at V(1)")
}

func TestRun_EveryAndSteps(t *testing.T) {
	path := writeConfig(t, linearYAML)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-c", path, "--format", "csv", "--steps", "5", "--every", "2"}, &stdout, &stderr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Equal(t, []string{"step,stage,lr_0", "0,0,0", "2,0,1", "4,1,0", "5,1,0"}, lines)
}

func TestRun_TableLogsHandoffs(t *testing.T) {
	path := writeConfig(t, linearYAML)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", path, "-v", "1"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout.String(), "step  stage  lr_0"), stdout.String())
	assert.Contains(t, stderr.String(), "Switched scheduler")
	assert.Contains(t, stderr.String(), "Simulating schedule")
}

func TestRun_Errors(t *testing.T) {
	path := writeConfig(t, linearYAML)
	var stdout, stderr bytes.Buffer

	assert.Error(t, run(nil, &stdout, &stderr))
	assert.Error(t, run([]string{"--config", path, "--format", "xml"}, &stdout, &stderr))
	assert.Error(t, run([]string{"--config", path, "--every", "0"}, &stdout, &stderr))
	assert.Error(t, run([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr))
	assert.Error(t, run([]string{"--bogus"}, &stdout, &stderr))
}
