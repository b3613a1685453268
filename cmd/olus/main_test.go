package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.olus")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunExecutesValidProgram(t *testing.T) {
	path := writeTemp(t, "main k: k 0\n")
	code, err := run(path, "main", "", false, false, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), code)
}

func TestRunDumpIRSkipsEvaluation(t *testing.T) {
	path := writeTemp(t, "main k: k 0\n")
	code, err := run(path, "main", "", true, false, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), code)
}

func TestRunReportsMissingFile(t *testing.T) {
	_, err := run(filepath.Join(t.TempDir(), "missing.olus"), "main", "", false, false, false)
	assert.Error(t, err)
}

func TestRunReportsMissingRoot(t *testing.T) {
	path := writeTemp(t, "helper k: k 0\n")
	_, err := run(path, "main", "", false, false, false)
	assert.Error(t, err)
}
