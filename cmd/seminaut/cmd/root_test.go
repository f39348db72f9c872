package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyHOA = `HOA: v1
States: 1
Start: 0
AP: 1 "p"
Acceptance: 1 Inf(0)
--BODY--
State: 0
[t] 0 {0}
--END--
`

func writeTempHOA(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "seminaut-*.hoa")
	require.NoError(t, err)
	_, err = f.WriteString(tinyHOA)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it; processInput writes directly to os.Stdout
// rather than through cobra's configurable output, so this is the only way
// to observe it from a test.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestRootCmdTransformsHOAFile(t *testing.T) {
	path := writeTempHOA(t)
	rootCmd.SetArgs([]string{"--tgba", "-f", path})

	out := captureStdout(t, func() {
		err := rootCmd.Execute()
		assert.NoError(t, err)
	})

	assert.Contains(t, out, "HOA: v1")
	assert.Contains(t, out, "--END--")
}

func TestRootCmdIsCDFlagPrintsBoolean(t *testing.T) {
	path := writeTempHOA(t)
	rootCmd.SetArgs([]string{"--is-cd", "-f", path})

	out := captureStdout(t, func() {
		err := rootCmd.Execute()
		assert.NoError(t, err)
	})

	assert.True(t, out == "true\n" || out == "false\n", "expected a single boolean line, got %q", out)
}

func TestOpenInputStdinSentinel(t *testing.T) {
	r, err := openInput("-")
	require.NoError(t, err)
	assert.Equal(t, os.Stdin, r)
}

func TestOpenInputMissingFile(t *testing.T) {
	_, err := openInput("/nonexistent/path/seminaut-test.hoa")
	assert.Error(t, err)
}
