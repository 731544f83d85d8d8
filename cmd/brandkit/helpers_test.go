package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

type cliEnv struct {
	home    string
	dataDir string
}

func setupCLI(t *testing.T) cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"BRANDKIT_DATA_DIR", "BRANDKIT_BACKEND", "BRANDKIT_LOG_LEVEL", "BRANDKIT_LOG_FORMAT", "BRANDKIT_LISTEN_ADDR", "BRANDKIT_DEFAULT_PROVIDER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return cliEnv{home: home, dataDir: filepath.Join(home, "data")}
}

// run executes the root command against env's data directory.
func (e cliEnv) run(args ...string) (string, string, error) {
	root := newRootCmd()
	root.SetArgs(append(args, "--data-dir", e.dataDir))

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(&bytes.Buffer{})

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (e cliEnv) bundle(t *testing.T, extra ...string) tokens.Bundle {
	t.Helper()
	stdout, _, err := e.run(append([]string{"show", "--json"}, extra...)...)
	require.NoError(t, err)

	var bundle tokens.Bundle
	require.NoError(t, json.Unmarshal([]byte(stdout), &bundle))
	return bundle
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
