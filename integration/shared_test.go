//go:build basic || database

// Package integration contains end-to-end tests that build and run the taskrecon binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/taskrecon/schema"
	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared taskrecon binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getTaskreconBinary returns the path to the taskrecon binary, building it once if needed.
func getTaskreconBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "taskrecon-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "taskrecon")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build taskrecon: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// fixtureDir returns the absolute path of a source fixture directory.
func fixtureDir(t *testing.T, format string) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "internal", "source", "testdata", format))
	require.NoError(t, err)
	return dir
}

// runTaskrecon runs the binary with extra environment variables and returns
// its stdout. Stderr is logged on failure.
func runTaskrecon(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getTaskreconBinary(), args...)
	cmd.Dir = t.TempDir() // Keep any stray config files out of the way
	cmd.Env = append(os.Environ(), "HOME="+cmd.Dir)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// decodeReport parses the JSON output of the report command.
func decodeReport(t *testing.T, out string) []schema.ReportRecord {
	t.Helper()
	var records []schema.ReportRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records), "stdout should hold only the JSON report")
	return records
}

// stageAndReport migrates a staging database, imports the CSV fixtures into it
// and returns the JSON report read back from the database.
func stageAndReport(t *testing.T, env map[string]string) []schema.ReportRecord {
	t.Helper()

	_, err := runTaskrecon(t, env, "source", "migrate")
	require.NoError(t, err)

	_, err = runTaskrecon(t, env, "source", "import", fixtureDir(t, "csv"))
	require.NoError(t, err)

	status, err := runTaskrecon(t, env, "source", "status")
	require.NoError(t, err)
	require.Contains(t, status, "src_task_history: 4 rows")

	out, err := runTaskrecon(t, env, "report", "--output", "json")
	require.NoError(t, err)
	return decodeReport(t, out)
}
