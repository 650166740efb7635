package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"chinook-demo/internal/db"
)

// isolateEnv clears the variables the config layer reads so the host
// environment cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHINOOK_CONFIG", "DATASET_NAME", "DATASET_URL", "ENGINE", "FETCH_TIMEOUT",
		"AGENT_PROVIDER", "AGENT_MODEL", "AGENT_TOP_K", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"S3_SECRET", "AZURE_ACCOUNT_KEY", "ENV", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

// seedDataset writes the sample dataset into a temp dir and returns its path.
func seedDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chinook.db")
	if err := db.Seed(context.Background(), path); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
	return path
}

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// runCLI executes the root command in-process with the given stdin.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	var in io.Reader = strings.NewReader(stdin)
	code := execute(context.Background(), args, in, &stdout, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}
