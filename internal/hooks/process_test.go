package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"avqa/internal/hooks"
)

func TestRun_ExportsCaseVariables(t *testing.T) {
	out := filepath.Join(t.TempDir(), "env.txt")
	env := hooks.Env{
		CaseID:      "case_4",
		Browser:     "chrome",
		Language:    "English",
		Environment: "qa4",
		BaseURL:     "https://nuxqa4.avtest.ink/",
		Status:      "PASSED",
	}

	cmd := `printf '%s %s %s' "$AVQA_CASE" "$AVQA_BROWSER" "$AVQA_STATUS" > ` + out
	if err := hooks.Run(context.Background(), cmd, env); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "case_4 chrome PASSED"; got != want {
		t.Fatalf("hook saw %q, want %q", got, want)
	}
}

func TestRunAll_StopsAtFirstFailure(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")
	cmds := []string{"true", "false", "touch " + marker}

	err := hooks.RunAll(context.Background(), cmds, hooks.Env{CaseID: "case_1"})
	if err == nil {
		t.Fatal("RunAll should fail on the second command")
	}
	if !strings.Contains(err.Error(), "false") {
		t.Fatalf("error should name the failed command, got %v", err)
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Fatal("commands after a failure must not run")
	}
}
