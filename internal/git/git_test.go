package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func TestCheckOutsideRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	status, err := Check(filepath.Join(dir, ".lockdiary"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if status.IsRepo {
		t.Skip("temp dir is inside a git work tree")
	}
	if out := FormatGitStatus(status); out != "" {
		t.Errorf("Expected empty output outside repo, got %q", out)
	}
}

func TestCheckTrackedVaultAndExport(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")

	vault := filepath.Join(dir, ".lockdiary")
	if err := os.WriteFile(vault, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dump.txt"), []byte("dear diary"), 0600); err != nil {
		t.Fatal(err)
	}
	runGit(t, dir, "add", ".lockdiary", "dump.txt")

	status, err := Check(vault)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !status.IsRepo || !status.VaultTracked {
		t.Fatalf("Expected tracked vault in repo, got %+v", status)
	}
	if len(status.TrackedExports) != 1 || status.TrackedExports[0] != "dump.txt" {
		t.Errorf("Expected dump.txt flagged, got %v", status.TrackedExports)
	}

	out := FormatGitStatus(status)
	if !strings.Contains(out, "safe to push") || !strings.Contains(out, "dump.txt") {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestCheckIgnoredVault(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".lockdiary\n"), 0600); err != nil {
		t.Fatal(err)
	}

	status, err := Check(filepath.Join(dir, ".lockdiary"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if status.VaultTracked || !status.VaultIgnored {
		t.Errorf("Expected ignored vault, got %+v", status)
	}
}
