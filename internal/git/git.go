package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitStatus contains git integration status information
type GitStatus struct {
	IsRepo       bool
	VaultTracked bool
	VaultIgnored bool
	// Files next to the vault that look like plaintext exports and are tracked
	TrackedExports []string
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// Check inspects the git state of vaultPath and of any *.txt or *.md files
// in the same directory
func Check(vaultPath string) (*GitStatus, error) {
	abs, err := filepath.Abs(vaultPath)
	if err != nil {
		return nil, err
	}
	workDir, name := filepath.Split(abs)

	status := &GitStatus{}
	if !IsGitRepo(workDir) {
		return status, nil
	}
	status.IsRepo = true
	status.VaultTracked = IsTracked(workDir, name)
	status.VaultIgnored = IsIgnored(workDir, name)

	for _, pattern := range []string{"*.txt", "*.md"} {
		matches, err := filepath.Glob(filepath.Join(workDir, pattern))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			rel := filepath.Base(m)
			if IsTracked(workDir, rel) {
				status.TrackedExports = append(status.TrackedExports, rel)
			}
		}
	}

	return status, nil
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus) string {
	if status == nil || !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit:\n")

	switch {
	case status.VaultTracked:
		result.WriteString("   ok: vault is tracked (encrypted, safe to push)\n")
	case status.VaultIgnored:
		result.WriteString("   ok: vault is ignored by git\n")
	default:
		result.WriteString("   note: vault is neither tracked nor ignored\n")
	}

	for _, file := range status.TrackedExports {
		result.WriteString(fmt.Sprintf("   warning: %s is tracked and may hold plaintext (run: git rm --cached %s)\n", file, file))
	}

	return result.String()
}
