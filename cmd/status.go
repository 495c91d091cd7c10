package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/git"
	"github.com/illarion/lockdiary/internal/keyring"
)

// Status shows vault details without asking for a password
func Status(ctx context.Context, cfg *config.Config) {
	if _, err := os.Stat(cfg.Path); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No diary at %s\n", cfg.Path)
			fmt.Println("Run 'lockdiary init' to create one")
			return
		}
		HandleError(err)
	}

	session := openSession(cfg, false)
	defer session.Close()

	status, err := session.Status(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Diary: %s\n", cfg.Path)
	if !status.Initialized {
		fmt.Println("  (empty file, run 'lockdiary init')")
		return
	}

	fmt.Printf("  Vault ID:      %s\n", status.VaultID)
	fmt.Printf("  Format:        v%d\n", status.Version)
	fmt.Printf("  Encryption:    %s\n", status.Algorithm)
	fmt.Printf("  Key derivation: %s, %d iterations\n", status.KDF, status.KDFIterations)
	if !status.Created.IsZero() {
		fmt.Printf("  Created:       %s\n", status.Created.Local().Format(time.RFC3339))
	}
	if !status.LastModified.IsZero() {
		fmt.Printf("  Last saved:    %s\n", status.LastModified.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Record:        %s\n", formatSize(int64(status.RecordSize)))
	fmt.Printf("  File:          %s\n", formatSize(status.FileSize))

	switch {
	case cfg.NoKeyring:
		fmt.Println("  Keyring:       disabled")
	case keyring.HasPassword(status.VaultID):
		fmt.Println("  Keyring:       password stored")
	default:
		fmt.Println("  Keyring:       not stored")
	}

	fmt.Print(git.FormatGitStatus(status.Git))
}
