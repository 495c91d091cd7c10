package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/core"
	"github.com/illarion/lockdiary/internal/crypto"
	"github.com/illarion/lockdiary/internal/keyring"
)

// KeyringSave saves the password to the OS keyring after checking it opens
// the diary
func KeyringSave(ctx context.Context, cfg *config.Config) {
	session := openSession(cfg, false)
	defer session.Close()

	password := envPassword(cfg)
	if password == nil {
		var err error
		password, err = core.ReadPassword("Enter password: ")
		if err != nil {
			HandleError(err)
		}
	}
	defer crypto.ClearBytes(password)

	// Verify password is correct
	if err := session.Unlock(ctx, password); err != nil {
		HandleError(err)
	}
	session.Lock()

	vaultID, err := session.VaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password from the OS keyring
func KeyringDelete(_ context.Context, cfg *config.Config) {
	session := openSession(cfg, false)
	defer session.Close()

	vaultID, err := session.VaultID()
	if err != nil || !keyring.HasPassword(vaultID) {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to remove from keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus(_ context.Context, cfg *config.Config) {
	session := openSession(cfg, false)
	defer session.Close()

	vaultID, err := session.VaultID()
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
