package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/core"
	"github.com/illarion/lockdiary/internal/crypto"
	"github.com/illarion/lockdiary/internal/keyring"
)

// Import replaces the diary with a previously exported backup. The backup's
// own password is required and becomes the diary password.
func Import(ctx context.Context, cfg *config.Config, file string, force bool) {
	data, err := os.ReadFile(file)
	if err != nil {
		HandleError(err)
	}

	session := openSession(cfg, true)
	defer session.Close()

	exists, err := session.Exists()
	if err != nil {
		HandleError(err)
	}
	if exists && !force && !Confirm("Replace the existing diary with this backup?") {
		fmt.Println("Import cancelled")
		return
	}

	oldID, _ := session.VaultID()

	password := envPassword(cfg)
	if password == nil {
		password, err = core.ReadPassword("Backup password: ")
		if err != nil {
			HandleError(err)
		}
	}
	defer crypto.ClearBytes(password)

	if err := session.Import(ctx, data, password); err != nil {
		HandleError(err)
	}
	defer session.Lock()

	forgetReplacedPassword(os.Stderr, cfg, oldID)

	entries, err := session.List()
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("✓ Imported %d entries from %s\n", len(entries), file)

	if cfg.Password == "" {
		vaultID, _ := session.VaultID()
		OfferToSavePassword(cfg, vaultID, password)
	}
}

// forgetReplacedPassword removes the keyring entry of a vault that import
// replaced. A failure is reported on w since the stale password stays cached.
func forgetReplacedPassword(w io.Writer, cfg *config.Config, oldID string) {
	if oldID == "" || cfg.NoKeyring {
		return
	}
	if err := keyring.DeletePassword(oldID); err != nil {
		fmt.Fprintf(w, "warning: failed to remove the replaced diary's password from keyring: %s\n", err)
	}
}
