package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/core"
	"github.com/illarion/lockdiary/internal/crypto"
)

var errEmptyPassword = errors.New("password must not be empty")

// Init creates a new diary vault
func Init(ctx context.Context, cfg *config.Config) {
	session := openSession(cfg, true)
	defer session.Close()

	// Fail before asking for a password twice
	if err := ensureNoVault(session); err != nil {
		HandleError(err)
	}

	// Read password (env var or prompt with confirmation)
	password := envPassword(cfg)
	if password == nil {
		var err error
		password, err = core.ReadPasswordConfirm()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	defer crypto.ClearBytes(password)

	if len(password) == 0 {
		HandleError(errEmptyPassword)
	}

	if err := session.CreateNew(ctx, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Initialized diary at %s\n", cfg.Path)
	fmt.Println("The password is not stored anywhere unless you save it to the keyring.")

	if cfg.Password == "" {
		vaultID, _ := session.VaultID()
		OfferToSavePassword(cfg, vaultID, password)
	}
}

// ensureNoVault returns core.ErrAlreadyExists when session already holds a
// record
func ensureNoVault(session *core.Session) error {
	exists, err := session.Exists()
	if err != nil {
		return err
	}
	if exists {
		return core.ErrAlreadyExists
	}
	return nil
}
