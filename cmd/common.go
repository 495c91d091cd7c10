package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/illarion/lockdiary/internal/codec"
	"github.com/illarion/lockdiary/internal/config"
	"github.com/illarion/lockdiary/internal/core"
	"github.com/illarion/lockdiary/internal/crypto"
	"github.com/illarion/lockdiary/internal/keyring"
	"github.com/illarion/lockdiary/internal/logging"
	"github.com/illarion/lockdiary/internal/storage"
)

// newLogger builds the stderr logger, falling back to a no-op one
func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", err)
		return zap.NewNop()
	}
	return logger
}

// openSession opens the vault at cfg.Path. Unless create is set, a missing
// vault file is reported instead of being created empty.
func openSession(cfg *config.Config, create bool) *core.Session {
	if _, err := os.Stat(cfg.Path); err != nil {
		if !os.IsNotExist(err) {
			HandleError(err)
		}
		if !create {
			HandleError(core.ErrNotInitialized)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), core.DirPermSecure); err != nil {
			HandleError(err)
		}
	}

	session, err := core.New(cfg.Path,
		core.WithLogger(newLogger(cfg)),
		core.WithIterations(cfg.Iterations))
	if err != nil {
		HandleError(err)
	}
	return session
}

// envPassword returns LOCKDIARY_PASSWORD as bytes, or nil when unset
func envPassword(cfg *config.Config) []byte {
	if cfg.Password == "" {
		return nil
	}
	return codec.EncodeText(cfg.Password)
}

// GetPasswordWithRetry unlocks session using, in order, the environment,
// the OS keyring and a terminal prompt. A keyring password that no longer
// opens the vault falls through to the prompt once.
func GetPasswordWithRetry(ctx context.Context, cfg *config.Config, session *core.Session) {
	if password := envPassword(cfg); password != nil {
		defer crypto.ClearBytes(password)
		if err := session.Unlock(ctx, password); err != nil {
			HandleError(err)
		}
		return
	}

	vaultID, _ := session.VaultID()
	if !cfg.NoKeyring && vaultID != "" {
		if password, err := keyring.GetPassword(vaultID); err == nil {
			err = session.Unlock(ctx, password)
			crypto.ClearBytes(password)
			if err == nil {
				return
			}
			if !errors.Is(err, core.ErrUnlockFailed) {
				HandleError(err)
			}
			fmt.Fprintln(os.Stderr, "Password in keyring does not open this vault")
		}
	}

	password, err := core.ReadPassword("Enter password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := session.Unlock(ctx, password); err != nil {
		HandleError(err)
	}
	OfferToSavePassword(cfg, vaultID, password)
}

// OfferToSavePassword asks whether to cache a freshly typed password.
// Silent when the keyring is disabled, already holds a password, or there is
// no terminal to ask on.
func OfferToSavePassword(cfg *config.Config, vaultID string, password []byte) {
	if cfg.NoKeyring || vaultID == "" || keyring.HasPassword(vaultID) {
		return
	}
	if !Confirm("Save password to OS keyring?") {
		return
	}
	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Println("Password saved to keyring")
}

// Confirm asks a yes/no question on the terminal. Defaults to no, and to no
// when stdin is not a terminal.
func Confirm(question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: no diary found\n")
		fmt.Fprintf(os.Stderr, "Run 'lockdiary init' first\n")
	case errors.Is(err, core.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: a diary already exists at this path\n")
		fmt.Fprintf(os.Stderr, "Use 'lockdiary status' to see current state\n")
	case errors.Is(err, core.ErrUnlockFailed):
		fmt.Fprintf(os.Stderr, "Error: wrong password or corrupted diary\n")
	case errors.Is(err, core.ErrImportFailed):
		fmt.Fprintf(os.Stderr, "Error: backup did not open (wrong password or corrupted file)\n")
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, core.ErrInvalidDate):
		fmt.Fprintf(os.Stderr, "Error: %s (expected YYYY-MM-DD)\n", err)
	case errors.Is(err, core.ErrPersistFailed):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The diary on disk was not changed\n")
	case errors.Is(err, storage.ErrUnsupportedVersion):
		fmt.Fprintf(os.Stderr, "Error: diary was written by a newer lockdiary\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
