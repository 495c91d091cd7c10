package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/illarion/lockdiary/internal/config"
	lockring "github.com/illarion/lockdiary/internal/keyring"
)

func TestForgetReplacedPassword(t *testing.T) {
	keyring.MockInit()
	cfg := &config.Config{}

	if err := lockring.SavePassword("old-vault", []byte("pw")); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	forgetReplacedPassword(&out, cfg, "old-vault")
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
	if lockring.HasPassword("old-vault") {
		t.Error("Expected old password to be removed")
	}
}

func TestForgetReplacedPasswordWarnsOnFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("keyring is locked"))
	t.Cleanup(keyring.MockInit)

	var out bytes.Buffer
	forgetReplacedPassword(&out, &config.Config{}, "old-vault")
	if !strings.Contains(out.String(), "warning:") || !strings.Contains(out.String(), "keyring is locked") {
		t.Errorf("Expected a warning, got %q", out.String())
	}
}

func TestForgetReplacedPasswordSkipped(t *testing.T) {
	keyring.MockInitWithError(errors.New("must not be called"))
	t.Cleanup(keyring.MockInit)

	var out bytes.Buffer
	forgetReplacedPassword(&out, &config.Config{NoKeyring: true}, "old-vault")
	forgetReplacedPassword(&out, &config.Config{}, "")
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}
