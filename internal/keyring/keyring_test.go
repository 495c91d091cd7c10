package keyring

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestPasswordLifecycle(t *testing.T) {
	keyring.MockInit()

	const id = "3f2b8c1e-0000-4000-8000-000000000001"

	if HasPassword(id) {
		t.Fatal("Expected no password before save")
	}
	if _, err := GetPassword(id); err != ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := SavePassword(id, []byte("hunter2")); err != nil {
		t.Fatalf("SavePassword failed: %v", err)
	}
	if !HasPassword(id) {
		t.Fatal("Expected password after save")
	}

	got, err := GetPassword(id)
	if err != nil {
		t.Fatalf("GetPassword failed: %v", err)
	}
	if string(got) != "hunter2" {
		t.Errorf("Expected hunter2, got %q", got)
	}

	if err := DeletePassword(id); err != nil {
		t.Fatalf("DeletePassword failed: %v", err)
	}
	if HasPassword(id) {
		t.Error("Expected no password after delete")
	}

	// Second delete is a no-op
	if err := DeletePassword(id); err != nil {
		t.Errorf("Expected nil on missing entry, got %v", err)
	}
}

func TestPasswordsAreScopedByVault(t *testing.T) {
	keyring.MockInit()

	if err := SavePassword("vault-a", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if HasPassword("vault-b") {
		t.Error("Password leaked across vault IDs")
	}
}
