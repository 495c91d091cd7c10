package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/illarion/lockdiary/internal/crypto"
)

func openTestDB(t *testing.T) (*Storage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.lockdiary")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		t.Fatalf("Failed to initialize: %v", err)
	}
	return db, dbPath
}

func testRecord(fill byte) *Record {
	return &Record{
		Version:    CurrentVersion,
		Salt:       bytes.Repeat([]byte{fill}, crypto.SaltSize),
		Iterations: 1000,
		Ciphertext: bytes.Repeat([]byte{fill + 1}, 48),
		Nonce:      bytes.Repeat([]byte{fill + 2}, crypto.NonceSize),
	}
}

func TestOpenAndInitialize(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Database should be initialized")
	}

	// Initialize again is harmless
	if err := db.Initialize(); err != nil {
		t.Fatalf("Second initialize failed: %v", err)
	}

	has, err := db.HasRecord()
	if err != nil {
		t.Fatalf("HasRecord failed: %v", err)
	}
	if has {
		t.Error("Fresh database should not have a record")
	}

	if _, err := db.GetRecord(); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected ErrNoRecord, got %v", err)
	}
}

func TestCreateRecord(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	rec := testRecord(1)
	if err := db.CreateRecord(rec, "vault-1"); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	got, err := db.GetRecord()
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !bytes.Equal(got.Salt, rec.Salt) || got.Iterations != rec.Iterations {
		t.Errorf("KDF parameters mismatch: got %+v", got)
	}
	if !bytes.Equal(got.Ciphertext, rec.Ciphertext) || !bytes.Equal(got.Nonce, rec.Nonce) {
		t.Error("Envelope mismatch")
	}

	vaultID, err := db.GetVaultID()
	if err != nil {
		t.Fatalf("GetVaultID failed: %v", err)
	}
	if vaultID != "vault-1" {
		t.Errorf("Vault ID mismatch: got %s", vaultID)
	}

	if _, err := db.GetCreated(); err != nil {
		t.Errorf("Created time not stored: %v", err)
	}

	// Second create must not overwrite
	if err := db.CreateRecord(testRecord(9), "vault-2"); !errors.Is(err, ErrRecordExists) {
		t.Errorf("Expected ErrRecordExists, got %v", err)
	}
}

func TestUpdateEnvelopeKeepsKDFParameters(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	rec := testRecord(1)
	if err := db.CreateRecord(rec, "vault-1"); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	before, err := db.GetModified()
	if err != nil {
		t.Fatalf("GetModified failed: %v", err)
	}

	newCT := bytes.Repeat([]byte{0xAA}, 64)
	newIV := bytes.Repeat([]byte{0xBB}, crypto.NonceSize)
	if err := db.UpdateEnvelope(newCT, newIV); err != nil {
		t.Fatalf("UpdateEnvelope failed: %v", err)
	}

	got, err := db.GetRecord()
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !bytes.Equal(got.Ciphertext, newCT) || !bytes.Equal(got.Nonce, newIV) {
		t.Error("Envelope was not replaced")
	}
	if !bytes.Equal(got.Salt, rec.Salt) || got.Iterations != rec.Iterations || got.Version != rec.Version {
		t.Error("Salt, iterations or version changed")
	}

	after, err := db.GetModified()
	if err != nil {
		t.Fatalf("GetModified failed: %v", err)
	}
	if after.Before(before) {
		t.Errorf("Modified went backwards: %v -> %v", before, after)
	}
}

func TestUpdateEnvelopeWithoutRecord(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	err := db.UpdateEnvelope(bytes.Repeat([]byte{1}, 32), bytes.Repeat([]byte{2}, crypto.NonceSize))
	if !errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected ErrNoRecord, got %v", err)
	}
}

func TestUpdateEnvelopeRejectsBadNonce(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	rec := testRecord(1)
	if err := db.CreateRecord(rec, "vault-1"); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if err := db.UpdateEnvelope(bytes.Repeat([]byte{1}, 32), []byte{1, 2, 3}); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("Expected ErrMalformedRecord, got %v", err)
	}

	// Stored record untouched
	got, err := db.GetRecord()
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !bytes.Equal(got.Nonce, rec.Nonce) {
		t.Error("Record changed after rejected update")
	}
}

func TestReplaceRecord(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.CreateRecord(testRecord(1), "vault-1"); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	replacement := testRecord(7)
	replacement.Iterations = 42
	if err := db.ReplaceRecord(replacement, "vault-2"); err != nil {
		t.Fatalf("ReplaceRecord failed: %v", err)
	}

	got, err := db.GetRecord()
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !bytes.Equal(got.Salt, replacement.Salt) || got.Iterations != 42 {
		t.Errorf("Record not replaced: %+v", got)
	}

	vaultID, _ := db.GetVaultID()
	if vaultID != "vault-2" {
		t.Errorf("Vault ID not replaced: %s", vaultID)
	}
}

func TestRawRecordMatchesMarshal(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	rec := testRecord(3)
	if err := db.CreateRecord(rec, "v"); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	raw, err := db.RawRecord()
	if err != nil {
		t.Fatalf("RawRecord failed: %v", err)
	}
	want, _ := rec.Marshal()
	if !bytes.Equal(raw, want) {
		t.Errorf("Raw record mismatch:\n got %s\nwant %s", raw, want)
	}
}

func TestPersistence(t *testing.T) {
	db, dbPath := openTestDB(t)

	rec := testRecord(5)
	if err := db.CreateRecord(rec, "persisted"); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	db.Close()

	// Reopen and verify
	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()

	got, err := db2.GetRecord()
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !bytes.Equal(got.Ciphertext, rec.Ciphertext) {
		t.Error("Record not persisted correctly")
	}
}

func TestCompact(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.CreateRecord(testRecord(1), "compact-me"); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		ct := bytes.Repeat([]byte{byte(i)}, 4096)
		if err := db.UpdateEnvelope(ct, bytes.Repeat([]byte{byte(i)}, crypto.NonceSize)); err != nil {
			t.Fatalf("UpdateEnvelope %d failed: %v", i, err)
		}
	}
	want, err := db.RawRecord()
	if err != nil {
		t.Fatalf("RawRecord failed: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	got, err := db.RawRecord()
	if err != nil {
		t.Fatalf("RawRecord after compact failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("Record changed by compaction")
	}
	if id, _ := db.GetVaultID(); id != "compact-me" {
		t.Errorf("Vault ID lost in compaction: %q", id)
	}
}
