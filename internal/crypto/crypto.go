package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize          = 16     // Salt size in bytes
	KeySize           = 32     // AES-256 key size
	NonceSize         = 12     // GCM nonce size
	TagSize           = 16     // GCM authentication tag size
	DefaultIterations = 150000 // Default PBKDF2 iterations
	// MaxIterations bounds the work factor accepted from a record. Derivation
	// cannot be interrupted, so an imported file must not be able to demand
	// hours of CPU.
	MaxIterations = 10_000_000
	Algorithm         = "AES-256-GCM"
	KDFName           = "PBKDF2-HMAC-SHA256"
)

var (
	ErrDerivation   = errors.New("invalid key derivation parameters")
	ErrAuthFailed   = errors.New("authentication failed")
	ErrPayload      = errors.New("invalid payload")
	ErrKeyDestroyed = errors.New("key destroyed")
)

// Key is a derived symmetric key usable only with Seal and Open
type Key struct {
	buf *memguard.LockedBuffer
}

// Derive derives an encryption key from a password.
// The same password, salt and iteration count always yield the same key.
func Derive(password, salt []byte, iterations int) (*Key, error) {
	if iterations < 1 || iterations > MaxIterations {
		return nil, fmt.Errorf("%w: iterations must be in 1..%d, got %d", ErrDerivation, MaxIterations, iterations)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrDerivation, SaltSize, len(salt))
	}

	// NewBufferFromBytes wipes the source slice
	raw := pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
	return &Key{buf: memguard.NewBufferFromBytes(raw)}, nil
}

// Destroy wipes the key. Safe to call more than once.
func (k *Key) Destroy() {
	if k == nil || k.buf == nil {
		return
	}
	k.buf.Destroy()
}

// Alive reports whether the key can still be used
func (k *Key) Alive() bool {
	return k != nil && k.buf != nil && k.buf.IsAlive()
}

func (k *Key) aead() (cipher.AEAD, error) {
	if !k.Alive() {
		return nil, ErrKeyDestroyed
	}

	block, err := aes.NewCipher(k.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Sealed is the output of Seal
type Sealed struct {
	Ciphertext []byte
	Nonce      []byte
}

// Seal serializes payload to JSON and encrypts it under key with a fresh nonce
func Seal(key *Key, payload any) (*Sealed, error) {
	gcm, err := key.aead()
	if err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayload, err)
	}
	defer ClearBytes(plaintext)

	nonce, err := GenerateRandom(NonceSize)
	if err != nil {
		return nil, err
	}

	return &Sealed{
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
		Nonce:      nonce,
	}, nil
}

// Open verifies and decrypts ciphertext, then decodes the JSON payload into v.
// A wrong key and tampered input are both reported as ErrAuthFailed.
func Open(key *Key, ciphertext, nonce []byte, v any) error {
	if len(nonce) != NonceSize || len(ciphertext) < TagSize {
		return ErrAuthFailed
	}

	gcm, err := key.aead()
	if err != nil {
		return err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrAuthFailed
	}
	defer ClearBytes(plaintext)

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: %v", ErrPayload, err)
	}
	return nil
}

// NewSalt generates a random salt for a new vault
func NewSalt() ([]byte, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
