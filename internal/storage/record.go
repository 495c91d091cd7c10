package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/illarion/lockdiary/internal/codec"
	"github.com/illarion/lockdiary/internal/crypto"
)

// CurrentVersion is the only record layout this build reads and writes
const CurrentVersion = 1

var (
	ErrMalformedRecord    = errors.New("malformed vault record")
	ErrUnsupportedVersion = errors.New("unsupported vault record version")
)

// Record is the persisted vault: KDF recipe plus the sealed journal
type Record struct {
	Version    int
	Salt       []byte
	Iterations int
	Ciphertext []byte
	Nonce      []byte
}

// recordJSON is the on-disk and backup-file shape
type recordJSON struct {
	Version    *int    `json:"version"`
	Salt       *string `json:"salt"`
	Iterations *int    `json:"iterations"`
	CT         *string `json:"ct"`
	IV         *string `json:"iv"`
}

// NewRecord builds a current-version record from a KDF recipe and envelope
func NewRecord(salt []byte, iterations int, sealed *crypto.Sealed) *Record {
	return &Record{
		Version:    CurrentVersion,
		Salt:       append([]byte(nil), salt...),
		Iterations: iterations,
		Ciphertext: append([]byte(nil), sealed.Ciphertext...),
		Nonce:      append([]byte(nil), sealed.Nonce...),
	}
}

// WithEnvelope returns a copy of r carrying a new ciphertext and nonce.
// Version, salt and iterations are kept as they are.
func (r *Record) WithEnvelope(sealed *crypto.Sealed) *Record {
	c := r.Clone()
	c.Ciphertext = append([]byte(nil), sealed.Ciphertext...)
	c.Nonce = append([]byte(nil), sealed.Nonce...)
	return c
}

// Clone returns a deep copy
func (r *Record) Clone() *Record {
	return &Record{
		Version:    r.Version,
		Salt:       append([]byte(nil), r.Salt...),
		Iterations: r.Iterations,
		Ciphertext: append([]byte(nil), r.Ciphertext...),
		Nonce:      append([]byte(nil), r.Nonce...),
	}
}

// Validate checks structural constraints. It says nothing about whether the
// ciphertext opens under any key.
func (r *Record) Validate() error {
	switch {
	case r.Version < 1:
		return fmt.Errorf("%w: version %d", ErrMalformedRecord, r.Version)
	case r.Version > CurrentVersion:
		return fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, r.Version, CurrentVersion)
	case len(r.Salt) != crypto.SaltSize:
		return fmt.Errorf("%w: salt is %d bytes", ErrMalformedRecord, len(r.Salt))
	case r.Iterations < 1 || r.Iterations > crypto.MaxIterations:
		return fmt.Errorf("%w: iterations %d", ErrMalformedRecord, r.Iterations)
	case len(r.Nonce) != crypto.NonceSize:
		return fmt.Errorf("%w: iv is %d bytes", ErrMalformedRecord, len(r.Nonce))
	case len(r.Ciphertext) < crypto.TagSize:
		return fmt.Errorf("%w: ciphertext too short", ErrMalformedRecord)
	}
	return nil
}

// Marshal encodes the record in its persisted JSON form
func (r *Record) Marshal() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	salt := codec.EncodeBinary(r.Salt)
	ct := codec.EncodeBinary(r.Ciphertext)
	iv := codec.EncodeBinary(r.Nonce)
	return json.Marshal(recordJSON{
		Version:    &r.Version,
		Salt:       &salt,
		Iterations: &r.Iterations,
		CT:         &ct,
		IV:         &iv,
	})
}

// ParseRecord decodes and validates a persisted record or backup file
func ParseRecord(data []byte) (*Record, error) {
	if _, err := codec.DecodeText(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	var raw recordJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedRecord)
	}

	if raw.Version == nil || raw.Salt == nil || raw.Iterations == nil || raw.CT == nil || raw.IV == nil {
		return nil, fmt.Errorf("%w: missing field", ErrMalformedRecord)
	}

	rec := &Record{
		Version:    *raw.Version,
		Iterations: *raw.Iterations,
	}
	fields := []struct {
		name string
		src  string
		dst  *[]byte
	}{
		{"salt", *raw.Salt, &rec.Salt},
		{"ct", *raw.CT, &rec.Ciphertext},
		{"iv", *raw.IV, &rec.Nonce},
	}
	for _, f := range fields {
		b, err := codec.DecodeBinary(f.src)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrMalformedRecord, f.name, err)
		}
		*f.dst = b
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}
