// Package crypto provides key derivation and envelope encryption for lockdiary.
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt (stored unencrypted in the vault record)
//   - 150,000 iterations by default
//   - 32-byte output held in a memguard LockedBuffer
//
// Envelope encryption uses AES-256-GCM with:
//   - JSON serialization of the payload
//   - 12-byte random nonce per Seal call
//   - Authentication failure as the only signal for a wrong key
//
// Memory safety:
//   - Raw key bytes never leave this package
//   - Call Key.Destroy() to wipe a derived key
//   - Serialized plaintext is zeroed after sealing and opening
package crypto
