// Package storage provides the persisted vault record and its BBolt home.
//
// Database structure uses two buckets:
//   - vault: the single record (version, salt, iterations, ct, iv) as JSON
//   - config: created/modified timestamps and the vault ID (unencrypted)
//
// The record value is always replaced whole inside one transaction, so a
// reader never observes a ciphertext paired with the wrong nonce. The same
// JSON bytes serve as the export/import backup file.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
