// Package codec converts between raw bytes and the text forms used in the
// persisted vault record.
//
// Binary values (salt, nonce, ciphertext) are carried as standard padded
// base64. Text is UTF-8; decoding rejects invalid byte sequences.
package codec
