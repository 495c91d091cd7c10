// Package diary holds the plaintext journal: one entry per calendar date.
//
// A Journal is pure in-memory data. It never persists itself; the vault
// session seals and writes it after every change.
package diary
