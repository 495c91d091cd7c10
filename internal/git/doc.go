// Package git reports how the vault file relates to an enclosing git
// working tree.
//
// The vault is encrypted, so committing it is a supported way to sync a
// diary between machines. Plaintext exports next to it are not, and status
// warns when one is tracked.
package git
