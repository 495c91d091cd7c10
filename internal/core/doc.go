// Package core provides the vault session for lockdiary.
//
// A Session is either Locked (no key, no plaintext) or Unlocked (derived key
// and decrypted journal held in memory). Transitions:
//   - CreateNew: make a vault with an empty journal and unlock it
//   - Unlock: derive the key from the stored salt/iterations and decrypt
//   - Mutate: change the journal and re-encrypt it before returning
//   - Lock: wipe the key and drop the journal
//   - ImportRecord: replace the whole vault with a backup that opens
//
// Decryption success is the only password check; there is no stored
// verifier. Wrong password and corrupted data produce the same error.
package core
