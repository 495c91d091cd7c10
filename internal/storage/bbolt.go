package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/illarion/lockdiary/internal/crypto"
)

// Bucket names
var (
	VaultBucket  = []byte("vault")  // The encrypted record
	ConfigBucket = []byte("config") // Timestamps, vault ID - unencrypted
)

// Keys
var (
	RecordKey      = []byte("record")
	ConfigLayout   = []byte("layout")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigVaultID  = []byte("vault_id")
)

const (
	layoutVersion = "1"
	openTimeout   = time.Second
)

var (
	ErrNoRecord     = errors.New("vault record not found")
	ErrRecordExists = errors.New("vault record already exists")
)

// Storage provides BBolt-based storage for the vault record
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a vault database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure. Safe to call on an initialized database.
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{VaultBucket, ConfigBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigLayout) != nil {
			return nil
		}
		return config.Put(ConfigLayout, []byte(layoutVersion))
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigLayout) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// HasRecord reports whether a vault record has been written
func (s *Storage) HasRecord() (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		vault := tx.Bucket(VaultBucket)
		found = vault != nil && vault.Get(RecordKey) != nil
		return nil
	})
	return found, err
}

// RawRecord returns the stored record bytes exactly as persisted
func (s *Storage) RawRecord() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		vault := tx.Bucket(VaultBucket)
		if vault == nil {
			return ErrNoRecord
		}
		data = vault.Get(RecordKey)
		if data == nil {
			return ErrNoRecord
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), data...)
		return nil
	})
	return data, err
}

// GetRecord reads and parses the vault record
func (s *Storage) GetRecord() (*Record, error) {
	data, err := s.RawRecord()
	if err != nil {
		return nil, err
	}
	return ParseRecord(data)
}

// CreateRecord writes the first record of a new vault
func (s *Storage) CreateRecord(rec *Record, vaultID string) error {
	data, err := rec.Marshal()
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		vault, config, err := buckets(tx)
		if err != nil {
			return err
		}
		if vault.Get(RecordKey) != nil {
			return ErrRecordExists
		}
		if err := vault.Put(RecordKey, data); err != nil {
			return err
		}

		now, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, now); err != nil {
			return err
		}
		if err := config.Put(ConfigModified, now); err != nil {
			return err
		}
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
}

// UpdateEnvelope replaces the ciphertext and nonce of the stored record.
// Version, salt and iterations are read back from the stored record inside
// the same transaction and kept unchanged.
func (s *Storage) UpdateEnvelope(ciphertext, nonce []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		vault, config, err := buckets(tx)
		if err != nil {
			return err
		}
		current := vault.Get(RecordKey)
		if current == nil {
			return ErrNoRecord
		}
		rec, err := ParseRecord(current)
		if err != nil {
			return err
		}

		rec = rec.WithEnvelope(&crypto.Sealed{Ciphertext: ciphertext, Nonce: nonce})
		data, err := rec.Marshal()
		if err != nil {
			return err
		}
		if err := vault.Put(RecordKey, data); err != nil {
			return err
		}
		return touch(config)
	})
}

// ReplaceRecord swaps in a whole new record, e.g. from an imported backup
func (s *Storage) ReplaceRecord(rec *Record, vaultID string) error {
	data, err := rec.Marshal()
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		vault, config, err := buckets(tx)
		if err != nil {
			return err
		}
		if err := vault.Put(RecordKey, data); err != nil {
			return err
		}
		if config.Get(ConfigCreated) == nil {
			now, _ := time.Now().MarshalBinary()
			if err := config.Put(ConfigCreated, now); err != nil {
				return err
			}
		}
		if err := config.Put(ConfigVaultID, []byte(vaultID)); err != nil {
			return err
		}
		return touch(config)
	})
}

// GetCreated retrieves the creation timestamp
func (s *Storage) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

func (s *Storage) getTime(key []byte) (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(key)
		if data == nil {
			return fmt.Errorf("%s time not found", key)
		}
		return t.UnmarshalBinary(data)
	})
	return t, err
}

// GetVaultID retrieves the vault ID from config bucket
func (s *Storage) GetVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVaultID)
		if data == nil {
			return fmt.Errorf("vault_id not found")
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// Size returns the size of the database file in bytes
func (s *Storage) Size() (int64, error) {
	var size int64
	err := s.db.View(func(tx *bolt.Tx) error {
		size = tx.Size()
		return nil
	})
	return size, err
}

func buckets(tx *bolt.Tx) (vault, config *bolt.Bucket, err error) {
	vault = tx.Bucket(VaultBucket)
	config = tx.Bucket(ConfigBucket)
	if vault == nil || config == nil {
		return nil, nil, fmt.Errorf("database not initialized")
	}
	return vault, config, nil
}

func touch(config *bolt.Bucket) error {
	modified, _ := time.Now().MarshalBinary()
	return config.Put(ConfigModified, modified)
}

// Compact creates a compacted copy of the database, removing unused space.
// Every mutation rewrites the record, so free pages accumulate over time.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	// Create new database
	dst, err := bolt.Open(tmpPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	// Reopen database
	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
