package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/illarion/lockdiary/internal/crypto"
	"github.com/illarion/lockdiary/internal/diary"
	"github.com/illarion/lockdiary/internal/storage"
)

const (
	VaultFile      = ".lockdiary"
	DirPermSecure  = 0700 // Directory: owner rwx only
	FilePermSecure = 0600 // File: owner rw only
)

var (
	ErrNotInitialized = errors.New("vault not initialized")
	ErrAlreadyExists  = errors.New("vault already exists")
	ErrUnlockFailed   = errors.New("unlock failed: incorrect password or corrupted data")
	ErrImportFailed   = errors.New("import failed: incorrect password or corrupted file")
	ErrNotUnlocked    = errors.New("vault is locked")
	ErrPersistFailed  = errors.New("failed to persist vault")
	ErrNotFound       = diary.ErrNotFound
	ErrInvalidDate    = diary.ErrInvalidDate
)

// State is the lock state of a session
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// Session owns the derived key and the decrypted journal while unlocked.
// All methods are serialized on one mutex.
type Session struct {
	mu         sync.Mutex
	db         *storage.Storage
	log        *zap.Logger
	iterations int
	now        func() time.Time

	state   State
	key     *crypto.Key
	journal *diary.Journal
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger. Secrets are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIterations sets the PBKDF2 work factor used when creating a vault.
// Existing vaults always use the iteration count stored in their record.
func WithIterations(n int) Option {
	return func(s *Session) {
		s.iterations = n
	}
}

// WithClock overrides the time source for entry timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New opens the vault database at path and returns a locked session
func New(path string, opts ...Option) (*Session, error) {
	s := &Session{
		log:        zap.NewNop(),
		iterations: crypto.DefaultIterations,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	initialized, err := db.IsInitialized()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read database: %w", err)
	}
	if !initialized {
		if err := db.Initialize(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}
	s.db = db
	s.log = s.log.With(zap.String("vault", path))

	return s, nil
}

// Close locks the session and releases the database
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lock()
	return s.db.Close()
}

// State returns the current lock state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Exists reports whether the vault holds a record
func (s *Session) Exists() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.HasRecord()
}

// CreateNew creates a vault with an empty journal and unlocks it
func (s *Session) CreateNew(ctx context.Context, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	exists, err := s.db.HasRecord()
	if err != nil {
		return fmt.Errorf("failed to check vault: %w", err)
	}
	if exists {
		return ErrAlreadyExists
	}
	s.lock()

	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}

	key, err := crypto.Derive(password, salt, s.iterations)
	if err != nil {
		return err
	}

	journal := diary.New()
	sealed, err := crypto.Seal(key, journal)
	if err != nil {
		key.Destroy()
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	vaultID := uuid.NewString()
	if err := s.db.CreateRecord(storage.NewRecord(salt, s.iterations, sealed), vaultID); err != nil {
		key.Destroy()
		if errors.Is(err, storage.ErrRecordExists) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.unlocked(key, journal)
	s.log.Info("vault created", zap.String("vault_id", vaultID), zap.Int("iterations", s.iterations))
	return nil
}

// Unlock derives the key from the stored recipe and decrypts the journal.
// A wrong password and a corrupted record are indistinguishable. A missing
// record is ErrUnlockFailed as well, additionally matching ErrNotInitialized.
func (s *Session) Unlock(ctx context.Context, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock()

	rec, err := s.db.GetRecord()
	if errors.Is(err, storage.ErrNoRecord) {
		return fmt.Errorf("%w: %w", ErrUnlockFailed, ErrNotInitialized)
	}
	if err != nil {
		s.log.Debug("unlock: unreadable record", zap.Error(err))
		return ErrUnlockFailed
	}

	key, journal, err := openRecord(rec, password)
	if err != nil {
		s.log.Debug("unlock: record did not open", zap.Error(err))
		return ErrUnlockFailed
	}

	s.unlocked(key, journal)
	s.log.Info("vault unlocked", zap.Int("entries", journal.Len()))
	return nil
}

// Lock discards the key and the journal. Always succeeds.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Unlocked {
		s.log.Info("vault locked")
	}
	s.lock()
}

// Mutate applies fn to a copy of the journal, seals the result and replaces
// the stored envelope. The session only adopts the new journal once the write
// has succeeded, so a failed persist leaves memory and disk as they were.
func (s *Session) Mutate(ctx context.Context, fn func(*diary.Journal) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.state != Unlocked {
		return ErrNotUnlocked
	}

	working := s.journal.Clone()
	if err := fn(working); err != nil {
		return err
	}

	sealed, err := crypto.Seal(s.key, working)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if err := s.db.UpdateEnvelope(sealed.Ciphertext, sealed.Nonce); err != nil {
		s.log.Error("persist failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	previous := s.journal
	s.journal = working
	clear(previous.Entries)
	s.log.Debug("journal persisted", zap.Int("entries", working.Len()))
	return nil
}

// ImportRecord replaces the whole vault with rec if password opens it.
// The session is locked first; on failure it stays locked and the active
// vault is untouched.
func (s *Session) ImportRecord(ctx context.Context, rec *storage.Record, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock()

	if rec == nil {
		return ErrImportFailed
	}
	if err := rec.Validate(); err != nil {
		s.log.Debug("import: invalid record", zap.Error(err))
		return ErrImportFailed
	}

	key, journal, err := openRecord(rec, password)
	if err != nil {
		s.log.Debug("import: record did not open", zap.Error(err))
		return ErrImportFailed
	}

	vaultID := uuid.NewString()
	if err := s.db.ReplaceRecord(rec.Clone(), vaultID); err != nil {
		key.Destroy()
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.unlocked(key, journal)
	s.log.Info("vault imported",
		zap.String("vault_id", vaultID),
		zap.Int("entries", journal.Len()),
		zap.Int("iterations", rec.Iterations))
	return nil
}

// Import parses a backup file and imports it
func (s *Session) Import(ctx context.Context, data []byte, password []byte) error {
	rec, err := storage.ParseRecord(data)
	if err != nil {
		s.log.Debug("import: unparseable file", zap.Error(err))
		s.Lock()
		return ErrImportFailed
	}
	return s.ImportRecord(ctx, rec, password)
}

// Export returns the persisted record bytes. No password is needed since the
// record is already encrypted.
func (s *Session) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.db.RawRecord()
	if errors.Is(err, storage.ErrNoRecord) {
		return nil, ErrNotInitialized
	}
	return data, err
}

// List returns all entries ordered by date
func (s *Session) List() ([]diary.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Unlocked {
		return nil, ErrNotUnlocked
	}
	entries := s.journal.List()
	diary.SortByDate(entries)
	return entries, nil
}

// Get returns the entry for date
func (s *Session) Get(date string) (diary.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Unlocked {
		return diary.Entry{}, ErrNotUnlocked
	}
	entry, ok := s.journal.Get(date)
	if !ok {
		return diary.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, date)
	}
	return entry, nil
}

// Upsert writes the entry for date and persists the journal
func (s *Session) Upsert(ctx context.Context, date, title, text string) (diary.Entry, error) {
	var entry diary.Entry
	err := s.Mutate(ctx, func(j *diary.Journal) error {
		var err error
		entry, err = j.Upsert(date, title, text, s.now())
		return err
	})
	return entry, err
}

// Remove deletes the entry for date, if any, and persists the journal
func (s *Session) Remove(ctx context.Context, date string) (bool, error) {
	var removed bool
	err := s.Mutate(ctx, func(j *diary.Journal) error {
		removed = j.Remove(date)
		return nil
	})
	return removed, err
}

// SetReaction sets or clears the reaction on an existing entry
func (s *Session) SetReaction(ctx context.Context, date, glyph string) error {
	return s.Mutate(ctx, func(j *diary.Journal) error {
		return j.SetReaction(date, glyph)
	})
}

// VaultID returns the identifier used for keyring lookups
func (s *Session) VaultID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.GetVaultID()
}

// Compact reclaims space left behind by record rewrites
func (s *Session) Compact(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Compact()
}

// openRecord derives the key for rec and decrypts its journal.
// The key is destroyed on any failure.
func openRecord(rec *storage.Record, password []byte) (*crypto.Key, *diary.Journal, error) {
	key, err := crypto.Derive(password, rec.Salt, rec.Iterations)
	if err != nil {
		return nil, nil, err
	}

	journal := diary.New()
	if err := crypto.Open(key, rec.Ciphertext, rec.Nonce, journal); err != nil {
		key.Destroy()
		return nil, nil, err
	}
	if err := journal.Validate(); err != nil {
		key.Destroy()
		return nil, nil, err
	}
	if journal.Entries == nil {
		journal.Entries = make(map[string]diary.Entry)
	}
	return key, journal, nil
}

func (s *Session) unlocked(key *crypto.Key, journal *diary.Journal) {
	s.key = key
	s.journal = journal
	s.state = Unlocked
}

// lock must be called with s.mu held
func (s *Session) lock() {
	s.key.Destroy()
	s.key = nil
	if s.journal != nil {
		clear(s.journal.Entries)
	}
	s.journal = nil
	s.state = Locked
}
