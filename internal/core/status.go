package core

import (
	"context"
	"time"

	"github.com/illarion/lockdiary/internal/crypto"
	"github.com/illarion/lockdiary/internal/git"
)

// StatusInfo describes the vault without decrypting it
type StatusInfo struct {
	Initialized   bool
	State         State
	Version       int
	Algorithm     string
	KDF           string
	KDFIterations int
	Created       time.Time
	LastModified  time.Time
	VaultID       string
	RecordSize    int
	FileSize      int64
	Git           *git.GitStatus
}

// Status returns the current status (no password required)
func (s *Session) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := &StatusInfo{
		State:     s.state,
		Algorithm: crypto.Algorithm,
		KDF:       crypto.KDFName,
	}

	if size, err := s.db.Size(); err == nil {
		status.FileSize = size
	}

	raw, err := s.db.RawRecord()
	if err != nil {
		// No record yet
		return status, nil
	}
	status.Initialized = true
	status.RecordSize = len(raw)

	rec, err := s.db.GetRecord()
	if err != nil {
		return status, err
	}
	status.Version = rec.Version
	status.KDFIterations = rec.Iterations

	// Not critical
	status.Created, _ = s.db.GetCreated()
	status.LastModified, _ = s.db.GetModified()
	status.VaultID, _ = s.db.GetVaultID()
	status.Git, _ = git.Check(s.db.Path())

	return status, nil
}
