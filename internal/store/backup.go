package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bulbousnub/wats-go/internal/model"
)

// ExportPath returns the canonical data file for sharing. Every
// mutation saves atomically, so the file on disk is always a
// consistent snapshot and no extra copy is needed.
func (s *Store) ExportPath() string {
	return s.path
}

// Import reads a backup file, replaces all in-memory state, re-runs
// migration, and saves. If the file cannot be decoded nothing changes.
func (s *Store) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	var blob model.PersistBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("%w: %v", model.ErrBackupDecode, err)
	}

	s.mu.Lock()
	s.applyBlobLocked(&blob)
	s.migrateLocked()
	s.saveLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}
