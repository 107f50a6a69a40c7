package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"subscriber-tracker/internal/model"
)

// FileStore persists the join log as a single JSON snapshot file,
// rewritten in full on every append.
type FileStore struct {
	memoryLog
	path string
}

// NewFileStore loads the snapshot at path. A missing or malformed file is
// treated as a first run: the store starts empty and never fails construction.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[warn] read join log %s: %v, starting empty", path, err)
		}
		return s
	}

	var records []model.JoinRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("[warn] parse join log %s: %v, starting empty", path, err)
		return s
	}

	s.records = records
	return s
}

func (s *FileStore) Append(ctx context.Context, rec model.JoinRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	return s.write()
}

// Ping rewrites the current snapshot to prove the backing file is writable.
func (s *FileStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// write persists the whole sequence. Caller holds the mutex.
func (s *FileStore) write() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode join log: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create join log dir %q: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write join log: %w", err)
	}
	return nil
}
