// Package file keeps learned results as JSON files on the local filesystem.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/ports"
)

// Store implements ports.ResultStore using the local filesystem.
// It stores one JSON file per corpus fingerprint in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".planfsa/results".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".planfsa", "results")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.BasePath, fingerprint+".json")
}

// Save persists the record atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, record *ports.LearnRecord) error {
	if record == nil || record.Fingerprint == "" {
		return errors.New("record fingerprint cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure result directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+record.Fingerprint+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.path(record.Fingerprint)
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove existing result for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load retrieves the record from its JSON file.
func (s *Store) Load(ctx context.Context, fingerprint string) (*ports.LearnRecord, error) {
	if fingerprint == "" {
		return nil, errors.New("fingerprint cannot be empty")
	}

	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var record ports.LearnRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &record, nil
}

// Delete removes the record file.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if fingerprint == "" {
		return errors.New("fingerprint cannot be empty")
	}

	err := os.Remove(s.path(fingerprint))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete result file: %w", err)
	}
	return nil
}

// List returns the fingerprints of all stored records.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	var fingerprints []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		fingerprints = append(fingerprints, strings.TrimSuffix(name, ".json"))
	}
	return fingerprints, nil
}
