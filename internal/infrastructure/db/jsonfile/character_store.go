// Package jsonfile stores the character collection as a single pretty-printed
// JSON array on disk. Every Load reads the whole file and every Save
// overwrites it.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
)

const filePerm = 0o644

// CharacterStore implements ports.CharacterStore on top of a JSON file.
// It does no locking: concurrent Saves are last-write-wins.
type CharacterStore struct {
	path string
}

func NewCharacterStore(path string) *CharacterStore {
	return &CharacterStore{path: path}
}

// Path returns the backing file location.
func (s *CharacterStore) Path() string {
	return s.path
}

// Load reads and decodes the whole file. A missing or empty file is an empty
// collection.
func (s *CharacterStore) Load(_ context.Context) ([]domain.Character, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Character{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read character file: %w", err)
	}

	chars := []domain.Character{}
	if len(data) == 0 {
		return chars, nil
	}
	if err := json.Unmarshal(data, &chars); err != nil {
		return nil, fmt.Errorf("decode character file %s: %w", s.path, err)
	}
	if chars == nil {
		// the file held a JSON null
		chars = []domain.Character{}
	}
	return chars, nil
}

// Save replaces the file contents with chars, indented by two spaces.
func (s *CharacterStore) Save(_ context.Context, chars []domain.Character) error {
	if chars == nil {
		chars = []domain.Character{}
	}
	data, err := json.MarshalIndent(chars, "", "  ")
	if err != nil {
		return fmt.Errorf("encode characters: %w", err)
	}
	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("write character file: %w", err)
	}
	return nil
}

// Ping checks that the file, or the directory it will be created in, is
// reachable.
func (s *CharacterStore) Ping(_ context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat character file: %w", err)
	}

	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", dir)
	}
	return nil
}
