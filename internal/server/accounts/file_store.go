package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/booklib/internal/filex"
)

// FileStore keeps accounts as a pretty-printed JSON array in a single file.
// A missing or empty file reads as no accounts.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]Account, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Account{}, nil
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Account{}, nil
	}

	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("decode users file %s: %w", s.path, err)
	}
	return accounts, nil
}

// Save replaces the whole file atomically, so a concurrent Load sees either
// the old or the new collection.
func (s *FileStore) Save(ctx context.Context, accounts []Account) error {
	if accounts == nil {
		accounts = []Account{}
	}
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	if err := filex.WriteAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("save users file: %w", err)
	}
	return nil
}
