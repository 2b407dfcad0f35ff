package cartstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	domcart "example.com/loja/internal/domain/cart"
)

// FileStore keeps the cart as a JSON document named after the namespace.
type FileStore struct {
	path string
}

func NewFileStore(dir, namespace string) *FileStore {
	if namespace == "" {
		namespace = domcart.Namespace
	}
	return &FileStore{path: filepath.Join(dir, namespace+".json")}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) ([]domcart.LineItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domcart.ErrStateNotFound
		}
		return nil, fmt.Errorf("read cart file: %w", err)
	}
	return domcart.Decode(data)
}

// Save writes through a temp file and rename so a crash never leaves a
// truncated cart behind.
func (s *FileStore) Save(ctx context.Context, items []domcart.LineItem) error {
	data, err := domcart.Encode(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cart-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace cart file: %w", err)
	}
	return nil
}
