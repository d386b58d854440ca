package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"IonAuth/internal/cli/repo"
)

// LocalStorageFS — файловое local storage: один файл на ключ.
type LocalStorageFS struct {
	dir string
}

var _ repo.LocalStorage = (*LocalStorageFS)(nil)

// DefaultDir — <UserConfigDir>/IonAuth/localStorage.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "IonAuth", "localStorage"), nil
}

// NewLocalStorageFS создаёт хранилище в dir; пустой dir — каталог по умолчанию.
func NewLocalStorageFS(dir string) (*LocalStorageFS, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &LocalStorageFS{dir: dir}, nil
}

// keyPath экранирует ключ, чтобы он не мог выйти за пределы каталога.
func (s *LocalStorageFS) keyPath(key string) (string, error) {
	name := url.PathEscape(key)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, name), nil
}

// SetItem пишет значение атомарно через временный файл.
func (s *LocalStorageFS) SetItem(key, value string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *LocalStorageFS) GetItem(key string) (string, bool, error) {
	p, err := s.keyPath(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (s *LocalStorageFS) RemoveItem(key string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
