package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"IonAuth/internal/cli/repo"
	_ "modernc.org/sqlite"
)

// LocalStorageSQLite — local storage в таблице local_storage локальной БД SQLite.
type LocalStorageSQLite struct {
	db *sql.DB
}

var _ repo.LocalStorage = (*LocalStorageSQLite)(nil)

// Open открывает (и создаёт при необходимости) файл БД.
func Open(dbPath string) (*LocalStorageSQLite, error) {
	if dbPath == "" {
		return nil, errors.New("empty client db path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &LocalStorageSQLite{db: db}, nil
}

// Close закрывает соединение с БД.
func (s *LocalStorageSQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие таблицы.
func (s *LocalStorageSQLite) Migrate() error {
	_, err := s.db.Exec(initialDDL())
	return err
}

func (s *LocalStorageSQLite) SetItem(key, value string) error {
	if key == "" {
		return errors.New("empty key")
	}
	_, err := s.db.Exec(
		`INSERT INTO local_storage(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	return err
}

func (s *LocalStorageSQLite) GetItem(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (s *LocalStorageSQLite) RemoveItem(key string) error {
	_, err := s.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key)
	return err
}

// Count — число ключей в хранилище.
func (s *LocalStorageSQLite) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM local_storage`).Scan(&n)
	return n, err
}
