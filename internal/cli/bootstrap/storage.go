package bootstrap

import (
	"fmt"

	"IonAuth/internal/cli/repo"
	fsrepo "IonAuth/internal/cli/repo/fs"
	reposqlite "IonAuth/internal/cli/repo/sqlite"
	"IonAuth/internal/config"
)

// OpenLocalStorage открывает local storage выбранного бэкенда и возвращает (storage, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func OpenLocalStorage(cfg *config.Config) (repo.LocalStorage, func() error, error) {
	switch cfg.StorageBackend {
	case config.StorageSQLite:
		s, err := reposqlite.Open(cfg.ClientDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open client db: %w", err)
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("migrate client db: %w", err)
		}
		return s, s.Close, nil
	case config.StorageFile, "":
		s, err := fsrepo.NewLocalStorageFS(cfg.LocalStorageDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open local storage: %w", err)
		}
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
