package commands

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"IonAuth/internal/cli/page"
	fsrepo "IonAuth/internal/cli/repo/fs"
	"IonAuth/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токен/база) создавались в temp. Интерактив отключается.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	oldIn := In
	In = nil
	t.Cleanup(func() { In = oldIn })
	return dir
}

func fileConfig(serverURL string) *config.Config {
	return &config.Config{ServerURL: serverURL, StorageBackend: config.StorageFile}
}

// storedToken читает токен из файлового storage по умолчанию.
func storedToken(t *testing.T) (string, bool) {
	t.Helper()
	s, err := fsrepo.NewLocalStorageFS("")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	tok, ok, err := page.LoadToken(s)
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	return tok, ok
}

func storageFiles(t *testing.T) []os.DirEntry {
	t.Helper()
	dir, err := fsrepo.DefaultDir()
	if err != nil {
		t.Fatalf("default dir: %v", err)
	}
	ents, _ := os.ReadDir(filepath.Clean(dir))
	return ents
}
