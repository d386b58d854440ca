package middleware

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// WithStatic отдаёт файлы из root для GET/HEAD, если файл существует.
// Иначе запрос уходит дальше по цепочке. Dot-файлы игнорируются.
func WithStatic(root string) func(http.Handler) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			if !staticExists(root, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			fs.ServeHTTP(w, r)
		})
	}
}

func staticExists(root, urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	for _, seg := range strings.Split(clean, "/") {
		if strings.HasPrefix(seg, ".") {
			return false
		}
	}
	full := filepath.Join(root, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if info.IsDir() {
		idx, err := os.Stat(filepath.Join(full, "index.html"))
		return err == nil && !idx.IsDir()
	}
	return true
}
