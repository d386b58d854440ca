package handlers

import (
	"net/http"
)

// PageNotFound текст ошибки catch-all обработчика.
const PageNotFound = "Page not found"

// NotFound возвращает catch-all обработчик: [{"error":...}] и, если БД не поднялась, [{"error":...},{"err":...}].
func NotFound(dbErr error) http.HandlerFunc {
	body := []map[string]any{{"error": PageNotFound}}
	if dbErr != nil {
		body = append(body, map[string]any{"err": dbErr.Error()})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, body)
	}
}
