package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// DefaultBodyLimit предел тела запроса (100kb).
const DefaultBodyLimit = 100 * 1024

const bodyKey ctxKey = "body"

// jsonTypes — типы, которые разбираются как JSON.
var jsonTypes = map[string]bool{
	"application/json":         true,
	"application/vnd.api+json": true,
}

const formType = "application/x-www-form-urlencoded"

// WithBodyParser разбирает JSON и urlencoded тела и кладёт результат в контекст.
// Тело остаётся доступным для повторного чтения.
func WithBodyParser(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || (!jsonTypes[mediaType] && mediaType != formType) {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeError(w, http.StatusRequestEntityTooLarge, "request entity too large")
					return
				}
				writeError(w, http.StatusBadRequest, "failed to read body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))

			var parsed any
			if mediaType == formType {
				parsed, err = parseForm(raw)
			} else {
				parsed, err = parseJSON(raw)
			}
			if err != nil {
				sugar.Debugw("body parser: invalid body", "content_type", mediaType, "error", err)
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), bodyKey, parsed)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseJSON принимает только объекты и массивы (strict-режим body-parser).
func parseJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, errors.New("invalid json: expected object or array")
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, errors.New("invalid json")
	}
	return v, nil
}

// parseForm разбирает urlencoded без вложенности: повторяющиеся ключи становятся массивом.
func parseForm(raw []byte) (any, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, errors.New("invalid urlencoded body")
	}
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		out[k] = vs
	}
	return out, nil
}

// BodyFromContext возвращает разобранное тело запроса.
func BodyFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(bodyKey)
	return v, v != nil
}

// DecodeBody заполняет dst из разобранного тела, а без него — читает JSON из r.Body.
func DecodeBody(r *http.Request, dst any) error {
	if parsed, ok := BodyFromContext(r.Context()); ok {
		b, err := json.Marshal(parsed)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
	if r.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
