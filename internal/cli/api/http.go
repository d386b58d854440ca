package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout ограничивает один HTTP-вызов клиента.
const DefaultTimeout = 15 * time.Second

// Client — HTTP-клиент CLI. По умолчанию используется с таймаутом DefaultTimeout.
var Client = &http.Client{Timeout: DefaultTimeout}

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as a Bearer token.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req, token)
}

// GetJSON sends a GET request expecting a JSON answer.
func GetJSON(ctx context.Context, url string, token string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	return do(req, token)
}

func do(req *http.Request, token string) (*http.Response, []byte, error) {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, bytes.TrimSpace(body), nil
}
