package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"IonAuth/internal/cli/api"
)

// Credentials — значения формы регистрации/входа.
type Credentials struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Result — ответ сервиса аутентификации: {success, message|token}.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Profile — данные текущего пользователя.
type Profile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AuthService описывает вызовы удалённого сервиса аутентификации.
type AuthService interface {
	// SignUp регистрирует пользователя.
	SignUp(ctx context.Context, creds Credentials) (Result, error)
	// LoginUser выполняет вход и возвращает токен.
	LoginUser(ctx context.Context, creds Credentials) (Result, error)
	// Me возвращает профиль владельца токена.
	Me(ctx context.Context, token string) (Profile, error)
}

// HTTPAuthService — AuthService поверх HTTP API сервера.
type HTTPAuthService struct {
	BaseURL string
}

var _ AuthService = (*HTTPAuthService)(nil)

func NewHTTPAuthService(baseURL string) *HTTPAuthService {
	return &HTTPAuthService{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *HTTPAuthService) SignUp(ctx context.Context, creds Credentials) (Result, error) {
	return s.post(ctx, "/api/signup", creds)
}

func (s *HTTPAuthService) LoginUser(ctx context.Context, creds Credentials) (Result, error) {
	res, err := s.post(ctx, "/api/login", creds)
	if err != nil {
		return res, err
	}
	if res.Success && res.Token == "" {
		return Result{}, errors.New("login succeeded but no token returned")
	}
	return res, nil
}

// post декодирует {success,...} при любом статусе; не-JSON тело — ошибка транспорта.
func (s *HTTPAuthService) post(ctx context.Context, path string, creds Credentials) (Result, error) {
	resp, body, err := api.PostJSON(ctx, s.BaseURL+path, creds, "")
	if err != nil {
		return Result{}, err
	}
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, fmt.Errorf("server status %d: %s", resp.StatusCode, statusText(resp, body))
	}
	if !res.Success && res.Message == "" {
		res.Message = statusText(resp, nil)
	}
	return res, nil
}

type meResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    *Profile `json:"user"`
}

func (s *HTTPAuthService) Me(ctx context.Context, token string) (Profile, error) {
	resp, body, err := api.GetJSON(ctx, s.BaseURL+"/api/me", token)
	if err != nil {
		return Profile{}, err
	}
	var mr meResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return Profile{}, fmt.Errorf("server status %d: %s", resp.StatusCode, statusText(resp, body))
	}
	if !mr.Success || mr.User == nil {
		msg := mr.Message
		if msg == "" {
			msg = statusText(resp, nil)
		}
		return Profile{}, errors.New(msg)
	}
	return *mr.User, nil
}

func statusText(resp *http.Response, body []byte) string {
	if len(body) > 0 {
		return string(body)
	}
	return http.StatusText(resp.StatusCode)
}
