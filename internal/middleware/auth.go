package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthCookieName имя cookie с JWT.
const AuthCookieName = "auth_token"

// AccessTokenHeader альтернативный заголовок для токена (ionic-клиенты шлют его вместо cookie).
const AccessTokenHeader = "X-Access-Token"

// DefaultTokenTTL время жизни токена, если не задано иное.
const DefaultTokenTTL = 24 * time.Hour

type ctxKey string

const userIDKey ctxKey = "user_id"

// Claims — claims JWT с идентификатором пользователя.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// BuildJWTString создаёт подписанный HS256 токен для пользователя.
func BuildJWTString(userID int64, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(secret))
}

// ParseJWT проверяет подпись и срок действия, возвращает user_id.
func ParseJWT(tokenString, secret string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("token is not valid")
	}
	return claims.UserID, nil
}

// SetLoginCookie выписывает токен и кладёт его в cookie ответа. Возвращает сам токен.
func SetLoginCookie(w http.ResponseWriter, userID int64, secret string) (string, error) {
	return SetLoginCookieTTL(w, userID, secret, DefaultTokenTTL)
}

// SetLoginCookieTTL то же, что SetLoginCookie, но с явным временем жизни.
func SetLoginCookieTTL(w http.ResponseWriter, userID int64, secret string, ttl time.Duration) (string, error) {
	token, err := BuildJWTString(userID, secret, ttl)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(ttl),
	})
	return token, nil
}

// tokenFromRequest ищет токен: Authorization: Bearer, X-Access-Token, затем cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if h := r.Header.Get(AccessTokenHeader); h != "" {
		return h
	}
	if c, err := r.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

// WithAuth кладёт user_id в контекст, если токен валиден. Анонимные запросы пропускаются дальше.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := ParseJWT(token, secret)
			if err != nil {
				sugar.Debugw("auth: invalid token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext достаёт user_id, выставленный WithAuth.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
