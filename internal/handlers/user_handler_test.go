package handlers_test

import (
	"IonAuth/internal/config"
	"IonAuth/internal/handlers"
	"IonAuth/internal/middleware"
	"IonAuth/internal/model"
	"IonAuth/internal/repo"
	"IonAuth/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// resetMock очищает ожидания и записанные вызовы между подтестами.
func resetMock(m *mockUserRepo) {
	m.ExpectedCalls = nil
	m.Calls = nil
}

// --- Helpers ---
const testSecret = "test-secret"

func newTestRouter(t *testing.T, ur repo.UserRepository) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: testSecret}
	logger := zap.NewNop().Sugar()
	h := handlers.NewHandler(service.NewUserService(ur), nil, logger, cfg)
	// тело разбирается так же, как в сервере
	return middleware.WithBodyParser(0)(h.Router)
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_, _ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) handlers.Result {
	t.Helper()
	var res handlers.Result
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&res))
	return res
}

// --- Tests ---
func TestUser_Signup(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m)

	t.Run("ok", func(t *testing.T) {
		resetMock(m)
		m.On("GetUserByLogin", mock.Anything, "john").Return(nil, gorm.ErrRecordNotFound).Once()
		created := &model.User{ID: 42, Login: "john"}
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Login == "john" && u.Password != "" })).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{"name":"john","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		res := decodeResult(t, rr)
		assert.True(t, res.Success)
		assert.NotEmpty(t, res.Message)
		m.AssertExpectations(t)
	})

	t.Run("urlencoded form", func(t *testing.T) {
		resetMock(m)
		m.On("GetUserByLogin", mock.Anything, "jane").Return(nil, gorm.ErrRecordNotFound).Once()
		m.On("CreateUser", mock.Anything, mock.Anything).Return(&model.User{ID: 43, Login: "jane"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader("name=jane&password=p"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		m.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		resetMock(m)
		m.On("GetUserByLogin", mock.Anything, "john").Return(&model.User{ID: 1, Login: "john"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{"name":"john","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		res := decodeResult(t, rr)
		assert.False(t, res.Success)
		assert.Equal(t, "Username already exists.", res.Message)
		m.AssertExpectations(t)
	})

	t.Run("missing password", func(t *testing.T) {
		resetMock(m)
		req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{"name":"john"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, decodeResult(t, rr).Success)
		m.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("repo failure", func(t *testing.T) {
		resetMock(m)
		m.On("GetUserByLogin", mock.Anything, "john").Return(nil, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{"name":"john","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestUser_Login(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok", func(t *testing.T) {
		resetMock(m)
		m.On("GetUserByLogin", mock.Anything, "alice").Return(&model.User{ID: 2, Login: "alice", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"name":"alice","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		res := decodeResult(t, rr)
		assert.True(t, res.Success)
		uid, err := middleware.ParseJWT(res.Token, testSecret)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), uid)

		hasCookie := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == middleware.AuthCookieName {
				hasCookie = true
			}
		}
		assert.True(t, hasCookie)
		m.AssertExpectations(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		resetMock(m)
		m.On("GetUserByLogin", mock.Anything, "alice").Return(&model.User{ID: 2, Login: "alice", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"name":"alice","password":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		res := decodeResult(t, rr)
		assert.False(t, res.Success)
		assert.Empty(t, res.Token)
		assert.NotEmpty(t, res.Message)
		m.AssertExpectations(t)
	})
}

func TestUser_Me(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m)

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, decodeResult(t, rr).Success)
	})

	t.Run("authorized", func(t *testing.T) {
		resetMock(m)
		m.On("GetUserByID", mock.Anything, int64(77)).Return(&model.User{ID: 77, Login: "zed"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		addAuthCookie(t, req, 77, testSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		res := decodeResult(t, rr)
		require.NotNil(t, res.User)
		assert.Equal(t, "zed", res.User.Name)
		m.AssertExpectations(t)
	})
}
