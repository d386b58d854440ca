package handlers

import (
	"IonAuth/internal/config"
	"IonAuth/internal/middleware"
	"IonAuth/internal/service"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию, вход и профиль.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
	validate    *validator.Validate
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{
		UserService: userService,
		Logger:      logger,
		Config:      cfg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

type credentialsRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// decodeCredentials читает тело; false — ответ с ошибкой уже записан.
func (h *UserHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := middleware.DecodeBody(r, &req); err != nil {
		h.Logger.Warnw("invalid request body", "path", r.URL.Path, "error", err)
		writeFail(w, http.StatusBadRequest, "Please pass name and password.")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeFail(w, http.StatusBadRequest, "Please pass name and password.")
		return req, false
	}
	return req, true
}

// Signup регистрация пользователя
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrLoginTaken) {
			writeFail(w, http.StatusConflict, "Username already exists.")
			return
		}
		h.Logger.Errorw("Signup: service error", "name", req.Name, "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal error.")
		return
	}

	h.Logger.Infow("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, Result{Success: true, Message: "Successfully created new user."})
}

// Login вход: выдаёт JWT в теле ответа и в cookie
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeFail(w, http.StatusUnauthorized, "Authentication failed. Wrong name or password.")
			return
		}
		h.Logger.Errorw("Login: service error", "name", req.Name, "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal error.")
		return
	}

	token, err := middleware.SetLoginCookieTTL(w, user.ID, h.Config.AuthSecret, h.Config.TokenTTL)
	if err != nil {
		h.Logger.Errorw("Login: sign token", "user_id", user.ID, "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true, Token: token})
}

// Me профиль текущего пользователя
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "No token provided.")
		return
	}

	user, err := h.UserService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeFail(w, http.StatusUnauthorized, "User not found.")
			return
		}
		h.Logger.Errorw("Me: service error", "user_id", userID, "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal error.")
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true, User: &UserResult{ID: user.ID, Name: user.Login}})
}
