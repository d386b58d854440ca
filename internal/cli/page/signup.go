package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"IonAuth/internal/cli/repo"
	"IonAuth/internal/cli/service"
	"IonAuth/internal/cli/ui"
)

// AuthTokenKey — ключ local storage, под которым лежит {"token": ...}.
const AuthTokenKey = "authTokenTest"

const (
	alertTitle  = "Erreur"
	alertButton = "OK"
)

var (
	// ErrInvalidForm — не заполнены обязательные поля формы.
	ErrInvalidForm = errors.New("name and password are required")
	// ErrRejected — сервер ответил success=false.
	ErrRejected = errors.New("request rejected")
)

type tokenData struct {
	Token string `json:"token"`
}

// SignupPage — форма регистрации: signup, затем login теми же данными,
// сохранение токена и переход на домашний экран.
type SignupPage struct {
	auth     service.AuthService
	storage  repo.LocalStorage
	nav      ui.Navigator
	alerts   ui.Alerter
	loader   ui.Loader
	home     ui.Page
	logger   *zap.SugaredLogger
	validate *validator.Validate
}

func NewSignupPage(
	auth service.AuthService,
	storage repo.LocalStorage,
	nav ui.Navigator,
	alerts ui.Alerter,
	loader ui.Loader,
	home ui.Page,
	logger *zap.SugaredLogger,
) *SignupPage {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SignupPage{
		auth:     auth,
		storage:  storage,
		nav:      nav,
		alerts:   alerts,
		loader:   loader,
		home:     home,
		logger:   logger,
		validate: validator.New(),
	}
}

// OnSignup обрабатывает отправку формы.
func (p *SignupPage) OnSignup(ctx context.Context, form service.Credentials) error {
	if err := p.validate.Struct(form); err != nil {
		p.ShowError("Please pass name and password.", false)
		return ErrInvalidForm
	}

	p.loader.Present()
	res, err := p.auth.SignUp(ctx, form)
	if err != nil {
		p.logger.Errorw("signup request failed", "error", err)
		p.ShowError(err.Error(), true)
		return fmt.Errorf("signup: %w", err)
	}
	if !res.Success {
		p.logger.Warnw("signup rejected", "message", res.Message)
		p.ShowError(res.Message, true)
		return fmt.Errorf("signup: %w: %s", ErrRejected, res.Message)
	}
	p.logger.Infow("signup succeeded", "name", form.Name)
	return p.CreateToken(ctx, form)
}

// CreateToken логинится с теми же данными, сохраняет токен и открывает домашний экран.
func (p *SignupPage) CreateToken(ctx context.Context, form service.Credentials) error {
	res, err := p.auth.LoginUser(ctx, form)
	if err != nil {
		p.logger.Errorw("login request failed", "error", err)
		p.ShowError(err.Error(), true)
		return fmt.Errorf("login: %w", err)
	}
	if !res.Success {
		p.logger.Warnw("login rejected", "message", res.Message)
		p.ShowError(res.Message, true)
		return fmt.Errorf("login: %w: %s", ErrRejected, res.Message)
	}
	if err := p.SaveToken(res.Token); err != nil {
		p.ShowError(err.Error(), true)
		return err
	}
	// токен уже сохранён и остаётся
	if err := p.nav.SetRoot(ctx, p.home); err != nil {
		p.logger.Warnw("home page failed", "error", err)
		p.ShowError(err.Error(), true)
		return fmt.Errorf("home: %w", err)
	}
	return nil
}

// SaveToken пишет {"token": token} под AuthTokenKey.
func (p *SignupPage) SaveToken(token string) error {
	return SaveToken(p.storage, token)
}

// ShowError закрывает индикатор (если нужно) и показывает alert с одной кнопкой.
func (p *SignupPage) ShowError(text string, hideLoading bool) {
	if hideLoading {
		p.loader.Dismiss()
	}
	p.alerts.Alert(alertTitle, text, alertButton)
}

// SaveToken сохраняет токен в storage.
func SaveToken(storage repo.LocalStorage, token string) error {
	b, err := json.Marshal(tokenData{Token: token})
	if err != nil {
		return err
	}
	if err := storage.SetItem(AuthTokenKey, string(b)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// LoadToken читает токен; ok=false, если его нет.
func LoadToken(storage repo.LocalStorage) (string, bool, error) {
	raw, ok, err := storage.GetItem(AuthTokenKey)
	if err != nil || !ok {
		return "", false, err
	}
	var td tokenData
	if err := json.Unmarshal([]byte(raw), &td); err != nil {
		return "", false, fmt.Errorf("decode token: %w", err)
	}
	if td.Token == "" {
		return "", false, nil
	}
	return td.Token, true, nil
}
