package commands

import (
	"fmt"

	"IonAuth/internal/cli/bootstrap"
	"IonAuth/internal/cli/page"
	"IonAuth/internal/cli/repo"
	"IonAuth/internal/cli/service"
	"IonAuth/internal/cli/ui"
	"IonAuth/internal/config"
)

// session — зависимости одной команды: storage, сервис и терминальный UI.
type session struct {
	storage repo.LocalStorage
	close   func() error
	auth    *service.HTTPAuthService
	home    *page.HomePage
	signup  *page.SignupPage
}

func openSession(cfg *config.Config) (*session, error) {
	storage, cleanup, err := bootstrap.OpenLocalStorage(cfg)
	if err != nil {
		return nil, err
	}
	auth := service.NewHTTPAuthService(cfg.ServerURL)
	loader := &ui.TerminalLoader{Out: Out}
	home := &page.HomePage{Auth: auth, Storage: storage, Out: Out}
	signup := page.NewSignupPage(
		auth,
		storage,
		&ui.StackNavigator{Loader: loader},
		ui.TerminalAlert{Out: Out, In: In},
		loader,
		home,
		Logger,
	)
	return &session{storage: storage, close: cleanup, auth: auth, home: home, signup: signup}, nil
}

// credentialsFromArgs принимает <name> [password]; без пароля спрашивает его в терминале.
func credentialsFromArgs(args []string) (service.Credentials, error) {
	switch len(args) {
	case 2:
		return service.Credentials{Name: args[0], Password: args[1]}, nil
	case 1:
		if !ui.IsTerminal(In) {
			return service.Credentials{}, ErrUsage
		}
		pwd, err := ui.ReadPassword(In, Out, "Password: ")
		if err != nil {
			return service.Credentials{}, fmt.Errorf("password: %w", err)
		}
		return service.Credentials{Name: args[0], Password: pwd}, nil
	default:
		return service.Credentials{}, ErrUsage
	}
}
