package page

import (
	"context"
	"errors"
	"fmt"
	"io"

	"IonAuth/internal/cli/repo"
	"IonAuth/internal/cli/service"
)

// ErrNoToken — в local storage нет токена.
var ErrNoToken = errors.New("not logged in")

// HomePage приветствует владельца сохранённого токена.
type HomePage struct {
	Auth    service.AuthService
	Storage repo.LocalStorage
	Out     io.Writer
}

func (h *HomePage) Render(ctx context.Context) error {
	token, ok, err := LoadToken(h.Storage)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoToken
	}
	p, err := h.Auth.Me(ctx, token)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	fmt.Fprintf(h.Out, "Welcome, %s (id %d)\n", p.Name, p.ID)
	return nil
}
