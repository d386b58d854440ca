package commands

import (
	"context"
	"errors"
	"fmt"

	"IonAuth/internal/cli/page"
	"IonAuth/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show current user" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()
	err = s.home.Render(ctx)
	if errors.Is(err, page.ErrNoToken) {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	return err
}

func init() { RegisterCmd(statusCmd{}) }
