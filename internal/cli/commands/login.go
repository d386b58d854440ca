package commands

import (
	"context"

	"IonAuth/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store token" }
func (loginCmd) Usage() string       { return "login <name> [password]" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	creds, err := credentialsFromArgs(args)
	if err != nil {
		return err
	}
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()
	return s.signup.CreateToken(ctx, creds)
}

func init() { RegisterCmd(loginCmd{}) }
