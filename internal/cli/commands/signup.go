package commands

import (
	"context"

	"IonAuth/internal/config"
)

type signupCmd struct{}

func (signupCmd) Name() string        { return "signup" }
func (signupCmd) Description() string { return "Create account, login and store token" }
func (signupCmd) Usage() string       { return "signup <name> [password]" }

func (signupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	creds, err := credentialsFromArgs(args)
	if err != nil {
		return err
	}
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()
	return s.signup.OnSignup(ctx, creds)
}

func init() { RegisterCmd(signupCmd{}) }
