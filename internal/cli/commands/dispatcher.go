package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"IonAuth/internal/config"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Dispatch выполняет команду из args и возвращает код выхода процесса:
// 0 — успех, 1 — ошибка команды (alert уже показан), 2 — неверный вызов.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if wantsHelp(os.Args[1:]) || wantsHelp(args) {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" {
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		return unknown(name)
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return exitUsage
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return exitError
	}
}

// help обрабатывает "ionauth help [command]".
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	c, ok := Get(args[0])
	if !ok {
		return unknown(args[0])
	}
	fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
	return exitOK
}

func unknown(name string) int {
	fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
	fmt.Fprint(Out, FormatGlobalUsage())
	return exitUsage
}

func wantsHelp(args []string) bool {
	return slices.Contains(args, "--help") || slices.Contains(args, "-h")
}
