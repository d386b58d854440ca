package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"

	"IonAuth/internal/config"
)

// ErrUsage — неверные аргументы; Dispatch печатает Usage команды и выходит с кодом 2.
var ErrUsage = errors.New("usage")

// Command — подкоманда клиента IonAuth (signup, login, status, logout).
type Command interface {
	// Name — имя в командной строке.
	Name() string
	// Description — строка для общего help.
	Description() string
	// Usage, например "signup <name> [password]".
	Usage() string
	// Run получает аргументы без имени команды.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out — вывод страниц, alert и help. В тестах подменяется буфером.
var Out io.Writer = os.Stdout

// In — stdin для подсказки пароля и закрытия alert. nil отключает интерактив.
var In = os.Stdin

// Logger — логгер клиентских страниц; по умолчанию молчит.
var Logger = zap.NewNop().Sugar()

// RegisterCmd вызывается из init() файла команды.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List — зарегистрированные команды по алфавиту.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b Command) int { return strings.Compare(a.Name(), b.Name()) })
	return list
}

// FormatGlobalUsage — общий help: команды и переменные окружения клиента.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("IonAuth CLI\n\n")
	b.WriteString("Usage:\n  ionauth [--base-url <host:port>|URL] [--storage file|sqlite] <command> [args]\n\n")
	b.WriteString("Commands:\n")
	for _, c := range List() {
		fmt.Fprintf(&b, "  %-28s %s\n", c.Usage(), c.Description())
	}
	b.WriteString("\nEnvironment:\n")
	b.WriteString("  BASE_URL, ENABLE_HTTPS       auth server address\n")
	b.WriteString("  STORAGE_BACKEND              file (default) or sqlite\n")
	b.WriteString("  LOCAL_STORAGE_DIR            directory of the file backend\n")
	b.WriteString("  CLIENT_DB_PATH               database of the sqlite backend\n")
	return b.String()
}
