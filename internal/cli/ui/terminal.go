package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// TerminalAlert печатает alert в Out. Если In — терминал, ждёт Enter.
type TerminalAlert struct {
	Out io.Writer
	In  *os.File
}

func (a TerminalAlert) Alert(title, subTitle string, buttons ...string) {
	fmt.Fprintf(a.Out, "[%s] %s\n", title, subTitle)
	if len(buttons) == 0 {
		return
	}
	labels := make([]string, len(buttons))
	for i, b := range buttons {
		labels[i] = "[" + b + "]"
	}
	fmt.Fprintln(a.Out, strings.Join(labels, " "))
	if a.In != nil && term.IsTerminal(int(a.In.Fd())) {
		_, _ = bufio.NewReader(a.In).ReadString('\n')
	}
}

// TerminalLoader печатает строку ожидания; повторный Present/Dismiss игнорируется.
type TerminalLoader struct {
	Out io.Writer

	mu     sync.Mutex
	active bool
}

func (l *TerminalLoader) Present() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return
	}
	l.active = true
	fmt.Fprintln(l.Out, "Please wait...")
}

func (l *TerminalLoader) Dismiss() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = false
}

// Active сообщает, показан ли индикатор.
func (l *TerminalLoader) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// StackNavigator хранит текущий корневой экран и отрисовывает его при смене.
type StackNavigator struct {
	// Loader закрывается при смене экрана.
	Loader Loader

	current Page
}

func (n *StackNavigator) SetRoot(ctx context.Context, p Page) error {
	if p == nil {
		return errors.New("nil page")
	}
	if n.Loader != nil {
		n.Loader.Dismiss()
	}
	n.current = p
	return p.Render(ctx)
}

// Current возвращает текущий корневой экран.
func (n *StackNavigator) Current() Page {
	return n.current
}

// ErrNotTerminal возвращается ReadPassword, когда stdin не терминал.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// IsTerminal сообщает, подключён ли f к терминалу.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// ReadPassword читает пароль без эха.
func ReadPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	if !IsTerminal(in) {
		return "", ErrNotTerminal
	}
	fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
