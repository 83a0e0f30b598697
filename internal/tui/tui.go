package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/1broseidon/monarch/internal/apply"
	"github.com/1broseidon/monarch/internal/backend"
	"github.com/1broseidon/monarch/internal/config"
	"github.com/1broseidon/monarch/internal/notify"
	"github.com/1broseidon/monarch/internal/preset"
	"github.com/1broseidon/monarch/internal/reconcile"
)

// Options carries everything the TUI needs; the caller owns the
// connection and closes it after Run returns.
type Options struct {
	Config   *config.Config
	Logger   *log.Logger
	Conn     backend.Conn
	Store    *preset.Store
	Notifier *notify.Notifier
}

// Run enumerates the outputs, seeds the session from the most recent
// applied arrangement, and hands the terminal to bubbletea until the
// user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	enum, err := opts.Conn.Outputs(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("enumerate outputs: %w", err)
	}
	if len(enum.Connected) == 0 {
		return fmt.Errorf("no connected outputs reported by %s", opts.Conn.Name())
	}

	var prior []preset.Record
	if p, err := opts.Store.MostRecentApply(); err == nil {
		prior = p.Outputs
	}

	// live is the arrangement as the server reports it; outputs is the
	// session view with the last applied preset merged back in.
	live := reconcile.Build(enum.Connected, enum.Addressable, nil, opts.Logger)
	outputs := reconcile.Build(enum.Connected, enum.Addressable, prior, opts.Logger)

	ctrl := apply.New(opts.Conn, opts.Store, live, opts.Config.ConfirmTimeout(), opts.Logger)

	m := newModel(opts, ctrl, outputs, live, enum)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
