package cli

import (
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/monarch/internal/notify"
	"github.com/1broseidon/monarch/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	a := appFromContext(cmd.Context())

	// The TUI owns the terminal, so its log lines go to a file instead
	// of stderr.
	logger, closeLog := a.tuiLogger()
	defer closeLog()

	conn, err := a.openConn()
	if err != nil {
		return err
	}
	defer conn.Close()
	store, err := a.openStore()
	if err != nil {
		return err
	}
	notifier := notify.New(a.cfg.Notifications, logger)
	defer notifier.Close()

	return tui.Run(tui.Options{
		Config:   a.cfg,
		Logger:   logger,
		Conn:     conn,
		Store:    store,
		Notifier: notifier,
	})
}

// tuiLogger opens the session log file, falling back to a silent logger
// when the file cannot be written.
func (a *app) tuiLogger() (*charmlog.Logger, func()) {
	path := a.cfg.LogFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return charmlog.New(io.Discard), func() {}
		}
		path = filepath.Join(home, ".config", "monarch", "monarch.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return charmlog.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return charmlog.New(io.Discard), func() {}
	}
	logger := charmlog.NewWithOptions(f, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           a.logger.GetLevel(),
	})
	return logger, func() { f.Close() }
}
