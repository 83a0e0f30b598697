// Package cli implements the monarch command-line interface.
//
// The root command launches the interactive TUI; subcommands cover the
// one-shot operations (list, presets, apply, save, enable, disable,
// workspace, reload) and the MCP server. All commands share the loaded
// configuration and a structured logger through the command context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/monarch/internal/config"
)

var version = "dev"

// SetVersion overrides the version string reported by --version;
// called by main with the ldflags-injected build version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the monarch command tree and returns the first error any
// command produced.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var backendName string

	root := &cobra.Command{
		Use:   "monarch",
		Short: "Arrange display outputs from the terminal",
		Long: `Monarch rearranges connected display outputs spatially (position,
resolution, scale, enabled state, workspace assignment) and commits the
arrangement to the display server with a timed revert safety net.

Run without arguments to open the interactive arranger.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if backendName != "" {
				cfg.Backend = backendName
			}
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			} else if l, err := charmlog.ParseLevel(cfg.LogLevel); err == nil {
				level = l
			}
			logger := newLogger(os.Stderr, level)
			cmd.SetContext(withApp(cmd.Context(), &app{cfg: cfg, logger: logger}))
			return nil
		},
		RunE: runTUI,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&backendName, "backend", "", "display server backend (auto, hyprland, x11)")

	root.AddCommand(newListCmd())
	root.AddCommand(newPresetsCmd())
	root.AddCommand(newApplyCmd())
	root.AddCommand(newSaveCmd())
	root.AddCommand(newEnableCmd())
	root.AddCommand(newDisableCmd())
	root.AddCommand(newWorkspaceCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newMCPCmd())

	return root
}

// app is the shared state every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *charmlog.Logger
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

func appFromContext(ctx context.Context) *app {
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return a
	}
	// PersistentPreRunE always ran first; reaching here is a wiring bug.
	panic("cli: command context carries no app")
}

func newLogger(w *os.File, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}
