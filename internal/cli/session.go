package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/1broseidon/monarch/internal/backend"
	"github.com/1broseidon/monarch/internal/layout"
	"github.com/1broseidon/monarch/internal/preset"
	"github.com/1broseidon/monarch/internal/reconcile"
)

const opTimeout = 15 * time.Second

// openConn dials the configured display server backend.
func (a *app) openConn() (backend.Conn, error) {
	conn, err := backend.New(a.cfg.Backend, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	a.logger.Debug("backend ready", "name", conn.Name())
	return conn, nil
}

func (a *app) openStore() (*preset.Store, error) {
	dir, err := preset.DefaultDir()
	if err != nil {
		return nil, err
	}
	return preset.NewStore(dir), nil
}

// liveOutputs enumerates the display server and reconciles the result
// into a working output set. When usePrior is set, position, scale, and
// workspaces recorded at the last confirmed apply are carried over.
func (a *app) liveOutputs(ctx context.Context, conn backend.Conn, store *preset.Store, usePrior bool) ([]layout.Output, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	enum, err := conn.Outputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate outputs: %w", err)
	}
	if len(enum.Connected) == 0 {
		return nil, fmt.Errorf("no connected outputs reported by %s", conn.Name())
	}
	var prior []preset.Record
	if usePrior {
		if p, err := store.MostRecentApply(); err == nil {
			prior = p.Outputs
		}
	}
	return reconcile.Build(enum.Connected, enum.Addressable, prior, a.logger), nil
}

// commit realizes outputs on the display server and records them in the
// most-recent-apply slot. One-shot commands have no interactive confirm
// step, so the commit is final; the timed revert belongs to the TUI.
func (a *app) commit(ctx context.Context, conn backend.Conn, store *preset.Store, outputs []layout.Output) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := conn.Commit(ctx, outputs); err != nil {
		return err
	}
	if err := store.SaveRecent(outputs); err != nil {
		a.logger.Warn("committed but could not record recent slot", "err", err)
	}
	return nil
}
