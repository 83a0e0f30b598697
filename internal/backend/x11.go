package backend

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/monarch/internal/layout"
	"github.com/1broseidon/monarch/internal/x11"
)

// X11 drives an X display through the RandR extension.
type X11 struct {
	conn   *x11.Connection
	logger *log.Logger
}

var _ Conn = (*X11)(nil)

// NewX11 opens a fresh connection to the X display.
func NewX11(logger *log.Logger) (*X11, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11{conn: conn, logger: logger}, nil
}

func (b *X11) Name() string { return "x11" }

func (b *X11) Close() error {
	if b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// Outputs enumerates RandR outputs. Disconnected ports are addressable
// but show nothing until something is plugged in.
func (b *X11) Outputs(ctx context.Context) (Enumeration, error) {
	outs, err := b.conn.Outputs()
	if err != nil {
		return Enumeration{}, fmt.Errorf("failed to enumerate randr outputs: %w", err)
	}

	var enum Enumeration
	for _, xo := range outs {
		o := outputFromRandr(xo)
		if o.Connected {
			enum.Connected = append(enum.Connected, o)
		} else {
			enum.Addressable = append(enum.Addressable, o)
		}
	}
	sortOutputs(enum.Connected)
	sortOutputs(enum.Addressable)
	return enum, nil
}

// outputFromRandr converts a RandR output record. X11 has no per-output
// scale, so everything enumerates at 1.0.
func outputFromRandr(xo x11.Output) layout.Output {
	o := layout.Output{
		Name:      xo.Name,
		ModeIndex: layout.PreferredMode,
		Width:     xo.Width,
		Height:    xo.Height,
		Refresh:   xo.Refresh,
		Scale:     1.0,
		X:         xo.X,
		Y:         xo.Y,
		Enabled:   xo.Active,
		Connected: xo.Connected,
	}
	for _, m := range xo.Modes {
		o.Modes = append(o.Modes, layout.Mode{Width: m.Width, Height: m.Height, Refresh: m.Refresh})
	}
	if (o.Width <= 0 || o.Height <= 0) && len(o.Modes) > 0 {
		idx := xo.Preferred
		if idx < 0 || idx >= len(o.Modes) {
			idx = 0
		}
		o.Width = o.Modes[idx].Width
		o.Height = o.Modes[idx].Height
		o.Refresh = o.Modes[idx].Refresh
	}
	return o
}

// Commit reconfigures CRTCs to match the given outputs. RandR has no
// per-output scale; fractional scales affect the logical layout only
// and are flagged so the user knows the panel stays at native density.
func (b *X11) Commit(ctx context.Context, outputs []layout.Output) error {
	configs := make([]x11.Config, 0, len(outputs))
	for _, o := range outputs {
		if o.Enabled && math.Abs(o.Scale-1.0) > 0.001 {
			b.logger.Warn("randr has no per-output scale, panel stays at native density",
				"output", o.Name, "scale", o.Scale)
		}
		configs = append(configs, x11.Config{
			Name:    o.Name,
			Enabled: o.Enabled,
			X:       o.X,
			Y:       o.Y,
			Width:   o.Width,
			Height:  o.Height,
			Refresh: o.Refresh,
		})
	}
	if err := b.conn.Apply(configs); err != nil {
		return &CommitError{Kind: Invalid, Err: err}
	}
	return nil
}
