package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/monarch/internal/layout"
	"github.com/1broseidon/monarch/internal/preset"
	"github.com/1broseidon/monarch/internal/reconcile"
)

const opTimeout = 15 * time.Second

func infoFrom(o *layout.Output) OutputInfo {
	return OutputInfo{
		Name:        o.Name,
		Description: o.Description,
		Mode:        o.ModeText(),
		X:           o.X,
		Y:           o.Y,
		Scale:       o.Scale,
		Enabled:     o.Enabled,
		Connected:   o.Connected,
		Workspaces:  append([]int(nil), o.Workspaces...),
	}
}

func infosFrom(outputs []layout.Output) []OutputInfo {
	infos := make([]OutputInfo, len(outputs))
	for i := range outputs {
		infos[i] = infoFrom(&outputs[i])
	}
	return infos
}

// liveOutputs enumerates the display server and folds the most recent
// applied records back in, mirroring what the TUI session starts from.
func (s *Server) liveOutputs(ctx context.Context) ([]layout.Output, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	enum, err := s.conn.Outputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate outputs: %w", err)
	}
	if len(enum.Connected) == 0 {
		return nil, fmt.Errorf("no connected outputs reported by %s", s.conn.Name())
	}
	var prior []preset.Record
	if p, err := s.store.MostRecentApply(); err == nil {
		prior = p.Outputs
	}
	return reconcile.Build(enum.Connected, enum.Addressable, prior, s.logger), nil
}

func (s *Server) commit(ctx context.Context, outputs []layout.Output) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.conn.Commit(ctx, outputs); err != nil {
		return err
	}
	if err := s.store.SaveRecent(outputs); err != nil {
		s.logger.Warn("committed but could not record recent slot", "err", err)
	}
	return nil
}

func (s *Server) handleListOutputs(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListOutputsInput) (*mcpsdk.CallToolResult, ListOutputsOutput, error) {
	outputs, err := s.liveOutputs(ctx)
	if err != nil {
		return nil, ListOutputsOutput{}, err
	}
	return nil, ListOutputsOutput{Backend: s.conn.Name(), Outputs: infosFrom(outputs)}, nil
}

func (s *Server) handleListPresets(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListPresetsInput) (*mcpsdk.CallToolResult, ListPresetsOutput, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, ListPresetsOutput{}, err
	}
	out := ListPresetsOutput{Presets: make([]PresetInfo, 0, len(names))}
	for _, name := range names {
		info := PresetInfo{Name: name}
		if p, err := s.store.Load(name); err == nil {
			info.Outputs = len(p.Outputs)
			info.SavedAt = p.SavedAt.UTC().Format(time.RFC3339)
		}
		out.Presets = append(out.Presets, info)
	}
	return nil, out, nil
}

func (s *Server) handleApplyPreset(ctx context.Context, _ *mcpsdk.CallToolRequest, args ApplyPresetInput) (*mcpsdk.CallToolResult, ApplyPresetOutput, error) {
	p, err := s.store.Load(args.Name)
	if err != nil {
		if errors.Is(err, preset.ErrNotFound) {
			return nil, ApplyPresetOutput{}, fmt.Errorf("no preset named %q", args.Name)
		}
		return nil, ApplyPresetOutput{}, err
	}
	outputs, err := s.liveOutputs(ctx)
	if err != nil {
		return nil, ApplyPresetOutput{}, err
	}
	outputs = reconcile.Merge(outputs, p.Outputs, s.logger)
	if err := s.commit(ctx, outputs); err != nil {
		return nil, ApplyPresetOutput{}, err
	}
	s.logger.Info("applied preset over mcp", "preset", args.Name)
	return nil, ApplyPresetOutput{Applied: args.Name, Outputs: infosFrom(outputs)}, nil
}

func (s *Server) handleSavePreset(ctx context.Context, _ *mcpsdk.CallToolRequest, args SavePresetInput) (*mcpsdk.CallToolResult, SavePresetOutput, error) {
	outputs, err := s.liveOutputs(ctx)
	if err != nil {
		return nil, SavePresetOutput{}, err
	}
	stem, err := s.store.Save(args.Name, outputs, args.Overwrite)
	if err != nil {
		if errors.Is(err, preset.ErrExists) {
			return nil, SavePresetOutput{}, fmt.Errorf("preset %q exists; set overwrite to replace it", stem)
		}
		return nil, SavePresetOutput{}, err
	}
	return nil, SavePresetOutput{Saved: stem, Outputs: len(outputs)}, nil
}

func (s *Server) handleSetOutput(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetOutputInput) (*mcpsdk.CallToolResult, SetOutputOutput, error) {
	if (args.Width == nil) != (args.Height == nil) {
		return nil, SetOutputOutput{}, errors.New("width and height must be set together")
	}
	outputs, err := s.liveOutputs(ctx)
	if err != nil {
		return nil, SetOutputOutput{}, err
	}

	l := layout.New(outputs)
	l.Focus = layout.FocusList
	if !l.SelectName(args.Output) {
		return nil, SetOutputOutput{}, fmt.Errorf("no output named %q", args.Output)
	}
	// A failed settle replaces the output slice wholesale, so the
	// selected output is re-fetched after every mutation.
	if args.Enabled != nil && l.SelectedOutput().Enabled != *args.Enabled {
		if !l.ToggleEnabled() {
			return nil, SetOutputOutput{}, fmt.Errorf("cannot change enabled state of %s: no valid arrangement", args.Output)
		}
	}
	if args.Width != nil {
		if !l.SetResolution(*args.Width, *args.Height) {
			return nil, SetOutputOutput{}, fmt.Errorf("%s does not support %dx%d", args.Output, *args.Width, *args.Height)
		}
	}
	if args.Scale != nil && *args.Scale != l.SelectedOutput().Scale {
		if !l.SetScale(*args.Scale) {
			return nil, SetOutputOutput{}, fmt.Errorf("cannot set scale %.2f on %s", *args.Scale, args.Output)
		}
	}
	if args.X != nil || args.Y != nil {
		sel := l.SelectedOutput()
		x, y := sel.X, sel.Y
		if args.X != nil {
			x = *args.X
		}
		if args.Y != nil {
			y = *args.Y
		}
		if (x != sel.X || y != sel.Y) && !l.PlaceAt(x, y) {
			return nil, SetOutputOutput{}, fmt.Errorf("cannot place %s at %d,%d: no valid arrangement", args.Output, x, y)
		}
	}
	for _, n := range args.Workspaces {
		if n < 1 {
			return nil, SetOutputOutput{}, fmt.Errorf("workspace numbers must be positive, got %d", n)
		}
		l.AssignWorkspace(n)
	}

	if err := s.commit(ctx, l.Outputs); err != nil {
		return nil, SetOutputOutput{}, err
	}
	return nil, SetOutputOutput{Output: infoFrom(l.SelectedOutput()), Outputs: infosFrom(l.Outputs)}, nil
}
