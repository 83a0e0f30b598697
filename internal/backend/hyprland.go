package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/monarch/internal/layout"
)

// Hyprland drives a running Hyprland compositor through hyprctl.
type Hyprland struct {
	confPath string
	logger   *log.Logger
}

var _ Conn = (*Hyprland)(nil)

var runHyprctl = func(ctx context.Context, args ...string) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, "hyprctl", args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err = cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// NewHyprland prepares a connection to the running Hyprland instance.
func NewHyprland(logger *log.Logger) (*Hyprland, error) {
	if _, err := exec.LookPath("hyprctl"); err != nil {
		return nil, fmt.Errorf("hyprctl not found in PATH: %w", err)
	}
	confDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return &Hyprland{
		confPath: filepath.Join(confDir, "hypr", "monitors.conf"),
		logger:   logger,
	}, nil
}

func (h *Hyprland) Name() string { return "hyprland" }

func (h *Hyprland) Close() error { return nil }

// hyprMonitor mirrors the fields of `hyprctl -j monitors all` this
// program reads; the rest of the JSON object is ignored.
type hyprMonitor struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	RefreshRate     float64 `json:"refreshRate"`
	X               int     `json:"x"`
	Y               int     `json:"y"`
	Scale           float64 `json:"scale"`
	Disabled        bool    `json:"disabled"`
	ActiveWorkspace struct {
		ID int `json:"id"`
	} `json:"activeWorkspace"`
	AvailableModes []string `json:"availableModes"`
}

// Outputs enumerates every monitor Hyprland knows about, including
// disabled ones. Headless virtual outputs are reported as addressable
// rather than connected.
func (h *Hyprland) Outputs(ctx context.Context) (Enumeration, error) {
	stdout, stderr, err := runHyprctl(ctx, "-j", "monitors", "all")
	if err != nil {
		return Enumeration{}, fmt.Errorf("hyprctl -j monitors all: %w%s", err, stderrSuffix(stderr))
	}
	return parseMonitors(stdout)
}

func parseMonitors(data []byte) (Enumeration, error) {
	var raw []hyprMonitor
	if err := json.Unmarshal(data, &raw); err != nil {
		return Enumeration{}, fmt.Errorf("failed to parse hyprctl monitor list: %w", err)
	}

	var enum Enumeration
	for _, m := range raw {
		if m.Name == "" {
			continue
		}
		o := layout.Output{
			Name:        m.Name,
			Description: m.Description,
			ModeIndex:   layout.PreferredMode,
			Width:       m.Width,
			Height:      m.Height,
			Refresh:     m.RefreshRate,
			Scale:       m.Scale,
			X:           m.X,
			Y:           m.Y,
			Enabled:     !m.Disabled,
			Connected:   !isHeadless(m.Name),
		}
		for _, s := range m.AvailableModes {
			if mode, ok := parseMode(s); ok {
				o.Modes = append(o.Modes, mode)
			}
		}
		if o.Enabled && m.ActiveWorkspace.ID > 0 {
			o.Workspaces = []int{m.ActiveWorkspace.ID}
		}
		fillZeroFields(&o)
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

// sortOutputs orders enabled outputs first by x position, disabled ones
// after, ties by name.
func sortOutputs(outputs []layout.Output) {
	sort.SliceStable(outputs, func(i, j int) bool {
		a, b := outputs[i], outputs[j]
		if a.Enabled != b.Enabled {
			return a.Enabled
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Name < b.Name
	})
}

// fillZeroFields papers over fields hyprctl reports as zero for disabled
// monitors so re-enabling them yields a real rectangle.
func fillZeroFields(o *layout.Output) {
	if o.Scale <= 0 {
		o.Scale = 1.0
	}
	if o.Width <= 0 || o.Height <= 0 {
		if len(o.Modes) > 0 {
			o.Width = o.Modes[0].Width
			o.Height = o.Modes[0].Height
			o.Refresh = o.Modes[0].Refresh
		} else {
			o.Width, o.Height = 1920, 1080
		}
	}
	if o.Refresh <= 0 {
		o.Refresh = 60.0
	}
}

func isHeadless(name string) bool {
	return strings.HasPrefix(name, "HEADLESS-")
}

// parseMode parses a mode string such as "1920x1080@60.00Hz".
func parseMode(s string) (layout.Mode, bool) {
	res, hz, ok := strings.Cut(s, "@")
	if !ok {
		return layout.Mode{}, false
	}
	w, h, ok := strings.Cut(res, "x")
	if !ok {
		return layout.Mode{}, false
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return layout.Mode{}, false
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return layout.Mode{}, false
	}
	refresh, err := strconv.ParseFloat(strings.TrimSuffix(hz, "Hz"), 64)
	if err != nil {
		return layout.Mode{}, false
	}
	return layout.Mode{Width: width, Height: height, Refresh: refresh}, true
}

// Commit writes monitors.conf, reloads Hyprland so file-backed state is
// active, then applies the runtime state (including temporary disables)
// on top of the persisted config.
func (h *Hyprland) Commit(ctx context.Context, outputs []layout.Output) error {
	if err := h.writeMonitorsConf(outputs); err != nil {
		return err
	}

	if _, stderr, err := runHyprctl(ctx, "reload"); err != nil {
		return commitExecErr(ctx, err, "", stderr)
	}

	for _, o := range outputs {
		rule := monitorRule(o)
		if _, stderr, err := runHyprctl(ctx, "keyword", "monitor", rule); err != nil {
			return commitExecErr(ctx, err, o.Name, stderr)
		}
		if !o.Enabled {
			continue
		}
		// Workspace moves are best-effort; a workspace may not exist yet.
		for _, ws := range o.Workspaces {
			if _, stderr, err := runHyprctl(ctx, "dispatch", "moveworkspacetomonitor", strconv.Itoa(ws), o.Name); err != nil {
				h.logger.Warn("workspace move failed",
					"workspace", ws, "output", o.Name,
					"err", err, "stderr", strings.TrimSpace(string(stderr)))
			}
		}
	}
	return nil
}

func (h *Hyprland) writeMonitorsConf(outputs []layout.Output) error {
	if err := os.MkdirAll(filepath.Dir(h.confPath), 0755); err != nil {
		return fmt.Errorf("failed to create hypr config dir: %w", err)
	}
	content := generateMonitorsConf(outputs)
	if err := os.WriteFile(h.confPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", h.confPath, err)
	}
	return nil
}

// generateMonitorsConf renders the persisted monitor rules. Disabled
// outputs are left out so a compositor restart never comes up with a
// dead screen; disables are runtime keywords only.
func generateMonitorsConf(outputs []layout.Output) string {
	var b strings.Builder
	b.WriteString("# Managed by monarch. Manual edits will be overwritten on the next apply.\n")
	b.WriteString("# Disabled outputs are not persisted; they are applied at runtime only.\n")
	b.WriteString("\n")
	for _, o := range outputs {
		if !o.Enabled {
			continue
		}
		fmt.Fprintf(&b, "monitor = %s, %s, %dx%d, %s\n",
			o.Name, o.ModeText(), o.X, o.Y, formatScale(o.Scale))
	}
	return b.String()
}

// monitorRule builds the hyprctl keyword argument for one output, e.g.
// "DP-1,1920x1080@60,0x0,1" or "HDMI-A-1,disable".
func monitorRule(o layout.Output) string {
	if !o.Enabled {
		return o.Name + ",disable"
	}
	return fmt.Sprintf("%s,%s,%dx%d,%s",
		o.Name, o.ModeText(), o.X, o.Y, formatScale(o.Scale))
}

// formatScale renders a scale factor the way Hyprland expects: whole
// numbers stay bare integers, fractional scales keep full precision.
func formatScale(scale float64) string {
	if math.Abs(scale-math.Round(scale)) < 0.001 {
		return strconv.Itoa(int(math.Round(scale)))
	}
	return strconv.FormatFloat(scale, 'f', 6, 64)
}

// commitExecErr types a hyprctl failure for errors.As callers.
func commitExecErr(ctx context.Context, err error, output string, stderr []byte) *CommitError {
	kind := Unreachable
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		kind = Timeout
	case errors.As(err, &exitErr):
		kind = Invalid
	}
	return &CommitError{
		Kind:   kind,
		Output: output,
		Reason: strings.TrimSpace(string(stderr)),
		Err:    err,
	}
}

func stderrSuffix(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return ""
	}
	return ": " + s
}
