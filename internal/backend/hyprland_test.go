package backend

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/monarch/internal/layout"
)

// Trimmed-down capture of `hyprctl -j monitors all` on a machine with one
// desktop monitor, one disabled monitor, and one headless virtual output.
const monitorsJSON = `[
  {
    "id": 0,
    "name": "DP-1",
    "description": "Dell Inc. DELL U2720Q CWTM113",
    "make": "Dell Inc.",
    "model": "DELL U2720Q",
    "serial": "CWTM113",
    "width": 2560,
    "height": 1440,
    "refreshRate": 143.99800,
    "x": 0,
    "y": 0,
    "activeWorkspace": {"id": 1, "name": "1"},
    "specialWorkspace": {"id": 0, "name": ""},
    "scale": 1.25,
    "transform": 0,
    "focused": true,
    "dpmsStatus": true,
    "vrr": false,
    "disabled": false,
    "currentFormat": "XRGB8888",
    "availableModes": ["2560x1440@143.99Hz", "2560x1440@59.95Hz", "1920x1080@60.00Hz"]
  },
  {
    "id": 1,
    "name": "HDMI-A-1",
    "description": "Samsung Electric Company S24E450",
    "width": 0,
    "height": 0,
    "refreshRate": 0.00000,
    "x": 4480,
    "y": 0,
    "activeWorkspace": {"id": -1, "name": ""},
    "scale": 1.00,
    "disabled": true,
    "availableModes": ["1920x1080@59.94Hz", "1280x720@60.00Hz"]
  },
  {
    "id": 2,
    "name": "HEADLESS-2",
    "description": "",
    "width": 1920,
    "height": 1080,
    "refreshRate": 60.00000,
    "x": 2048,
    "y": 0,
    "activeWorkspace": {"id": 3, "name": "3"},
    "scale": 1.00,
    "disabled": false,
    "availableModes": []
  }
]`

func TestParseMonitors(t *testing.T) {
	enum, err := parseMonitors([]byte(monitorsJSON))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(enum.Connected) != 2 {
		t.Fatalf("expected 2 connected outputs, got %d", len(enum.Connected))
	}
	if len(enum.Addressable) != 1 {
		t.Fatalf("expected 1 addressable output, got %d", len(enum.Addressable))
	}

	dp := enum.Connected[0]
	if dp.Name != "DP-1" {
		t.Fatalf("expected enabled output first, got %q", dp.Name)
	}
	if dp.Width != 2560 || dp.Height != 1440 || dp.Refresh != 143.998 {
		t.Errorf("expected 2560x1440@143.998, got %dx%d@%v", dp.Width, dp.Height, dp.Refresh)
	}
	if dp.Scale != 1.25 {
		t.Errorf("expected scale 1.25, got %v", dp.Scale)
	}
	if dp.ModeIndex != layout.PreferredMode {
		t.Errorf("expected preferred mode index, got %d", dp.ModeIndex)
	}
	if len(dp.Modes) != 3 {
		t.Fatalf("expected 3 parsed modes, got %d", len(dp.Modes))
	}
	if dp.Modes[0] != (layout.Mode{Width: 2560, Height: 1440, Refresh: 143.99}) {
		t.Errorf("expected first mode 2560x1440@143.99, got %+v", dp.Modes[0])
	}
	if !reflect.DeepEqual(dp.Workspaces, []int{1}) {
		t.Errorf("expected workspace [1], got %v", dp.Workspaces)
	}
	if !dp.Connected || !dp.Enabled {
		t.Errorf("expected connected enabled output, got %+v", dp)
	}

	hdmi := enum.Connected[1]
	if hdmi.Name != "HDMI-A-1" || hdmi.Enabled {
		t.Fatalf("expected disabled HDMI-A-1 last, got %+v", hdmi)
	}
	if hdmi.X != 4480 {
		t.Errorf("expected disabled output to keep its position, got x=%d", hdmi.X)
	}
	if hdmi.Width != 1920 || hdmi.Height != 1080 || hdmi.Refresh != 59.94 {
		t.Errorf("expected dimensions filled from first mode, got %dx%d@%v", hdmi.Width, hdmi.Height, hdmi.Refresh)
	}
	if len(hdmi.Workspaces) != 0 {
		t.Errorf("expected no workspaces on disabled output, got %v", hdmi.Workspaces)
	}

	headless := enum.Addressable[0]
	if headless.Name != "HEADLESS-2" || headless.Connected {
		t.Fatalf("expected headless output to be addressable only, got %+v", headless)
	}
	if !headless.Enabled || !reflect.DeepEqual(headless.Workspaces, []int{3}) {
		t.Errorf("expected enabled headless carrying workspace 3, got %+v", headless)
	}
}

func TestParseMonitors_BadJSON(t *testing.T) {
	if _, err := parseMonitors([]byte("Invalid instance signature")); err == nil {
		t.Fatal("expected parse error for non-JSON output")
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want layout.Mode
		ok   bool
	}{
		{"1920x1080@60.00Hz", layout.Mode{Width: 1920, Height: 1080, Refresh: 60}, true},
		{"3440x1440@99.98Hz", layout.Mode{Width: 3440, Height: 1440, Refresh: 99.98}, true},
		{"preferred", layout.Mode{}, false},
		{"1920x1080", layout.Mode{}, false},
		{"axb@60Hz", layout.Mode{}, false},
	}
	for _, tc := range cases {
		got, ok := parseMode(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseMode(%q) = %+v, %v; expected %+v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMonitorRule(t *testing.T) {
	cases := []struct {
		name string
		out  layout.Output
		want string
	}{
		{
			name: "preferred mode whole scale",
			out:  layout.Output{Name: "DP-1", ModeIndex: layout.PreferredMode, Width: 2560, Height: 1440, Refresh: 144, Scale: 1.0, Enabled: true},
			want: "DP-1,preferred,0x0,1",
		},
		{
			name: "explicit mode fractional scale",
			out:  layout.Output{Name: "DP-2", ModeIndex: 0, Width: 1920, Height: 1080, Refresh: 59.93, Scale: 1.25, X: 2048, Enabled: true},
			want: "DP-2,1920x1080@60,2048x0,1.250000",
		},
		{
			name: "scale two",
			out:  layout.Output{Name: "eDP-1", ModeIndex: layout.PreferredMode, Width: 2880, Height: 1800, Refresh: 90, Scale: 2.0, Y: 1440, Enabled: true},
			want: "eDP-1,preferred,0x1440,2",
		},
		{
			name: "disabled",
			out:  layout.Output{Name: "HDMI-A-1", Enabled: false},
			want: "HDMI-A-1,disable",
		},
	}
	for _, tc := range cases {
		if got := monitorRule(tc.out); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestGenerateMonitorsConf(t *testing.T) {
	outputs := []layout.Output{
		{Name: "DP-1", ModeIndex: layout.PreferredMode, Width: 2560, Height: 1440, Refresh: 144, Scale: 1.0, Enabled: true},
		{Name: "DP-2", ModeIndex: 0, Width: 1920, Height: 1080, Refresh: 59.93, Scale: 1.25, X: 2048, Enabled: true},
		{Name: "HDMI-A-1", ModeIndex: layout.PreferredMode, Width: 1920, Height: 1080, Refresh: 60, Scale: 1.0, X: 3968, Enabled: false},
	}

	got := generateMonitorsConf(outputs)
	want := "# Managed by monarch. Manual edits will be overwritten on the next apply.\n" +
		"# Disabled outputs are not persisted; they are applied at runtime only.\n" +
		"\n" +
		"monitor = DP-1, preferred, 0x0, 1\n" +
		"monitor = DP-2, 1920x1080@60, 2048x0, 1.250000\n"

	if got != want {
		t.Fatalf("expected conf:\n%s\ngot:\n%s", want, got)
	}
}

func TestCommit_SequencesHyprctlCalls(t *testing.T) {
	orig := runHyprctl
	t.Cleanup(func() { runHyprctl = orig })

	var calls [][]string
	runHyprctl = func(ctx context.Context, args ...string) ([]byte, []byte, error) {
		calls = append(calls, args)
		return nil, nil, nil
	}

	h := &Hyprland{
		confPath: filepath.Join(t.TempDir(), "hypr", "monitors.conf"),
		logger:   quiet(),
	}
	outputs := []layout.Output{
		{Name: "DP-1", ModeIndex: layout.PreferredMode, Width: 2560, Height: 1440, Refresh: 144, Scale: 1.0, Enabled: true, Connected: true, Workspaces: []int{1, 2}},
		{Name: "HDMI-A-1", ModeIndex: layout.PreferredMode, Width: 1920, Height: 1080, Refresh: 60, Scale: 1.0, X: 2048, Enabled: false, Connected: true},
	}

	if err := h.Commit(context.Background(), outputs); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	want := [][]string{
		{"reload"},
		{"keyword", "monitor", "DP-1,preferred,0x0,1"},
		{"dispatch", "moveworkspacetomonitor", "1", "DP-1"},
		{"dispatch", "moveworkspacetomonitor", "2", "DP-1"},
		{"keyword", "monitor", "HDMI-A-1,disable"},
	}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}

	data, err := os.ReadFile(h.confPath)
	if err != nil {
		t.Fatalf("monitors.conf not written: %v", err)
	}
	if !strings.Contains(string(data), "monitor = DP-1, preferred, 0x0, 1") {
		t.Errorf("monitors.conf missing DP-1 rule:\n%s", data)
	}
	if strings.Contains(string(data), "HDMI-A-1") {
		t.Errorf("monitors.conf must not persist disabled outputs:\n%s", data)
	}
}

func TestCommit_TypesKeywordFailure(t *testing.T) {
	orig := runHyprctl
	t.Cleanup(func() { runHyprctl = orig })

	exit := &exec.ExitError{ProcessState: &os.ProcessState{}}
	runHyprctl = func(ctx context.Context, args ...string) ([]byte, []byte, error) {
		if args[0] == "keyword" {
			return nil, []byte("invalid mode\n"), exit
		}
		return nil, nil, nil
	}

	h := &Hyprland{confPath: filepath.Join(t.TempDir(), "monitors.conf"), logger: quiet()}
	outputs := []layout.Output{
		{Name: "DP-1", ModeIndex: layout.PreferredMode, Width: 2560, Height: 1440, Refresh: 144, Scale: 1.0, Enabled: true},
	}

	err := h.Commit(context.Background(), outputs)
	if err == nil {
		t.Fatal("expected commit error")
	}
	var ce *CommitError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CommitError, got %T", err)
	}
	if ce.Kind != Invalid {
		t.Errorf("expected Invalid kind, got %v", ce.Kind)
	}
	if ce.Output != "DP-1" {
		t.Errorf("expected offending output DP-1, got %q", ce.Output)
	}
	if ce.Reason != "invalid mode" {
		t.Errorf("expected stderr reason, got %q", ce.Reason)
	}
}

func TestCommit_WorkspaceMovesBestEffort(t *testing.T) {
	orig := runHyprctl
	t.Cleanup(func() { runHyprctl = orig })

	exit := &exec.ExitError{ProcessState: &os.ProcessState{}}
	runHyprctl = func(ctx context.Context, args ...string) ([]byte, []byte, error) {
		if args[0] == "dispatch" {
			return nil, []byte("no such workspace"), exit
		}
		return nil, nil, nil
	}

	h := &Hyprland{confPath: filepath.Join(t.TempDir(), "monitors.conf"), logger: quiet()}
	outputs := []layout.Output{
		{Name: "DP-1", ModeIndex: layout.PreferredMode, Width: 2560, Height: 1440, Refresh: 144, Scale: 1.0, Enabled: true, Workspaces: []int{7}},
	}

	if err := h.Commit(context.Background(), outputs); err != nil {
		t.Fatalf("workspace dispatch failures should not fail the commit, got %v", err)
	}
}

func TestCommitExecErr_Classification(t *testing.T) {
	bg := context.Background()

	dead, cancel := context.WithCancel(bg)
	cancel()
	if got := commitExecErr(dead, errors.New("signal: killed"), "", nil).Kind; got != Timeout {
		t.Errorf("expected Timeout for dead context, got %v", got)
	}

	exit := &exec.ExitError{ProcessState: &os.ProcessState{}}
	if got := commitExecErr(bg, exit, "", nil).Kind; got != Invalid {
		t.Errorf("expected Invalid for exit error, got %v", got)
	}

	if got := commitExecErr(bg, exec.ErrNotFound, "", nil).Kind; got != Unreachable {
		t.Errorf("expected Unreachable for missing binary, got %v", got)
	}
}
