package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Output describes one RandR output port: its connection state, the
// modes it supports, and the active CRTC geometry when lit.
type Output struct {
	Name      string
	Connected bool
	Active    bool
	X, Y      int
	Width     int
	Height    int
	Refresh   float64
	Modes     []Mode
	Preferred int // index into Modes, -1 when unknown
}

// Mode is one supported resolution/refresh pair.
type Mode struct {
	Width   int
	Height  int
	Refresh float64
}

// Outputs enumerates every RandR output, including disconnected ports,
// with the active geometry for lit ones.
func (c *Connection) Outputs() ([]Output, error) {
	res, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	modesByID := make(map[uint32]randr.ModeInfo, len(res.Modes))
	for _, m := range res.Modes {
		modesByID[m.Id] = m
	}

	var outputs []Output
	for i, id := range res.Outputs {
		info, err := randr.GetOutputInfo(c.XUtil.Conn(), id, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		name := string(info.Name)
		if name == "" {
			name = fmt.Sprintf("Output%d", i)
		}

		out := Output{
			Name:      name,
			Connected: info.Connection == randr.ConnectionConnected,
			Preferred: -1,
		}
		if info.NumPreferred > 0 {
			out.Preferred = 0
		}
		for _, modeID := range info.Modes {
			mi, ok := modesByID[uint32(modeID)]
			if !ok {
				continue
			}
			out.Modes = append(out.Modes, Mode{
				Width:   int(mi.Width),
				Height:  int(mi.Height),
				Refresh: modeRefresh(mi),
			})
		}

		if info.Crtc != 0 {
			crtc, err := randr.GetCrtcInfo(c.XUtil.Conn(), info.Crtc, res.ConfigTimestamp).Reply()
			if err == nil && crtc.Width > 0 && crtc.Height > 0 {
				out.Active = true
				out.X = int(crtc.X)
				out.Y = int(crtc.Y)
				out.Width = int(crtc.Width)
				out.Height = int(crtc.Height)
				if mi, ok := modesByID[uint32(crtc.Mode)]; ok {
					out.Refresh = modeRefresh(mi)
				}
			}
		}

		outputs = append(outputs, out)
	}
	return outputs, nil
}

// modeRefresh derives the vertical refresh rate from mode timings the
// way xrandr reports it, correcting for doublescan and interlace.
func modeRefresh(m randr.ModeInfo) float64 {
	vtotal := float64(m.Vtotal)
	if m.ModeFlags&randr.ModeFlagDoubleScan != 0 {
		vtotal *= 2
	}
	if m.ModeFlags&randr.ModeFlagInterlace != 0 {
		vtotal /= 2
	}
	if m.Htotal == 0 || vtotal == 0 {
		return 0
	}
	return float64(m.DotClock) / (float64(m.Htotal) * vtotal)
}
