package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Config is the desired state of one output for Apply.
type Config struct {
	Name    string
	Enabled bool
	X, Y    int
	Width   int
	Height  int
	Refresh float64
}

type outputPlan struct {
	cfg  Config
	id   randr.Output
	info *randr.GetOutputInfoReply
	crtc *randr.GetCrtcInfoReply // current state, nil when dark
	mode randr.Mode              // chosen mode for enabled outputs
}

// Apply realizes the desired output configuration: changed CRTCs are
// parked first, the screen is resized to the new bounding box, then
// each enabled output is lit on a CRTC. The server stays grabbed for
// the whole sequence so clients never observe a half-applied state.
func (c *Connection) Apply(configs []Config) error {
	conn := c.XUtil.Conn()
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to get screen resources: %w", err)
	}

	modesByID := make(map[uint32]randr.ModeInfo, len(res.Modes))
	for _, m := range res.Modes {
		modesByID[m.Id] = m
	}

	plans, err := c.planConfigs(res, modesByID, configs)
	if err != nil {
		return err
	}

	screenW, screenH := 0, 0
	for _, p := range plans {
		if !p.cfg.Enabled {
			continue
		}
		if r := p.cfg.X + p.cfg.Width; r > screenW {
			screenW = r
		}
		if b := p.cfg.Y + p.cfg.Height; b > screenH {
			screenH = b
		}
	}
	if screenW == 0 || screenH == 0 {
		return fmt.Errorf("refusing to apply a configuration with no enabled output")
	}

	if err := xproto.GrabServerChecked(conn).Check(); err != nil {
		return fmt.Errorf("failed to grab server: %w", err)
	}
	defer func() {
		xproto.UngrabServer(conn)
		// Round trip to flush the ungrab before returning.
		xproto.GetInputFocus(conn).Reply()
	}()

	// Park every CRTC whose output goes dark or changes shape, so the
	// screen resize below cannot clip a lit CRTC.
	for _, p := range plans {
		if p.crtc == nil || planUnchanged(p) {
			continue
		}
		if err := c.setCrtc(res, p.info.Crtc, 0, 0, 0, nil); err != nil {
			return fmt.Errorf("output %s: failed to park crtc: %w", p.cfg.Name, err)
		}
	}

	mmW := uint32(math.Round(float64(screenW) * 25.4 / 96))
	mmH := uint32(math.Round(float64(screenH) * 25.4 / 96))
	err = randr.SetScreenSizeChecked(conn, c.Root, uint16(screenW), uint16(screenH), mmW, mmH).Check()
	if err != nil {
		return fmt.Errorf("failed to set screen size %dx%d: %w", screenW, screenH, err)
	}

	used := make(map[randr.Crtc]bool)
	for _, p := range plans {
		if p.cfg.Enabled && p.crtc != nil && planUnchanged(p) {
			used[p.info.Crtc] = true
		}
	}
	for _, p := range plans {
		if !p.cfg.Enabled || (p.crtc != nil && planUnchanged(p)) {
			continue
		}
		crtc, err := pickCrtc(p, used)
		if err != nil {
			return err
		}
		used[crtc] = true
		if err := c.setCrtc(res, crtc, int16(p.cfg.X), int16(p.cfg.Y), p.mode, []randr.Output{p.id}); err != nil {
			return fmt.Errorf("output %s: failed to configure crtc: %w", p.cfg.Name, err)
		}
	}
	return nil
}

func (c *Connection) planConfigs(res *randr.GetScreenResourcesReply, modesByID map[uint32]randr.ModeInfo, configs []Config) ([]outputPlan, error) {
	conn := c.XUtil.Conn()

	infoByName := make(map[string]outputPlan, len(res.Outputs))
	for _, id := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, id, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		p := outputPlan{id: id, info: info}
		if info.Crtc != 0 {
			if crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply(); err == nil && crtc.Width > 0 {
				p.crtc = crtc
			}
		}
		infoByName[string(info.Name)] = p
	}

	plans := make([]outputPlan, 0, len(configs))
	for _, cfg := range configs {
		p, ok := infoByName[cfg.Name]
		if !ok {
			return nil, fmt.Errorf("unknown output %q", cfg.Name)
		}
		p.cfg = cfg
		if cfg.Enabled {
			mode, err := matchMode(p.info, modesByID, cfg)
			if err != nil {
				return nil, err
			}
			p.mode = mode
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// matchMode finds the output mode for the requested geometry, taking
// the closest refresh rate among exact resolution matches.
func matchMode(info *randr.GetOutputInfoReply, modesByID map[uint32]randr.ModeInfo, cfg Config) (randr.Mode, error) {
	var best randr.Mode
	bestDiff := math.MaxFloat64
	for _, id := range info.Modes {
		mi, ok := modesByID[uint32(id)]
		if !ok || int(mi.Width) != cfg.Width || int(mi.Height) != cfg.Height {
			continue
		}
		diff := math.Abs(modeRefresh(mi) - cfg.Refresh)
		if diff < bestDiff {
			bestDiff = diff
			best = id
		}
	}
	if bestDiff == math.MaxFloat64 {
		return 0, fmt.Errorf("output %s: no mode %dx%d", cfg.Name, cfg.Width, cfg.Height)
	}
	return best, nil
}

func planUnchanged(p outputPlan) bool {
	if p.crtc == nil || !p.cfg.Enabled {
		return false
	}
	return int(p.crtc.X) == p.cfg.X && int(p.crtc.Y) == p.cfg.Y &&
		p.crtc.Mode == p.mode
}

func pickCrtc(p outputPlan, used map[randr.Crtc]bool) (randr.Crtc, error) {
	if p.info.Crtc != 0 && !used[p.info.Crtc] {
		return p.info.Crtc, nil
	}
	for _, crtc := range p.info.Crtcs {
		if !used[crtc] {
			return crtc, nil
		}
	}
	return 0, fmt.Errorf("output %s: no free crtc", p.cfg.Name)
}

func (c *Connection) setCrtc(res *randr.GetScreenResourcesReply, crtc randr.Crtc, x, y int16, mode randr.Mode, outputs []randr.Output) error {
	reply, err := randr.SetCrtcConfig(
		c.XUtil.Conn(), crtc,
		0, res.ConfigTimestamp,
		x, y, mode, randr.RotationRotate0, outputs,
	).Reply()
	if err != nil {
		return err
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("set crtc config returned status %d", reply.Status)
	}
	return nil
}
