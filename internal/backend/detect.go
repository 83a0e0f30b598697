package backend

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// New opens a connection to the requested display server. The name
// "auto" (or empty) picks whatever the environment says is running:
// Hyprland when HYPRLAND_INSTANCE_SIGNATURE is set, otherwise X11 when
// DISPLAY is set.
func New(name string, logger *log.Logger) (Conn, error) {
	switch name {
	case "", "auto":
		return detect(logger)
	case "hyprland":
		return NewHyprland(logger)
	case "x11":
		return NewX11(logger)
	default:
		return nil, fmt.Errorf("unknown backend %q (want auto, hyprland, or x11)", name)
	}
}

func detect(logger *log.Logger) (Conn, error) {
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return NewHyprland(logger)
	}
	if os.Getenv("DISPLAY") != "" {
		return NewX11(logger)
	}
	return nil, errors.New("no supported display server detected (set backend to hyprland or x11)")
}
