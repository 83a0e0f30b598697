// Package notify posts desktop notifications through the session bus
// (org.freedesktop.Notifications). Delivery is best-effort: a missing
// bus or a failed call is logged and dropped, never surfaced.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/godbus/dbus/v5"
)

const (
	appName  = "monarch"
	busName  = "org.freedesktop.Notifications"
	busPath  = "/org/freedesktop/Notifications"
	expireMs = 5000
)

// Notifier sends desktop notifications. A nil Notifier and one without
// a bus connection both drop every message, so callers never gate on
// notification availability.
type Notifier struct {
	logger *log.Logger

	mu     sync.Mutex
	conn   *dbus.Conn
	lastID uint32
}

// New connects to the session bus. When disabled, or when no session
// bus is reachable, the returned Notifier silently drops messages.
func New(enabled bool, logger *log.Logger) *Notifier {
	n := &Notifier{logger: logger}
	if !enabled {
		return n
	}
	conn, err := sessionBus()
	if err != nil {
		logger.Warn("desktop notifications unavailable", "err", err)
		return n
	}
	n.conn = conn
	return n
}

func sessionBus() (*dbus.Conn, error) {
	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, err
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}

// Send posts a transient notification. It replaces the previous one so
// an apply followed by a quick confirm does not stack bubbles.
func (n *Notifier) Send(summary, body string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return
	}

	obj := n.conn.Object(busName, dbus.ObjectPath(busPath))
	call := obj.Call(busName+".Notify", 0,
		appName, n.lastID, "", summary, body,
		[]string{}, map[string]dbus.Variant{}, int32(expireMs))
	if call.Err != nil {
		n.logger.Debug("notification dropped", "err", call.Err)
		return
	}
	if err := call.Store(&n.lastID); err != nil {
		n.logger.Debug("notification id not returned", "err", err)
	}
}

// Applied announces a staged configuration and its revert deadline.
func (n *Notifier) Applied(remaining time.Duration) {
	secs := int(remaining.Round(time.Second) / time.Second)
	n.Send("Monitor configuration applied",
		fmt.Sprintf("Reverting in %ds unless confirmed.", secs))
}

// Confirmed announces that the applied configuration was kept.
func (n *Notifier) Confirmed() {
	n.Send("Monitor configuration confirmed", "")
}

// RolledBack announces that the previous configuration was restored.
func (n *Notifier) RolledBack() {
	n.Send("Monitor configuration reverted", "The previous arrangement was restored.")
}
