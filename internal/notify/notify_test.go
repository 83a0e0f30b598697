package notify

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDisabledNotifierDropsMessages(t *testing.T) {
	n := New(false, log.New(io.Discard))
	n.Send("summary", "body")
	n.Applied(10 * time.Second)
	n.Confirmed()
	n.RolledBack()
	if err := n.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.Send("summary", "body")
	n.RolledBack()
	if err := n.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
