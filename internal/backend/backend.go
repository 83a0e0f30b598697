// Package backend abstracts the display server behind an
// enumerate/commit boundary so the rest of the program never talks to
// hyprctl or RandR directly.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/1broseidon/monarch/internal/layout"
)

// Enumeration is the result of querying the display server for outputs.
// Connected outputs have a physical display attached. Addressable
// outputs are known to the server (headless or unplugged ports) and may
// be configured but currently show nothing.
type Enumeration struct {
	Connected   []layout.Output
	Addressable []layout.Output
}

// Conn is one live connection to a display server.
type Conn interface {
	// Outputs enumerates the current output set.
	Outputs(ctx context.Context) (Enumeration, error)
	// Commit realizes the given output records on the display server.
	Commit(ctx context.Context, outputs []layout.Output) error
	// Name identifies the backend ("hyprland" or "x11").
	Name() string
	Close() error
}

// ErrorKind classifies a failed commit.
type ErrorKind int

const (
	// Unreachable means the display server never saw the request.
	Unreachable ErrorKind = iota
	// Invalid means the display server rejected the configuration.
	Invalid
	// Timeout means the commit ran past its deadline.
	Timeout
)

func (k ErrorKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Invalid:
		return "invalid configuration"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// CommitError reports a configuration the display server refused or
// never received. Callers match it with errors.As.
type CommitError struct {
	Kind   ErrorKind
	Output string // offending output name, when known
	Reason string
	Err    error
}

func (e *CommitError) Error() string {
	var b strings.Builder
	b.WriteString("commit failed")
	if e.Output != "" {
		fmt.Fprintf(&b, " for %s", e.Output)
	}
	fmt.Fprintf(&b, " (%s)", e.Kind)
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CommitError) Unwrap() error { return e.Err }
