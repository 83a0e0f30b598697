package apply

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/1broseidon/monarch/internal/layout"
	"github.com/1broseidon/monarch/internal/preset"
)

// DefaultTimeout is the confirmation window after staging a layout.
const DefaultTimeout = 10 * time.Second

var (
	// ErrPending rejects a new apply while one is unresolved.
	ErrPending = errors.New("apply already pending")
	// ErrNotPending rejects confirm/cancel with no apply in flight.
	ErrNotPending = errors.New("no apply pending")
	// ErrCommitInFlight rejects confirmation while the staged commit is
	// still running; retry once the Committed event arrives.
	ErrCommitInFlight = errors.New("commit still in flight")
)

// Committer realizes a layout on the display server.
type Committer interface {
	Commit(ctx context.Context, outputs []layout.Output) error
}

// EventKind tags controller lifecycle events.
type EventKind int

const (
	// EventStaged: a layout was staged and the countdown started.
	EventStaged EventKind = iota
	// EventCommitted: the staged commit call returned successfully.
	EventCommitted
	// EventConfirmed: the user kept the layout; it is the new baseline.
	EventConfirmed
	// EventReverting: countdown expired or cancel arrived; the rollback
	// commit is being issued.
	EventReverting
	// EventRolledBack: the rollback commit completed.
	EventRolledBack
	// EventFailed: a commit call failed; Err carries the cause.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStaged:
		return "staged"
	case EventCommitted:
		return "committed"
	case EventConfirmed:
		return "confirmed"
	case EventReverting:
		return "reverting"
	case EventRolledBack:
		return "rolled back"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event is one controller transition, delivered on Events().
type Event struct {
	Kind     EventKind
	Session  string
	Deadline time.Time // set on EventStaged
	Err      error     // set on EventFailed
}

// Session identifies one staged apply.
type Session struct {
	ID       string
	Deadline time.Time
}

type phase int

const (
	phaseIdle phase = iota
	phasePending
	phaseRollback
)

type session struct {
	id        string
	staged    []layout.Output
	rollback  []layout.Output
	deadline  time.Time
	committed bool
	// stageDone closes when the staged commit call returns, so the
	// rollback commit can never overtake it at the display server.
	stageDone chan struct{}
}

// Controller stages layout commits behind a confirmation countdown.
// A staged layout that is not confirmed before the deadline is rolled
// back with a real commit of the previous baseline, since the display
// server's state already changed.
type Controller struct {
	mu        sync.Mutex
	committer Committer
	store     *preset.Store
	logger    *log.Logger
	timeout   time.Duration

	phase    phase
	cur      *session
	baseline []layout.Output
	timer    *time.Timer
	events   chan Event
}

// New builds a controller over the given committer. baseline is the
// layout currently realized on the display server; it becomes the
// rollback target until the first confirmed apply replaces it. store
// may be nil to skip most-recent-apply persistence.
func New(committer Committer, store *preset.Store, baseline []layout.Output, timeout time.Duration, logger *log.Logger) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		committer: committer,
		store:     store,
		logger:    logger,
		timeout:   timeout,
		baseline:  layout.CloneOutputs(baseline),
		events:    make(chan Event, 16),
	}
}

// Events delivers controller transitions. The channel is buffered;
// consumers must drain it promptly or transitions are dropped.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Pending reports whether an apply is unresolved (counting down or
// rolling back).
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase != phaseIdle
}

// Remaining is the time left on the confirmation countdown, zero when
// none is running.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phasePending {
		return 0
	}
	if d := time.Until(c.cur.deadline); d > 0 {
		return d
	}
	return 0
}

// BeginApply snapshots the current baseline as the rollback target,
// stages the given layout, issues the commit and starts the countdown.
// Only legal while idle.
func (c *Controller) BeginApply(outputs []layout.Output) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phaseIdle {
		return Session{}, ErrPending
	}
	s := &session{
		id:        uuid.NewString(),
		staged:    layout.CloneOutputs(outputs),
		rollback:  layout.CloneOutputs(c.baseline),
		deadline:  time.Now().Add(c.timeout),
		stageDone: make(chan struct{}),
	}
	c.cur = s
	c.phase = phasePending
	c.timer = time.AfterFunc(c.timeout, func() { c.expire(s) })
	c.logger.Info("apply staged", "session", s.id, "confirm within", c.timeout)
	c.emitLocked(Event{Kind: EventStaged, Session: s.id, Deadline: s.deadline})
	go c.runStage(s)
	return Session{ID: s.id, Deadline: s.deadline}, nil
}

// Confirm keeps the staged layout: the countdown stops, the layout
// becomes the new baseline and is persisted to the most-recent-apply
// slot. Returns ErrCommitInFlight while the staged commit is still
// running; the caller retries after EventCommitted.
func (c *Controller) Confirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phasePending {
		return ErrNotPending
	}
	if !c.cur.committed {
		return ErrCommitInFlight
	}
	c.timer.Stop()
	c.baseline = c.cur.staged
	if c.store != nil {
		if err := c.store.SaveRecent(c.baseline); err != nil {
			c.logger.Warn("could not persist most recent apply", "err", err)
		}
	}
	c.logger.Info("apply confirmed", "session", c.cur.id)
	c.emitLocked(Event{Kind: EventConfirmed, Session: c.cur.id})
	c.cur = nil
	c.phase = phaseIdle
	return nil
}

// Cancel behaves like an immediate timeout: the rollback target is
// re-committed right away.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phasePending {
		return ErrNotPending
	}
	c.timer.Stop()
	c.logger.Info("apply cancelled, reverting", "session", c.cur.id)
	c.revertLocked(c.cur)
	return nil
}

// SetBaseline replaces the rollback target, used when the outside
// world changed the committed layout (hot-plug, external edits). Only
// legal while idle.
func (c *Controller) SetBaseline(outputs []layout.Output) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phaseIdle {
		return ErrPending
	}
	c.baseline = layout.CloneOutputs(outputs)
	return nil
}

// expire is the countdown callback. A session that was already
// confirmed, cancelled or failed is left alone.
func (c *Controller) expire(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != s || c.phase != phasePending {
		return
	}
	c.logger.Warn("apply not confirmed in time, reverting", "session", s.id)
	c.revertLocked(s)
}

func (c *Controller) revertLocked(s *session) {
	c.phase = phaseRollback
	c.emitLocked(Event{Kind: EventReverting, Session: s.id})
	go c.runRollback(s)
}

func (c *Controller) runStage(s *session) {
	err := c.committer.Commit(context.Background(), s.staged)
	close(s.stageDone)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != s {
		return
	}
	if c.phase == phaseRollback {
		// Cancel raced the commit; the rollback leg reports instead.
		return
	}
	if err != nil {
		c.failLocked(s, fmt.Errorf("apply commit: %w", err))
		return
	}
	s.committed = true
	c.emitLocked(Event{Kind: EventCommitted, Session: s.id})
}

func (c *Controller) runRollback(s *session) {
	<-s.stageDone
	err := c.committer.Commit(context.Background(), s.rollback)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != s {
		return
	}
	if err != nil {
		c.failLocked(s, fmt.Errorf("rollback commit: %w", err))
		return
	}
	c.logger.Info("rolled back to previous layout", "session", s.id)
	c.emitLocked(Event{Kind: EventRolledBack, Session: s.id})
	c.cur = nil
	c.phase = phaseIdle
}

func (c *Controller) failLocked(s *session, err error) {
	c.timer.Stop()
	c.logger.Error("commit failed", "session", s.id, "err", err)
	c.emitLocked(Event{Kind: EventFailed, Session: s.id, Err: err})
	c.cur = nil
	c.phase = phaseIdle
}

func (c *Controller) emitLocked(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("event dropped, consumer not draining", "kind", ev.Kind)
	}
}
