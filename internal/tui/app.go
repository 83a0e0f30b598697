package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/1broseidon/monarch/internal/apply"
	"github.com/1broseidon/monarch/internal/backend"
	"github.com/1broseidon/monarch/internal/config"
	"github.com/1broseidon/monarch/internal/geometry"
	"github.com/1broseidon/monarch/internal/layout"
	"github.com/1broseidon/monarch/internal/notify"
	"github.com/1broseidon/monarch/internal/preset"
	"github.com/1broseidon/monarch/internal/reconcile"
)

const (
	tickEvery   = 250 * time.Millisecond
	pollTimeout = 5 * time.Second

	minWidth  = 60
	minHeight = 15

	// Below this width the list and canvas stack vertically.
	splitThreshold = 100
)

type tickMsg time.Time

type applyEventMsg apply.Event

type pollMsg struct {
	enum backend.Enumeration
	err  error
}

// dragState tracks a pointer drag of the selected output. The ghost
// rectangle follows the pointer; the layout is only touched on
// release so a drag that ends nowhere valid changes nothing.
type dragState struct {
	name   string
	dx, dy int // grab offset from the output origin, logical px
	ghost  geometry.Rect
}

// model is the root bubbletea model for the TUI.
type model struct {
	cfg      *config.Config
	logger   *log.Logger
	conn     backend.Conn
	store    *preset.Store
	notifier *notify.Notifier
	ctrl     *apply.Controller

	lay *layout.Layout

	// baseline is the last arrangement known good on the display
	// server; rollbacks restore it. external is what the server is
	// showing right now, which runs ahead of baseline while an apply
	// is pending. connected names the live outputs from the last
	// enumeration, for hot-plug detection.
	baseline  []layout.Output
	external  []layout.Output
	connected []string
	changed   bool

	confirm confirmOverlay
	menu    presetMenu
	save    saveOverlay
	extchg  externalOverlay
	drag    *dragState

	status     string
	statusTone statusTone
	cancelled  bool

	lastApply time.Time
	lastPoll  time.Time
	polling   bool

	width, height int
}

func newModel(opts Options, ctrl *apply.Controller, outputs, live []layout.Output, enum backend.Enumeration) model {
	lay := layout.New(outputs)
	lay.Scales = append([]float64(nil), opts.Config.Scales...)
	lay.MoveStep = opts.Config.MoveStep

	m := model{
		cfg:       opts.Config,
		logger:    opts.Logger,
		conn:      opts.Conn,
		store:     opts.Store,
		notifier:  opts.Notifier,
		ctrl:      ctrl,
		lay:       lay,
		baseline:  layout.CloneOutputs(live),
		external:  layout.CloneOutputs(enum.Connected),
		connected: connectedNames(enum.Connected),
		lastPoll:  time.Now(),
	}
	m.changed = !externalEquivalent(outputs, enum.Connected)
	if m.changed {
		m.setStatus("Stored arrangement differs from the live one, 'a' applies it", toneInfo)
	} else {
		m.setStatus("Welcome to monarch", toneInfo)
	}
	return m
}

func (m *model) setStatus(s string, tone statusTone) {
	m.status = s
	m.statusTone = tone
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.listenApply(), tickCmd())
}

// listenApply forwards one controller event into the update loop.
func (m model) listenApply() tea.Cmd {
	events := m.ctrl.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return applyEventMsg(ev)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// pollCmd enumerates outputs off the update loop.
func (m model) pollCmd() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		defer cancel()
		enum, err := conn.Outputs(ctx)
		return pollMsg{enum: enum, err: err}
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case applyEventMsg:
		m.handleApplyEvent(apply.Event(msg))
		return m, m.listenApply()

	case tickMsg:
		if cmd := m.maybePoll(); cmd != nil {
			return m, tea.Batch(cmd, tickCmd())
		}
		return m, tickCmd()

	case pollMsg:
		m.handlePoll(msg)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.save.Active():
			var cmd tea.Cmd
			var res saveResult
			m.save, cmd, res = m.save.Update(msg)
			m.finishSave(res)
			return m, cmd
		case m.confirm.Active():
			m.handleConfirmKey(msg)
			return m, nil
		case m.menu.Active():
			var res menuResult
			m.menu, res = m.menu.Update(msg)
			m.finishMenu(res)
			return m, nil
		case m.extchg.Active():
			var act externalAction
			m.extchg, act = m.extchg.Update(msg)
			return m.finishExternal(act)
		}
		return m.handleGlobalKey(msg)

	default:
		// The huh form runs on its own message types while naming.
		if m.save.Active() {
			var cmd tea.Cmd
			var res saveResult
			m.save, cmd, res = m.save.Update(msg)
			m.finishSave(res)
			return m, cmd
		}
	}
	return m, nil
}

// handleApplyEvent reacts to one controller transition.
func (m *model) handleApplyEvent(ev apply.Event) {
	switch ev.Kind {
	case apply.EventCommitted:
		m.confirm.committed = true
		m.external = layout.CloneOutputs(m.lay.Outputs)
		m.lastApply = time.Now()
		m.setStatus("Applied, confirm to keep", toneGood)
		m.notifier.Applied(m.ctrl.Remaining())

	case apply.EventConfirmed:
		m.confirm.Hide()
		m.changed = false
		m.baseline = layout.CloneOutputs(m.lay.Outputs)
		m.external = layout.CloneOutputs(m.lay.Outputs)
		m.lastApply = time.Now()
		m.setStatus("Configuration saved", toneGood)
		m.notifier.Confirmed()

	case apply.EventReverting:
		m.setStatus("Reverting...", toneInfo)

	case apply.EventRolledBack:
		m.confirm.Hide()
		m.lay.Outputs = layout.CloneOutputs(m.baseline)
		m.lay.Select(0)
		m.external = layout.CloneOutputs(m.baseline)
		m.changed = false
		m.lastApply = time.Now()
		if m.cancelled {
			m.setStatus("Changes reverted", toneBad)
		} else {
			m.setStatus("Not confirmed in time, changes reverted", toneBad)
		}
		m.cancelled = false
		m.notifier.RolledBack()

	case apply.EventFailed:
		m.confirm.Hide()
		m.cancelled = false
		m.setStatus(fmt.Sprintf("Apply failed: %v", ev.Err), toneBad)
	}
}

// maybePoll starts an output poll when one is due and nothing owns the
// display right now. The external-change overlay does not suppress
// polling; it keeps refreshing so a pull adopts current state.
func (m *model) maybePoll() tea.Cmd {
	if m.polling || time.Since(m.lastPoll) < m.cfg.PollInterval() {
		return nil
	}
	if m.ctrl.Pending() || m.confirm.Active() || m.menu.Active() || m.save.Active() || m.drag != nil {
		return nil
	}
	if time.Since(m.lastApply) < m.cfg.GracePeriod() {
		return nil
	}
	m.polling = true
	return m.pollCmd()
}

func (m *model) handlePoll(msg pollMsg) {
	m.polling = false
	m.lastPoll = time.Now()
	if msg.err != nil {
		m.logger.Warn("output poll failed", "err", msg.err)
		return
	}
	names := connectedNames(msg.enum.Connected)
	if !sameNames(m.connected, names) {
		m.hotplug(msg.enum, names)
		return
	}
	if externalEquivalent(m.external, msg.enum.Connected) {
		if m.extchg.Active() {
			m.extchg.Hide()
			m.setStatus("External change resolved", toneInfo)
		}
		return
	}
	if m.extchg.Active() {
		m.extchg.Refresh(msg.enum)
		return
	}
	m.logger.Info("external configuration change detected")
	m.extchg.Show(msg.enum)
}

// hotplug reconciles a changed connected set into the session, keeping
// in-session edits for outputs that survived.
func (m *model) hotplug(enum backend.Enumeration, names []string) {
	m.extchg.Hide()
	m.drag = nil
	live := reconcile.Build(enum.Connected, enum.Addressable, nil, m.logger)
	m.lay.Outputs = reconcile.Rebuild(m.lay.Outputs, enum.Connected, enum.Addressable, m.logger)
	m.lay.Select(0)
	m.baseline = live
	if err := m.ctrl.SetBaseline(live); err != nil {
		m.logger.Warn("could not move rollback target", "err", err)
	}
	m.external = layout.CloneOutputs(enum.Connected)
	m.connected = names
	m.changed = !externalEquivalent(m.lay.Outputs, enum.Connected)
	m.setStatus("Output set changed", toneInfo)
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) {
	if !m.confirm.Ready() {
		return
	}
	switch msg.String() {
	case "y", "enter":
		switch err := m.ctrl.Confirm(); {
		case err == nil:
			// EventConfirmed finishes the bookkeeping.
		case errors.Is(err, apply.ErrCommitInFlight):
			m.setStatus("Still applying, try again in a moment", toneInfo)
		default:
			m.confirm.Hide()
		}
	case "n", "esc":
		m.cancelled = true
		if err := m.ctrl.Cancel(); err != nil {
			m.cancelled = false
			m.confirm.Hide()
		}
	}
}

func (m model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "esc":
		return m, tea.Quit

	case "tab":
		m.lay.Apply(layout.Select{Delta: 1})
	case "shift+tab":
		m.lay.Apply(layout.Select{Delta: -1})

	case "f":
		if m.lay.Focus == layout.FocusList {
			m.lay.SetFocus(layout.FocusCanvas)
		} else {
			m.lay.SetFocus(layout.FocusList)
		}

	case "h", "left":
		m.moveSelected(geometry.DirLeft)
	case "l", "right":
		m.moveSelected(geometry.DirRight)
	case "k", "up":
		m.moveSelected(geometry.DirUp)
	case "j", "down":
		m.moveSelected(geometry.DirDown)

	case "H", "shift+left":
		m.snapSelected(geometry.DirLeft)
	case "L", "shift+right":
		m.snapSelected(geometry.DirRight)
	case "K", "shift+up":
		m.snapSelected(geometry.DirUp)
	case "J", "shift+down":
		m.snapSelected(geometry.DirDown)

	case "r":
		if m.lay.Apply(layout.CycleResolution{}) {
			m.changed = true
			if sel := m.lay.SelectedOutput(); sel != nil {
				m.setStatus(fmt.Sprintf("%s: %s", sel.Name, sel.ModeText()), toneInfo)
			}
		}
	case "s":
		m.scaleSelected(layout.CycleScale{})
	case "+", "=":
		m.scaleSelected(layout.AdjustScale{Delta: 1})
	case "-":
		m.scaleSelected(layout.AdjustScale{Delta: -1})

	case "e":
		m.toggleSelected()

	case "0":
		if m.lay.Apply(layout.ClearWorkspaces{}) {
			m.changed = true
			m.setStatus("Workspaces cleared", toneInfo)
		}

	case "a":
		m.beginApply()
	case "p":
		m.openMenu()
	case "S":
		return m, m.save.Show()

	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := int(key[0] - '0')
			if m.lay.Apply(layout.AssignWorkspace{N: n}) {
				m.changed = true
				if sel := m.lay.SelectedOutput(); sel != nil {
					m.setStatus(fmt.Sprintf("Workspace %d on %s", n, sel.Name), toneInfo)
				}
			}
		}
	}
	return m, nil
}

func (m *model) moveSelected(dir geometry.Direction) {
	report := m.lay.Move(dir)
	switch report.Outcome {
	case geometry.MoveRejected:
		return
	case geometry.MoveSwapped:
		m.setStatus(fmt.Sprintf("Swapped with %s", report.Partner), toneInfo)
	case geometry.MoveSnapped:
		m.setStatus(fmt.Sprintf("Snapped to %s", report.Partner), toneInfo)
	}
	m.changed = true
}

func (m *model) snapSelected(dir geometry.Direction) {
	if m.lay.Snap(dir) {
		m.changed = true
	}
}

func (m *model) scaleSelected(in layout.Intent) {
	if m.lay.Apply(in) {
		m.changed = true
		if sel := m.lay.SelectedOutput(); sel != nil {
			m.setStatus(fmt.Sprintf("%s: scale %.2fx", sel.Name, sel.Scale), toneInfo)
		}
	}
}

func (m *model) toggleSelected() {
	sel := m.lay.SelectedOutput()
	if sel == nil {
		return
	}
	name := sel.Name
	wasEnabled := sel.Enabled
	if !m.lay.Apply(layout.ToggleEnabled{}) {
		if wasEnabled {
			m.setStatus("Cannot disable the last enabled output", toneBad)
		} else {
			m.setStatus(fmt.Sprintf("No room to enable %s", name), toneBad)
		}
		return
	}
	m.changed = true
	if wasEnabled {
		m.setStatus(fmt.Sprintf("%s disabled", name), toneInfo)
	} else {
		m.setStatus(fmt.Sprintf("%s enabled", name), toneInfo)
	}
}

// beginApply stages the session arrangement on the display server and
// opens the confirm countdown.
func (m *model) beginApply() {
	if !m.changed {
		m.setStatus("No changes to apply", toneInfo)
		return
	}
	sess, err := m.ctrl.BeginApply(m.lay.Outputs)
	if err != nil {
		m.setStatus(fmt.Sprintf("Cannot apply: %v", err), toneBad)
		return
	}
	m.confirm.Show(sess.ID)
	m.setStatus("Applying...", toneInfo)
}

func (m *model) openMenu() {
	entries, err := m.store.List()
	if err != nil {
		m.setStatus(fmt.Sprintf("Cannot list presets: %v", err), toneBad)
		return
	}
	_, recentErr := m.store.MostRecentApply()
	m.menu.Show(entries, recentErr == nil)
}

func (m *model) finishMenu(res menuResult) {
	switch res.action {
	case menuLoad:
		m.loadPreset(res.recent, res.name)
	case menuDelete:
		if err := m.store.Delete(res.name); err != nil {
			m.setStatus(fmt.Sprintf("Delete failed: %v", err), toneBad)
			return
		}
		m.menu.Removed(res.name)
		m.setStatus(fmt.Sprintf("Deleted preset %q", res.name), toneInfo)
	}
}

// loadPreset merges a stored arrangement into the session and, when
// that changes anything, applies it right away.
func (m *model) loadPreset(recent bool, name string) {
	var (
		p   *preset.Preset
		err error
	)
	if recent {
		p, err = m.store.MostRecentApply()
	} else {
		p, err = m.store.Load(name)
	}
	if err != nil {
		m.setStatus(fmt.Sprintf("Load failed: %v", err), toneBad)
		return
	}
	m.lay.Outputs = reconcile.Merge(m.lay.Outputs, p.Outputs, m.logger)
	m.lay.Select(0)
	m.changed = !externalEquivalent(m.lay.Outputs, m.external)
	if !m.changed {
		m.setStatus(fmt.Sprintf("Preset %q already active", p.Name), toneInfo)
		return
	}
	m.setStatus(fmt.Sprintf("Preset %q loaded", p.Name), toneInfo)
	m.beginApply()
}

func (m *model) finishSave(res saveResult) {
	switch res.action {
	case saveSubmit:
		stem, err := m.store.Save(res.name, m.lay.Outputs, false)
		if errors.Is(err, preset.ErrExists) {
			m.save.AskOverwrite(stem)
			return
		}
		m.save.Hide()
		if err != nil {
			m.setStatus(fmt.Sprintf("Save failed: %v", err), toneBad)
			return
		}
		m.setStatus(fmt.Sprintf("Preset saved as %q", stem), toneGood)
	case saveForce:
		stem, err := m.store.Save(res.name, m.lay.Outputs, true)
		if err != nil {
			m.setStatus(fmt.Sprintf("Save failed: %v", err), toneBad)
			return
		}
		m.setStatus(fmt.Sprintf("Preset saved as %q", stem), toneGood)
	}
}

func (m model) finishExternal(act externalAction) (tea.Model, tea.Cmd) {
	switch act {
	case externalQuit:
		return m, tea.Quit
	case externalKeep:
		m.overrideExternal()
	case externalPull:
		m.pullExternal()
	}
	return m, nil
}

// overrideExternal re-commits the local session over the outside edit.
// The outside arrangement becomes the rollback target so a timeout or
// cancel hands the display back rather than reverting to older state.
func (m *model) overrideExternal() {
	enum := m.extchg.enum
	m.extchg.Hide()
	live := reconcile.Build(enum.Connected, enum.Addressable, nil, m.logger)
	m.baseline = live
	if err := m.ctrl.SetBaseline(live); err != nil {
		m.logger.Warn("could not move rollback target", "err", err)
	}
	m.external = layout.CloneOutputs(enum.Connected)
	m.connected = connectedNames(enum.Connected)
	m.changed = true
	m.beginApply()
}

// pullExternal adopts the outside arrangement as the session.
func (m *model) pullExternal() {
	enum := m.extchg.enum
	m.extchg.Hide()
	m.drag = nil
	built := reconcile.Build(enum.Connected, enum.Addressable, nil, m.logger)
	m.lay.Outputs = layout.CloneOutputs(built)
	m.lay.Select(0)
	m.baseline = built
	if err := m.ctrl.SetBaseline(built); err != nil {
		m.logger.Warn("could not move rollback target", "err", err)
	}
	m.external = layout.CloneOutputs(enum.Connected)
	m.connected = connectedNames(enum.Connected)
	m.changed = false
	m.setStatus("Pulled the outside arrangement", toneInfo)
}

// paneArea is the body of one pane, below its heading line.
type paneArea struct {
	x, y, w, h int
}

func inArea(a paneArea, x, y int) bool {
	return x >= a.x && x < a.x+a.w && y >= a.y && y < a.y+a.h
}

// areas computes the pane bodies for the current terminal size, shared
// by the renderer and the mouse handler so hits land where pixels are.
func (m *model) areas() (list, canvas paneArea) {
	contentTop := 1 // title bar
	contentH := m.height - 4
	if contentH < 2 {
		contentH = 2
	}
	if m.width >= splitThreshold {
		listW := m.width * 35 / 100
		if listW < 24 {
			listW = 24
		}
		if listW > 44 {
			listW = 44
		}
		list = paneArea{x: 0, y: contentTop + 1, w: listW, h: contentH - 1}
		cx := listW + 3
		canvas = paneArea{x: cx, y: contentTop + 1, w: m.width - cx, h: contentH - 1}
		return
	}
	listH := contentH / 2
	if listH < 2 {
		listH = 2
	}
	list = paneArea{x: 0, y: contentTop + 1, w: m.width, h: listH - 1}
	canvas = paneArea{x: 0, y: contentTop + listH + 1, w: m.width, h: contentH - listH - 1}
	return
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.confirm.Active() || m.menu.Active() || m.save.Active() || m.extchg.Active() {
		return
	}
	list, canvas := m.areas()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if inArea(list, msg.X, msg.Y) {
			if idx := listItemAt(m.lay.Outputs, msg.Y-list.y); idx >= 0 {
				m.lay.SetFocus(layout.FocusList)
				m.lay.Selected = idx
			}
			return
		}
		if inArea(canvas, msg.X, msg.Y) {
			cx, cy := msg.X-canvas.x, msg.Y-canvas.y
			name := hitTest(m.lay, nil, cx, cy, canvas.w, canvas.h)
			if name == "" {
				return
			}
			m.lay.SetFocus(layout.FocusCanvas)
			m.lay.SelectName(name)
			m.startDrag(name, cx, cy, canvas)
		}

	case tea.MouseActionMotion:
		if m.drag != nil && inArea(canvas, msg.X, msg.Y) {
			m.updateDrag(msg.X-canvas.x, msg.Y-canvas.y, canvas)
		}

	case tea.MouseActionRelease:
		m.endDrag()
	}
}

func (m *model) startDrag(name string, cx, cy int, canvas paneArea) {
	sel := m.lay.Get(name)
	if sel == nil || !sel.Enabled {
		return
	}
	p := fitProjection(rectsOf(canvasItems(m.lay, nil)), canvas.w, canvas.h)
	lx, ly := p.logical(cx, cy)
	m.drag = &dragState{
		name:  name,
		dx:    lx - sel.X,
		dy:    ly - sel.Y,
		ghost: sel.Rect(),
	}
}

func (m *model) updateDrag(cx, cy int, canvas paneArea) {
	sel := m.lay.SelectedOutput()
	if sel == nil || m.drag == nil || sel.Name != m.drag.name {
		m.drag = nil
		return
	}
	p := fitProjection(rectsOf(canvasItems(m.lay, &m.drag.ghost)), canvas.w, canvas.h)
	lx, ly := p.logical(cx, cy)
	m.drag.ghost.X = lx - m.drag.dx
	m.drag.ghost.Y = ly - m.drag.dy
}

func (m *model) endDrag() {
	if m.drag == nil {
		return
	}
	ghost := m.drag.ghost
	name := m.drag.name
	m.drag = nil
	sel := m.lay.SelectedOutput()
	if sel == nil || sel.Name != name {
		return
	}
	if ghost.X == sel.X && ghost.Y == sel.Y {
		return
	}
	if m.lay.Apply(layout.PlaceAt{X: ghost.X, Y: ghost.Y}) {
		m.changed = true
		m.setStatus("Layout updated", toneInfo)
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.width < minWidth || m.height < minHeight {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			badStyle.Render(fmt.Sprintf("terminal too small (min %dx%d)", minWidth, minHeight)))
	}

	titleBar := m.renderTitleBar()
	contentH := m.height - 4

	var content string
	switch {
	case m.confirm.Active():
		content = m.confirm.View(m.width, contentH, m.ctrl.Remaining(), m.cfg.ConfirmTimeout())
	case m.menu.Active():
		content = m.menu.View(m.width, contentH)
	case m.save.Active():
		content = m.save.View(m.width, contentH)
	case m.extchg.Active():
		content = m.extchg.View(m.width, contentH)
	default:
		content = m.renderPanes(contentH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, content, renderStatusBar(&m))
}

func (m model) renderTitleBar() string {
	text := fmt.Sprintf("monarch · %s · %d outputs", m.conn.Name(), len(m.lay.Outputs))
	if m.changed {
		text += " · modified"
	}
	return titleBarStyle.Width(m.width).Render(text)
}

func (m model) renderPanes(contentH int) string {
	list, canvas := m.areas()

	mark := ""
	if m.changed {
		mark = " *"
	}
	listHead := titleStyle.Render("Outputs" + mark)
	canvasHead := titleStyle.Render("Arrangement")
	if m.lay.Focus == layout.FocusCanvas {
		canvasHead = titleStyle.Render("Arrangement") + accentStyle.Render(" ◂")
	} else {
		listHead += accentStyle.Render(" ◂")
	}

	var ghost *geometry.Rect
	if m.drag != nil {
		ghost = &m.drag.ghost
	}

	listBody := lipgloss.NewStyle().Width(list.w).Height(list.h).MaxHeight(list.h).
		Render(renderList(m.lay, list.w, list.h))
	canvasBody := renderCanvas(m.lay, ghost, canvas.w, canvas.h)

	listPane := lipgloss.JoinVertical(lipgloss.Left, listHead, listBody)
	canvasPane := lipgloss.JoinVertical(lipgloss.Left, canvasHead, canvasBody)

	frame := lipgloss.NewStyle().Height(contentH).MaxHeight(contentH)
	if m.width >= splitThreshold {
		bars := strings.TrimRight(strings.Repeat("│\n", list.h+1), "\n")
		sep := lipgloss.NewStyle().Padding(0, 1).Render(separatorStyle.Render(bars))
		return frame.Render(lipgloss.JoinHorizontal(lipgloss.Top, listPane, sep, canvasPane))
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, listPane, canvasPane))
}

func connectedNames(outs []layout.Output) []string {
	names := make([]string, 0, len(outs))
	for i := range outs {
		names = append(names, outs[i].Name)
	}
	sort.Strings(names)
	return names
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func enabledOnly(outs []layout.Output) []layout.Output {
	kept := make([]layout.Output, 0, len(outs))
	for i := range outs {
		if outs[i].Enabled {
			kept = append(kept, outs[i])
		}
	}
	return kept
}

// externalEquivalent compares arrangements for change detection,
// ignoring disabled outputs on both sides: their live coordinates mean
// nothing until they are re-enabled.
func externalEquivalent(a, b []layout.Output) bool {
	return layout.EquivalentOutputs(enabledOnly(a), enabledOnly(b))
}
