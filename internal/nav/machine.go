package nav

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-skymap/internal/gesture"
	"github.com/litescript/ls-skymap/internal/logging"
	"github.com/litescript/ls-skymap/internal/lookup"
	"github.com/litescript/ls-skymap/internal/search"
	"github.com/litescript/ls-skymap/internal/sky"
	"github.com/litescript/ls-skymap/internal/view"
)

// Config holds the navigation constants.
type Config struct {
	Gesture         gesture.Config
	DefaultRotation sky.Rotation // overview rotation, pole-centered
	DetailScale     float64      // scale while focused
	BrowseScale     float64      // scale while browsing
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Gesture:         gesture.DefaultConfig(),
		DefaultRotation: sky.Rotation{Lon: 0, Lat: -90},
		DetailScale:     2.77,
		BrowseScale:     0.65,
	}
}

// Msg types delivered back to Update.
type (
	// LookupMsg carries the result of an object lookup by id or by name.
	LookupMsg struct {
		Token  uint64
		Query  string
		ByName bool
		Detail lookup.ObjectDetail
		Err    error
	}

	// DocumentMsg carries a fetched document.
	DocumentMsg struct {
		Token    uint64
		Ref      string
		Document lookup.Document
		Err      error
	}

	// BrowseTickMsg advances the auto-pan by one step.
	BrowseTickMsg struct {
		Gen uint64
	}
)

// request is the latest in-flight call on one channel.
type request struct {
	token  uint64
	cancel context.CancelFunc
}

// stop cancels the call and invalidates its token, so a response that
// raced the cancellation is dropped.
func (r *request) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.token = 0
}

// snapshot is what browsing suspends and later restores.
type snapshot struct {
	state State
	scale float64
	input string
}

// Option configures a Machine.
type Option func(*Machine)

// WithPersistence mirrors the focus into p.
func WithPersistence(p lookup.FocusPersistence) Option {
	return func(m *Machine) {
		m.persist = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// Machine owns the navigation state and the view state. It is a value held
// by the Bubble Tea model and is only mutated on the event loop; blocking
// work is returned as tea.Cmd and reported back through Update.
type Machine struct {
	cfg     Config
	index   *search.Index
	objects lookup.ObjectService
	docs    lookup.DocumentService
	persist lookup.FocusPersistence
	log     *logging.Logger

	state   State
	view    view.State
	gesture gesture.Controller
	input   string

	// Requests carry tokens from one counter so a token is never reused.
	token    uint64
	target   request
	document request
	pending  bool

	browsing  bool
	browseGen uint64
	saved     *snapshot
}

// New creates a machine in Idle at the default view.
func New(cfg Config, index *search.Index, objects lookup.ObjectService, docs lookup.DocumentService, opts ...Option) Machine {
	if cfg.DetailScale <= 0 {
		cfg.DetailScale = DefaultConfig().DetailScale
	}
	if cfg.BrowseScale <= 0 {
		cfg.BrowseScale = DefaultConfig().BrowseScale
	}
	m := Machine{
		cfg:     cfg,
		index:   index,
		objects: objects,
		docs:    docs,
		log:     logging.Discard(),
		state:   Idle{},
		view:    view.Default(cfg.DefaultRotation),
		gesture: gesture.New(cfg.Gesture, 1),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.view.Scale = m.gesture.Clamp(m.view.Scale)
	return m
}

// State returns the current navigation state.
func (m *Machine) State() State { return m.state }

// View returns the current view state.
func (m *Machine) View() view.State { return m.view }

// Input returns the search text.
func (m *Machine) Input() string { return m.input }

// Browsing reports whether auto-pan is active.
func (m *Machine) Browsing() bool { return m.browsing }

// Pending reports whether a focus lookup is in flight.
func (m *Machine) Pending() bool { return m.pending }

// LabelsVisible reports whether star labels are shown at the current scale.
func (m *Machine) LabelsVisible() bool { return m.gesture.LabelsVisible() }

// Config returns the machine's settings.
func (m *Machine) Config() Config { return m.cfg }

// SetQuery handles a change of the search text. An empty query returns to
// the overview. Input is ignored while browsing.
func (m *Machine) SetQuery(q string) tea.Cmd {
	if m.browsing {
		return nil
	}
	m.input = q
	if q == "" {
		m.reset()
		return nil
	}
	m.search(q)
	return nil
}

// FocusInput handles the search box gaining focus: a query left over from an
// earlier search shows its candidates again.
func (m *Machine) FocusInput() tea.Cmd {
	if m.browsing || m.input == "" {
		return nil
	}
	if _, idle := m.state.(Idle); idle {
		m.search(m.input)
	}
	return nil
}

// Submit focuses the entry the current query names: an exact name match if
// there is one, else the first entry containing the query. Stars win over
// constellations. A query matching nothing is a no-op.
func (m *Machine) Submit() tea.Cmd {
	if m.browsing {
		return nil
	}
	e, ok := m.index.Resolve(m.input)
	if !ok {
		m.log.Debug("submit %q: no match", m.input)
		return nil
	}
	return m.Select(e.ID)
}

// Select requests focus on the object with the given id.
func (m *Machine) Select(id string) tea.Cmd {
	if m.browsing || id == "" {
		return nil
	}
	ctx, token := m.begin(&m.target)
	m.document.stop()
	m.pending = true
	m.log.Debug("lookup %s (token %d)", id, token)

	svc := m.objects
	return func() tea.Msg {
		d, err := svc.ByID(ctx, id)
		return LookupMsg{Token: token, Query: id, Detail: d, Err: err}
	}
}

// ClickLabel routes a click on a rendered label. Clicks are ignored while
// browsing.
func (m *Machine) ClickLabel(id string) tea.Cmd {
	if m.browsing {
		return nil
	}
	return m.Select(id)
}

// FollowReference requests focus on a name embedded in a document. A name
// that is neither a star nor a constellation returns to the overview.
func (m *Machine) FollowReference(name string) tea.Cmd {
	if m.browsing || name == "" {
		return nil
	}
	ctx, token := m.begin(&m.target)
	m.document.stop()
	m.pending = true
	m.log.Debug("lookup name %q (token %d)", name, token)

	svc := m.objects
	return func() tea.Msg {
		d, err := svc.ByName(ctx, name)
		return LookupMsg{Token: token, Query: name, ByName: true, Detail: d, Err: err}
	}
}

// Restore focuses the object recorded in the persistence store, if any.
func (m *Machine) Restore() tea.Cmd {
	if m.persist == nil {
		return nil
	}
	id, err := m.persist.Load()
	if err != nil {
		m.log.Warn("restore focus: %v", err)
		return nil
	}
	if id == "" {
		m.reset()
		return nil
	}
	m.log.Info("restoring focus %s", id)
	return m.Select(id)
}

// ToggleBrowsing enters or leaves auto-pan. Entering suspends gestures and
// search and cancels in-flight lookups; leaving restores the state, scale
// and input from before, keeping the rotation browsing accumulated.
func (m *Machine) ToggleBrowsing() tea.Cmd {
	m.browseGen++
	if m.browsing {
		return m.stopBrowsing()
	}

	m.saved = &snapshot{state: m.state, scale: m.view.Scale, input: m.input}
	m.target.stop()
	m.document.stop()
	m.pending = false
	if _, searching := m.state.(Searching); searching {
		m.state = Idle{}
	}
	m.gesture.Suspend()
	m.view = m.gesture.SetScale(m.view, m.cfg.BrowseScale)
	m.browsing = true
	m.log.Debug("browsing on")
	return m.tick()
}

func (m *Machine) stopBrowsing() tea.Cmd {
	m.browsing = false
	m.gesture.Resume()
	s := m.saved
	m.saved = nil
	m.log.Debug("browsing off")
	if s == nil {
		return nil
	}
	m.state = s.state
	m.input = s.input
	m.view = m.gesture.SetScale(m.view, s.scale)

	// A document cancelled on entry is fetched again.
	if f, ok := m.state.(Focused); ok && !f.DocumentLoaded {
		return m.fetchDocument(f.Target.Ref)
	}
	return nil
}

// Drag rotates the view. Ignored while browsing or while a focus lookup is
// in flight.
func (m *Machine) Drag(dx, dy float64) {
	if m.browsing || m.pending {
		return
	}
	m.view = m.gesture.Drag(m.view, dx, dy)
}

// Zoom scales the view by factor under the same conditions as Drag.
func (m *Machine) Zoom(factor float64) {
	if m.browsing || m.pending {
		return
	}
	m.view = m.gesture.Zoom(m.view, factor)
}

// Wheel zooms by wheel notches; positive zooms in.
func (m *Machine) Wheel(ticks int) {
	if m.browsing || m.pending {
		return
	}
	m.view = m.gesture.Wheel(m.view, ticks)
}

// Update applies messages addressed to the machine and reports whether msg
// was one of them.
func (m *Machine) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case LookupMsg:
		return m.applyLookup(msg), true
	case DocumentMsg:
		m.applyDocument(msg)
		return nil, true
	case BrowseTickMsg:
		if !m.browsing || msg.Gen != m.browseGen {
			return nil, true
		}
		m.view = m.gesture.Advance(m.view)
		return m.tick(), true
	}
	return nil, false
}

func (m *Machine) applyLookup(msg LookupMsg) tea.Cmd {
	if msg.Token == 0 || msg.Token != m.target.token {
		m.log.Debug("drop stale lookup %q (token %d, latest %d)", msg.Query, msg.Token, m.target.token)
		return nil
	}
	m.target.stop()
	m.pending = false

	switch {
	case msg.Err == nil:
		return m.focus(msg.Detail)
	case errors.Is(msg.Err, lookup.ErrNotFound):
		m.log.Info("%q not found, returning to overview", msg.Query)
		m.input = ""
		m.reset()
		return nil
	case errors.Is(msg.Err, context.Canceled):
		return nil
	default:
		m.log.Warn("lookup %q: %v", msg.Query, msg.Err)
		return nil
	}
}

func (m *Machine) applyDocument(msg DocumentMsg) {
	if msg.Token == 0 || msg.Token != m.document.token {
		m.log.Debug("drop stale document %s (token %d)", msg.Ref, msg.Token)
		return
	}
	m.document.stop()

	f, ok := m.state.(Focused)
	if !ok || f.Target.Ref != msg.Ref {
		return
	}
	if msg.Err != nil {
		if !errors.Is(msg.Err, context.Canceled) {
			m.log.Warn("document %s: %v", msg.Ref, msg.Err)
		}
		return
	}
	f.Document = msg.Document
	f.DocumentLoaded = true
	m.state = f
}

// focus centers the view on d at the detail scale, shows its name in the
// search box and fetches its document.
func (m *Machine) focus(d lookup.ObjectDetail) tea.Cmd {
	m.state = Focused{Target: d}
	m.input = d.Name
	next := view.Focused(d.Kind, d.ID, d.Coord, m.view.Scale)
	m.view = m.gesture.SetScale(next, m.cfg.DetailScale)
	m.log.Info("focus %s %s at %s", d.ID, d.Name, m.view)

	if m.persist != nil {
		if err := m.persist.Save(d.ID); err != nil {
			m.log.Warn("save focus: %v", err)
		}
	}
	return m.fetchDocument(d.Ref)
}

func (m *Machine) fetchDocument(ref string) tea.Cmd {
	if ref == "" || m.docs == nil {
		if f, ok := m.state.(Focused); ok {
			f.DocumentLoaded = true
			m.state = f
		}
		return nil
	}
	ctx, token := m.begin(&m.document)
	svc := m.docs
	return func() tea.Msg {
		doc, err := svc.Document(ctx, ref)
		return DocumentMsg{Token: token, Ref: ref, Document: doc, Err: err}
	}
}

// search shows the candidates for q. Any pending focus is abandoned.
func (m *Machine) search(q string) {
	m.target.stop()
	m.document.stop()
	m.pending = false

	stars, consts := m.index.Filter(q)
	m.state = Searching{
		Query:          q,
		Stars:          search.Top(stars, search.DisplayLimit),
		Constellations: search.Top(consts, search.DisplayLimit),
		StarMatches:    len(stars),
		ConstMatches:   len(consts),
	}
	m.view = m.view.WithoutFocus()
}

// reset returns to Idle at the default rotation and scale 1.
func (m *Machine) reset() {
	m.target.stop()
	m.document.stop()
	m.pending = false
	m.state = Idle{}

	next := view.Default(m.cfg.DefaultRotation)
	next.Scale = m.view.Scale
	m.view = m.gesture.SetScale(next, 1)

	if m.persist != nil {
		if err := m.persist.Clear(); err != nil {
			m.log.Warn("clear focus: %v", err)
		}
	}
}

// begin cancels r's previous call and issues a new token for it.
func (m *Machine) begin(r *request) (context.Context, uint64) {
	r.stop()
	m.token++
	ctx, cancel := context.WithCancel(context.Background())
	r.token = m.token
	r.cancel = cancel
	return ctx, r.token
}

func (m *Machine) tick() tea.Cmd {
	gen := m.browseGen
	return tea.Tick(m.gesture.Interval(), func(time.Time) tea.Msg {
		return BrowseTickMsg{Gen: gen}
	})
}
