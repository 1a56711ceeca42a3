package typeahead

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"clinicbook/internal/domain"
	"clinicbook/internal/terminology"
)

const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMinQueryLength = 2
	DefaultLimit          = 100
)

// Status is the search status shown under the input
type Status int

const (
	StatusIdle Status = iota
	StatusNeedsMoreInput
	StatusSearching
	StatusFound
	StatusFoundFallback
	StatusNotFound
	StatusFailed
	StatusSelected
)

// Options configures a typeahead field
type Options struct {
	Value    string
	OnChange func(string)
	OnSelect func(domain.SearchResult)
	OnClear  func()

	Placeholder  string
	SearchType   domain.SearchType
	SearchURL    string
	SearchFunc   terminology.SearchFunc
	CustomSearch bool

	Debounce       time.Duration
	MinQueryLength int
	Limit          int

	// Remote serves the URL and type strategies; Cache is optional
	Remote terminology.Remote
	Cache  *terminology.Cache
}

// State is a snapshot of the search state
type State struct {
	Query       string
	Results     []domain.SearchResult
	Status      Status
	Count       int
	Highlighted int
	Open        bool
}

var lastID int64

type debounceMsg struct {
	id  int64
	seq uint64
}

type resultMsg struct {
	id      int64
	seq     uint64
	query   string
	results []domain.SearchResult
	err     error
}

// Model is a search-as-you-type input with a result dropdown
type Model struct {
	id       int64
	opts     Options
	strategy terminology.Strategy
	searcher terminology.Searcher

	input   textinput.Model
	spinner spinner.Model
	width   int

	query       string
	results     []domain.SearchResult
	status      Status
	count       int
	highlighted int
	open        bool
	selected    *domain.SearchResult

	debounceSeq uint64
	requestSeq  uint64
	ctx         context.Context
	stop        context.CancelFunc
	cancel      context.CancelFunc

	lastExternal string
	diverged     bool
	focused      bool
	closed       bool
}

// New creates a typeahead. The lookup strategy is resolved here, once.
func New(opts Options) *Model {
	if opts.SearchType == "" {
		opts.SearchType = domain.SearchProcedure
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = DefaultMinQueryLength
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Placeholder == "" {
		opts.Placeholder = fmt.Sprintf("Search %s %s...", opts.SearchType.System(), opts.SearchType.Plural())
	}

	strategy := terminology.Resolve(terminology.Options{
		SearchType:   opts.SearchType,
		SearchURL:    opts.SearchURL,
		SearchFunc:   opts.SearchFunc,
		CustomSearch: opts.CustomSearch,
	})

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.SetValue(opts.Value)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	ctx, stop := context.WithCancel(context.Background())

	return &Model{
		id:           atomic.AddInt64(&lastID, 1),
		opts:         opts,
		strategy:     strategy,
		searcher:     opts.Cache.Wrap(strategy.Key(), strategy.Searcher(opts.Remote, opts.Limit)),
		input:        ti,
		spinner:      sp,
		highlighted:  -1,
		ctx:          ctx,
		stop:         stop,
		lastExternal: opts.Value,
	}
}

// Strategy returns the lookup strategy resolved at construction
func (m *Model) Strategy() terminology.Strategy { return m.strategy }

// State returns the current search state
func (m *Model) State() State {
	return State{
		Query:       m.query,
		Results:     m.results,
		Status:      m.status,
		Count:       m.count,
		Highlighted: m.highlighted,
		Open:        m.open,
	}
}

// Value returns the input text
func (m *Model) Value() string { return m.input.Value() }

// Selected returns the last selected result, if any
func (m *Model) Selected() *domain.SearchResult { return m.selected }

// Focused reports whether the field has focus
func (m *Model) Focused() bool { return m.focused }

// DropdownOpen reports whether the result list is shown
func (m *Model) DropdownOpen() bool { return m.open && len(m.results) > 0 }

// SetWidth sets the rendering width
func (m *Model) SetWidth(w int) {
	m.width = w
	m.input.Width = max(10, w-4)
}

// SetValue replaces the text from outside. It does not search or fire
// callbacks and becomes the reference value for the clear callback.
func (m *Model) SetValue(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
	m.lastExternal = v
	m.diverged = false
	if v == "" {
		m.selected = nil
	}
}

// Focus activates the field and reopens earlier results
func (m *Model) Focus() tea.Cmd {
	if m.closed {
		return nil
	}
	m.focused = true
	if utf8.RuneCountInString(strings.TrimSpace(m.input.Value())) >= m.opts.MinQueryLength && len(m.results) > 0 {
		m.open = true
	}
	return m.input.Focus()
}

// Blur deactivates the field and closes the dropdown
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
	m.closeDropdown()
}

// Close tears the field down: the pending timer and any lookup in flight are
// invalidated and later messages are ignored
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.debounceSeq++
	m.requestSeq++
	m.cancelInFlight()
	m.stop()
	m.Blur()
}

// Clear empties the field programmatically and fires OnChange and OnClear
func (m *Model) Clear() {
	m.debounceSeq++
	m.requestSeq++
	m.cancelInFlight()

	m.input.SetValue("")
	m.query = ""
	m.results = nil
	m.count = 0
	m.status = StatusIdle
	m.selected = nil
	m.closeDropdown()

	m.lastExternal = ""
	m.diverged = true

	if m.opts.OnChange != nil {
		m.opts.OnChange("")
	}
	if m.opts.OnClear != nil {
		m.opts.OnClear()
	}
}

// Search runs a lookup for query immediately
func (m *Model) Search(query string) tea.Cmd {
	if m.closed {
		return nil
	}
	q := strings.TrimSpace(query)

	m.requestSeq++
	m.cancelInFlight()
	m.highlighted = -1

	if utf8.RuneCountInString(q) < m.opts.MinQueryLength {
		m.query = q
		m.results = nil
		m.count = 0
		m.open = false
		m.status = StatusNeedsMoreInput
		return nil
	}

	m.query = q
	m.status = StatusSearching

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	seq, id, searcher := m.requestSeq, m.id, m.searcher

	log.Debug().Int64("field", id).Uint64("seq", seq).Str("query", q).Str("strategy", m.strategy.Kind.String()).Msg("typeahead: lookup")

	lookup := func() tea.Msg {
		results, err := searcher.Search(ctx, q)
		return resultMsg{id: id, seq: seq, query: q, results: results, err: err}
	}
	return tea.Batch(lookup, m.spinner.Tick)
}

// Update handles timer, lookup, spinner and key messages for this field
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.closed {
		return nil
	}

	switch msg := msg.(type) {
	case debounceMsg:
		if msg.id != m.id || msg.seq != m.debounceSeq {
			return nil
		}
		return m.Search(m.input.Value())

	case resultMsg:
		if msg.id != m.id {
			return nil
		}
		if msg.seq != m.requestSeq {
			log.Debug().Int64("field", m.id).Uint64("seq", msg.seq).Uint64("latest", m.requestSeq).Msg("typeahead: dropping stale result")
			return nil
		}
		m.applyResult(msg)
		return nil

	case spinner.TickMsg:
		if m.status != StatusSearching {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		cmd, _ := m.HandleKey(msg)
		return cmd
	}
	return nil
}

func (m *Model) applyResult(msg resultMsg) {
	m.cancelInFlight()
	m.highlighted = -1

	switch {
	case msg.err != nil:
		log.Warn().Err(msg.err).Int64("field", m.id).Str("query", msg.query).Msg("typeahead: lookup failed, using sample data")
		m.results = terminology.SampleMatches(m.opts.SearchType, msg.query)
		m.status = StatusFailed
	case len(msg.results) > 0:
		m.results = msg.results
		m.status = StatusFound
	default:
		m.results = terminology.SampleMatches(m.opts.SearchType, msg.query)
		if len(m.results) > 0 {
			m.status = StatusFoundFallback
		} else {
			m.status = StatusNotFound
		}
	}
	m.count = len(m.results)
	m.open = m.count > 0
}

// HandleKey processes a key press. handled is false for keys the hosting
// form should act on: Enter and arrows while the dropdown is closed, and Tab
// always.
func (m *Model) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.closed || !m.focused {
		return nil, false
	}

	if m.DropdownOpen() {
		n := len(m.results)
		switch msg.Type {
		case tea.KeyDown:
			m.highlighted = (m.highlighted + 1) % n
			return nil, true
		case tea.KeyUp:
			if m.highlighted < 0 {
				m.highlighted = n - 1
			} else {
				m.highlighted = (m.highlighted - 1 + n) % n
			}
			return nil, true
		case tea.KeyEnter:
			if m.highlighted >= 0 && m.highlighted < n {
				m.selectResult(m.highlighted)
			}
			return nil, true
		case tea.KeyEsc:
			m.closeDropdown()
			return nil, true
		case tea.KeyTab, tea.KeyShiftTab:
			m.closeDropdown()
			return nil, false
		}
	}

	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown, tea.KeyEsc:
		return nil, false
	case tea.KeyCtrlS:
		if utf8.RuneCountInString(strings.TrimSpace(m.input.Value())) < m.opts.MinQueryLength {
			return nil, true
		}
		m.debounceSeq++
		return m.Search(m.input.Value()), true
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return tea.Batch(cmd, m.edited(after)), true
	}
	return cmd, true
}

// edited reacts to a user edit: callbacks, then a fresh debounce timer
func (m *Model) edited(value string) tea.Cmd {
	if m.opts.OnChange != nil {
		m.opts.OnChange(value)
	}
	if !m.diverged && value != m.lastExternal {
		m.diverged = true
		m.selected = nil
		if m.opts.OnClear != nil {
			m.opts.OnClear()
		}
	}
	m.highlighted = -1

	m.debounceSeq++
	if strings.TrimSpace(value) == "" {
		m.requestSeq++
		m.cancelInFlight()
		m.query = ""
		m.results = nil
		m.count = 0
		m.status = StatusIdle
		m.open = false
		return nil
	}

	seq, id := m.debounceSeq, m.id
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id, seq: seq}
	})
}

func (m *Model) selectResult(i int) {
	r := m.results[i]

	m.debounceSeq++
	m.requestSeq++
	m.cancelInFlight()

	if m.opts.OnSelect != nil {
		m.opts.OnSelect(r)
	}
	m.input.SetValue(r.Title)
	m.input.CursorEnd()
	if m.opts.OnChange != nil {
		m.opts.OnChange(r.Title)
	}

	sel := r
	m.selected = &sel
	m.lastExternal = r.Title
	m.diverged = false
	m.query = r.Title
	m.results = nil
	m.count = 0
	m.status = StatusSelected
	m.closeDropdown()
}

func (m *Model) closeDropdown() {
	m.open = false
	m.highlighted = -1
}

func (m *Model) cancelInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// StatusText renders the status line
func (m *Model) StatusText() string {
	switch m.status {
	case StatusNeedsMoreInput:
		return fmt.Sprintf("Please enter at least %d characters to search", m.opts.MinQueryLength)
	case StatusSearching:
		return "Searching..."
	case StatusFound:
		return fmt.Sprintf("Found %d item(s). Use arrow keys ↑↓ to navigate, Enter to select.", m.count)
	case StatusFoundFallback:
		return fmt.Sprintf("Found %d item(s) from sample data. Use arrow keys ↑↓ to navigate, Enter to select.", m.count)
	case StatusNotFound:
		return fmt.Sprintf("No %s found for %q", m.opts.SearchType.Plural(), m.query)
	case StatusFailed:
		if m.count > 0 {
			return fmt.Sprintf("Search failed. Found %d item(s) from sample data.", m.count)
		}
		return "Search failed. Using sample data..."
	case StatusSelected:
		if m.selected != nil {
			return fmt.Sprintf("Selected: %s - %s", m.selected.Code, m.selected.Title)
		}
	}
	return ""
}
