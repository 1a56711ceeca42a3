package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"clinicbook/internal/booking"
	"clinicbook/internal/config"
	"clinicbook/internal/domain"
	"clinicbook/internal/eventbus"
	"clinicbook/internal/pagination"
	"clinicbook/internal/terminology"
	"clinicbook/internal/ui/input"
	inputtypes "clinicbook/internal/ui/input/types"
	"clinicbook/internal/ui/views"
)

// Tabs
const (
	TabAppointments = iota
	TabPending
	TabBook
)

var tabNames = []string{"Appointments", "Pending", "Book"}

// Backend is everything the UI needs from the appointment API
type Backend interface {
	terminology.Remote
	booking.Booker
	AppointmentsFetcher() pagination.Fetcher
	PendingFetcher() pagination.Fetcher
}

// listTab is one paged appointment list
type listTab struct {
	title      string
	noun       string
	ctrl       *pagination.Controller
	cursor     int
	filterable bool
	pending    bool
}

// Model represents the UI state
type Model struct {
	bus       eventbus.EventBus
	config    *config.Config
	configSvc config.ConfigService

	width  int
	height int

	activeTab   int
	lists       []*listTab
	form        *bookingForm
	showHelp    bool
	helpScroll  int
	overlay     string // replaces the help text in the popup when set
	inPagerMode bool

	statusMessage string
	statusIsError bool

	help         help.Model
	keys         keyMap
	spinner      spinner.Model
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	pager        *PagerOps

	events chan eventbus.DomainEvent
	unsubs []func()
	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, configSvc config.ConfigService, backend Backend, cache *terminology.Cache) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		bus:          bus,
		config:       cfg,
		configSvc:    configSvc,
		help:         help.New(),
		keys:         newKeyMap(),
		spinner:      sp,
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
		inputHandler: input.New(),
		pager:        NewPagerOps(),
		events:       make(chan eventbus.DomainEvent, 64),
		ctx:          ctx,
		cancel:       cancel,
	}

	var appts, pending pagination.Fetcher
	var remote terminology.Remote
	var booker booking.Booker
	if backend != nil {
		appts, pending = backend.AppointmentsFetcher(), backend.PendingFetcher()
		remote, booker = backend, backend
	}

	m.lists = []*listTab{
		{
			title:      "Appointments",
			noun:       "appointments",
			ctrl:       pagination.New(appts, "Failed to load appointments", cfg.ItemsPerPage),
			filterable: true,
		},
		{
			title:   "Pending Appointments",
			noun:    "pending appointments",
			ctrl:    pagination.New(pending, "Failed to load pending appointments", cfg.ItemsPerPage),
			pending: true,
		},
	}

	m.form = newBookingForm(formOptions{
		Remote:         remote,
		Booker:         booker,
		Cache:          cache,
		ProcedureURL:   cfg.ICHISearchURL,
		DiagnosisURL:   cfg.ICDSearchURL,
		Debounce:       cfg.Debounce(),
		MinQueryLength: cfg.MinQueryLength,
		Limit:          cfg.SearchLimit,
		ResetAfter:     cfg.ResetAfter(),
	})

	if bus != nil {
		forward := func(e eventbus.DomainEvent) {
			select {
			case m.events <- e:
			default:
				log.Warn().Str("event", string(e.Type())).Msg("ui: event channel full, dropping event")
			}
		}
		for _, t := range []eventbus.EventType{
			eventbus.EventAppointmentBooked,
			eventbus.EventListRefreshRequested,
			eventbus.EventError,
		} {
			m.unsubs = append(m.unsubs, bus.Subscribe(t, forward))
		}
	}

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init loads the first page of both lists and starts listening for events
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadPage(TabAppointments, 1),
		m.loadPage(TabPending, 1),
		m.waitForEvent(),
	)
}

// Close releases subscriptions, typeaheads and in-flight requests
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	m.form.close()
	m.cancel()
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.bus == nil {
		return nil
	}
	events, ctx := m.events, m.ctx
	return func() tea.Msg {
		select {
		case e := <-events:
			return EventMsg{Event: e}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// loadPage starts an asynchronous fetch. A page of zero or less reloads the
// current page.
func (m *Model) loadPage(tab, page int) tea.Cmd {
	lt := m.lists[tab]
	req := lt.ctrl.Begin(page)
	ctrl, ctx := lt.ctrl, m.ctx
	return tea.Batch(func() tea.Msg {
		resp, err := ctrl.Fetch(ctx, req)
		return pageLoadedMsg{tab: tab, req: req, page: resp, err: err}
	}, m.spinner.Tick)
}

func (m *Model) busy() bool {
	for _, lt := range m.lists {
		if lt.ctrl.Loading() {
			return true
		}
	}
	return m.form.submitting
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.form.setWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m.handleNonKeyboardMsg(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		return m.handleHelpKey(msg)
	}

	// a focused typeahead sees keys before the form bindings
	if m.inputHandler.CurrentMode() == inputtypes.ModeForm {
		if cmd, handled := m.form.searchKey(msg); handled {
			return cmd
		}
	}

	ctx := &modelContext{m: m}
	actions, cmd, handled := m.inputHandler.HandleKey(msg, ctx)
	if !handled {
		if m.inputHandler.CurrentMode() == inputtypes.ModeForm {
			return m.form.handleKey(msg)
		}
		return nil
	}

	cmds := []tea.Cmd{cmd}
	for _, action := range actions {
		cmds = append(cmds, m.processAction(action))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "?", "q":
		m.showHelp = false
		m.helpScroll = 0
		m.overlay = ""
	case "ctrl+c":
		return m.quit()
	case "up", "k":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "down", "j":
		m.helpScroll++
	case "p":
		content := m.overlay
		if content == "" {
			content = m.helpRenderer.RenderHelpContentPlain()
		}
		m.showHelp = false
		m.overlay = ""
		return m.openPager(content)
	}
	return nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	log.Debug().Str("action", action.Type()).Msg("ui: action")

	switch a := action.(type) {
	case inputtypes.QuitAction:
		return m.quit()

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp
		m.helpScroll = 0

	case inputtypes.SwitchTabAction:
		tab := a.Tab
		if a.Delta != 0 {
			n := len(tabNames)
			tab = ((m.activeTab+a.Delta)%n + n) % n
		}
		return m.switchTab(tab)

	case inputtypes.NavigateAction:
		lt := m.activeList()
		if lt == nil {
			return nil
		}
		visible := len(lt.ctrl.Visible())
		switch a.Direction {
		case "up":
			if lt.cursor > 0 {
				lt.cursor--
			}
		case "down":
			if lt.cursor < visible-1 {
				lt.cursor++
			}
		}

	case inputtypes.PageAction:
		lt := m.activeList()
		if lt == nil {
			return nil
		}
		var page int
		var ok bool
		switch a.Direction {
		case "first":
			page, ok = lt.ctrl.First()
		case "prev":
			page, ok = lt.ctrl.Previous()
		case "next":
			page, ok = lt.ctrl.Next()
		case "last":
			page, ok = lt.ctrl.Last()
		}
		if ok {
			lt.cursor = 0
			return m.loadPage(m.activeTab, page)
		}

	case inputtypes.PageSizeAction:
		lt := m.activeList()
		if lt == nil {
			return nil
		}
		size := pagination.CyclePageSize(lt.ctrl.State().ItemsPerPage, a.Delta)
		if page, ok := lt.ctrl.SetItemsPerPage(size); ok {
			lt.cursor = 0
			return m.loadPage(m.activeTab, page)
		}

	case inputtypes.FilterAction:
		lt := m.activeList()
		if lt == nil || !lt.filterable {
			return nil
		}
		if page, ok := lt.ctrl.SetFilter(a.Filter); ok {
			lt.cursor = 0
			return m.loadPage(m.activeTab, page)
		}

	case inputtypes.RefreshAction:
		lt := m.activeList()
		if lt == nil {
			return nil
		}
		page, _ := lt.ctrl.Refresh()
		return m.loadPage(m.activeTab, page)

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeJump {
			return m.jumpTo(a.Text)
		}

	case inputtypes.ChangeModeAction:
		switch a.Mode {
		case inputtypes.ModeForm:
			return m.form.startEditing()
		case inputtypes.ModeNormal:
			if m.form.editing {
				m.form.stopEditing()
			}
		}

	case inputtypes.FocusFieldAction:
		return m.form.moveFocus(a.Delta)

	case inputtypes.CycleOptionAction:
		m.form.cycle(a.Delta)

	case inputtypes.SubmitFormAction:
		return tea.Batch(m.form.submit(m.ctx), m.spinner.Tick)

	case inputtypes.FillSampleAction:
		m.form.fillSample()

	case inputtypes.ClearFormAction:
		m.form.clear()

	case inputtypes.ViewResourceAction:
		res := m.form.resource()
		if res == "" {
			return nil
		}
		if m.config.UISettings.ResourcePager {
			return m.openPager(res)
		}
		m.overlay = res
		m.showHelp = true
		m.helpScroll = 0
	}
	return nil
}

func (m *Model) jumpTo(text string) tea.Cmd {
	lt := m.activeList()
	if lt == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	if n < 1 || n > lt.ctrl.State().TotalPages {
		m.setStatus(fmt.Sprintf("No page %d", n), true)
		return nil
	}
	if page, ok := lt.ctrl.Jump(n); ok {
		lt.cursor = 0
		return m.loadPage(m.activeTab, page)
	}
	return nil
}

func (m *Model) switchTab(tab int) tea.Cmd {
	if tab < 0 || tab >= len(tabNames) || tab == m.activeTab {
		return nil
	}
	ctx := &modelContext{m: m}
	if m.form.editing {
		m.form.stopEditing()
	}
	m.activeTab = tab
	if tab == TabBook {
		m.inputHandler.ChangeMode(inputtypes.ModeForm, ctx)
		return m.form.startEditing()
	}
	m.inputHandler.ChangeMode(inputtypes.ModeNormal, ctx)
	return nil
}

func (m *Model) activeList() *listTab {
	if m.activeTab < len(m.lists) {
		return m.lists[m.activeTab]
	}
	return nil
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMessage = msg
	m.statusIsError = isError
}

// quit stores a changed page size and stops the program. The file is
// re-read so flag overrides are not written back.
func (m *Model) quit() tea.Cmd {
	size := m.lists[TabAppointments].ctrl.State().ItemsPerPage
	if m.configSvc != nil && size != m.config.ItemsPerPage {
		m.config.ItemsPerPage = size
		if err := m.savePageSize(size); err != nil {
			log.Error().Err(err).Msg("ui: failed to save config")
		}
	}
	return tea.Quit
}

func (m *Model) savePageSize(size int) error {
	onDisk, err := m.configSvc.Load()
	if err != nil {
		return err
	}
	onDisk.ItemsPerPage = size
	return m.configSvc.Save(onDisk)
}

// openPager shows content in ov, pausing rendering while it runs
func (m *Model) openPager(content string) tea.Cmd {
	if m.program == nil {
		return func() tea.Msg { return pagerMsg{err: errNoProgram} }
	}
	program, pager := m.program, m.pager
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := pager.ShowInPager(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, tea.Batch(m.handleEvent(msg.Event), m.waitForEvent())

	case pageLoadedMsg:
		lt := m.lists[msg.tab]
		if !lt.ctrl.Complete(msg.req, msg.page, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.publish(eventbus.ErrorEvent{Message: lt.ctrl.Error(), Err: msg.err})
			return m, nil
		}
		if m.statusIsError {
			m.setStatus("", false)
		}
		if visible := len(lt.ctrl.Visible()); lt.cursor >= visible {
			lt.cursor = max(0, visible-1)
		}
		return m, nil

	case bookedMsg:
		cmd := m.form.finish(msg.outcome)
		if msg.outcome.Success {
			m.setStatus("Appointment booked: "+msg.outcome.AppointmentID, false)
		}
		return m, cmd

	case resetFormMsg:
		if m.form.resetAfterBooking(msg.gen) {
			m.publish(eventbus.AppointmentBookedEvent{AppointmentID: m.bookedID()})
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("ui: pager failed")
			m.setStatus("Could not open pager: "+msg.err.Error(), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case spinner.TickMsg:
		cmds := []tea.Cmd{m.form.update(msg)}
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	cmds := []tea.Cmd{m.form.update(msg)}
	if cmd := m.inputHandler.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) bookedID() string {
	if m.form.outcome != nil {
		return m.form.outcome.AppointmentID
	}
	return ""
}

func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch ev := e.(type) {
	case eventbus.AppointmentBookedEvent, eventbus.ListRefreshRequestedEvent:
		if _, ok := ev.(eventbus.AppointmentBookedEvent); ok {
			log.Info().Msg("ui: appointment booked, reloading lists")
		}
		return tea.Batch(m.loadPage(TabAppointments, 0), m.loadPage(TabPending, 0))
	case eventbus.ErrorEvent:
		m.setStatus(ev.Message, true)
	}
	return nil
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	m.keys.onList = m.activeTab != TabBook
	m.keys.filterable = m.activeTab == TabAppointments
	m.keys.editing = m.form.editing
	m.keys.resource = m.form.resource() != ""

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Tabs:          tabNames,
		ActiveTab:     m.activeTab,
		Loading:       m.busy(),
		Spinner:       m.spinner.View(),
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		ShowHelp:      m.showHelp,
	}
	if m.showHelp {
		if m.overlay != "" {
			state.HelpContent = scrollContent(m.overlay, m.height, m.helpScroll)
		} else {
			state.HelpContent = m.helpRenderer.renderHelpContent(m.height, m.helpScroll)
		}
	}
	if m.config.UISettings.ShowHelpBar {
		state.HelpBar = m.help.View(m.keys)
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.InputPrompt = m.inputHandler.Prompt()
		state.TextInput = ti.View()
	}

	if lt := m.activeList(); lt != nil {
		state.List = &views.ListState{
			Title:      lt.title,
			Noun:       lt.noun,
			Items:      lt.ctrl.Visible(),
			Loaded:     len(lt.ctrl.Items()),
			Cursor:     lt.cursor,
			Page:       lt.ctrl.State(),
			Filter:     lt.ctrl.Filter(),
			Filterable: lt.filterable,
			Loading:    lt.ctrl.Loading(),
			Error:      lt.ctrl.Error(),
			Pending:    lt.pending,
		}
	} else {
		state.Body = m.form.view(m.height-10, m.spinner.View())
	}

	return m.renderer.Render(state)
}

// modelContext implements the input Context over the model
type modelContext struct {
	m *Model
}

func (c *modelContext) ActiveTab() int { return c.m.activeTab }
func (c *modelContext) TabCount() int  { return len(tabNames) }
func (c *modelContext) OnListTab() bool {
	return c.m.activeTab != TabBook
}
func (c *modelContext) Filterable() bool {
	lt := c.m.activeList()
	return lt != nil && lt.filterable
}
func (c *modelContext) FocusedFieldIsSelect() bool {
	return c.m.form.focused().kind == fieldSelect
}
func (c *modelContext) HasResource() bool { return c.m.form.resource() != "" }
func (c *modelContext) Submitting() bool  { return c.m.form.submitting }

var _ inputtypes.Context = (*modelContext)(nil)

// ActiveTab returns the index of the visible tab
func (m *Model) ActiveTab() int { return m.activeTab }

// ListState returns the pagination state of a list tab
func (m *Model) ListState(tab int) pagination.State {
	return m.lists[tab].ctrl.State()
}

// ListFilter returns the temporal filter of a list tab
func (m *Model) ListFilter(tab int) domain.Filter {
	return m.lists[tab].ctrl.Filter()
}
