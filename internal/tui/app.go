// Package tui is the terminal front-end of the booking wizard.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/ticket"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
	"github.com/thermalsanctuary/booking-backend/pkg/validator"
)

const requestTimeout = 20 * time.Second

type focusArea int

const (
	focusCalendar focusArea = iota
	focusSlots
	focusName
	focusEmail
	focusPhone
	focusNotes
	focusCount
)

const (
	inputName = iota
	inputEmail
	inputPhone
	inputNotes
	inputCount
)

type loadedMsg struct{}

type slotsMsg struct {
	req  wizard.SlotRequest
	rows []models.TimeSlotCapacity
	err  error
}

type submitMsg struct {
	outcome wizard.Outcome
}

type printedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model driving one wizard
type Model struct {
	wizard  *wizard.Wizard
	backend wizard.Backend
	phone   *validator.PhoneValidator

	loading      bool
	slotsLoading bool
	brand        string
	notice       string

	guestCursor   int
	serviceCursor int
	focus         focusArea
	dayCursor     int
	slotCursor    int
	inputs        [inputCount]textinput.Model

	spinner spinner.Model
	width   int
	height  int
}

// New creates the model. Options are passed to the wizard engine.
func New(backend wizard.Backend, opts ...wizard.Option) Model {
	m := Model{
		wizard:  wizard.New(backend, opts...),
		backend: backend,
		phone:   validator.NewPhoneValidator(),
		loading: true,
		brand:   ticket.DefaultSiteTitle,
	}

	placeholders := [inputCount]string{"Full name", "you@example.com", "+57 300 000 0000", "Anything we should know?"}
	labels := [inputCount]string{"Name   ", "Email  ", "Phone  ", "Notes  "}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = labels[i] + "› "
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		if i == inputNotes {
			in.CharLimit = 500
		}
		m.inputs[i] = in
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.isLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		m.brand = m.wizard.Snapshot().Branding.Title()
		return m, nil

	case slotsMsg:
		if m.wizard.ApplySlots(msg.req, msg.rows, msg.err) {
			m.slotsLoading = false
			m.slotCursor = 0
		}
		return m, nil

	case submitMsg:
		err := m.wizard.CompleteSubmit(msg.outcome)
		if err == nil {
			m.blurInputs()
			m.notice = ""
		}
		return m, nil

	case printedMsg:
		if msg.err != nil {
			m.notice = "Could not save the printable ticket: " + msg.err.Error()
		} else {
			m.notice = "Printable ticket saved to " + msg.path
		}
		return m, nil
	}
	return m, nil
}

func (m Model) isLoading() bool {
	return m.loading || m.slotsLoading || m.wizard.View().Busy
}

// ============================================================================
// KEYS
// ============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}

	view := m.wizard.View()
	if view.Busy {
		return m, nil
	}
	m.notice = ""

	switch wizard.Step(view.Step) {
	case wizard.StepGuests:
		return m.handleGuestsKey(msg)
	case wizard.StepServices:
		return m.handleServicesKey(msg, view)
	case wizard.StepDateTimeContact:
		return m.handleDateKey(msg, view)
	case wizard.StepConfirmed:
		return m.handleConfirmedKey(msg, view)
	}
	return m, nil
}

func (m Model) handleGuestsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	guests := m.wizard.View().Guests
	tier := wizard.Tiers[m.guestCursor]

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.guestCursor > 0 {
			m.guestCursor--
		}
	case "down", "j":
		if m.guestCursor < len(wizard.Tiers)-1 {
			m.guestCursor++
		}
	case "right", "l", "+":
		m.wizard.SetGuests(tier, guests.Count(tier)+1)
	case "left", "h", "-":
		m.wizard.SetGuests(tier, guests.Count(tier)-1)
	case "enter":
		m.advance()
	}
	return m, nil
}

func (m Model) handleServicesKey(msg tea.KeyMsg, view wizard.View) (tea.Model, tea.Cmd) {
	rows := len(view.GuestList) * len(view.Treatments)

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.serviceCursor > 0 {
			m.serviceCursor--
		}
	case "down", "j":
		if m.serviceCursor < rows-1 {
			m.serviceCursor++
		}
	case " ", "x":
		if rows > 0 {
			guest := view.GuestList[m.serviceCursor/len(view.Treatments)]
			treatment := view.Treatments[m.serviceCursor%len(view.Treatments)]
			m.wizard.ToggleService(guest.Ordinal, treatment.ID)
		}
	case "enter":
		if m.advance() {
			m.setFocus(focusCalendar)
		}
	case "esc":
		m.wizard.Back()
	}
	return m, nil
}

func (m Model) handleDateKey(msg tea.KeyMsg, view wizard.View) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "esc":
		if m.wizard.Back() {
			m.blurInputs()
		}
		return m, nil
	case "ctrl+s":
		return m.submit()
	}

	switch m.focus {
	case focusCalendar:
		return m.handleCalendarKey(msg, view)
	case focusSlots:
		return m.handleSlotsKey(msg, view)
	}

	if msg.String() == "enter" {
		if m.focus == focusNotes {
			return m.submit()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}

	idx := inputIndex(m.focus)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	m.syncContact()
	return m, cmd
}

func (m Model) handleCalendarKey(msg tea.KeyMsg, view wizard.View) (tea.Model, tea.Cmd) {
	grid := view.Calendar
	days := grid.Cursor.DaysIn()
	day := m.cursorDay(grid)

	switch msg.String() {
	case "left", "h":
		day--
	case "right", "l":
		day++
	case "up", "k":
		day -= 7
	case "down", "j":
		day += 7
	case "]", "pgdown":
		m.wizard.NextMonth()
		m.dayCursor = 0
		return m, nil
	case "[", "pgup":
		m.wizard.PrevMonth()
		m.dayCursor = 0
		return m, nil
	case "enter", " ":
		cell := grid.Cells[grid.Cursor.Offset()+day-1]
		req, ok := m.wizard.SelectDate(cell.Date)
		if !ok {
			m.notice = "That day has already passed."
			return m, nil
		}
		m.slotsLoading = true
		return m, tea.Batch(m.fetchSlotsCmd(req), m.spinner.Tick)
	default:
		return m, nil
	}

	if day < 1 {
		day = 1
	}
	if day > days {
		day = days
	}
	m.dayCursor = day
	return m, nil
}

func (m Model) handleSlotsKey(msg tea.KeyMsg, view wizard.View) (tea.Model, tea.Cmd) {
	if len(view.Slots) == 0 {
		if msg.String() == "enter" {
			m.notice = "Pick a date first."
		}
		return m, nil
	}

	switch msg.String() {
	case "left", "h", "up", "k":
		if m.slotCursor > 0 {
			m.slotCursor--
		}
	case "right", "l", "down", "j":
		if m.slotCursor < len(view.Slots)-1 {
			m.slotCursor++
		}
	case "enter", " ":
		slot := view.Slots[m.slotCursor]
		if !m.wizard.SelectSlot(slot.TimeSlot) {
			m.notice = fmt.Sprintf("%s cannot fit a party of %d.", slot.TimeSlot, view.TotalGuests)
			return m, nil
		}
		m.setFocus(focusName)
	}
	return m, nil
}

func (m Model) handleConfirmedKey(msg tea.KeyMsg, view wizard.View) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "n":
		if m.wizard.Reset() {
			m.resetInputs()
		}
	case "p":
		if view.Ticket != nil {
			return m, savePrintCmd(*view.Ticket)
		}
	}
	return m, nil
}

// advance moves past the guests or services step
func (m *Model) advance() bool {
	if err := m.wizard.Advance(context.Background()); err != nil {
		m.notice = "Add at least one guest to continue."
		return false
	}
	m.serviceCursor = 0
	return true
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	draft, err := m.wizard.BeginSubmit()
	if err != nil {
		m.notice = "Choose a date and time and enter your name and email to book."
		return m, nil
	}
	return m, tea.Batch(m.submitCmd(draft), m.spinner.Tick)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.blurInputs()
	if f >= focusName {
		m.inputs[inputIndex(f)].Focus()
	}
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) resetInputs() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.guestCursor, m.serviceCursor, m.dayCursor, m.slotCursor = 0, 0, 0, 0
	m.focus = focusCalendar
	m.notice = ""
}

func (m *Model) syncContact() {
	m.wizard.SetContact(wizard.Contact{
		Name:  m.inputs[inputName].Value(),
		Email: m.inputs[inputEmail].Value(),
		Phone: m.inputs[inputPhone].Value(),
	})
	m.wizard.SetNotes(m.inputs[inputNotes].Value())
}

// cursorDay returns the highlighted day, defaulting to the first bookable one
func (m Model) cursorDay(grid wizard.MonthGrid) int {
	if m.dayCursor > 0 {
		return m.dayCursor
	}
	for _, c := range grid.Cells {
		if c.Selected {
			return c.Day
		}
	}
	for _, c := range grid.Cells {
		if c.Day > 0 && !c.Disabled {
			return c.Day
		}
	}
	return 1
}

func inputIndex(f focusArea) int {
	return int(f - focusName)
}

// ============================================================================
// COMMANDS
// ============================================================================

func (m Model) loadCmd() tea.Cmd {
	w := m.wizard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		w.LoadCatalog(ctx)
		w.LoadBranding(ctx)
		return loadedMsg{}
	}
}

func (m Model) fetchSlotsCmd(req wizard.SlotRequest) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rows, err := backend.ListSlots(ctx, req.Date)
		return slotsMsg{req: req, rows: rows, err: err}
	}
}

func (m Model) submitCmd(draft *models.CreateBookingRequest) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return submitMsg{outcome: wizard.Submit(ctx, backend, draft)}
	}
}

func savePrintCmd(doc ticket.Document) tea.Cmd {
	return func() tea.Msg {
		path := "ticket-" + doc.TicketCode + ".html"
		f, err := os.Create(path)
		if err != nil {
			return printedMsg{err: err}
		}
		if err := doc.RenderHTML(f); err != nil {
			_ = f.Close()
			return printedMsg{err: err}
		}
		return printedMsg{path: path, err: f.Close()}
	}
}

// ============================================================================
// VIEW
// ============================================================================

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("173"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("173"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	totalStyle    = lipgloss.NewStyle().Bold(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func (m Model) View() string {
	if m.loading {
		return titleStyle.Render(m.brand) + "\n\n" + fmt.Sprintf("%s Loading treatments", m.spinner.View())
	}

	view := m.wizard.View()
	var body string
	switch wizard.Step(view.Step) {
	case wizard.StepGuests:
		body = m.guestsView(view)
	case wizard.StepServices:
		body = m.servicesView(view)
	case wizard.StepDateTimeContact:
		body = m.dateView(view)
	case wizard.StepConfirmed:
		body = m.confirmedView(view)
	}

	out := m.headerView(view) + "\n\n" + body
	if view.Step != int(wizard.StepConfirmed) {
		out += "\n\n" + totalStyle.Render("Total: "+view.TotalText)
	}
	if view.Busy {
		out += "\n\n" + m.spinner.View() + " Booking..."
	}
	if view.Error != "" {
		out += "\n\n" + errorStyle.Render(view.Error)
	}
	if m.notice != "" {
		out += "\n\n" + hint(m.notice)
	}
	return out + "\n\n" + hint(m.hints(view))
}

func (m Model) headerView(view wizard.View) string {
	steps := []string{"1 Guests", "2 Treatments", "3 Date & contact", "Ticket"}
	parts := make([]string, len(steps))
	for i, s := range steps {
		if i+1 == view.Step {
			parts[i] = activeStyle.Render(s)
		} else {
			parts[i] = hint(s)
		}
	}
	return titleStyle.Render(m.brand) + "\n" + strings.Join(parts, hint(" › "))
}

func (m Model) hints(view wizard.View) string {
	switch wizard.Step(view.Step) {
	case wizard.StepGuests:
		return "↑/↓ tier • ←/→ count • enter continue • q quit"
	case wizard.StepServices:
		return "↑/↓ move • space toggle • enter continue • esc back • q quit"
	case wizard.StepDateTimeContact:
		return "tab next field • arrows move • [ ] month • enter select • ctrl+s book • esc back • ctrl+c quit"
	case wizard.StepConfirmed:
		return "p save printable ticket • n new booking • q quit"
	}
	return ""
}

func (m Model) guestsView(view wizard.View) string {
	var b strings.Builder
	for i, tier := range wizard.Tiers {
		line := fmt.Sprintf("%-10s %2d   %s each", tier.PluralLabel(), view.Guests.Count(tier), ticket.FormatCOP(tier.UnitPrice()))
		if i == m.guestCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(hint(fmt.Sprintf("%d guest(s)", view.TotalGuests)))
	return b.String()
}

func (m Model) servicesView(view wizard.View) string {
	if len(view.Treatments) == 0 {
		return hint("No treatments are offered right now. Press enter to continue.")
	}

	var b strings.Builder
	row := 0
	for _, g := range view.GuestList {
		b.WriteString(fmt.Sprintf("%s  %s\n", totalStyle.Render(g.Label), hint(g.SubtotalText)))
		for _, t := range view.Treatments {
			mark := "[ ]"
			for _, id := range g.Services {
				if id == t.ID {
					mark = selectedStyle.Render("[x]")
				}
			}
			line := fmt.Sprintf("  %s %-28s %s", mark, t.Title, ticket.FormatCOP(t.Price))
			if row == m.serviceCursor {
				line = cursorStyle.Render(line)
			}
			b.WriteString(line + "\n")
			row++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) dateView(view wizard.View) string {
	calendar := panelStyle.Render(m.calendarView(view))
	slots := panelStyle.Render(m.slotsView(view))
	top := lipgloss.JoinHorizontal(lipgloss.Top, calendar, " ", slots)

	var b strings.Builder
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}
	if phone := strings.TrimSpace(m.inputs[inputPhone].Value()); phone != "" {
		if _, err := m.phone.Validate(phone); err != nil {
			b.WriteString(hint("Phone looks unusual: "+err.Error()) + "\n")
		}
	}
	return top + "\n" + strings.TrimRight(b.String(), "\n")
}

func (m Model) calendarView(view wizard.View) string {
	grid := view.Calendar
	cursor := m.cursorDay(grid)
	focused := m.focus == focusCalendar

	var b strings.Builder
	b.WriteString(totalStyle.Render(grid.Title) + "\n")
	for _, wd := range view.Weekdays {
		b.WriteString(fmt.Sprintf("%-4s", wd[:2]))
	}
	b.WriteString("\n")

	for i, c := range grid.Cells {
		cell := "    "
		if c.Day > 0 {
			label := fmt.Sprintf("%2d", c.Day)
			switch {
			case focused && c.Day == cursor:
				label = cursorStyle.Render(label)
			case c.Selected:
				label = selectedStyle.Render(label)
			case c.Disabled:
				label = hint(label)
			case c.Today:
				label = totalStyle.Render(label)
			}
			cell = label + "  "
		}
		b.WriteString(cell)
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) slotsView(view wizard.View) string {
	var b strings.Builder
	b.WriteString(totalStyle.Render("Time") + "\n")
	switch {
	case view.SelectedDate == "":
		b.WriteString(hint("Pick a date"))
	case m.slotsLoading:
		b.WriteString(m.spinner.View() + " Loading times")
	default:
		b.WriteString(hint(ticket.FormatDate(view.SelectedDate)) + "\n")
		for i, s := range view.Slots {
			line := fmt.Sprintf("%s  %2d left", s.TimeSlot, s.Remaining)
			switch {
			case m.focus == focusSlots && i == m.slotCursor:
				line = cursorStyle.Render(line)
			case s.Selected:
				line = selectedStyle.Render(line)
			case s.Full:
				line = hint(line + " (full)")
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) confirmedView(view wizard.View) string {
	if view.Ticket == nil {
		return "Booking confirmed: " + view.TicketCode
	}
	var b strings.Builder
	if err := view.Ticket.RenderText(&b); err != nil {
		return "Booking confirmed: " + view.TicketCode
	}
	return selectedStyle.Render("Booking confirmed!") + "\n\n" + b.String()
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}
