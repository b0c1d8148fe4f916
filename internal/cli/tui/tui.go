package tui

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/cli"
	"github.com/GustavoCaso/expensedesk/internal/config"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/pager"
	"github.com/GustavoCaso/expensedesk/internal/result"
	"github.com/GustavoCaso/expensedesk/internal/state"
)

const (
	// title, filters, summary, pagination, prompt, notice and help
	reservedLines = 9

	deleteQuestion = "Are you sure you want to delete this expense? (y/N)"

	debugLogFile = "debug.log"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().Bold(true)
	noticeStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type tuiCommand struct{}

func NewCommand() cli.Command {
	return tuiCommand{}
}

func (c tuiCommand) Description() string {
	return "Interactive terminal user interface"
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeTitleFilter
	modeCategoryFilter
	modeConfirmDelete
)

type keymap struct {
	Up       key.Binding
	Down     key.Binding
	Prev     key.Binding
	Next     key.Binding
	Smaller  key.Binding
	Larger   key.Binding
	Title    key.Binding
	Category key.Binding
	Clear    key.Binding
	Refresh  key.Binding
	Delete   key.Binding
	Dismiss  key.Binding
	Exit     key.Binding
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Title, k.Category, k.Clear, k.Delete, k.Exit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next},
		{k.Smaller, k.Larger, k.Refresh},
		{k.Title, k.Category, k.Clear},
		{k.Delete, k.Dismiss, k.Exit},
	}
}

func keyMap() keymap {
	return keymap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "previous page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next page"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "smaller pages"),
		),
		Larger: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "larger pages"),
		),
		Title: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter title"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "filter category"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss error"),
		),
		Exit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "exit"),
		),
	}
}

// fetchedMsg carries the sequence number of the fetch it answers.
type fetchedMsg struct {
	seq  uint64
	view result.View
	err  error
}

type deletedMsg struct {
	id  expense.ID
	err error
}

type model struct {
	ctx      context.Context
	client   api.ExpenseAPI
	logger   *logger.Logger
	currency string

	state state.State

	table expensesTable
	input textinput.Model
	help  help.Model
	keys  keymap

	mode          inputMode
	pendingDelete expense.ID
	initialFetch  tea.Cmd

	width  int
	height int
}

func initialModel(
	ctx context.Context,
	client api.ExpenseAPI,
	conf *config.Config,
	l *logger.Logger,
	now time.Time,
	width int,
	height int,
) model {
	input := textinput.New()
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorStatic)

	m := model{
		ctx:      ctx,
		client:   client,
		logger:   l.With("component", "tui"),
		currency: conf.Currency,

		state: state.Reduce(state.New(expense.Today(now)), state.PageSizeChanged{Size: conf.PageSize}),

		table: newExpensesTable(width, height-reservedLines),
		input: input,
		help:  help.New(),
		keys:  keyMap(),

		width:  width,
		height: height,
	}

	var cmd tea.Cmd
	m, cmd = m.fetch()
	m.initialFetch = cmd

	return m
}

func (m model) Init() tea.Cmd {
	return m.initialFetch
}

// fetch issues the next list request. The reply is applied in Update, where
// replies to older requests are dropped.
func (m model) fetch() (model, tea.Cmd) {
	var f state.Fetch
	m.state, f = state.BeginFetch(m.state)

	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		resp, err := client.List(ctx, f.Query)
		if err != nil {
			return fetchedMsg{seq: f.Seq, err: err}
		}
		return fetchedMsg{seq: f.Seq, view: result.Reconcile(resp)}
	}
}

func (m model) remove(id expense.ID) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		_, err := client.Delete(ctx, id)
		return deletedMsg{id: id, err: err}
	}
}

// apply reduces a and fetches again when the page moved.
func (m model) apply(a state.Action) (model, tea.Cmd) {
	before := m.state.Page
	m.state = state.Reduce(m.state, a)
	if m.state.Page == before {
		return m, nil
	}
	return m.fetch()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
		m.SetHeight(msg.Height)
		m.table = m.table.UpdateDimensions(m.width, m.height-reservedLines)
		return m, nil

	case fetchedMsg:
		return m.handleFetched(msg)

	case deletedMsg:
		if msg.err != nil {
			m.state = state.Reduce(m.state, state.Failed{Err: msg.err, Fallback: state.DeleteErrorMessage})
			m.logger.Warn("failed to delete expense", "id", msg.id, "error", msg.err)
			return m, nil
		}
		m.logger.Info("expense deleted", "id", msg.id)
		return m.fetch()

	case tea.KeyMsg:
		switch m.mode {
		case modeTitleFilter, modeCategoryFilter:
			return m.updateFilterInput(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m model) handleFetched(msg fetchedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.state.Seq {
		m.logger.Debug("dropping stale response", "seq", msg.seq, "latest", m.state.Seq)
		return m, nil
	}

	if msg.err != nil {
		m.state = state.Reduce(m.state, state.FetchFailed{Seq: msg.seq, Err: msg.err})
		m.table = m.table.SetExpenses(nil)
		m.logger.Error("failed to fetch expenses", "seq", msg.seq, "error", msg.err)
		return m, nil
	}

	m, cmd := m.apply(state.FetchSucceeded{Seq: msg.seq, View: msg.view})
	m.table = m.table.SetExpenses(wrap(m.state.View.Items, m.currency))

	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Prev):
		return m.apply(state.PageRequested{Page: m.state.Page.Current - 1})
	case key.Matches(msg, m.keys.Next):
		return m.apply(state.PageRequested{Page: m.state.Page.Current + 1})
	case key.Matches(msg, m.keys.Smaller):
		return m.apply(state.PageSizeChanged{Size: pager.PrevSize(m.state.Page.Size)})
	case key.Matches(msg, m.keys.Larger):
		return m.apply(state.PageSizeChanged{Size: pager.NextSize(m.state.Page.Size)})
	case key.Matches(msg, m.keys.Title):
		return m.startFilterInput(modeTitleFilter, "title: ", m.state.Filter.Title), nil
	case key.Matches(msg, m.keys.Category):
		return m.startFilterInput(modeCategoryFilter, "category: ", m.state.Filter.Category), nil
	case key.Matches(msg, m.keys.Clear):
		m.state = state.Reduce(m.state, state.FiltersCleared{})
		return m.fetch()
	case key.Matches(msg, m.keys.Refresh):
		return m.fetch()
	case key.Matches(msg, m.keys.Delete):
		if selected, ok := m.table.Selected(); ok {
			m.mode = modeConfirmDelete
			m.pendingDelete = selected.ID
		}
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		m.state = state.Reduce(m.state, state.NoticeDismissed{})
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) startFilterInput(mode inputMode, prompt, value string) model {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		f := m.state.Filter
		if m.mode == modeTitleFilter {
			f.Title = strings.TrimSpace(m.input.Value())
		} else {
			f.Category = strings.TrimSpace(m.input.Value())
		}
		m.mode = modeBrowse
		m.input.Blur()

		m.state = state.Reduce(m.state, state.FilterChanged{Filter: f})
		m.state = state.Reduce(m.state, state.Searched{})
		return m.fetch()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.mode = modeBrowse
	m.pendingDelete = ""

	if msg.String() == "y" || msg.String() == "Y" {
		return m, m.remove(id)
	}

	return m, nil
}

func (m model) View() string {
	sections := []string{titleStyle.Render("Expenses")}

	if filters := describeFilters(m.state); filters != "" {
		sections = append(sections, mutedStyle.Render(filters))
	}

	sections = append(sections, m.table.View())

	summary := fmt.Sprintf("%s · Total %s", m.state.View.Showing(), cli.Money(m.state.View.TotalSum, m.currency))
	if m.state.Loading {
		summary += mutedStyle.Render("  loading…")
	}
	sections = append(sections, summaryStyle.Render(summary))

	if pages := paginationView(m.state.Page, m.state.View.TotalPages); pages != "" {
		sections = append(sections, pages)
	}

	switch m.mode {
	case modeTitleFilter, modeCategoryFilter:
		sections = append(sections, m.input.View())
	case modeConfirmDelete:
		sections = append(sections, promptStyle.Render(deleteQuestion))
	}

	if m.state.Notice != "" {
		sections = append(sections, noticeStyle.Render(m.state.Notice))
	}

	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func describeFilters(s state.State) string {
	var parts []string
	if s.Filter.Title != "" {
		parts = append(parts, "title~"+s.Filter.Title)
	}
	if s.Filter.Category != "" {
		parts = append(parts, "category~"+s.Filter.Category)
	}
	if s.Filter.Sort.IsSet() {
		parts = append(parts, "sort "+s.Filter.Sort.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filters: " + strings.Join(parts, ", ")
}

func (m *model) SetHeight(height int) {
	m.height = height
}

func (m *model) SetWidth(width int) {
	m.width = width
}

// screenSafeLogger moves terminal bound logging out of the way of the alt
// screen: into the debug log when debugging, nowhere otherwise.
func screenSafeLogger(conf logger.Config, debug bool) logger.Config {
	switch conf.Output {
	case "", "stdout", "stderr":
	default:
		return conf
	}

	if debug {
		conf.Output = debugLogFile
	} else {
		conf.Output = "discard"
	}
	return conf
}

func (c tuiCommand) SetFlags(*flag.FlagSet) {}

func (c tuiCommand) Run(ctx context.Context, client api.ExpenseAPI, conf *config.Config, l *logger.Logger) error {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	debug := len(os.Getenv("EXPENSEDESK_DEBUG")) > 0
	if debug {
		f, logErr := tea.LogToFile(debugLogFile, "debug")
		if logErr != nil {
			return fmt.Errorf("failed to log to file: %w", logErr)
		}
		defer f.Close()
	}

	if logConf := screenSafeLogger(conf.Logger, debug); logConf != conf.Logger {
		l = logger.New(logConf)
	}

	m := initialModel(ctx, client, conf, l, time.Now(), w, h)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
