package tui

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/prdash/internal/log"
	"github.com/spiffcs/prdash/internal/model"
	"github.com/spiffcs/prdash/internal/prcache"
	"github.com/spiffcs/prdash/internal/view"
)

// PRModel is the Bubble Tea model for the interactive pull request view.
// Fetches run as commands; their results land in the caches, and every frame
// is derived from the caches and the current selection.
type PRModel struct {
	ctx    context.Context
	pages  *prcache.PageCache
	search *prcache.Overlay
	state  view.State
	author string

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	cursor       int
	confirm      *model.PullRequest // pending "open in browser" prompt
	windowWidth  int
	windowHeight int
	statusMsg    string
	quitting     bool

	openURL func(url string) tea.Cmd
	now     func() time.Time
}

// pageLoadedMsg reports that a page fetch finished. The data itself is
// read back from the cache.
type pageLoadedMsg struct {
	page int
	err  error
}

// searchDoneMsg reports that a search finished.
type searchDoneMsg struct {
	term string
	err  error
}

// clearStatusMsg is a message to clear the status
type clearStatusMsg struct{}

// PROption is a functional option for configuring PRModel
type PROption func(*PRModel)

// WithAuthor shows whose pull requests are listed in the title.
func WithAuthor(author string) PROption {
	return func(m *PRModel) {
		m.author = author
	}
}

// WithInitialInput pre-fills the search box, e.g. from --search.
func WithInitialInput(term string) PROption {
	return func(m *PRModel) {
		m.input.SetValue(term)
		m.state.Input = term
	}
}

// NewPRModel creates the pull request view starting at state.
func NewPRModel(ctx context.Context, pages *prcache.PageCache, search *prcache.Overlay, state view.State, opts ...PROption) PRModel {
	ti := textinput.New()
	ti.Placeholder = "Search pull requests..."
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	if state.Page < 1 {
		state.Page = 1
	}

	m := PRModel{
		ctx:          ctx,
		pages:        pages,
		search:       search,
		state:        state,
		input:        ti,
		spinner:      s,
		help:         help.New(),
		keys:         defaultKeyMap(),
		windowWidth:  100,
		windowHeight: 30,
		openURL:      openURL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model
func (m PRModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchPage(m.state.Page))
}

// Display derives the current frame.
func (m PRModel) Display() view.Display {
	return view.Derive(m.state, m.pages, m.search)
}

// State returns the current selection.
func (m PRModel) State() view.State {
	return m.state
}

func (m PRModel) fetchPage(n int) tea.Cmd {
	pages, ctx := m.pages, m.ctx
	return func() tea.Msg {
		_, err := pages.Fetch(ctx, n)
		return pageLoadedMsg{page: n, err: err}
	}
}

// readAhead fetches the page after the current one when it is due.
func (m PRModel) readAhead() tea.Cmd {
	if !m.pages.ShouldReadAhead(m.state.Page) {
		return nil
	}
	log.Trace("reading ahead", "page", m.state.Page+1)
	return m.fetchPage(m.state.Page + 1)
}

func (m PRModel) runSearch(term string) tea.Cmd {
	search, ctx := m.search, m.ctx
	return func() tea.Msg {
		_, err := search.Search(ctx, term)
		return searchDoneMsg{term: term, err: err}
	}
}

// Update implements tea.Model
func (m PRModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm != nil {
			return m.handleConfirm(msg)
		}
		if m.input.Focused() {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(20, min(60, msg.Width/2))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		if msg.err != nil {
			log.Debug("page load failed", "page", msg.page, "error", msg.err)
		}
		// only the current page's arrival schedules read-ahead, never the
		// read-ahead result itself
		if msg.page == m.state.Page {
			return m, m.readAhead()
		}
		return m, nil

	case searchDoneMsg:
		if msg.err == nil {
			m.cursor = 0
		}
		return m, nil

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleInputKey processes keys while the search box has focus
func (m PRModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submitSearch()

	case key.Matches(msg, m.keys.Dismiss):
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.Input = m.input.Value()
	return m, cmd
}

// submitSearch activates the typed term, fetching it unless cached
func (m PRModel) submitSearch() (tea.Model, tea.Cmd) {
	term := m.input.Value()
	if strings.TrimSpace(term) == "" {
		return m, nil
	}
	m.input.Blur()
	m.cursor = 0

	if m.search.Activate(term) {
		return m, nil
	}
	return m, m.runSearch(term)
}

// handleKey processes keyboard input while the list has focus
func (m PRModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.Display()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Search):
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Reset):
		return m.resetSearch()

	case key.Matches(msg, m.keys.Filter):
		m.state.Filter = m.state.Filter.Next()
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.state.Sort = m.state.Sort.Next()
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		if !d.CanPrev {
			return m, nil
		}
		m.state = m.state.PrevPage()
		m.cursor = 0
		return m, m.fetchPage(m.state.Page)

	case key.Matches(msg, m.keys.Next):
		if !d.CanNext {
			return m, nil
		}
		m.state = m.state.NextPage()
		m.cursor = 0
		return m, m.fetchPage(m.state.Page)

	case key.Matches(msg, m.keys.Retry):
		return m.retry(d)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(d.PRs)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if len(d.PRs) == 0 {
			return m, nil
		}
		pr := d.PRs[min(m.cursor, len(d.PRs)-1)]
		if pr.HTMLURL == "" {
			m.statusMsg = "No URL available"
			return m, clearStatusAfter(2 * time.Second)
		}
		m.confirm = &pr
		return m, nil
	}

	return m, nil
}

// resetSearch returns to paged browsing. Cached results are kept.
func (m PRModel) resetSearch() (tea.Model, tea.Cmd) {
	m.search.Reset()
	m.input.SetValue("")
	m.state.Input = ""
	m.cursor = 0
	return m, m.fetchPage(m.state.Page)
}

// retry repeats whatever failed: the search, or the current page.
func (m PRModel) retry(d view.Display) (tea.Model, tea.Cmd) {
	if d.Err == "" {
		return m, nil
	}
	if m.search.Err() != "" {
		term := m.input.Value()
		if active, ok := m.search.Active(); ok && strings.TrimSpace(term) == "" {
			term = active
		}
		if strings.TrimSpace(term) == "" {
			return m, nil
		}
		return m, m.runSearch(term)
	}
	return m, m.fetchPage(m.state.Page)
}

// handleConfirm answers the "open in browser" prompt
func (m PRModel) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pr := m.confirm
	m.confirm = nil

	switch msg.String() {
	case "y", "Y", "enter":
		m.statusMsg = "Opening " + pr.HTMLURL
		return m, tea.Batch(m.openURL(pr.HTMLURL), clearStatusAfter(2*time.Second))
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m PRModel) View() string {
	if m.quitting {
		return ""
	}
	return renderPRView(m, m.Display())
}

// clearStatusAfter returns a command that clears the status after a delay
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// openURL opens a URL in the default browser
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd

		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			return nil
		}

		if err := cmd.Start(); err != nil {
			log.Debug("failed to open browser", "url", url, "error", err)
		}
		return nil
	}
}
