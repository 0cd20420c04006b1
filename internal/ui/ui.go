package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/desertthunder/moviedb/internal/formatter"
	"github.com/desertthunder/moviedb/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	ConfirmView
	AverageView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	previous  ViewState
	manager   *catalog.Manager
	width     int
	height    int
	movieList list.Model
	selected  *models.Movie
	stats     models.CategoryStats
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model browsing the catalog held by manager.
func NewModel(ctx context.Context, manager *catalog.Manager) *Model {
	movies := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	movies.Title = "Movie Catalog"
	movies.DisableQuitKeybindings()

	return &Model{
		ctx:       ctx,
		view:      ListView,
		manager:   manager,
		movieList: movies,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, manager *catalog.Manager, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(NewModel(ctx, manager), opts...).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadMovies()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case AverageView:
			return m.handleAverageKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		movies, _ := msg.data.([]models.Movie)
		cmd := m.movieList.SetItems(movieItems(movies))
		return m, cmd

	case MsgMovieRemoved:
		r, _ := msg.data.(removal)
		m.view = ListView
		m.selected = nil
		if r.err != nil {
			m.err = r.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Removed %q", r.title)
		return m, m.loadMovies()

	case MsgAverageComputed:
		a, _ := msg.data.(average)
		if a.err != nil {
			m.err = a.err
			return m, nil
		}
		m.err = nil
		m.stats = a.stats
		m.view = AverageView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case AverageView:
		return m.renderAverage()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.status = ""
		m.err = nil
		return m, m.loadMovies()
	case key.Matches(msg, m.keys.enter):
		if m.selectCurrent() {
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if m.selectCurrent() {
			m.previous = ListView
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.average):
		if m.selectCurrent() {
			m.previous = ListView
			return m, m.computeAverage(m.selected.Phase)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
	case key.Matches(msg, m.keys.remove):
		m.previous = DetailView
		m.view = ConfirmView
	case key.Matches(msg, m.keys.average):
		m.previous = DetailView
		return m, m.computeAverage(m.selected.Phase)
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.removeMovie(m.selected.Title)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = m.previous
	}
	return m, nil
}

func (m *Model) handleAverageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.previous
	}
	return m, nil
}

// selectCurrent records the highlighted movie and reports whether one exists.
func (m *Model) selectCurrent() bool {
	item, ok := m.movieList.SelectedItem().(movieItem)
	if !ok {
		return false
	}
	movie := item.movie
	m.selected = &movie
	return true
}

func (m *Model) loadMovies() tea.Cmd {
	return func() tea.Msg {
		return moviesLoadedMsg(m.manager.List(m.ctx))
	}
}

func (m *Model) removeMovie(title string) tea.Cmd {
	return func() tea.Msg {
		return movieRemovedMsg(title, m.manager.RemoveByTitle(m.ctx, title))
	}
}

func (m *Model) computeAverage(phase int) tea.Cmd {
	return func() tea.Msg {
		stats, err := m.manager.CategoryAverage(m.ctx, phase)
		return averageComputedMsg(stats, err)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.average, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var footer string
	switch {
	case m.err != nil:
		footer = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	case m.status != "":
		footer = styles.ok.Render(m.status) + "\n"
	}

	return fmt.Sprintf("%s\n\n%s%s", m.movieList.View(), footer, helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.err.Render("No movie selected\n\nPress esc to go back")
	}
	mv := m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(mv.Title))
	b.WriteString("\n")
	rows := [][2]string{
		{"Released", mv.ReleaseDate},
		{"Phase", fmt.Sprintf("%d", mv.Phase)},
		{"Director", mv.Director},
		{"Running time", formatter.FormatRuntime(mv.RunningTime)},
		{"IMDb rating", formatter.FormatRating(mv.Rating)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(row[0]), row[1])
	}
	b.WriteString("\n")
	b.WriteString(styles.help.Render(formatter.FormatMovie(*mv)))

	helpKeys := []key.Binding{m.keys.remove, m.keys.average, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return ""
	}
	title := styles.warn.Render(fmt.Sprintf("Remove '%s' from the catalog?", m.selected.Title))
	info := fmt.Sprintf("\nPhase: %d\nDirector: %s\n", m.selected.Phase, m.selected.Director)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderAverage() string {
	title := styles.title.Render(fmt.Sprintf("Phase %d", m.stats.Phase))

	body := styles.ok.Render(formatter.FormatStats(m.stats))
	if m.stats.Empty() {
		body = styles.warn.Render(formatter.FormatStats(m.stats))
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, m.help.ShortHelpView(helpKeys))
}
