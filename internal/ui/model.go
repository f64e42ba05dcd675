package ui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/prefs"
	"github.com/five82/shopfront/internal/selectors"
	"github.com/five82/shopfront/internal/state"
)

// View represents the active tab.
type View int

const (
	ViewProducts View = iota
	ViewFavorites
)

func (v View) prefName() string {
	if v == ViewFavorites {
		return "favorites"
	}
	return "products"
}

func viewFromPref(name string) View {
	if name == "favorites" {
		return ViewFavorites
	}
	return ViewProducts
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Prefs     prefs.Prefs
	PrefsPath string // empty uses prefs.DefaultPath()
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	watcher   *storeWatcher
	favorites *selectors.FavoriteItemsSelector
	prefsPath string
	logger    *slog.Logger

	theme Theme
	keys  keyMap
	help  help.Model

	width  int
	height int
	ready  bool

	snapshot state.State
	view     View
	cursor   int

	// Detail pane shows detailID while open.
	detailOpen bool
	detailID   int64

	search    textinput.Model
	searching bool
	query     string

	showHelp bool
	notice   string
}

// New creates a model bound to store. The caller must eventually call Close.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "Search products..."
	search.CharLimit = 64

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		favorites: selectors.NewFavoriteItems(),
		prefsPath: prefsPath,
		logger:    logger.With("component", "ui"),
		theme:     GetTheme(opts.Prefs.Theme),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		view:      viewFromPref(opts.Prefs.View),
		search:    search,
	}
	if m.store != nil {
		m.watcher = watchStore(m.store)
		m.snapshot = m.store.GetState()
	}
	return m
}

// Close detaches the model from the store.
func (m Model) Close() {
	if m.watcher != nil {
		m.watcher.stop()
	}
}

// fetchDoneMsg reports a finished fetch. State changes arrive separately as
// stateMsg; this only carries the outcome for logging.
type fetchDoneMsg struct {
	result  state.Result
	started bool
}

type prefsSavedMsg struct{ err error }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return tea.Batch(m.watcher.wait(), m.loadIfIdleCmd())
}

func (m Model) loadIfIdleCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		res, started := store.LoadIfIdle(ctx)
		return fetchDoneMsg{result: res, started: started}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{result: store.FetchAll(ctx), started: true}
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	path := m.prefsPath
	p := prefs.Prefs{Theme: m.theme.Name, View: m.view.prefName()}
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case stateMsg:
		m.snapshot = state.State(msg)
		m.clampCursor()
		return m, m.watcher.wait()

	case fetchDoneMsg:
		if msg.started && !msg.result.OK() {
			m.logger.Debug("fetch finished with error", "request_id", msg.result.RequestID, "error", msg.result.Err)
		}
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save prefs failed", "error", msg.err)
			m.notice = "Could not save preferences"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.Tab):
		if m.view == ViewProducts {
			m.view = ViewFavorites
		} else {
			m.view = ViewProducts
		}
		m.detailOpen = false
		m.cursor = 0
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.detailOpen:
			m.detailOpen = false
		case m.query != "":
			m.query = ""
			m.search.SetValue("")
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.store == nil {
			return m, nil
		}
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.ToggleFavorite):
		if id, ok := m.focusedID(); ok && m.store != nil {
			m.store.ToggleFavorite(id)
			m.snapshot = m.store.GetState()
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selectedItem(); ok {
			m.detailOpen = true
			m.detailID = item.ID
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		if m.view != ViewProducts || m.detailOpen {
			return m, nil
		}
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visibleItems()) - 1
		m.clampCursor()
	}
	return m, nil
}

// handleSearchKey filters live while typing. Enter keeps the query, esc
// clears it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.clampCursor()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.cursor = 0
	return m, cmd
}

// visibleItems is the list shown in the active tab.
func (m Model) visibleItems() []catalog.Item {
	if m.view == ViewFavorites {
		return m.favorites.Select(m.snapshot)
	}
	return selectors.Search(selectors.Items(m.snapshot), m.query)
}

func (m Model) selectedItem() (catalog.Item, bool) {
	items := m.visibleItems()
	if m.cursor < 0 || m.cursor >= len(items) {
		return catalog.Item{}, false
	}
	return items[m.cursor], true
}

// focusedID is the product a favorite toggle applies to.
func (m Model) focusedID() (int64, bool) {
	if m.detailOpen {
		return m.detailID, true
	}
	item, ok := m.selectedItem()
	return item.ID, ok
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.visibleItems())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}
