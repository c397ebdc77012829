package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmcrae/catman/internal/catalog"
)

// Remote is the server capability the browser needs. *catalog.Client
// satisfies it; tests substitute a fake.
type Remote interface {
	ListCategories() ([]catalog.Category, error)
	CreateCategory(description string) (catalog.Identity, error)
	UpdateCategory(key, description string) (catalog.Identity, error)
	DeleteCategory(key string) (catalog.Identity, error)
}

// Messages for settled remote operations
type loadDoneMsg struct {
	records []catalog.Category
	err     error
}

type createDoneMsg struct {
	identity catalog.Identity
	err      error
}

type updateDoneMsg struct {
	identity catalog.Identity
	err      error
}

type deleteDoneMsg struct {
	identity catalog.Identity
	err      error
}

// browseKeyMap defines key bindings for the list screen
type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Delete, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.New, k.Edit},
		{k.Delete, k.Refresh, k.Quit},
	}
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d/x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ListModel is the list screen and the owner of all browse state: the
// fetched rows, the cursor, the modal editor, and one opState per remote
// operation.
//
// The rows are never edited in place. After any write settles - success or
// failure - the model issues exactly one reload and replaces the rows
// wholesale with whatever the server returns.
type ListModel struct {
	remote     Remote
	serverAddr string // shown in the frame header

	// List state - always the most recent load result
	records []catalog.Category
	loaded  bool // at least one load has succeeded
	cursor  int

	// Editor state
	editorOpen bool
	editor     editorModel

	// Per-operation remote state
	loadOp   opState
	createOp opState
	updateOp opState
	deleteOp opState

	// UI state
	width   int
	height  int
	spinner spinner.Model
	help    help.Model
	keys    browseKeyMap
}

// NewListModel creates the browse screen against the given remote.
// serverAddr is display-only.
func NewListModel(remote Remote, serverAddr string) ListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ListModel{
		remote:     remote,
		serverAddr: serverAddr,
		// The initial load is issued by Init, so it starts out pending
		loadOp:  opState{phase: opPending},
		spinner: s,
		help:    help.New(),
		keys:    newBrowseKeyMap(),
	}
}

// Init starts the spinner and issues the initial load.
func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.remote))
}

// Commands - one closure per remote call, each settling into its done-msg

func loadCmd(remote Remote) tea.Cmd {
	return func() tea.Msg {
		records, err := remote.ListCategories()
		return loadDoneMsg{records: records, err: err}
	}
}

func createCmd(remote Remote, description string) tea.Cmd {
	return func() tea.Msg {
		identity, err := remote.CreateCategory(description)
		return createDoneMsg{identity: identity, err: err}
	}
}

func updateCmd(remote Remote, key, description string) tea.Cmd {
	return func() tea.Msg {
		identity, err := remote.UpdateCategory(key, description)
		return updateDoneMsg{identity: identity, err: err}
	}
}

func deleteCmd(remote Remote, key string) tea.Cmd {
	return func() tea.Msg {
		identity, err := remote.DeleteCategory(key)
		return deleteDoneMsg{identity: identity, err: err}
	}
}

// Update handles messages and updates the model
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		return m.settleLoad(msg)

	case createDoneMsg:
		if msg.err != nil {
			m.createOp.fail(catalog.ShortMessage(msg.err))
		} else {
			m.createOp.succeed()
		}
		return m.reload()

	case updateDoneMsg:
		if msg.err != nil {
			m.updateOp.fail(catalog.ShortMessage(msg.err))
		} else {
			m.updateOp.succeed()
		}
		return m.reload()

	case deleteDoneMsg:
		if msg.err != nil {
			m.deleteOp.fail(catalog.ShortMessage(msg.err))
		} else {
			m.deleteOp.succeed()
		}
		return m.reload()

	case tea.KeyMsg:
		if m.editorOpen {
			return m.updateEditor(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

// settleLoad records a finished load. On success the rows are replaced
// wholesale and any lingering write failure is cleared - the fresh server
// state supersedes it.
func (m ListModel) settleLoad(msg loadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loadOp.fail(catalog.ShortMessage(msg.err))
		return m, nil
	}

	m.loadOp.succeed()
	m.records = msg.records
	m.loaded = true
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	for _, op := range []*opState{&m.createOp, &m.updateOp, &m.deleteOp} {
		if op.failed() {
			op.reset()
		}
	}

	return m, nil
}

// reload issues the unconditional post-write reload. Every settled write
// passes through here, failed ones included: the model never assumes it
// knows the server's state after a write.
func (m ListModel) reload() (tea.Model, tea.Cmd) {
	m.loadOp.start()
	return m, loadCmd(m.remote)
}

// updateList handles keys on the list screen (editor closed).
func (m ListModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.New):
		// Open the editor with an empty draft
		m.editor = newEditor(catalog.Category{})
		m.editorOpen = true

	case key.Matches(msg, m.keys.Edit):
		if rec, ok := m.selected(); ok {
			// Open the editor with a copy of the selected row
			m.editor = newEditor(rec)
			m.editorOpen = true
		}

	case key.Matches(msg, m.keys.Delete):
		// No confirmation step; the reload after settle shows the outcome
		if rec, ok := m.selected(); ok {
			m.deleteOp.start()
			return m, deleteCmd(m.remote, rec.Key)
		}

	case key.Matches(msg, m.keys.Refresh):
		return m.reload()
	}

	return m, nil
}

// updateEditor handles keys while the modal editor is open.
func (m ListModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Cancel - the draft is abandoned, nothing is persisted
		m.editorOpen = false
		return m, nil

	case "enter":
		return m.save()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// save dispatches the draft: drafts without a key are created, drafts with
// a key are updated. The editor closes immediately, before the write
// settles; a failure surfaces as the error banner on the list screen.
func (m ListModel) save() (tea.Model, tea.Cmd) {
	if !m.editor.saveEnabled() {
		return m, nil
	}

	draft := m.editor.Draft()
	m.editorOpen = false

	if draft.IsNew() {
		m.createOp.start()
		return m, createCmd(m.remote, draft.Description)
	}

	m.updateOp.start()
	return m, updateCmd(m.remote, draft.Key, draft.Description)
}

// selected returns the row under the cursor.
func (m ListModel) selected() (catalog.Category, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return catalog.Category{}, false
	}
	return m.records[m.cursor], true
}

// firstError returns the error to display when one or more operations have
// failed, in the fixed priority order: load, create, delete, update.
func (m ListModel) firstError() (string, bool) {
	for _, op := range []opState{m.loadOp, m.createOp, m.deleteOp, m.updateOp} {
		if op.failed() {
			return op.message, true
		}
	}
	return "", false
}

// View renders the browse screen.
func (m ListModel) View() string {
	if m.editorOpen {
		return RenderModal(m.editor.View(), m.width, m.height)
	}

	content := m.renderContent()
	helpText := m.help.View(m.keys)
	return RenderAppFrame(content, helpText, m.serverAddr, m.width, m.height)
}

// renderContent builds the list area: error banner, initial loading
// indicator, empty hint, or the rows.
func (m ListModel) renderContent() string {
	title := RenderTitle("Categories")

	// Loading indicator only before the first successful load; later
	// reloads keep the existing rows on screen.
	if m.loadOp.pending() && !m.loaded {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			fmt.Sprintf("%s Loading categories...", m.spinner.View()),
		)
	}

	if message, ok := m.firstError(); ok {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			RenderError(message),
		)
	}

	if m.loaded && len(m.records) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			EmptyStyle.Render("No categories yet - press n to add one."),
		)
	}

	rows := make([]string, 0, len(m.records)+2)
	rows = append(rows, title, "")
	for i, rec := range m.records {
		rows = append(rows, m.renderRow(i, rec))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderRow renders one category row: cursor arrow, ID column, description.
func (m ListModel) renderRow(index int, rec catalog.Category) string {
	arrow := "  "
	style := RowStyle
	if index == m.cursor {
		arrow = "→ "
		style = SelectedRowStyle
	}

	id := IDStyle.Render(fmt.Sprintf("%d", rec.ID))
	return lipgloss.JoinHorizontal(lipgloss.Left,
		arrow,
		id,
		"  ",
		style.Render(rec.Description),
	)
}
