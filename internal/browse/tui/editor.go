package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmcrae/catman/internal/catalog"
)

// editorModel is the modal category editor. It owns nothing but the draft
// it was opened with: one text input bound to the draft's description.
// Every keystroke replaces the draft with a shallow copy carrying the new
// description, preserving ID and Key. The editor knows nothing about the
// server, pending writes, or errors; save and cancel are the list model's
// decisions.
type editorModel struct {
	draft catalog.Category
	input textinput.Model
}

// newEditor creates an editor bound to the given draft. Pass a zero
// Category for a new draft; pass a copy of a row to edit an existing one.
func newEditor(draft catalog.Category) editorModel {
	input := textinput.New()
	input.Placeholder = "Description"
	input.CharLimit = 200
	input.Width = 40
	input.SetValue(draft.Description)
	input.CursorEnd()
	input.Focus()

	return editorModel{
		draft: draft,
		input: input,
	}
}

// Update feeds a message to the text input and rebinds the draft to the
// input's current value.
func (e editorModel) Update(msg tea.Msg) (editorModel, tea.Cmd) {
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)

	draft := e.draft
	draft.Description = e.input.Value()
	e.draft = draft

	return e, cmd
}

// Draft returns the draft as currently edited.
func (e editorModel) Draft() catalog.Category {
	return e.draft
}

// saveEnabled reports whether the draft may be saved. Blank descriptions
// are rejected before any write is attempted.
func (e editorModel) saveEnabled() bool {
	return strings.TrimSpace(e.draft.Description) != ""
}

// View renders the modal editor box.
func (e editorModel) View() string {
	title := "New Category"
	if !e.draft.IsNew() {
		title = "Edit Category"
	}

	saveHint := "enter save"
	if !e.saveEnabled() {
		saveHint = "enter save (needs a description)"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle(title),
		"",
		e.input.View(),
		"",
		HelpStyle.Render(saveHint+" • esc cancel"),
	)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(50)

	return modalStyle.Render(content)
}
