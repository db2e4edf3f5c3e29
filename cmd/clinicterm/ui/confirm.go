package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no dialog. It resolves to a confirmResultMsg
// carrying the action it was guarding, so callers never block: declining
// simply means the guarded operation is never issued.
type ConfirmModel struct {
	prompt string
	action interface{}
	styles Styles
}

// NewConfirm creates a dialog for the given prompt and pending action.
func NewConfirm(prompt string, action interface{}, styles Styles) ConfirmModel {
	return ConfirmModel{prompt: prompt, action: action, styles: styles}
}

// Update resolves the dialog on y/n/enter/esc. The second return value is
// true while the dialog is still open.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, true
	}
	switch key.String() {
	case "y", "Y", "enter":
		action := m.action
		return func() tea.Msg { return confirmResultMsg{ok: true, action: action} }, false
	case "n", "N", "esc", "q":
		action := m.action
		return func() tea.Msg { return confirmResultMsg{ok: false, action: action} }, false
	}
	return nil, true
}

// View renders the dialog.
func (m ConfirmModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Warning.Render(m.prompt))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Muted.Render("[y] Yes  [n] No"))
	return m.styles.Dialog.Render(sb.String())
}
