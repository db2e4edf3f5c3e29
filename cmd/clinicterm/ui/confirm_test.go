package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmAccept(t *testing.T) {
	c := NewConfirm("Delete patient?", deletePatientAction{id: 4}, DefaultStyles())

	cmd, open := c.Update(keyRune('y'))
	require.NotNil(t, cmd)
	assert.False(t, open)

	result, ok := cmd().(confirmResultMsg)
	require.True(t, ok)
	assert.True(t, result.ok)
	assert.Equal(t, deletePatientAction{id: 4}, result.action)
}

func TestConfirmDecline(t *testing.T) {
	c := NewConfirm("Delete visit?", deleteVisitAction{patientID: 1, id: 9}, DefaultStyles())

	cmd, open := c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.False(t, open)

	result, ok := cmd().(confirmResultMsg)
	require.True(t, ok)
	assert.False(t, result.ok)
	assert.Equal(t, deleteVisitAction{patientID: 1, id: 9}, result.action)
}

func TestConfirmIgnoresOtherKeys(t *testing.T) {
	c := NewConfirm("Sure?", nil, DefaultStyles())

	cmd, open := c.Update(keyRune('x'))
	assert.Nil(t, cmd)
	assert.True(t, open)
}
