package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsalehar/aero-data-fe/internal/semver"
)

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestPromptSelectSuggestion(t *testing.T) {
	m := NewModel(semver.Version{Major: 1, Minor: 2, Patch: 3})

	// Default cursor is on the patch bump.
	m = update(m, key(tea.KeyEnter))
	v, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "1.2.4", v.String())
}

func TestPromptSelectMajor(t *testing.T) {
	m := NewModel(semver.Version{Major: 1, Minor: 2, Patch: 3})

	m = update(m, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyEnter))
	v, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "2.0.0", v.String())
}

func TestPromptCustomEntry(t *testing.T) {
	m := NewModel(semver.Version{Major: 1, Minor: 2, Patch: 3})

	m = update(m,
		key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown), // custom
		runes("3.0.0"),
		key(tea.KeyEnter),
	)
	v, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "3.0.0", v.String())
}

func TestPromptCustomRejectsInvalid(t *testing.T) {
	m := NewModel(semver.Version{Major: 1, Minor: 2, Patch: 3})

	m = update(m,
		key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown),
		runes("not-a-version"),
		key(tea.KeyEnter),
	)
	_, ok := m.Chosen()
	assert.False(t, ok)
	assert.NotEmpty(t, m.parseErr)
}

func TestPromptCustomRejectsNonIncreasing(t *testing.T) {
	m := NewModel(semver.Version{Major: 1, Minor: 2, Patch: 3})

	m = update(m,
		key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown),
		runes("1.2.3"),
		key(tea.KeyEnter),
	)
	_, ok := m.Chosen()
	assert.False(t, ok)
	assert.Contains(t, m.parseErr, "not greater")
}

func TestPromptCancel(t *testing.T) {
	m := NewModel(semver.Version{Major: 1, Minor: 2, Patch: 3})

	m = update(m, key(tea.KeyEsc))
	assert.True(t, m.cancelled)
	_, ok := m.Chosen()
	assert.False(t, ok)
}

func TestPromptViewListsOptions(t *testing.T) {
	m := NewModel(semver.Version{Major: 1, Minor: 2, Patch: 3})
	view := m.View()

	assert.Contains(t, view, "1.2.4")
	assert.Contains(t, view, "1.3.0")
	assert.Contains(t, view, "2.0.0")
	assert.Contains(t, view, "custom")
}
