package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
	assert.Contains(t, keys, "esc")
}

func TestDefaultKeyMap_ScrollBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Up.Keys(), "up")
	assert.Contains(t, km.Up.Keys(), "k")
	assert.Contains(t, km.Down.Keys(), "down")
	assert.Contains(t, km.Down.Keys(), "j")
	assert.Contains(t, km.PageUp.Keys(), "pgup")
	assert.Contains(t, km.PageDown.Keys(), "pgdown")
	assert.Contains(t, km.Top.Keys(), "g")
	assert.Contains(t, km.Bottom.Keys(), "G")
}

func TestDefaultKeyMap_PanelBinding(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.TogglePanel.Keys(), "tab")
}

func TestDefaultKeyMap_ActionBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Download.Keys(), "d")
	assert.Contains(t, km.Open.Keys(), "o")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()
	assert.NotEmpty(t, help)
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.FullHelp()
	require.NotEmpty(t, help)
	for _, row := range help {
		assert.NotEmpty(t, row)
	}
}

func TestMatches(t *testing.T) {
	binding := key.NewBinding(key.WithKeys("d", "ctrl+s"))

	assert.True(t, Matches("d", binding))
	assert.True(t, Matches("ctrl+s", binding))
	assert.False(t, Matches("x", binding))
}
