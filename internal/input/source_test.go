package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestSource_Translate(t *testing.T) {
	t.Parallel()

	src := NewSource(Qwerty)

	t.Run("mapped rune becomes a press KeyEvent", func(t *testing.T) {
		ev := tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
		keyEv, ok, cmd := src.Translate(ev)
		require.True(t, ok)
		require.Equal(t, uint8(0x4), keyEv.Key)
		require.Equal(t, Press, keyEv.Edge)
		require.Equal(t, CommandNone, cmd)
	})

	t.Run("unmapped rune is ignored", func(t *testing.T) {
		ev := tcell.NewEventKey(tcell.KeyRune, 'u', tcell.ModNone)
		_, ok, cmd := src.Translate(ev)
		require.False(t, ok)
		require.Equal(t, CommandNone, cmd)
	})

	t.Run("escape quits", func(t *testing.T) {
		ev := tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
		_, ok, cmd := src.Translate(ev)
		require.False(t, ok)
		require.Equal(t, CommandQuit, cmd)
	})

	t.Run("enter steps", func(t *testing.T) {
		ev := tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
		_, ok, cmd := src.Translate(ev)
		require.False(t, ok)
		require.Equal(t, CommandStep, cmd)
	})

	t.Run("space toggles pause/play", func(t *testing.T) {
		ev := tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)
		_, ok, cmd := src.Translate(ev)
		require.False(t, ok)
		require.Equal(t, CommandTogglePausePlay, cmd)
	})

	t.Run("ctrl-r restarts", func(t *testing.T) {
		ev := tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)
		_, ok, cmd := src.Translate(ev)
		require.False(t, ok)
		require.Equal(t, CommandRestart, cmd)
	})

	t.Run("uppercase resolves through the same lowercase mapping", func(t *testing.T) {
		ev := tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone)
		keyEv, ok, _ := src.Translate(ev)
		require.True(t, ok)
		require.Equal(t, uint8(0x4), keyEv.Key)
	})
}
