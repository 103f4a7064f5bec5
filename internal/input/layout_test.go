package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayout_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("qwerty maps the 4x4 grid per spec", func(t *testing.T) {
		key, ok := Qwerty.Resolve('4')
		require.True(t, ok)
		require.Equal(t, uint8(0xC), key)

		key, ok = Qwerty.Resolve('z')
		require.True(t, ok)
		require.Equal(t, uint8(0xA), key)
	})

	t.Run("natural maps rows in reading order", func(t *testing.T) {
		key, ok := Natural.Resolve('f')
		require.True(t, ok)
		require.Equal(t, uint8(0xC), key)
	})

	t.Run("sequential covers the number row plus the q-to-y row", func(t *testing.T) {
		key, ok := Sequential.Resolve('0')
		require.True(t, ok)
		require.Equal(t, uint8(0x0), key)

		key, ok = Sequential.Resolve('y')
		require.True(t, ok)
		require.Equal(t, uint8(0xF), key)
	})

	t.Run("unmapped physical keys report not ok", func(t *testing.T) {
		_, ok := Sequential.Resolve('z')
		require.False(t, ok)
	})
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"qwerty", "natural", "sequential"} {
		_, err := ParseLayout(name)
		require.NoError(t, err)
	}

	_, err := ParseLayout("dvorak")
	require.Error(t, err)
}

func TestLayout_StringRoundTripsThroughParseLayout(t *testing.T) {
	t.Parallel()

	for _, l := range []Layout{Qwerty, Natural, Sequential} {
		parsed, err := ParseLayout(l.String())
		require.NoError(t, err)
		require.Equal(t, l, parsed)
	}
}
