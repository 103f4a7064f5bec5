package chip8

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScreen_SetPixelAndClear(t *testing.T) {
	t.Parallel()

	s := NewScreen()
	require.False(t, s.Pixel(10, 10))

	s.SetPixel(10, 10, true)
	require.True(t, s.Pixel(10, 10))

	s.Clear()
	require.False(t, s.Pixel(10, 10))
}

func TestScreen_OutOfRangeIsNoOp(t *testing.T) {
	t.Parallel()

	s := NewScreen()
	require.False(t, s.Pixel(ScreenCols, 0), "out-of-range reads as off")

	s.SetPixel(ScreenCols, 0, true)
	require.False(t, s.Pixel(ScreenCols, 0), "out-of-range write is dropped")
}

func TestScreen_Snapshot(t *testing.T) {
	t.Parallel()

	s := NewScreen()
	s.SetPixel(3, 4, true)
	snap := s.Snapshot()
	require.True(t, snap[4*ScreenCols+3])

	s.SetPixel(3, 4, false)
	require.True(t, snap[4*ScreenCols+3], "snapshot is a copy, unaffected by later writes")
}
