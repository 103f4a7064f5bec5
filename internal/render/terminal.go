// Package render draws a chip8.Hardware framebuffer and debug overlay onto a
// terminal screen. It is the only package besides internal/input that
// imports tcell — the interpreter core stays terminal-library-agnostic.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bradford-hamilton/chip8term/internal/chip8"
	"github.com/bradford-hamilton/chip8term/internal/input"
)

var (
	pixelStyle = tcell.StyleDefault.Background(tcell.ColorWhite)
	voidStyle  = tcell.StyleDefault.Background(tcell.ColorBlack)
	textStyle  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// Terminal renders onto an alternate-screen tcell.Screen. Each CHIP-8 pixel
// is drawn two terminal columns wide so the 64x32 grid isn't squashed by
// typical monospace cell aspect ratios.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal initializes a tcell screen in raw, alternate-screen mode and
// hides the cursor. Callers must call Close on shutdown.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new tcell screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init tcell screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()
	return &Terminal{screen: screen}, nil
}

// Screen exposes the underlying tcell.Screen for the input pump to poll.
func (t *Terminal) Screen() tcell.Screen { return t.screen }

// Close restores the terminal to its prior state.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Render implements chip8.Renderer: it draws the 64x32 pixel grid centered
// in the terminal, and when showDebug is set, a four-line overlay below it.
func (t *Terminal) Render(pixels [chip8.ScreenSize]bool, debug chip8.DebugInfo, showDebug bool) error {
	t.screen.Clear()
	w, h := t.screen.Size()

	gridW, gridH := chip8.ScreenCols*2, chip8.ScreenRows
	originX := (w - gridW) / 2
	if originX < 0 {
		originX = 0
	}
	originY := (h - gridH) / 2
	if originY < 0 {
		originY = 0
	}

	for y := 0; y < chip8.ScreenRows; y++ {
		for x := 0; x < chip8.ScreenCols; x++ {
			style := voidStyle
			if pixels[y*chip8.ScreenCols+x] {
				style = pixelStyle
			}
			cx := originX + x*2
			cy := originY + y
			t.screen.SetContent(cx, cy, ' ', nil, style)
			t.screen.SetContent(cx+1, cy, ' ', nil, style)
		}
	}

	if showDebug {
		t.drawDebugOverlay(originX, originY+gridH+1, debug)
	}

	t.screen.Show()
	return nil
}

func (t *Terminal) drawDebugOverlay(x, y int, debug chip8.DebugInfo) {
	lines := []string{
		fmt.Sprintf("INPUT: %s", formatKeyState(debug.KeyState)),
		fmt.Sprintf("CPU:   PC=%s I=%#06x DT=%d ST=%d V=% X", chip8.Address(debug.PC), debug.Index, debug.Delay, debug.Sound, debug.Registers[:]),
		fmt.Sprintf("INST:  %s, %s", debug.RawInst, debug.Decoded),
		fmt.Sprintf("MODE:  %s  (space: pause/play, enter: step, ctrl-r: restart, esc: quit)", debug.Playback),
	}
	for i, line := range lines {
		t.drawString(x, y+i, line)
	}
}

func (t *Terminal) drawString(x, y int, s string) {
	for i, r := range s {
		t.screen.SetContent(x+i, y, r, nil, textStyle)
	}
}

func formatKeyState(state input.KeyState) string {
	s := make([]byte, 0, 16)
	hex := "0123456789ABCDEF"
	for k := 0; k < 16; k++ {
		if state.Pressed(uint8(k)) {
			s = append(s, hex[k])
		}
	}
	if len(s) == 0 {
		return "(none)"
	}
	return string(s)
}
