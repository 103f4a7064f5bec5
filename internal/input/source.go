package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Source translates tcell key events into CHIP-8 KeyEvents and playback
// Commands under a chosen Layout. Esc/Space/Enter are reserved for commands
// in every layout and only fire on the press edge.
type Source struct {
	layout Layout
}

// NewSource returns a Source bound to the given layout.
func NewSource(layout Layout) *Source {
	return &Source{layout: layout}
}

// Translate converts one tcell key event into at most one KeyEvent and at
// most one Command. ok reports whether the event mapped to a KeyEvent; a
// reserved control key yields ok false and its Command, and an unmapped
// physical key yields ok false and CommandNone, so it is simply ignored.
func (s *Source) Translate(ev *tcell.EventKey) (KeyEvent, bool, Command) {
	// tcell does not deliver release edges on most terminals; every key
	// reaching here is treated as a press, and callers that need the
	// COSMAC release-edge GET_KEY semantics rely on the pump's
	// synthetic release (see pump.go).
	if ev.Key() == tcell.KeyEscape {
		return KeyEvent{}, false, CommandQuit
	}
	if ev.Key() == tcell.KeyEnter {
		return KeyEvent{}, false, CommandStep
	}
	if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
		return KeyEvent{}, false, CommandTogglePausePlay
	}
	if ev.Key() == tcell.KeyCtrlR {
		return KeyEvent{}, false, CommandRestart
	}

	if ev.Key() != tcell.KeyRune {
		return KeyEvent{}, false, CommandNone
	}
	r := unicode.ToLower(ev.Rune())
	key, ok := s.layout.Resolve(r)
	if !ok {
		return KeyEvent{}, false, CommandNone
	}
	return KeyEvent{Key: key, Edge: Press}, true, CommandNone
}
