package input

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
)

// releaseWindow is how long a pressed key is held before the pump
// synthesizes a release edge. Most terminals (tcell included) don't deliver
// native key-up events, so a key is considered released once no repeat
// event has refreshed it for this long — the same timeout-based release
// strategy the original interpreter's early input handler used.
const releaseWindow = 150 * time.Millisecond

// Batch is everything the input pump observed during one poll tick:
// any commands (quit/toggle/step), any key edges, and the resulting
// 16-key pressed snapshot. Scheduler delivers State before Events from the
// same Batch, keeping the bus ordering spec §5 requires.
type Batch struct {
	Commands []Command
	Events   []KeyEvent
	State    KeyState
}

// Pump polls a tcell screen for key events, translates them through a
// Source, and emits one Batch per translated key event, plus a Batch of
// synthesized release edges on any tick at which a release window elapses.
type Pump struct {
	source *Source
	screen tcell.Screen
}

// NewPump binds a Pump to a translation Source and the terminal's event
// source.
func NewPump(source *Source, screen tcell.Screen) *Pump {
	return &Pump{source: source, screen: screen}
}

// Run runs until ctx is cancelled, sending a Batch on out as soon as a raw
// key event translates to a key edge or a command, and, on each tick of
// the given interval, an empty-commands Batch of release edges for the
// previously-pressed keys whose release window has elapsed. The raw tcell event feed runs on its own goroutine since
// Screen.PollEvent blocks; it is unblocked by the screen being finalized
// elsewhere on shutdown.
func (p *Pump) Run(ctx context.Context, interval time.Duration, out chan<- Batch) {
	raw := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				close(raw)
				return
			}
			select {
			case raw <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	pressed := KeyState{}
	lastSeen := make(map[uint8]time.Time)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			keyEvRaw, isKey := ev.(*tcell.EventKey)
			if !isKey {
				continue
			}
			keyEv, ok, cmd := p.source.Translate(keyEvRaw)
			batch := Batch{}
			if ok {
				pressed[keyEv.Key] = true
				lastSeen[keyEv.Key] = time.Now()
				batch.Events = append(batch.Events, keyEv)
			}
			if cmd != CommandNone {
				batch.Commands = append(batch.Commands, cmd)
			}
			if len(batch.Events) == 0 && len(batch.Commands) == 0 {
				continue
			}
			batch.State = pressed
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		case <-ticker.C:
			var released []KeyEvent
			now := time.Now()
			for k, t := range lastSeen {
				if pressed[k] && now.Sub(t) >= releaseWindow {
					pressed[k] = false
					released = append(released, KeyEvent{Key: k, Edge: Release})
					delete(lastSeen, k)
				}
			}
			if len(released) == 0 {
				continue
			}
			batch := Batch{Events: released, State: pressed}
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}
