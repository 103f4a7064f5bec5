package chip8

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/bradford-hamilton/chip8term/internal/input"
)

// PlaybackMode is the three-state FSM governing whether the CPU clock fires
// an execute message.
type PlaybackMode uint8

const (
	Running PlaybackMode = iota
	Paused
	Stepping
)

func (m PlaybackMode) String() string {
	switch m {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Stepping:
		return "Stepping"
	default:
		return "Unknown"
	}
}

// hardwareMsg is one entry on the bounded, single-consumer bus to the
// Hardware actor.
type hardwareMsg struct {
	kind  hardwareMsgKind
	key   uint8
	edge  input.Edge
	state input.KeyState
}

type hardwareMsgKind uint8

const (
	msgExecuteInstruction hardwareMsgKind = iota
	msgUpdateKeyState
	msgHandleKeyEvent
	msgDecrementTimers
	msgFlushScreen
	msgUpdateDebugInfo
	msgRestart
)

// busCapacity is the hardware bus's channel capacity. The four clocks
// together produce about 720 messages a second at their nominal rates; 64
// slots leave enough slack that one missed schedule cannot deadlock the
// pipeline.
const busCapacity = 64

// Renderer is the read-only consumer of framebuffer and debug snapshots.
// Implemented by internal/render.Terminal; kept as an interface here so the
// scheduler doesn't depend on a concrete terminal library.
type Renderer interface {
	Render(pixels [ScreenSize]bool, debug DebugInfo, showDebug bool) error
}

// SoundHook is told on every timer tick whether the sound timer is nonzero.
// Implemented by internal/sound; kept as an interface so the scheduler
// doesn't depend on a concrete audio backend. A nil hook is a valid no-op.
type SoundHook interface {
	SetBuzzing(on bool)
}

// Scheduler is the conductor: it owns no hardware state itself, only the
// four periodic producers, the input pump, and the single Hardware
// consumer's message bus.
type Scheduler struct {
	hw       *Hardware
	renderer Renderer
	pump     *input.Pump
	sound    SoundHook
	debug    bool

	// mode is owned by the CPU-clock goroutine and read by the hardware
	// consumer; atomic since it crosses goroutines.
	mode atomic.Int32
}

// NewScheduler wires a Hardware actor to a Renderer and an input Pump.
// Start state follows spec §4.F: debug mode starts Paused, else Running.
func NewScheduler(hw *Hardware, renderer Renderer, pump *input.Pump, debug bool) *Scheduler {
	s := &Scheduler{hw: hw, renderer: renderer, pump: pump, debug: debug}
	mode := Running
	if debug {
		mode = Paused
	}
	s.mode.Store(int32(mode))
	return s
}

// WithSoundHook attaches an audio backend, told on every timer tick whether
// the sound timer is nonzero. Returns the scheduler for chaining.
func (s *Scheduler) WithSoundHook(hook SoundHook) *Scheduler {
	s.sound = hook
	return s
}

func (s *Scheduler) getMode() PlaybackMode { return PlaybackMode(s.mode.Load()) }
func (s *Scheduler) setMode(m PlaybackMode) { s.mode.Store(int32(m)) }

// Run starts the four clocks, the input router, and the Hardware consumer,
// and blocks until Shutdown fires (Esc), ctx is cancelled, or the Hardware
// consumer stops with an error; it then cancels the remaining goroutines
// and returns that error, if any. A panic in the Hardware consumer is
// recovered and returned as an error.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := make(chan hardwareMsg, busCapacity)
	pumpOut := make(chan input.Batch, busCapacity)
	stepRequested := make(chan struct{}, 1)
	toggle := make(chan struct{}, 1)

	var faultErr error
	faultCh := make(chan error, 1)

	go s.pump.Run(ctx, time.Second/time.Duration(InputPollHz), pumpOut)
	go tick(ctx, time.Second/time.Duration(TimerHz), func() { send(ctx, bus, hardwareMsg{kind: msgDecrementTimers}) })
	go tick(ctx, time.Second/time.Duration(ScreenHz), func() {
		if s.debug {
			send(ctx, bus, hardwareMsg{kind: msgUpdateDebugInfo})
		}
		send(ctx, bus, hardwareMsg{kind: msgFlushScreen})
	})
	go s.runCPUClock(ctx, bus, stepRequested, toggle)
	go s.runInputRouter(ctx, pumpOut, bus, stepRequested, toggle, cancel)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				faultCh <- errors.Errorf("panic in hardware consumer: %v", r)
			}
		}()
		faultCh <- s.runHardwareConsumer(ctx, bus)
	}()

	select {
	case <-ctx.Done():
	case faultErr = <-faultCh:
		cancel()
	}
	return faultErr
}

// runCPUClock fires ExecuteInstruction at CPUHz while Running, or exactly
// once per pending Step while Stepping, matching spec §4.F's playback FSM.
func (s *Scheduler) runCPUClock(ctx context.Context, bus chan<- hardwareMsg, stepRequested, toggle <-chan struct{}) {
	ticker := time.NewTicker(time.Second / CPUHz)
	defer ticker.Stop()

	pendingStep := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-toggle:
			switch s.getMode() {
			case Running:
				s.setMode(Paused)
			case Paused:
				s.setMode(Running)
			case Stepping:
				s.setMode(Paused)
			}
		case <-stepRequested:
			pendingStep = true
			s.setMode(Stepping)
		case <-ticker.C:
			if s.getMode() == Running || pendingStep {
				if !send(ctx, bus, hardwareMsg{kind: msgExecuteInstruction}) {
					return
				}
			}
			if pendingStep {
				s.setMode(Paused)
				pendingStep = false
			}
		}
	}
}

// runInputRouter drains input-pump batches, forwards key state/edges to the
// hardware bus, and translates playback commands into clock/shutdown
// signals.
func (s *Scheduler) runInputRouter(
	ctx context.Context,
	pumpOut <-chan input.Batch,
	bus chan<- hardwareMsg,
	stepRequested, toggle chan<- struct{},
	shutdown context.CancelFunc,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-pumpOut:
			if !ok {
				return
			}
			if len(batch.Events) > 0 {
				if !send(ctx, bus, hardwareMsg{kind: msgUpdateKeyState, state: batch.State}) {
					return
				}
			}
			for _, ev := range batch.Events {
				if !send(ctx, bus, hardwareMsg{kind: msgHandleKeyEvent, key: ev.Key, edge: ev.Edge}) {
					return
				}
			}
			for _, cmd := range batch.Commands {
				switch cmd {
				case input.CommandQuit:
					shutdown()
					return
				case input.CommandTogglePausePlay:
					nonBlockingSend(toggle)
				case input.CommandStep:
					nonBlockingSend(stepRequested)
				case input.CommandRestart:
					if !send(ctx, bus, hardwareMsg{kind: msgRestart}) {
						return
					}
				}
			}
		}
	}
}

// runHardwareConsumer is the single-consumer loop over the hardware bus —
// the only goroutine that ever touches hw's CPU/Screen/keypad state.
func (s *Scheduler) runHardwareConsumer(ctx context.Context, bus <-chan hardwareMsg) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-bus:
			if !ok {
				return nil
			}
			switch msg.kind {
			case msgExecuteInstruction:
				if err := s.hw.ExecuteInstruction(); err != nil {
					return err
				}
			case msgUpdateKeyState:
				s.hw.SetKeyState(msg.state)
			case msgHandleKeyEvent:
				s.hw.HandleKeyEdge(msg.key, msg.edge)
			case msgDecrementTimers:
				s.hw.CPU.DecrementTimers()
				if s.sound != nil {
					s.sound.SetBuzzing(s.hw.CPU.Sound() > 0)
				}
			case msgFlushScreen:
				if err := s.renderer.Render(s.hw.Screen.Snapshot(), s.hw.DebugSnapshot(), s.debug); err != nil {
					return err
				}
			case msgUpdateDebugInfo:
				s.hw.UpdateDebugInfo(s.getMode())
			case msgRestart:
				if err := s.hw.Restart(); err != nil {
					return err
				}
			}
		}
	}
}

func tick(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

func send(ctx context.Context, bus chan<- hardwareMsg, msg hardwareMsg) bool {
	select {
	case bus <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func nonBlockingSend(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
