// Package chip8 implements the CHIP-8 interpreter core: the memory model,
// decoder, CPU, framebuffer, hardware execution, and the multi-rate
// scheduler that drives it. See SPEC_FULL.md for the full design.
package chip8

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/bradford-hamilton/chip8term/internal/input"
)

// MaxROMSize is the largest ROM this interpreter can load: the program
// space runs from the entry point to the top of memory.
const MaxROMSize = memorySize - entryPoint

// VM wires a Hardware actor to a Renderer and input Pump via a Scheduler.
// It is the top-level entry point cmd/ uses.
type VM struct {
	hw        *Hardware
	scheduler *Scheduler
}

// New constructs a VM for the given config, renderer, and input pump. The
// renderer and pump are supplied by the caller (cmd/run.go) since they
// depend on the concrete terminal library, which this package never
// imports directly.
func New(config Config, renderer Renderer, pump *input.Pump) *VM {
	hw := NewHardware(config)
	return &VM{
		hw:        hw,
		scheduler: NewScheduler(hw, renderer, pump, config.Debug),
	}
}

// WithSoundHook attaches an audio backend to the VM's scheduler. Optional;
// a VM with no sound hook attached runs silently.
func (vm *VM) WithSoundHook(hook SoundHook) *VM {
	vm.scheduler.WithSoundHook(hook)
	return vm
}

// LoadROM validates size and installs the ROM bytes plus the built-in font.
func (vm *VM) LoadROM(bytes []byte) error {
	if len(bytes) > MaxROMSize {
		return errors.Errorf("rom is %d bytes, exceeds the %d-byte program space", len(bytes), MaxROMSize)
	}
	return vm.hw.LoadROM(bytes)
}

// Run starts the scheduler and blocks until shutdown.
func (vm *VM) Run(ctx context.Context) error {
	return vm.scheduler.Run(ctx)
}

// DumpInst renders the ROM as a sequence of decoded instructions, one per
// two-byte chunk, in the format `--dump-inst` prints (spec §6.1).
func DumpInst(bytes []byte) []string {
	lines := make([]string, 0, len(bytes)/2)
	for i := 0; i+1 < len(bytes); i += 2 {
		raw := NewRawInstruction(bytes[i], bytes[i+1])
		inst := Decode(raw)
		addr := Address(entryPoint + i)
		lines = append(lines, fmt.Sprintf("%s: Code %s, %s", addr, raw, inst))
	}
	return lines
}
