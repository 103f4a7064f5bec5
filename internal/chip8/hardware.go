package chip8

import (
	"sync"

	"github.com/bradford-hamilton/chip8term/internal/input"
)

// DebugInfo is a read-only snapshot of machine state for the renderer's
// debug overlay. It is produced by Hardware on an UpdateDebugInfo message
// and never written by the renderer, so the two never race.
type DebugInfo struct {
	PC          uint16
	RawInst     RawInstruction
	Decoded     Instruction
	Index       uint16
	Delay       byte
	Sound       byte
	Registers   [16]byte
	KeyState    input.KeyState
	Playback    PlaybackMode
}

// Hardware is the sole writer of CPU, Screen, and keypad state (spec §5).
// It executes decoded instructions and answers debug snapshot requests; all
// access from other goroutines goes through the message bus in scheduler.go.
type Hardware struct {
	CPU    *CPU
	Screen *Screen

	config   Config
	keyState input.KeyState
	romRef   []byte

	debugMu sync.RWMutex
	debug   DebugInfo
}

// NewHardware constructs a Hardware actor for the given run configuration.
func NewHardware(config Config) *Hardware {
	return &Hardware{
		CPU:    NewCPU(),
		Screen: NewScreen(),
		config: config,
	}
}

// LoadROM installs the font set and the ROM bytes, then points PC at the
// entry point. bytes must not exceed the available program space.
func (h *Hardware) LoadROM(bytes []byte) error {
	if err := h.CPU.StoreSlice(int(FontStartAddr), Font[:]); err != nil {
		return err
	}
	if err := h.CPU.StoreSlice(entryPoint, bytes); err != nil {
		return err
	}
	h.CPU.JumpTo(entryPoint)
	h.romRef = bytes
	return nil
}

// Restart clears CPU, screen, and keypad state and reloads the font and the
// most recently loaded ROM.
func (h *Hardware) Restart() error {
	h.CPU.Reset()
	h.Screen.Clear()
	h.keyState = input.KeyState{}
	if h.romRef != nil {
		return h.LoadROM(h.romRef)
	}
	return nil
}

// SetKeyState replaces the full 16-key pressed snapshot, delivered by the
// input pump's UpdateKeyState message.
func (h *Hardware) SetKeyState(s input.KeyState) {
	h.keyState = s
}

// HandleKeyEdge offers one key edge to the armed key-wait latch. If the
// latch is armed and the edge matches the variant's expected edge (release
// for COSMAC, press otherwise), the key is deposited and PC advances.
// Mismatched edges leave the latch armed, per spec §4.F.
func (h *Hardware) HandleKeyEdge(key uint8, edge input.Edge) {
	reg, armed := h.CPU.StopWaitingForKey()
	if !armed {
		return
	}
	expected := input.Press
	if h.config.Variant == Cosmac {
		expected = input.Release
	}
	if edge != expected {
		h.CPU.StartWaitingForKey(reg)
		return
	}
	h.CPU.SetRegister(reg, key)
	h.CPU.IncrementPC()
}

// ExecuteInstruction fetches, decodes, and executes exactly one instruction,
// unless the key-wait latch is armed, in which case the tick is a no-op —
// this is how GET_KEY suspends the CPU clock without blocking any other
// clock (spec §4.F, §9).
func (h *Hardware) ExecuteInstruction() error {
	if h.CPU.IsWaitingForKey() {
		return nil
	}
	raw := h.CPU.FetchInstruction()
	return h.execute(Decode(raw))
}

// execute interprets one decoded instruction against CPU/Screen/keypad and
// advances PC by 2 unless the instruction itself redirected control flow
// (JUMP, JUMP_OFFSET, CALL, RETURN, or GET_KEY's suspension).
func (h *Hardware) execute(inst Instruction) error {
	switch inst.Op {
	case OpClearScreen:
		h.Screen.Clear()
	case OpReturn:
		addr, err := h.CPU.PopStack()
		if err != nil {
			return err
		}
		h.CPU.JumpTo(addr)
		return nil
	case OpJump:
		h.CPU.JumpTo(uint16(inst.Addr))
		return nil
	case OpJumpWithOffset:
		h.executeJumpWithOffset(inst.Addr)
		return nil
	case OpCallSubroutine:
		if err := h.CPU.PushStack(h.CPU.PC() + 2); err != nil {
			return err
		}
		h.CPU.JumpTo(uint16(inst.Addr))
		return nil
	case OpSkip:
		if inst.SkipIf.holds(h.CPU.Register(inst.Reg) == inst.Value) {
			h.CPU.IncrementPC()
		}
	case OpSkipReg:
		if inst.SkipIf.holds(h.CPU.Register(inst.Reg) == h.CPU.Register(inst.Reg2)) {
			h.CPU.IncrementPC()
		}
	case OpSkipKeyPress:
		pressed := h.keyState.Pressed(h.CPU.Register(inst.Reg) & 0x0F)
		if inst.SkipIf.holds(pressed) {
			h.CPU.IncrementPC()
		}
	case OpGetKey:
		h.CPU.StartWaitingForKey(inst.Reg)
		return nil
	case OpRegOp:
		h.executeRegOp(inst.RegOp, inst.Reg, inst.Reg2)
	case OpSetRegImmediate:
		h.CPU.SetRegister(inst.Reg, inst.Value)
	case OpAddRegImmediate:
		h.CPU.SetRegister(inst.Reg, h.CPU.Register(inst.Reg)+inst.Value)
	case OpRandom:
		h.CPU.SetRegister(inst.Reg, randomByte()&inst.Value)
	case OpStoreAddr:
		if h.config.Variant == Cosmac {
			h.CPU.StoreRegistersCosmac(inst.Reg)
		} else {
			h.CPU.StoreRegisters(inst.Reg)
		}
	case OpLoadAddr:
		if h.config.Variant == Cosmac {
			h.CPU.LoadRegistersCosmac(inst.Reg)
		} else {
			h.CPU.LoadRegisters(inst.Reg)
		}
	case OpSetSoundTimer:
		h.CPU.SetSound(h.CPU.Register(inst.Reg))
	case OpSetDelayTimer:
		h.CPU.SetDelay(h.CPU.Register(inst.Reg))
	case OpGetDelayTimer:
		h.CPU.SetRegister(inst.Reg, h.CPU.Delay())
	case OpSetIndex:
		h.CPU.SetIndex(uint16(inst.Addr))
	case OpAddIndex:
		h.executeAddIndex(inst.Reg)
	case OpBinaryDecimalConv:
		h.CPU.BinaryDecimalConv(inst.Reg)
	case OpDraw:
		h.executeDraw(inst.Reg, inst.Reg2, inst.Imm4)
	case OpSetFont:
		h.CPU.SetIndex(FontStartAddr + uint16(h.CPU.Register(inst.Reg)&0x0F)*BytesPerFont)
	case OpExecuteMachineLangRoutine:
		// Silent no-op: cannot be implemented in an interpreter.
	case OpInvalid:
		return newFault(FaultInvalidInstruction, "at PC %#06x", h.CPU.PC())
	}
	h.CPU.IncrementPC()
	return nil
}

func (h *Hardware) executeJumpWithOffset(addr Address) {
	if h.config.Variant == Cosmac {
		h.CPU.JumpTo(uint16(addr) + uint16(h.CPU.Register(0)))
		return
	}
	// CHIP-48/SUPER-CHIP quirk (BNNN): the high nibble of NNN selects the
	// offset register instead of always using V0.
	regIdx := Register(uint16(addr) >> 8 & 0xF)
	h.CPU.JumpTo(uint16(addr) + uint16(h.CPU.Register(regIdx)))
}

func (h *Hardware) executeAddIndex(reg Register) {
	next := h.CPU.Index() + uint16(h.CPU.Register(reg))
	if h.config.AddIOverflowSetsVF {
		if next > 0x0FFF {
			h.CPU.SetVF(1)
		} else {
			h.CPU.SetVF(0)
		}
	}
	h.CPU.SetIndex(next)
}

func (h *Hardware) executeRegOp(op RegOp, regx, regy Register) {
	vx, vy := h.CPU.Register(regx), h.CPU.Register(regy)
	switch op {
	case RegOpSet:
		h.CPU.SetRegister(regx, vy)
	case RegOpOr:
		h.CPU.SetRegister(regx, vx|vy)
	case RegOpAnd:
		h.CPU.SetRegister(regx, vx&vy)
	case RegOpXor:
		h.CPU.SetRegister(regx, vx^vy)
	case RegOpAdd:
		result := vx + vy
		h.CPU.SetRegister(regx, result)
		if vy > 0xFF-vx {
			h.CPU.SetVF(1)
		} else {
			h.CPU.SetVF(0)
		}
	case RegOpSub:
		h.CPU.SetRegister(regx, vx-vy)
		if vx > vy {
			h.CPU.SetVF(1)
		} else {
			h.CPU.SetVF(0)
		}
	case RegOpSubInv:
		h.CPU.SetRegister(regx, vy-vx)
		if vy > vx {
			h.CPU.SetVF(1)
		} else {
			h.CPU.SetVF(0)
		}
	case RegOpShiftRight:
		val := vx
		if h.config.Variant == Cosmac {
			h.CPU.SetRegister(regx, vy)
			val = vy
		}
		h.CPU.SetRegister(regx, val>>1)
		h.CPU.SetVF(val & 0x01)
	case RegOpShiftLeft:
		val := vx
		if h.config.Variant == Cosmac {
			h.CPU.SetRegister(regx, vy)
			val = vy
		}
		h.CPU.SetRegister(regx, val<<1)
		h.CPU.SetVF((val & 0x80) >> 7)
	}
}

// executeDraw blits an N-row sprite at M[I] to (Vx mod 64, Vy mod 32) using
// XOR. The starting coordinate wraps via the modulus; pixels that would
// fall past the right or bottom edge are clipped, not wrapped.
func (h *Hardware) executeDraw(regx, regy Register, rows Immediate4) {
	startX := h.CPU.Register(regx) % ScreenCols
	startY := h.CPU.Register(regy) % ScreenRows
	h.CPU.SetVF(0)
	index := h.CPU.Index()

	for row := uint8(0); row < uint8(rows); row++ {
		y := startY + row
		if y >= ScreenRows {
			break
		}
		spriteByte := h.CPU.ReadByte(index + uint16(row))
		for bit := uint8(0); bit < 8; bit++ {
			x := startX + bit
			if x >= ScreenCols {
				break
			}
			if spriteByte>>(7-bit)&1 == 0 {
				continue
			}
			if h.Screen.Pixel(x, y) {
				h.Screen.SetPixel(x, y, false)
				h.CPU.SetVF(1)
			} else {
				h.Screen.SetPixel(x, y, true)
			}
		}
	}
}

// UpdateDebugInfo refreshes the cached DebugInfo snapshot the renderer reads.
func (h *Hardware) UpdateDebugInfo(mode PlaybackMode) {
	raw := h.CPU.FetchInstruction()
	snapshot := DebugInfo{
		PC:        h.CPU.PC(),
		RawInst:   raw,
		Decoded:   Decode(raw),
		Index:     h.CPU.Index(),
		Delay:     h.CPU.Delay(),
		Sound:     h.CPU.Sound(),
		Registers: h.CPU.AllRegisters(),
		KeyState:  h.keyState,
		Playback:  mode,
	}
	h.debugMu.Lock()
	h.debug = snapshot
	h.debugMu.Unlock()
}

// DebugSnapshot returns the most recently published DebugInfo. Safe to call
// from the renderer goroutine.
func (h *Hardware) DebugSnapshot() DebugInfo {
	h.debugMu.RLock()
	defer h.debugMu.RUnlock()
	return h.debug
}
