package chip8

const (
	memorySize     = 4096
	registerCount  = 16
	instructionLen = 2
	stackCap       = 16
	entryPoint     = 0x200
)

// CPU holds the entire numeric state of a CHIP-8 machine: memory, general
// registers, the program counter, the index register, the call stack, the
// two 60Hz timers, and the key-wait latch. It is owned exclusively by the
// Hardware actor (see hardware.go); every method here is total except
// PopStack (Fault on underflow), PushStack (Fault on overflow), and
// StoreSlice (Fault when the store runs past the end of memory).
type CPU struct {
	memory  [memorySize]byte
	v       [registerCount]byte
	pc      uint16
	index   uint16
	stack   []uint16
	delay   byte
	sound   byte
	waiting bool
	waitReg Register
}

// NewCPU returns a zeroed CPU with PC at the ROM entry point.
func NewCPU() *CPU {
	return &CPU{pc: entryPoint}
}

// Reset zeroes all CPU state back to its just-constructed values, for use by
// `restart`.
func (c *CPU) Reset() {
	*c = CPU{pc: entryPoint}
}

func (c *CPU) Register(r Register) byte       { return c.v[r] }
func (c *CPU) SetRegister(r Register, v byte) { c.v[r] = v }

// VF returns the current value of the flag register.
func (c *CPU) VF() byte { return c.v[0xF] }

// SetVF writes the flag register. Writes to VF always happen after the
// destination-register write in the 8XY* handlers (hardware.go), so a flag
// write to VF wins over a stale arithmetic result.
func (c *CPU) SetVF(v byte) { c.v[0xF] = v }

// AllRegisters returns a snapshot of V0..VF for debug display.
func (c *CPU) AllRegisters() [16]byte { return c.v }

func (c *CPU) PC() uint16 { return c.pc }

// JumpTo sets PC, silently masking the target to 12 bits rather than
// surfacing a fault for an out-of-range address. This is a deliberate
// divergence from the original's validated Address::new, which rejects an
// out-of-range JUMP_OFFSET target outright. JUMP and CALL targets are
// 12-bit already, so the mask only changes targets that pass 0xFFF: a
// JUMP_OFFSET sum of NNN and a register, or a RETURN to an address pushed
// by a CALL at the top of memory.
func (c *CPU) JumpTo(a uint16) { c.pc = a & 0x0FFF }

func (c *CPU) IncrementPC() { c.pc += instructionLen }

func (c *CPU) Index() uint16      { return c.index }
func (c *CPU) SetIndex(v uint16)  { c.index = v }
func (c *CPU) AddIndex(v uint16)  { c.index += v }

func (c *CPU) Delay() byte     { return c.delay }
func (c *CPU) SetDelay(v byte) { c.delay = v }
func (c *CPU) Sound() byte     { return c.sound }
func (c *CPU) SetSound(v byte) { c.sound = v }

// DecrementTimers ticks both 60Hz timers down, floored at zero.
func (c *CPU) DecrementTimers() {
	if c.delay > 0 {
		c.delay--
	}
	if c.sound > 0 {
		c.sound--
	}
}

// ReadByte loads a single byte, masking the address to 12 bits.
func (c *CPU) ReadByte(addr uint16) byte {
	return c.memory[addr&0x0FFF]
}

// WriteByte stores a single byte, masking the address to 12 bits.
func (c *CPU) WriteByte(addr uint16, v byte) {
	c.memory[addr&0x0FFF] = v
}

// StoreSlice copies bytes into memory starting at start. It fails if the
// slice would run past the end of memory.
func (c *CPU) StoreSlice(start int, bytes []byte) error {
	end := start + len(bytes)
	if end > memorySize {
		return newFault(FaultMemoryOverflow, "store of %d bytes at %#x exceeds %d-byte memory", len(bytes), start, memorySize)
	}
	copy(c.memory[start:end], bytes)
	return nil
}

// FetchInstruction assembles the raw opcode at the current PC.
func (c *CPU) FetchInstruction() RawInstruction {
	return NewRawInstruction(c.memory[c.pc&0x0FFF], c.memory[(c.pc+1)&0x0FFF])
}

// PushStack records a return address. Fails once the stack reaches its cap.
func (c *CPU) PushStack(addr uint16) error {
	if len(c.stack) >= stackCap {
		return newFault(FaultStackOverflow, "call stack exceeded depth %d", stackCap)
	}
	c.stack = append(c.stack, addr)
	return nil
}

// PopStack removes and returns the top return address. Fails on an empty
// stack, per spec: RETURN only executes when depth >= 1.
func (c *CPU) PopStack() (uint16, error) {
	if len(c.stack) == 0 {
		return 0, newFault(FaultStackUnderflow, "RETURN with an empty call stack")
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return top, nil
}

// StackDepth reports the current number of pushed return addresses.
func (c *CPU) StackDepth() int { return len(c.stack) }

// IsWaitingForKey reports whether GET_KEY has armed the key-wait latch.
func (c *CPU) IsWaitingForKey() bool { return c.waiting }

// StartWaitingForKey arms the latch, targeting reg.
func (c *CPU) StartWaitingForKey(reg Register) {
	c.waiting = true
	c.waitReg = reg
}

// StopWaitingForKey disarms the latch and reports the target register, if
// one was armed.
func (c *CPU) StopWaitingForKey() (Register, bool) {
	if !c.waiting {
		return 0, false
	}
	c.waiting = false
	return c.waitReg, true
}

// LoadRegisters fills V0..Vx (inclusive) from memory starting at I.
func (c *CPU) LoadRegisters(x Register) {
	for i := Register(0); i <= x; i++ {
		c.v[i] = c.ReadByte(c.index + uint16(i))
	}
}

// StoreRegisters writes V0..Vx (inclusive) to memory starting at I.
func (c *CPU) StoreRegisters(x Register) {
	for i := Register(0); i <= x; i++ {
		c.WriteByte(c.index+uint16(i), c.v[i])
	}
}

// LoadRegistersCosmac is the COSMAC-quirked LOAD: I advances past the block.
func (c *CPU) LoadRegistersCosmac(x Register) {
	c.LoadRegisters(x)
	c.index += uint16(x) + 1
}

// StoreRegistersCosmac is the COSMAC-quirked STORE: I advances past the block.
func (c *CPU) StoreRegistersCosmac(x Register) {
	c.StoreRegisters(x)
	c.index += uint16(x) + 1
}

// BinaryDecimalConv writes the three decimal digits of Vx to M[I..I+2].
func (c *CPU) BinaryDecimalConv(x Register) {
	value := c.v[x]
	c.WriteByte(c.index, value/100)
	c.WriteByte(c.index+1, (value/10)%10)
	c.WriteByte(c.index+2, value%10)
}
