package chip8

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCPU_RegistersAndPC(t *testing.T) {
	t.Parallel()

	cpu := NewCPU()
	require.Equal(t, uint16(entryPoint), cpu.PC())

	cpu.SetRegister(3, 0x42)
	require.Equal(t, byte(0x42), cpu.Register(3))

	cpu.IncrementPC()
	require.Equal(t, uint16(entryPoint+2), cpu.PC())

	cpu.JumpTo(0xFFFF)
	require.Equal(t, uint16(0x0FFF), cpu.PC(), "JumpTo masks to 12 bits")
}

func TestCPU_Stack(t *testing.T) {
	t.Parallel()

	t.Run("push then pop round-trips", func(t *testing.T) {
		cpu := NewCPU()
		require.NoError(t, cpu.PushStack(0x300))
		addr, err := cpu.PopStack()
		require.NoError(t, err)
		require.Equal(t, uint16(0x300), addr)
	})

	t.Run("pop on empty stack faults", func(t *testing.T) {
		cpu := NewCPU()
		_, err := cpu.PopStack()
		require.Error(t, err)
		var fault *Fault
		require.ErrorAs(t, err, &fault)
		require.Equal(t, FaultStackUnderflow, fault.Kind)
	})

	t.Run("pushing past depth 16 faults", func(t *testing.T) {
		cpu := NewCPU()
		for i := 0; i < stackCap; i++ {
			require.NoError(t, cpu.PushStack(uint16(0x200+i)))
		}
		err := cpu.PushStack(0x2FF)
		require.Error(t, err)
		var fault *Fault
		require.ErrorAs(t, err, &fault)
		require.Equal(t, FaultStackOverflow, fault.Kind)
	})
}

func TestCPU_KeyWaitLatch(t *testing.T) {
	t.Parallel()

	cpu := NewCPU()
	require.False(t, cpu.IsWaitingForKey())

	cpu.StartWaitingForKey(Register(5))
	require.True(t, cpu.IsWaitingForKey())

	reg, armed := cpu.StopWaitingForKey()
	require.True(t, armed)
	require.Equal(t, Register(5), reg)
	require.False(t, cpu.IsWaitingForKey())

	_, armed = cpu.StopWaitingForKey()
	require.False(t, armed, "stopping an unarmed latch reports not armed")
}

func TestCPU_LoadStoreRegisters(t *testing.T) {
	t.Parallel()

	t.Run("plain LOAD/STORE leave I untouched", func(t *testing.T) {
		cpu := NewCPU()
		cpu.SetIndex(0x300)
		cpu.SetRegister(0, 0x11)
		cpu.SetRegister(1, 0x22)
		cpu.SetRegister(2, 0x33)

		cpu.StoreRegisters(2)
		require.Equal(t, uint16(0x300), cpu.Index())

		cpu.SetRegister(0, 0)
		cpu.SetRegister(1, 0)
		cpu.SetRegister(2, 0)
		cpu.LoadRegisters(2)

		require.Equal(t, byte(0x11), cpu.Register(0))
		require.Equal(t, byte(0x22), cpu.Register(1))
		require.Equal(t, byte(0x33), cpu.Register(2))
		require.Equal(t, uint16(0x300), cpu.Index())
	})

	t.Run("COSMAC LOAD/STORE advance I past the block", func(t *testing.T) {
		cpu := NewCPU()
		cpu.SetIndex(0x300)
		cpu.StoreRegistersCosmac(2)
		require.Equal(t, uint16(0x303), cpu.Index())

		cpu.SetIndex(0x300)
		cpu.LoadRegistersCosmac(2)
		require.Equal(t, uint16(0x303), cpu.Index())
	})
}

// TestCPU_BinaryDecimalConv checks spec.md §8's BCD round-trip invariant for
// every possible byte value: the three stored digits recompose to x.
func TestCPU_BinaryDecimalConv(t *testing.T) {
	t.Parallel()

	cpu := NewCPU()
	cpu.SetIndex(0x300)

	for x := 0; x <= 0xFF; x++ {
		cpu.SetRegister(0, byte(x))
		cpu.BinaryDecimalConv(0)

		hundreds := cpu.ReadByte(0x300)
		tens := cpu.ReadByte(0x301)
		ones := cpu.ReadByte(0x302)

		require.Equal(t, byte(x/100), hundreds, "x=%d", x)
		require.Equal(t, byte((x/10)%10), tens, "x=%d", x)
		require.Equal(t, byte(x%10), ones, "x=%d", x)
		require.Equal(t, x, int(hundreds)*100+int(tens)*10+int(ones), "digits recompose to x=%d", x)
	}
}

func TestCPU_DecrementTimers(t *testing.T) {
	t.Parallel()

	cpu := NewCPU()
	cpu.SetDelay(1)
	cpu.SetSound(0)

	cpu.DecrementTimers()
	require.Equal(t, byte(0), cpu.Delay())
	require.Equal(t, byte(0), cpu.Sound())

	cpu.DecrementTimers()
	require.Equal(t, byte(0), cpu.Delay(), "timers floor at zero")
}

func TestCPU_FetchInstruction(t *testing.T) {
	t.Parallel()

	cpu := NewCPU()
	require.NoError(t, cpu.StoreSlice(entryPoint, []byte{0x12, 0x34}))
	raw := cpu.FetchInstruction()
	require.Equal(t, RawInstruction(0x1234), raw)
}

func TestCPU_StoreSliceOverflow(t *testing.T) {
	t.Parallel()

	cpu := NewCPU()
	err := cpu.StoreSlice(memorySize-1, []byte{0x01, 0x02})
	require.Error(t, err)
	var fault *Fault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, FaultMemoryOverflow, fault.Kind)
}
