package chip8

import "fmt"

// Variant selects which historical interpreter's quirks govern the six
// variant-dependent opcodes (SHR, SHL, JUMP_OFFSET, LOAD, STORE, GET_KEY).
type Variant uint8

const (
	Cosmac Variant = iota
	Chip48
	SuperChip
)

func (v Variant) String() string {
	switch v {
	case Cosmac:
		return "cosmac"
	case Chip48:
		return "chip48"
	case SuperChip:
		return "superchip"
	default:
		return "unknown"
	}
}

// ParseVariant accepts the --version flag values from the CLI.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "cosmac":
		return Cosmac, nil
	case "chip48":
		return Chip48, nil
	case "superchip":
		return SuperChip, nil
	default:
		return 0, fmt.Errorf("unknown chip-8 version %q: want cosmac, chip48, or superchip", s)
	}
}

// Config is the immutable configuration for a single run.
type Config struct {
	Variant Variant
	Debug   bool
	// AddIOverflowSetsVF toggles the disabled-by-default behavior some
	// ROMs (e.g. "Amiga Spaceflight 2091") rely on: ADD_I setting VF when
	// I overflows past 0xFFF. See spec Open Questions.
	AddIOverflowSetsVF bool
}

const (
	// CPUHz is the nominal fetch/decode/execute rate.
	CPUHz = 500
	// TimerHz is the rate at which delay/sound tick down.
	TimerHz = 60
	// ScreenHz is the rate at which the renderer is asked to flush.
	ScreenHz = 60
	// InputPollHz is the rate the input pump polls the terminal event
	// source.
	InputPollHz = 100
)
