package input

import "fmt"

// Layout is one of the three physical-to-hex keyboard mappings from the
// spec's keyboard table.
type Layout uint8

const (
	Qwerty Layout = iota
	Natural
	Sequential
)

func (l Layout) String() string {
	switch l {
	case Qwerty:
		return "qwerty"
	case Natural:
		return "natural"
	case Sequential:
		return "sequential"
	default:
		return "unknown"
	}
}

// ParseLayout accepts the --layout flag values from the CLI.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "qwerty":
		return Qwerty, nil
	case "natural":
		return Natural, nil
	case "sequential":
		return Sequential, nil
	default:
		return 0, fmt.Errorf("unknown keyboard layout %q: want qwerty, natural, or sequential", s)
	}
}

// mapping associates a lowercase physical key rune with a CHIP-8 key.
//
//	1 2 3 4    Qwerty: 1 2 3 C     Natural: 1 2 3 4     Sequential: 1 2 3 4
//	q w e r            4 5 6 D              5 6 7 8                 A B C D
//	a s d f            7 8 9 E              9 A B C                 (unmapped)
//	z x c v            A 0 B F              D E F 0                 (unmapped)
//	5 6 7 8 9 0            (unmapped)          (unmapped)          5 6 7 8 9 0
//	t y                    (unmapped)          (unmapped)          E F
var mappings = map[Layout]map[rune]uint8{
	Qwerty: {
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	},
	Natural: {
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0x4,
		'q': 0x5, 'w': 0x6, 'e': 0x7, 'r': 0x8,
		'a': 0x9, 's': 0xA, 'd': 0xB, 'f': 0xC,
		'z': 0xD, 'x': 0xE, 'c': 0xF, 'v': 0x0,
	},
	Sequential: {
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0x4, '5': 0x5,
		'6': 0x6, '7': 0x7, '8': 0x8, '9': 0x9, '0': 0x0,
		'q': 0xA, 'w': 0xB, 'e': 0xC, 'r': 0xD, 't': 0xE, 'y': 0xF,
	},
}

// Resolve maps a physical key rune to a CHIP-8 key under this layout.
func (l Layout) Resolve(r rune) (uint8, bool) {
	key, ok := mappings[l][r]
	return key, ok
}
