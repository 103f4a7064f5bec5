package chip8

import "math/rand"

// randomByte backs the RAND instruction. CHIP-8 test ROMs don't depend on a
// particular seed, so the package-level source is sufficient.
func randomByte() byte {
	return byte(rand.Intn(256))
}
