package xoodoo

import (
	"encoding/binary"
	"math/bits"
)

// permuteGeneric computes Xoodoo[12] one 32-bit word at a time.
func permuteGeneric(state *[Width]byte) {
	var s [12]uint32
	for i := range s {
		s[i] = binary.LittleEndian.Uint32(state[i*4:])
	}

	for _, rc := range roundConstants {
		roundGeneric(&s, rc)
	}

	for i, w := range s {
		binary.LittleEndian.PutUint32(state[i*4:], w)
	}
	clear(s[:])
}

func roundGeneric(s *[12]uint32, rc uint32) {
	// Theta: fold each lane into its column parity and mix in the parity of the column to the west.
	var e [4]uint32
	for i := range e {
		p := s[(i+3)&3] ^ s[(i+3)&3+4] ^ s[(i+3)&3+8]
		e[i] = bits.RotateLeft32(p, 5) ^ bits.RotateLeft32(p, 14)
	}

	// Theta, rho-west, and iota, fused. Plane 1 shifts one lane east and plane 2 rotates by 11.
	var t [12]uint32
	t[0] = s[0] ^ e[0] ^ rc
	t[1] = s[1] ^ e[1]
	t[2] = s[2] ^ e[2]
	t[3] = s[3] ^ e[3]
	t[4] = s[7] ^ e[3]
	t[5] = s[4] ^ e[0]
	t[6] = s[5] ^ e[1]
	t[7] = s[6] ^ e[2]
	for i := range 4 {
		t[i+8] = bits.RotateLeft32(s[i+8]^e[i], 11)
	}

	// Chi and rho-east. Plane 1 rotates by 1; plane 2 shifts two lanes and rotates by 8.
	for i := range 4 {
		a, b, c := t[i], t[i+4], t[i+8]
		s[i] = a ^ (^b & c)
		s[i+4] = bits.RotateLeft32(b^(^c&a), 1)
		s[(i+2)&3+8] = bits.RotateLeft32(c^(^a&b), 8)
	}
}
