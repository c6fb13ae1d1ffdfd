// Package xoodoo implements the Xoodoo[12] permutation over a 384-bit state.
//
// The state is twelve 32-bit little-endian words arranged as three planes of four lanes. Several kernels compute the
// same permutation: a portable scalar one, a plane-at-a-time one which holds each 128-bit plane in two 64-bit
// registers, and on amd64 an SSSE3 one which holds each plane in a single XMM register. The fastest available kernel
// is chosen once at startup.
//
// [Xoodoo]: https://keccak.team/xoodoo.html
package xoodoo

import "fmt"

// Width is the size of the permutation's state, in bytes.
const Width = 48

// State is a Xoodoo state in its little-endian byte representation.
type State [Width]byte

// Permute applies Xoodoo[12] to the state.
func (s *State) Permute() {
	permute((*[Width]byte)(s))
}

// AddByte XORs b into the state at the given offset.
func (s *State) AddByte(b byte, offset int) {
	s[offset] ^= b
}

// AddBytes XORs b into the state, starting at offset 0. It panics if b is longer than Width.
func (s *State) AddBytes(b []byte) {
	if len(b) > Width {
		panic(fmt.Sprintf("xoodoo: %d bytes exceeds state width", len(b)))
	}
	for i, v := range b {
		s[i] ^= v
	}
}

// ExtractBytes copies len(out) bytes of the state, starting at offset, into out.
func (s *State) ExtractBytes(out []byte, offset int) {
	copy(out, s[offset:offset+len(out)])
}

// Clear zeroes the state.
func (s *State) Clear() {
	clear(s[:])
}

// Permute applies Xoodoo[12] to the given state using the selected kernel.
func Permute(state *[Width]byte) {
	permute(state)
}

// Kernel returns the name of the permutation kernel selected for this process.
func Kernel() string {
	return kernel
}

// roundConstants are the iota constants for the twelve rounds of Xoodoo[12], in order.
var roundConstants = [12]uint32{ //nolint:gochecknoglobals // these are constants
	0x058, 0x038, 0x3c0, 0x0d0,
	0x120, 0x014, 0x060, 0x02c,
	0x380, 0x0f0, 0x1a0, 0x012,
}

//nolint:gochecknoglobals // selected once at init
var (
	permute = permuteGeneric
	kernel  = "generic"
)
