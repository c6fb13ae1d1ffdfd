package xoodoo

import "encoding/binary"

// plane holds the four 32-bit lanes of a plane in two 64-bit halves: lo = x1<<32 | x0, hi = x3<<32 | x2. This is the
// little-endian layout of the plane's 16 bytes, so loads and stores need no reordering on any host.
type plane struct {
	lo, hi uint64
}

// permutePlanes computes Xoodoo[12] a whole plane at a time, mirroring the data flow of a 128-bit vector kernel with
// 64-bit scalar operations.
func permutePlanes(state *[Width]byte) {
	a := plane{binary.LittleEndian.Uint64(state[0:]), binary.LittleEndian.Uint64(state[8:])}
	b := plane{binary.LittleEndian.Uint64(state[16:]), binary.LittleEndian.Uint64(state[24:])}
	c := plane{binary.LittleEndian.Uint64(state[32:]), binary.LittleEndian.Uint64(state[40:])}

	for _, rc := range roundConstants {
		// Theta
		p := a.xor(b).xor(c).shift()
		e := p.rotl(5).xor(p.rotl(14))
		a, b, c = a.xor(e), b.xor(e), c.xor(e)

		// Rho-west
		b = b.shift()
		c = c.rotl(11)

		// Iota
		a.lo ^= uint64(rc)

		// Chi
		a, b, c = a.xor(c.andNot(b)), b.xor(a.andNot(c)), c.xor(b.andNot(a))

		// Rho-east
		b = b.rotl(1)
		c = plane{c.hi, c.lo}.rotl(8)
	}

	binary.LittleEndian.PutUint64(state[0:], a.lo)
	binary.LittleEndian.PutUint64(state[8:], a.hi)
	binary.LittleEndian.PutUint64(state[16:], b.lo)
	binary.LittleEndian.PutUint64(state[24:], b.hi)
	binary.LittleEndian.PutUint64(state[32:], c.lo)
	binary.LittleEndian.PutUint64(state[40:], c.hi)
}

func (x plane) xor(y plane) plane {
	return plane{x.lo ^ y.lo, x.hi ^ y.hi}
}

// andNot returns x &^ y, lane by lane.
func (x plane) andNot(y plane) plane {
	return plane{x.lo &^ y.lo, x.hi &^ y.hi}
}

// shift moves every lane one position east, so lane i receives lane i-1 (mod 4).
func (x plane) shift() plane {
	return plane{x.lo<<32 | x.hi>>32, x.hi<<32 | x.lo>>32}
}

// rotl rotates each 32-bit lane left by r bits, 0 < r < 32.
func (x plane) rotl(r uint) plane {
	m := uint64(uint32(0xffffffff)<<r) * 0x0000000100000001
	return plane{
		x.lo<<r&m | x.lo>>(32-r)&^m,
		x.hi<<r&m | x.hi>>(32-r)&^m,
	}
}
