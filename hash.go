package xoodyak

import "encoding"

// A Hash is an unkeyed Xoodyak instance, suitable for hashing and extendable output.
//
// Hash instances are not concurrent-safe.
type Hash struct {
	d duplex
}

// NewHash returns a new Hash instance with an all-zero state.
func NewHash() *Hash {
	return &Hash{d: newHashDuplex()}
}

// Mode returns ModeHash.
func (h *Hash) Mode() Mode {
	return ModeHash
}

// Absorb absorbs data into the state. Absorbing an empty slice still updates the state.
func (h *Hash) Absorb(data []byte) {
	h.d.absorb(data)
}

// AbsorbMore continues the previous Absorb without a new domain marker. If the data absorbed so far is a multiple of
// 16 bytes long, the result is the same as a single Absorb of the concatenated inputs.
func (h *Hash) AbsorbMore(data []byte) {
	h.d.absorbMore(data, h.d.absorbRate)
}

// Squeeze fills out with pseudorandom output derived from the state.
func (h *Hash) Squeeze(out []byte) {
	h.d.squeeze(out)
}

// SqueezeKey fills out with output suitable for use as a key, domain-separated from Squeeze.
func (h *Hash) SqueezeKey(out []byte) {
	h.d.squeezeKey(out)
}

// SqueezeMore continues the previous squeeze, filling out with the output which would have followed it.
func (h *Hash) SqueezeMore(out []byte) {
	h.d.squeezeMore(out)
}

// Clone returns an independent copy of the instance.
func (h *Hash) Clone() *Hash {
	c := *h
	return &c
}

// Clear zeroes the instance's state. A cleared instance behaves as though it had just been created by NewHash.
func (h *Hash) Clear() {
	h.d.clear()
}

// Any returns a copy of the instance as an Any.
func (h *Hash) Any() *Any {
	return &Any{d: h.d}
}

// AppendBinary appends the binary representation of the instance's state to b. It implements
// encoding.BinaryAppender.
func (h *Hash) AppendBinary(b []byte) ([]byte, error) {
	return h.d.appendBinary(b), nil
}

// MarshalBinary returns the binary representation of the instance's state. It implements encoding.BinaryMarshaler.
func (h *Hash) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, stateSize))
}

// UnmarshalBinary restores the instance's state from data. It implements encoding.BinaryUnmarshaler.
func (h *Hash) UnmarshalBinary(data []byte) error {
	return h.d.unmarshalBinary(data, ModeHash)
}

var (
	_ encoding.BinaryAppender    = (*Hash)(nil)
	_ encoding.BinaryMarshaler   = (*Hash)(nil)
	_ encoding.BinaryUnmarshaler = (*Hash)(nil)
)
