// Package xoodyak implements [Xoodyak], the Cyclist duplex-sponge mode instantiated with the [Xoodoo] permutation, for
// hashing, keyed pseudorandom output, stream encryption, and authenticated encryption with associated data.
//
// Two engines share a single duplex implementation: Hash, which takes no key, and Keyed, which is initialized with a
// key and optionally a key ID, a nonce, and a counter. Any holds either one, for call sites that must accept both.
//
// Every engine keeps a 48-byte state which evolves with each call; the outputs of an operation depend on every
// operation which preceded it. Engines are not safe for concurrent use. Clone forks an independent copy.
//
// Nothing zeroes an engine's state or a Tag automatically. Callers holding secrets should defer Clear on every engine
// they create or clone, and on every Tag they receive:
//
//	k, err := xoodyak.NewKeyed(key, nil, nil, nil)
//	if err != nil {
//		return err
//	}
//	defer k.Clear()
//
// # Authenticated encryption
//
// The AEAD operations take the nonce and associated data on every call: they absorb the nonce, absorb the associated
// data, encrypt the message, and squeeze a TagSize-byte tag. Absorbing a nonce at construction time and the associated
// data with a prior Absorb call is also a valid construction, but it is a different one and produces different
// ciphertexts and tags for the same inputs.
//
// [Xoodyak]: https://keccak.team/xoodyak.html
// [Xoodoo]: https://keccak.team/xoodoo.html
package xoodyak

import (
	"errors"
	"fmt"
)

// TagSize is the size of an authentication tag, in bytes.
const TagSize = 16

// MaxKeySize is the maximum combined size of a key, key ID, and nonce, plus one byte for the key ID's length.
const MaxKeySize = keyedAbsorbRate

var (
	// ErrInvalidKeyLength is returned when a key is empty or when a key, key ID, and nonce do not fit in a single
	// keyed block.
	ErrInvalidKeyLength = errors.New("xoodyak: invalid key length")

	// ErrKeyRequired is returned when a keyed operation is performed on an unkeyed instance.
	ErrKeyRequired = errors.New("xoodyak: operation requires a keyed instance")

	// ErrInvalidLength is returned when an output buffer is too short or a ciphertext is shorter than a tag.
	ErrInvalidLength = errors.New("xoodyak: invalid buffer length")

	// ErrTagMismatch is returned when a ciphertext fails authentication.
	ErrTagMismatch = errors.New("xoodyak: authentication tag mismatch")

	// ErrInvalidState is returned when unmarshaling an invalid state encoding, or when converting an Any to a Hash
	// while it is in keyed mode.
	ErrInvalidState = errors.New("xoodyak: invalid state")
)

// Mode is the mode of a Xoodyak instance. It is fixed at construction.
type Mode uint8

const (
	// ModeHash is the unkeyed mode.
	ModeHash Mode = iota
	// ModeKeyed is the keyed mode.
	ModeKeyed
)

func (m Mode) String() string {
	switch m {
	case ModeHash:
		return "hash"
	case ModeKeyed:
		return "keyed"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

const (
	hashAbsorbRate   = 16
	hashSqueezeRate  = 16
	keyedAbsorbRate  = 44
	keyedSqueezeRate = 24
	ratchetRate      = 16
)

// Domain separation bytes. Absorb-side (down) values are written to the last byte of the state after input; in hash
// mode only their low bit is used. Squeeze-side (up) values are written before the permutation in keyed mode only.
const (
	cdNone      = 0x00
	cdAbsorbKey = 0x02
	cdAbsorb    = 0x03

	cuNone       = 0x00
	cuRatchet    = 0x10
	cuSqueezeKey = 0x20
	cuSqueeze    = 0x40
	cuCrypt      = 0x80
)
