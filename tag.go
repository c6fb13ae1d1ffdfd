package xoodyak

import (
	"crypto/subtle"
	"encoding/hex"
)

// A Tag is a TagSize-byte authentication tag.
//
// Tags must be compared with Equal or Verify, which run in constant time; the == operator is deliberately unavailable.
// Call Clear once a tag is no longer needed.
type Tag struct {
	_ [0]func() // not comparable
	b [TagSize]byte
}

// TagFromArray returns a Tag holding a copy of b.
func TagFromArray(b [TagSize]byte) Tag {
	return Tag{b: b}
}

// TagFromBytes returns a Tag holding a copy of b, or ErrInvalidLength if b is not TagSize bytes long.
func TagFromBytes(b []byte) (Tag, error) {
	if len(b) != TagSize {
		return Tag{}, ErrInvalidLength
	}
	return Tag{b: [TagSize]byte(b)}, nil
}

// Bytes returns the tag's contents. The returned slice aliases the tag and is zeroed by Clear.
func (t *Tag) Bytes() []byte {
	return t.b[:]
}

// Array returns a copy of the tag's contents.
func (t *Tag) Array() [TagSize]byte {
	return t.b
}

// Equal reports whether t and u are equal in constant time.
func (t *Tag) Equal(u *Tag) bool {
	var acc byte
	for i := range t.b {
		acc |= t.b[i] ^ u.b[i]
	}
	return subtle.ConstantTimeByteEq(acc, 0) == 1
}

// Verify compares the tag against b in constant time, returning ErrTagMismatch if they differ.
func (t *Tag) Verify(b []byte) error {
	u, err := TagFromBytes(b)
	if err != nil {
		return ErrTagMismatch
	}
	defer u.Clear()

	if !t.Equal(&u) {
		return ErrTagMismatch
	}
	return nil
}

// Clear zeroes the tag.
func (t *Tag) Clear() {
	clear(t.b[:])
}

// String returns the tag in hexadecimal.
func (t *Tag) String() string {
	return hex.EncodeToString(t.b[:])
}
