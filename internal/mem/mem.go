// Package mem provides byte slice helpers shared by the Xoodyak engines and the packages built on them.
package mem

import (
	"crypto/subtle"
	"slices"
)

// XOR sets dst[i] = a[i] ^ b[i] for i < len(dst). Duplex blocks are at most 48 bytes, so short inputs use a scalar
// loop; longer ones use subtle.XORBytes. It panics if a or b is shorter than dst.
func XOR(dst, a, b []byte) {
	if len(dst) > 48 {
		subtle.XORBytes(dst, a[:len(dst)], b[:len(dst)])
		return
	}
	_, _ = a[:len(dst)], b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// SliceForAppend takes a slice and a requested number of bytes. It returns a slice with the contents of the given slice
// followed by that many bytes and a second slice that aliases into it and contains only the extra bytes. If the
// original slice has sufficient capacity, then no allocation is performed.
func SliceForAppend(in []byte, n int) (head, tail []byte) {
	head = slices.Grow(in, n)
	head = head[:len(in)+n]
	tail = head[len(in):]
	return head, tail
}
