// Package digest provides hash.Hash implementations of Xoodyak's hash and keyed modes.
//
// Writes are buffered so that the digest of a sequence of writes is the same as that of a single xoodyak.Hash (or
// xoodyak.Keyed) instance which absorbed their concatenation in one Absorb call and then squeezed UnkeyedSize (or
// KeyedSize) bytes.
package digest

import (
	"hash"

	"github.com/codahale/xoodyak"
)

const (
	// UnkeyedSize is the size, in bytes, of an unkeyed digest.
	UnkeyedSize = 32

	// KeyedSize is the size, in bytes, of a keyed digest.
	KeyedSize = 16
)

// New returns a new hash.Hash instance which uses an unkeyed Xoodyak instance.
func New() hash.Hash {
	return newDigest(xoodyak.NewHash().Any(), UnkeyedSize, 16)
}

// NewKeyed returns a new hash.Hash instance which uses a Xoodyak instance keyed with the given key. It returns
// xoodyak.ErrInvalidKeyLength if the key is empty or too long.
func NewKeyed(key []byte) (hash.Hash, error) {
	k, err := xoodyak.NewKeyed(key, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	defer k.Clear()
	return newDigest(k.Any(), KeyedSize, 44), nil
}

func newDigest(base *xoodyak.Any, size, blockSize int) *digest {
	d := &digest{ //nolint:exhaustruct // initialized via Reset
		base: base,
		buf:  make([]byte, 0, blockSize),
		size: size,
	}
	d.Reset()
	return d
}

type digest struct {
	base, x *xoodyak.Any
	buf     []byte
	started bool
	size    int
}

func (d *digest) Write(p []byte) (n int, err error) {
	n = len(p)
	for len(p) > 0 {
		// A full block is only absorbed once more input arrives, since the final block is absorbed by Sum.
		if len(d.buf) == cap(d.buf) {
			d.flush()
		}

		c := min(len(p), cap(d.buf)-len(d.buf))
		d.buf = append(d.buf, p[:c]...)
		p = p[c:]
	}
	return n, nil
}

func (d *digest) Sum(b []byte) []byte {
	x := d.x.Clone()
	defer x.Clear()

	if d.started {
		x.AbsorbMore(d.buf)
	} else {
		x.Absorb(d.buf)
	}

	out := make([]byte, d.size)
	x.Squeeze(out)
	return append(b, out...)
}

func (d *digest) Reset() {
	if d.x != nil {
		d.x.Clear()
	}
	d.x = d.base.Clone()
	clear(d.buf[:cap(d.buf)])
	d.buf = d.buf[:0]
	d.started = false
}

func (d *digest) Size() int {
	return d.size
}

func (d *digest) BlockSize() int {
	return cap(d.buf)
}

func (d *digest) flush() {
	if d.started {
		d.x.AbsorbMore(d.buf)
	} else {
		d.x.Absorb(d.buf)
		d.started = true
	}
	d.buf = d.buf[:0]
}

var _ hash.Hash = (*digest)(nil)
