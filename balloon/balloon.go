// Package balloon implements [balloon hashing], a memory-hard algorithm suitable for use with low-entropy secrets,
// like passwords, using Xoodyak's hash mode as the compression function.
//
// [balloon hashing]: https://eprint.iacr.org/2016/027.pdf
package balloon

import (
	"crypto/subtle"
	"encoding/binary"
	"sync"

	"github.com/codahale/xoodyak"
)

// Size is the size, in bytes, of a balloon hash.
const Size = 32

// Hash returns a Size-byte digest of the password using the given domain separation string, random salt, cost
// parameters, and parallelism. It panics if spaceCost or parallelism is zero.
func Hash(domain string, password, salt []byte, spaceCost, timeCost, parallelism uint32) []byte {
	if spaceCost == 0 || parallelism == 0 {
		panic("xoodyak/balloon: space cost and parallelism must be positive")
	}

	res := make([][Size]byte, parallelism)
	var wg sync.WaitGroup
	for p := range parallelism {
		wg.Go(func() {
			const delta = 3
			buf := make([][Size]byte, spaceCost)
			defer clear(buf)
			cnt := uint32(0)

			h := xoodyak.NewHash()
			defer h.Clear()
			h.Absorb([]byte(domain))
			h.Absorb(password)
			h.Absorb(salt)
			h.Absorb(binary.LittleEndian.AppendUint32(nil, spaceCost))
			h.Absorb(binary.LittleEndian.AppendUint32(nil, timeCost))
			h.Absorb(binary.LittleEndian.AppendUint32(nil, parallelism))
			h.Absorb(binary.LittleEndian.AppendUint32(nil, p))

			// Step 1. Expand input into the buffer.
			hash(h, &cnt, password, salt, buf[0][:])
			for m := range buf[1:] {
				hash(h, &cnt, buf[m][:], nil, buf[m+1][:])
			}

			// Step 2. Mix buffer contents.
			for t := range timeCost {
				for m := range spaceCost {
					// Step 2a. Hash last and current blocks.
					hash(h, &cnt, buf[(m+spaceCost-1)%spaceCost][:], buf[m][:], buf[m][:])

					// Step 2b. Hash in pseudorandomly chosen blocks.
					var b [4 + 4 + 4]byte
					for i := range delta {
						idxBlock := b[:0]
						idxBlock = binary.LittleEndian.AppendUint32(idxBlock, t)
						idxBlock = binary.LittleEndian.AppendUint32(idxBlock, m)
						idxBlock = binary.LittleEndian.AppendUint32(idxBlock, uint32(i)) //nolint:gosec // i < 3
						hash(h, &cnt, salt, idxBlock, idxBlock[:4])
						other := binary.LittleEndian.Uint32(idxBlock) % spaceCost
						hash(h, &cnt, buf[m][:], buf[other][:], buf[m][:])
					}
				}
			}

			// Step 3. Extract output from the buffer.
			res[p] = buf[spaceCost-1]
		})
	}
	wg.Wait()

	// XOR all the final output values together.
	for _, r := range res[1:] {
		subtle.XORBytes(res[0][:], res[0][:], r[:])
	}
	return res[0][:]
}

func hash(h *xoodyak.Hash, cnt *uint32, left, right, out []byte) {
	*cnt++
	x := h.Clone()
	defer x.Clear()

	x.Absorb(binary.LittleEndian.AppendUint32(nil, *cnt))
	x.Absorb(left)
	x.Absorb(right)
	x.Squeeze(out)
}
