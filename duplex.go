package xoodyak

import (
	"github.com/codahale/xoodyak/internal/mem"
	"github.com/codahale/xoodyak/internal/xoodoo"
)

// phase records whether the state was last produced by the permutation (up) or by an absorption (down).
type phase uint8

const (
	phaseUp phase = iota
	phaseDown
)

// duplex is the Cyclist state machine shared by every engine. Its mode and rates never change after construction.
type duplex struct {
	state       xoodoo.State
	phase       phase
	mode        Mode
	absorbRate  int
	squeezeRate int
}

func newHashDuplex() duplex {
	return duplex{
		state:       xoodoo.State{},
		phase:       phaseUp,
		mode:        ModeHash,
		absorbRate:  hashAbsorbRate,
		squeezeRate: hashSqueezeRate,
	}
}

func newKeyedDuplex(key, keyID, nonce, counter []byte) (duplex, error) {
	if len(key) == 0 || len(key)+1+len(keyID)+len(nonce) > keyedAbsorbRate {
		return duplex{}, ErrInvalidKeyLength
	}

	d := duplex{
		state:       xoodoo.State{},
		phase:       phaseUp,
		mode:        ModeKeyed,
		absorbRate:  keyedAbsorbRate,
		squeezeRate: keyedSqueezeRate,
	}

	var iv [keyedAbsorbRate]byte
	defer clear(iv[:])
	n := copy(iv[:], key)
	iv[n] = byte(len(keyID))
	n++
	n += copy(iv[n:], keyID)
	n += copy(iv[n:], nonce)
	d.absorbAny(iv[:n], keyedAbsorbRate, cdAbsorbKey)

	// Counters are absorbed one byte per block.
	if len(counter) > 0 {
		d.absorbAny(counter, 1, cdNone)
	}

	return d, nil
}

// up permutes the state and copies its first len(out) bytes to out.
func (d *duplex) up(out []byte, cu byte) {
	d.phase = phaseUp
	if d.mode != ModeHash {
		d.state.AddByte(cu, xoodoo.Width-1)
	}
	d.state.Permute()
	d.state.ExtractBytes(out, 0)
}

// down XORs in, a frame terminator, and the domain byte into the state.
func (d *duplex) down(in []byte, cd byte) {
	d.phase = phaseDown
	d.state.AddBytes(in)
	d.state.AddByte(0x01, len(in))
	if d.mode == ModeHash {
		cd &= 0x01
	}
	d.state.AddByte(cd, xoodoo.Width-1)
}

// absorbAny absorbs in as blocks of at most rate bytes. It always performs at least one down, so absorbing an empty
// slice still changes the state. Only the first block carries cd.
func (d *duplex) absorbAny(in []byte, rate int, cd byte) {
	for {
		n := min(len(in), rate)
		if d.phase != phaseUp {
			d.up(nil, cuNone)
		}
		d.down(in[:n], cd)
		cd = cdNone

		in = in[n:]
		if len(in) == 0 {
			return
		}
	}
}

// absorbMore continues a previous absorption with more blocks, without a new domain marker.
func (d *duplex) absorbMore(in []byte, rate int) {
	for len(in) > 0 {
		n := min(len(in), rate)
		d.up(nil, cuNone)
		d.down(in[:n], cdNone)
		in = in[n:]
	}
}

// squeezeAny fills out with blocks of at most squeezeRate bytes. Only the first block carries cu.
func (d *duplex) squeezeAny(out []byte, cu byte) {
	n := min(len(out), d.squeezeRate)
	d.up(out[:n], cu)
	d.squeezeMore(out[n:])
}

// squeezeMore continues a previous squeeze with more blocks, without a new domain marker.
func (d *duplex) squeezeMore(out []byte) {
	for len(out) > 0 {
		n := min(len(out), d.squeezeRate)
		d.down(nil, cdNone)
		d.up(out[:n], cuNone)
		out = out[n:]
	}
}

func (d *duplex) absorb(in []byte) {
	d.absorbAny(in, d.absorbRate, cdAbsorb)
}

func (d *duplex) squeeze(out []byte) {
	d.squeezeAny(out, cuSqueeze)
}

func (d *duplex) squeezeKey(out []byte) {
	d.squeezeAny(out, cuSqueezeKey)
}

// The methods below require keyed mode; callers check it.

// encrypt encrypts src into dst, which must be at least as long. dst and src must overlap entirely or not at all.
func (d *duplex) encrypt(dst, src []byte) {
	var ks [keyedSqueezeRate]byte
	defer clear(ks[:])

	cu := byte(cuCrypt)
	for len(src) > 0 {
		n := min(len(src), keyedSqueezeRate)
		d.up(ks[:n], cu)
		cu = cuNone
		d.down(src[:n], cdNone)
		mem.XOR(dst[:n], ks[:n], src[:n])
		dst, src = dst[n:], src[n:]
	}
}

// decrypt decrypts src into dst, which must be at least as long. dst and src must overlap entirely or not at all.
func (d *duplex) decrypt(dst, src []byte) {
	var ks [keyedSqueezeRate]byte
	defer clear(ks[:])

	cu := byte(cuCrypt)
	for len(src) > 0 {
		n := min(len(src), keyedSqueezeRate)
		d.up(ks[:n], cu)
		cu = cuNone
		mem.XOR(dst[:n], ks[:n], src[:n])
		d.down(dst[:n], cdNone)
		dst, src = dst[n:], src[n:]
	}
}

func (d *duplex) ratchet() {
	var k [ratchetRate]byte
	defer clear(k[:])

	d.squeezeAny(k[:], cuRatchet)
	d.absorbAny(k[:], ratchetRate, cdNone)
}

func (d *duplex) aeadEncryptDetached(dst, nonce, ad, plaintext []byte) (Tag, error) {
	if len(dst) < len(plaintext) {
		return Tag{}, ErrInvalidLength
	}

	d.absorb(nonce)
	d.absorb(ad)
	d.encrypt(dst, plaintext)

	var tag Tag
	d.squeeze(tag.b[:])
	return tag, nil
}

func (d *duplex) aeadEncrypt(dst, nonce, ad, plaintext []byte) error {
	if len(dst) < len(plaintext)+TagSize {
		return ErrInvalidLength
	}

	tag, err := d.aeadEncryptDetached(dst[:len(plaintext)], nonce, ad, plaintext)
	defer tag.Clear()
	if err != nil {
		return err
	}
	copy(dst[len(plaintext):], tag.b[:])
	return nil
}

func (d *duplex) aeadDecryptDetached(dst []byte, tag *Tag, nonce, ad, ciphertext []byte) error {
	if len(dst) < len(ciphertext) {
		return ErrInvalidLength
	}

	d.absorb(nonce)
	d.absorb(ad)
	d.decrypt(dst, ciphertext)

	var computed Tag
	defer computed.Clear()
	d.squeeze(computed.b[:])

	if !computed.Equal(tag) {
		clear(dst)
		return ErrTagMismatch
	}
	return nil
}

func (d *duplex) aeadDecrypt(dst, nonce, ad, ciphertextAndTag []byte) error {
	if len(ciphertextAndTag) < TagSize {
		return ErrInvalidLength
	}

	n := len(ciphertextAndTag) - TagSize
	tag := TagFromArray([TagSize]byte(ciphertextAndTag[n:]))
	defer tag.Clear()
	return d.aeadDecryptDetached(dst, &tag, nonce, ad, ciphertextAndTag[:n])
}

func (d *duplex) aeadEncryptInPlace(buf, nonce, ad []byte) error {
	if len(buf) < TagSize {
		return ErrInvalidLength
	}
	return d.aeadEncrypt(buf, nonce, ad, buf[:len(buf)-TagSize])
}

func (d *duplex) aeadDecryptInPlace(buf, nonce, ad []byte) ([]byte, error) {
	if len(buf) < TagSize {
		return nil, ErrInvalidLength
	}
	n := len(buf) - TagSize
	if err := d.aeadDecrypt(buf[:n], nonce, ad, buf); err != nil {
		clear(buf)
		return nil, err
	}
	return buf[:n], nil
}

func (d *duplex) clear() {
	d.state.Clear()
	d.phase = phaseUp
}

// stateSize is the size of a marshaled engine: mode, phase, and state.
const stateSize = 2 + xoodoo.Width

func (d *duplex) appendBinary(b []byte) []byte {
	b = append(b, byte(d.mode), byte(d.phase))
	return append(b, d.state[:]...)
}

func (d *duplex) unmarshalBinary(data []byte, mode Mode) error {
	if len(data) != stateSize || mode > ModeKeyed || Mode(data[0]) != mode || phase(data[1]) > phaseDown {
		return ErrInvalidState
	}

	d.clear()
	d.mode, d.phase = mode, phase(data[1])
	d.absorbRate, d.squeezeRate = hashAbsorbRate, hashSqueezeRate
	if mode == ModeKeyed {
		d.absorbRate, d.squeezeRate = keyedAbsorbRate, keyedSqueezeRate
	}
	copy(d.state[:], data[2:])
	return nil
}
