package xoodyak

import (
	"encoding"

	"github.com/codahale/xoodyak/internal/mem"
)

// A Keyed is a keyed Xoodyak instance, providing pseudorandom output, encryption, authenticated encryption, and
// ratcheting in addition to everything a Hash does.
//
// Keyed instances are not concurrent-safe.
type Keyed struct {
	d duplex
}

// NewKeyed returns a new Keyed instance initialized with the given key and the optional key ID, nonce, and counter.
//
// The key must not be empty, and the key, key ID, and nonce, plus one byte, must not exceed MaxKeySize bytes;
// otherwise, ErrInvalidKeyLength is returned. The counter may be of any length; it is absorbed one byte per block,
// and an empty counter is the same as none.
func NewKeyed(key, keyID, nonce, counter []byte) (*Keyed, error) {
	d, err := newKeyedDuplex(key, keyID, nonce, counter)
	if err != nil {
		return nil, err
	}
	return &Keyed{d: d}, nil
}

// Mode returns ModeKeyed.
func (k *Keyed) Mode() Mode {
	return ModeKeyed
}

// Absorb absorbs data into the state. Absorbing an empty slice still updates the state.
func (k *Keyed) Absorb(data []byte) {
	k.d.absorb(data)
}

// AbsorbMore continues the previous Absorb without a new domain marker. If the data absorbed so far is a multiple of
// 44 bytes long, the result is the same as a single Absorb of the concatenated inputs.
func (k *Keyed) AbsorbMore(data []byte) {
	k.d.absorbMore(data, k.d.absorbRate)
}

// Squeeze fills out with pseudorandom output derived from the state.
func (k *Keyed) Squeeze(out []byte) {
	k.d.squeeze(out)
}

// SqueezeKey fills out with output suitable for use as a key, domain-separated from Squeeze.
func (k *Keyed) SqueezeKey(out []byte) {
	k.d.squeezeKey(out)
}

// SqueezeMore continues the previous squeeze, filling out with the output which would have followed it.
func (k *Keyed) SqueezeMore(out []byte) {
	k.d.squeezeMore(out)
}

// Encrypt encrypts src into dst. It returns ErrInvalidLength, leaving dst and the state untouched, if dst is shorter
// than src.
//
// Encrypt provides confidentiality but not authenticity. To ensure ciphertext authenticity, use AEADEncrypt instead.
// dst and src must overlap entirely or not at all.
func (k *Keyed) Encrypt(dst, src []byte) error {
	if len(dst) < len(src) {
		return ErrInvalidLength
	}
	k.d.encrypt(dst, src)
	return nil
}

// Decrypt decrypts src into dst. It returns ErrInvalidLength, leaving dst and the state untouched, if dst is shorter
// than src. dst and src must overlap entirely or not at all.
func (k *Keyed) Decrypt(dst, src []byte) error {
	if len(dst) < len(src) {
		return ErrInvalidLength
	}
	k.d.decrypt(dst, src)
	return nil
}

// EncryptInPlace encrypts buf in place.
func (k *Keyed) EncryptInPlace(buf []byte) {
	k.d.encrypt(buf, buf)
}

// DecryptInPlace decrypts buf in place.
func (k *Keyed) DecryptInPlace(buf []byte) {
	k.d.decrypt(buf, buf)
}

// AEADEncryptDetached absorbs the nonce and associated data, encrypts plaintext into dst, and returns the
// authentication tag. It returns ErrInvalidLength if dst is shorter than plaintext.
//
// The caller should Clear the returned tag once it has been sent or stored.
func (k *Keyed) AEADEncryptDetached(dst, nonce, ad, plaintext []byte) (Tag, error) {
	return k.d.aeadEncryptDetached(dst, nonce, ad, plaintext)
}

// AEADEncrypt is AEADEncryptDetached with the tag written to dst after the ciphertext. dst must be at least TagSize
// bytes longer than plaintext.
func (k *Keyed) AEADEncrypt(dst, nonce, ad, plaintext []byte) error {
	return k.d.aeadEncrypt(dst, nonce, ad, plaintext)
}

// AEADDecryptDetached absorbs the nonce and associated data, decrypts ciphertext into dst, and verifies tag in
// constant time. If the tag does not match, dst is zeroed and ErrTagMismatch is returned.
//
// After a failed decryption the instance's state is no longer in sync with the sender and should be discarded.
func (k *Keyed) AEADDecryptDetached(dst []byte, tag *Tag, nonce, ad, ciphertext []byte) error {
	return k.d.aeadDecryptDetached(dst, tag, nonce, ad, ciphertext)
}

// AEADDecrypt is AEADDecryptDetached with the tag taken from the final TagSize bytes of ciphertextAndTag.
func (k *Keyed) AEADDecrypt(dst, nonce, ad, ciphertextAndTag []byte) error {
	return k.d.aeadDecrypt(dst, nonce, ad, ciphertextAndTag)
}

// AEADEncryptInPlaceDetached encrypts buf in place and returns the authentication tag.
func (k *Keyed) AEADEncryptInPlaceDetached(buf, nonce, ad []byte) Tag {
	tag, _ := k.d.aeadEncryptDetached(buf, nonce, ad, buf)
	return tag
}

// AEADEncryptInPlace encrypts the plaintext in buf[:len(buf)-TagSize] in place and writes the tag to the final TagSize
// bytes of buf. It returns ErrInvalidLength if buf is shorter than TagSize.
func (k *Keyed) AEADEncryptInPlace(buf, nonce, ad []byte) error {
	return k.d.aeadEncryptInPlace(buf, nonce, ad)
}

// AEADDecryptInPlaceDetached decrypts buf in place and verifies tag. If the tag does not match, buf is zeroed and
// ErrTagMismatch is returned.
func (k *Keyed) AEADDecryptInPlaceDetached(buf []byte, tag *Tag, nonce, ad []byte) error {
	return k.d.aeadDecryptDetached(buf, tag, nonce, ad, buf)
}

// AEADDecryptInPlace decrypts a ciphertext and tag in buf in place, returning the plaintext, which aliases buf. If the
// tag does not match, all of buf is zeroed and ErrTagMismatch is returned.
func (k *Keyed) AEADDecryptInPlace(buf, nonce, ad []byte) ([]byte, error) {
	return k.d.aeadDecryptInPlace(buf, nonce, ad)
}

// Seal encrypts and authenticates plaintext as AEADEncrypt does, appending the ciphertext and tag to dst and returning
// the resulting slice.
//
// To reuse plaintext's storage for the encrypted output, use plaintext[:0] as dst. Otherwise, the remaining capacity of
// dst must not overlap plaintext.
func (k *Keyed) Seal(dst, nonce, ad, plaintext []byte) []byte {
	ret, out := mem.SliceForAppend(dst, len(plaintext)+TagSize)
	_ = k.d.aeadEncrypt(out, nonce, ad, plaintext)
	return ret
}

// Open decrypts and verifies ciphertextAndTag as AEADDecrypt does, appending the plaintext to dst and returning the
// resulting slice.
//
// To reuse ciphertext's storage for the decrypted output, use ciphertextAndTag[:0] as dst. Otherwise, the remaining
// capacity of dst must not overlap ciphertextAndTag.
func (k *Keyed) Open(dst, nonce, ad, ciphertextAndTag []byte) ([]byte, error) {
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrInvalidLength
	}

	ret, out := mem.SliceForAppend(dst, len(ciphertextAndTag)-TagSize)
	if err := k.d.aeadDecrypt(out, nonce, ad, ciphertextAndTag); err != nil {
		return nil, err
	}
	return ret, nil
}

// Ratchet irreversibly updates the state so that it cannot be recovered from the state which follows.
func (k *Keyed) Ratchet() {
	k.d.ratchet()
}

// Clone returns an independent copy of the instance.
func (k *Keyed) Clone() *Keyed {
	c := *k
	return &c
}

// Clear zeroes the instance's state. A cleared instance must not be used for further keyed operations.
func (k *Keyed) Clear() {
	k.d.clear()
}

// Any returns a copy of the instance as an Any.
func (k *Keyed) Any() *Any {
	return &Any{d: k.d}
}

// AppendBinary appends the binary representation of the instance's state to b. It implements
// encoding.BinaryAppender.
//
// The encoding contains key material and must be protected accordingly.
func (k *Keyed) AppendBinary(b []byte) ([]byte, error) {
	return k.d.appendBinary(b), nil
}

// MarshalBinary returns the binary representation of the instance's state. It implements encoding.BinaryMarshaler.
func (k *Keyed) MarshalBinary() ([]byte, error) {
	return k.AppendBinary(make([]byte, 0, stateSize))
}

// UnmarshalBinary restores the instance's state from data. It implements encoding.BinaryUnmarshaler.
func (k *Keyed) UnmarshalBinary(data []byte) error {
	return k.d.unmarshalBinary(data, ModeKeyed)
}

var (
	_ encoding.BinaryAppender    = (*Keyed)(nil)
	_ encoding.BinaryMarshaler   = (*Keyed)(nil)
	_ encoding.BinaryUnmarshaler = (*Keyed)(nil)
)
