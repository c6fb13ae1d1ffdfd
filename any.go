package xoodyak

import "encoding"

// An Any is a Xoodyak instance in either mode, for call sites which must accept both hashing and keyed instances.
// Operations which require a key return ErrKeyRequired on a hash-mode instance.
//
// Any instances are not concurrent-safe.
type Any struct {
	d duplex
}

// NewAny returns a hash-mode instance if key is nil and a keyed instance otherwise. Passing a key ID, nonce, or counter
// without a key returns ErrKeyRequired.
func NewAny(key, keyID, nonce, counter []byte) (*Any, error) {
	if key == nil {
		if keyID != nil || nonce != nil || counter != nil {
			return nil, ErrKeyRequired
		}
		return &Any{d: newHashDuplex()}, nil
	}

	d, err := newKeyedDuplex(key, keyID, nonce, counter)
	if err != nil {
		return nil, err
	}
	return &Any{d: d}, nil
}

// Mode returns the instance's mode.
func (a *Any) Mode() Mode {
	return a.d.mode
}

// Hash returns a copy of the instance as a Hash. It returns ErrInvalidState if the instance is keyed.
func (a *Any) Hash() (*Hash, error) {
	if a.d.mode != ModeHash {
		return nil, ErrInvalidState
	}
	return &Hash{d: a.d}, nil
}

// Keyed returns a copy of the instance as a Keyed, or ErrKeyRequired if it is in hash mode.
func (a *Any) Keyed() (*Keyed, error) {
	if err := a.keyed(); err != nil {
		return nil, err
	}
	return &Keyed{d: a.d}, nil
}

func (a *Any) keyed() error {
	if a.d.mode != ModeKeyed {
		return ErrKeyRequired
	}
	return nil
}

// Absorb absorbs data into the state.
func (a *Any) Absorb(data []byte) {
	a.d.absorb(data)
}

// AbsorbMore continues the previous Absorb without a new domain marker.
func (a *Any) AbsorbMore(data []byte) {
	a.d.absorbMore(data, a.d.absorbRate)
}

// Squeeze fills out with pseudorandom output derived from the state.
func (a *Any) Squeeze(out []byte) {
	a.d.squeeze(out)
}

// SqueezeKey fills out with output suitable for use as a key.
func (a *Any) SqueezeKey(out []byte) {
	a.d.squeezeKey(out)
}

// SqueezeMore continues the previous squeeze.
func (a *Any) SqueezeMore(out []byte) {
	a.d.squeezeMore(out)
}

// Encrypt encrypts src into dst. See Keyed.Encrypt.
func (a *Any) Encrypt(dst, src []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	if len(dst) < len(src) {
		return ErrInvalidLength
	}
	a.d.encrypt(dst, src)
	return nil
}

// Decrypt decrypts src into dst. See Keyed.Decrypt.
func (a *Any) Decrypt(dst, src []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	if len(dst) < len(src) {
		return ErrInvalidLength
	}
	a.d.decrypt(dst, src)
	return nil
}

// EncryptInPlace encrypts buf in place.
func (a *Any) EncryptInPlace(buf []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	a.d.encrypt(buf, buf)
	return nil
}

// DecryptInPlace decrypts buf in place.
func (a *Any) DecryptInPlace(buf []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	a.d.decrypt(buf, buf)
	return nil
}

// AEADEncryptDetached encrypts plaintext into dst and returns the tag. See Keyed.AEADEncryptDetached.
func (a *Any) AEADEncryptDetached(dst, nonce, ad, plaintext []byte) (Tag, error) {
	if err := a.keyed(); err != nil {
		return Tag{}, err
	}
	return a.d.aeadEncryptDetached(dst, nonce, ad, plaintext)
}

// AEADEncrypt encrypts plaintext into dst followed by the tag. See Keyed.AEADEncrypt.
func (a *Any) AEADEncrypt(dst, nonce, ad, plaintext []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	return a.d.aeadEncrypt(dst, nonce, ad, plaintext)
}

// AEADDecryptDetached decrypts ciphertext into dst and verifies tag. See Keyed.AEADDecryptDetached.
func (a *Any) AEADDecryptDetached(dst []byte, tag *Tag, nonce, ad, ciphertext []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	return a.d.aeadDecryptDetached(dst, tag, nonce, ad, ciphertext)
}

// AEADDecrypt decrypts and verifies ciphertextAndTag into dst. See Keyed.AEADDecrypt.
func (a *Any) AEADDecrypt(dst, nonce, ad, ciphertextAndTag []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	return a.d.aeadDecrypt(dst, nonce, ad, ciphertextAndTag)
}

// AEADEncryptInPlaceDetached encrypts buf in place and returns the tag.
func (a *Any) AEADEncryptInPlaceDetached(buf, nonce, ad []byte) (Tag, error) {
	if err := a.keyed(); err != nil {
		return Tag{}, err
	}
	return a.d.aeadEncryptDetached(buf, nonce, ad, buf)
}

// AEADEncryptInPlace encrypts buf in place, writing the tag to its final TagSize bytes. See Keyed.AEADEncryptInPlace.
func (a *Any) AEADEncryptInPlace(buf, nonce, ad []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	return a.d.aeadEncryptInPlace(buf, nonce, ad)
}

// AEADDecryptInPlaceDetached decrypts buf in place and verifies tag.
func (a *Any) AEADDecryptInPlaceDetached(buf []byte, tag *Tag, nonce, ad []byte) error {
	if err := a.keyed(); err != nil {
		return err
	}
	return a.d.aeadDecryptDetached(buf, tag, nonce, ad, buf)
}

// AEADDecryptInPlace decrypts and verifies buf in place, returning the plaintext. See Keyed.AEADDecryptInPlace.
func (a *Any) AEADDecryptInPlace(buf, nonce, ad []byte) ([]byte, error) {
	if err := a.keyed(); err != nil {
		return nil, err
	}
	return a.d.aeadDecryptInPlace(buf, nonce, ad)
}

// Ratchet irreversibly updates the state. It returns ErrKeyRequired in hash mode.
func (a *Any) Ratchet() error {
	if err := a.keyed(); err != nil {
		return err
	}
	a.d.ratchet()
	return nil
}

// Clone returns an independent copy of the instance.
func (a *Any) Clone() *Any {
	c := *a
	return &c
}

// Clear zeroes the instance's state.
func (a *Any) Clear() {
	a.d.clear()
}

// AppendBinary appends the binary representation of the instance's mode and state to b. It implements
// encoding.BinaryAppender.
func (a *Any) AppendBinary(b []byte) ([]byte, error) {
	return a.d.appendBinary(b), nil
}

// MarshalBinary returns the binary representation of the instance's mode and state. It implements
// encoding.BinaryMarshaler.
func (a *Any) MarshalBinary() ([]byte, error) {
	return a.AppendBinary(make([]byte, 0, stateSize))
}

// UnmarshalBinary restores the instance's mode and state from data. It implements encoding.BinaryUnmarshaler.
func (a *Any) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return ErrInvalidState
	}
	return a.d.unmarshalBinary(data, Mode(data[0]))
}

var (
	_ encoding.BinaryAppender    = (*Any)(nil)
	_ encoding.BinaryMarshaler   = (*Any)(nil)
	_ encoding.BinaryUnmarshaler = (*Any)(nil)
)
