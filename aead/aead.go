// Package aead provides a cipher.AEAD implementation of Xoodyak's authenticated encryption.
//
// Each Seal and Open call clones a keyed instance and runs a single AEAD operation on the clone with the given nonce
// and associated data, so the returned cipher.AEAD is stateless and may be used concurrently.
package aead

import (
	"crypto/cipher"

	"github.com/codahale/xoodyak"
)

// New returns a new cipher.AEAD instance which uses the given key, optional key ID, and nonce size.
//
// It returns xoodyak.ErrInvalidKeyLength if the key is empty or the key and key ID are too long. It panics if
// nonceSize is less than 16.
func New(key, keyID []byte, nonceSize int) (cipher.AEAD, error) {
	if nonceSize < 16 {
		panic("xoodyak/aead: nonce size must be at least 16 bytes")
	}

	k, err := xoodyak.NewKeyed(key, keyID, nil, nil)
	if err != nil {
		return nil, err
	}

	return &aead{
		k:         k,
		nonceSize: nonceSize,
	}, nil
}

type aead struct {
	k         *xoodyak.Keyed
	nonceSize int
}

func (a *aead) NonceSize() int {
	return a.nonceSize
}

func (a *aead) Overhead() int {
	return xoodyak.TagSize
}

func (a *aead) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != a.NonceSize() {
		panic("xoodyak/aead: invalid nonce size")
	}

	k := a.k.Clone()
	defer k.Clear()
	return k.Seal(dst, nonce, additionalData, plaintext)
}

func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != a.NonceSize() {
		panic("xoodyak/aead: invalid nonce size")
	}

	k := a.k.Clone()
	defer k.Clear()
	return k.Open(dst, nonce, additionalData, ciphertext)
}

var _ cipher.AEAD = (*aead)(nil)
