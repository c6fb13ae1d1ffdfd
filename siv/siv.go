// Package siv implements a Synthetic Initialization Vector (SIV) AEAD scheme.
//
// This provides nonce-misuse resistant authenticated encryption (mrAE) and deterministic encryption (DAE) with a
// two-pass algorithm using two clones of a keyed instance: one absorbs the nonce, associated data, and plaintext and
// squeezes the tag; the other absorbs the tag and encrypts the plaintext.
package siv

import (
	"crypto/cipher"

	"github.com/codahale/xoodyak"
	"github.com/codahale/xoodyak/internal/mem"
)

// New returns a new cipher.AEAD instance which uses the given key, optional key ID, and nonce size.
//
// It returns xoodyak.ErrInvalidKeyLength if the key is empty or the key and key ID are too long. It panics if
// nonceSize is negative.
func New(key, keyID []byte, nonceSize int) (cipher.AEAD, error) {
	if nonceSize < 0 {
		panic("xoodyak/siv: nonce size must not be negative")
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
		panic("xoodyak/siv: invalid nonce size")
	}

	tag := a.tag(nonce, additionalData, plaintext)
	defer tag.Clear()

	ret, out := mem.SliceForAppend(dst, len(plaintext)+xoodyak.TagSize)
	ciphertext, tagOut := out[:len(plaintext)], out[len(plaintext):]

	conf := a.conf(tag.Bytes())
	defer conf.Clear()
	_ = conf.Encrypt(ciphertext, plaintext)
	copy(tagOut, tag.Bytes())

	return ret
}

func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != a.NonceSize() {
		panic("xoodyak/siv: invalid nonce size")
	}

	if len(ciphertext) < xoodyak.TagSize {
		return nil, xoodyak.ErrInvalidLength
	}

	ciphertext, receivedTag := ciphertext[:len(ciphertext)-xoodyak.TagSize], ciphertext[len(ciphertext)-xoodyak.TagSize:]
	tag, _ := xoodyak.TagFromBytes(receivedTag)
	defer tag.Clear()

	ret, plaintext := mem.SliceForAppend(dst, len(ciphertext))

	conf := a.conf(tag.Bytes())
	defer conf.Clear()
	_ = conf.Decrypt(plaintext, ciphertext)

	expectedTag := a.tag(nonce, additionalData, plaintext)
	defer expectedTag.Clear()

	if !expectedTag.Equal(&tag) {
		clear(plaintext)
		return nil, xoodyak.ErrTagMismatch
	}

	return ret, nil
}

func (a *aead) tag(nonce, additionalData, plaintext []byte) xoodyak.Tag {
	auth := a.k.Clone()
	defer auth.Clear()

	auth.Absorb([]byte("auth"))
	auth.Absorb(nonce)
	auth.Absorb(additionalData)
	auth.Absorb(plaintext)

	var tag [xoodyak.TagSize]byte
	defer clear(tag[:])
	auth.Squeeze(tag[:])
	return xoodyak.TagFromArray(tag)
}

func (a *aead) conf(tag []byte) *xoodyak.Keyed {
	conf := a.k.Clone()
	conf.Absorb([]byte("conf"))
	conf.Absorb(tag)
	return conf
}

var _ cipher.AEAD = (*aead)(nil)
