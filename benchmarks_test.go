package xoodyak_test

import (
	"testing"

	"github.com/codahale/xoodyak"
)

func BenchmarkHash(b *testing.B) {
	hash := func(message, digest []byte) {
		h := xoodyak.NewHash()
		h.Absorb(message)
		h.Squeeze(digest)
	}

	for _, length := range lengths {
		b.Run(length.name, func(b *testing.B) {
			input := make([]byte, length.n)
			digest := make([]byte, 32)
			b.ReportAllocs()
			b.SetBytes(int64(len(input)))
			for b.Loop() {
				hash(input, digest)
			}
		})
	}
}

func BenchmarkPRF(b *testing.B) {
	key := make([]byte, 32)
	prf := func(output []byte) {
		k, _ := xoodyak.NewKeyed(key, nil, nil, nil)
		k.Squeeze(output)
	}

	for _, length := range lengths {
		b.Run(length.name, func(b *testing.B) {
			output := make([]byte, length.n)
			b.ReportAllocs()
			b.SetBytes(int64(len(output)))
			for b.Loop() {
				prf(output)
			}
		})
	}
}

func BenchmarkEncrypt(b *testing.B) {
	key := make([]byte, 32)
	nonce := make([]byte, 8)
	stream := func(message []byte) {
		k, _ := xoodyak.NewKeyed(key, nil, nonce, nil)
		k.EncryptInPlace(message)
	}

	for _, length := range lengths {
		b.Run(length.name, func(b *testing.B) {
			output := make([]byte, length.n)
			b.ReportAllocs()
			b.SetBytes(int64(len(output)))
			for b.Loop() {
				stream(output)
			}
		})
	}
}

func BenchmarkAEAD(b *testing.B) {
	key := make([]byte, 32)
	nonce := make([]byte, 16)
	ad := make([]byte, 32)
	aead := func(message []byte) {
		k, _ := xoodyak.NewKeyed(key, nil, nil, nil)
		_ = k.AEADEncryptInPlace(message, nonce, ad)
	}

	for _, length := range lengths {
		b.Run(length.name, func(b *testing.B) {
			output := make([]byte, length.n+xoodyak.TagSize)
			b.ReportAllocs()
			b.SetBytes(int64(len(output)))
			for b.Loop() {
				aead(output)
			}
		})
	}
}

func BenchmarkRatchet(b *testing.B) {
	k, _ := xoodyak.NewKeyed(make([]byte, 32), nil, nil, nil)
	b.ReportAllocs()
	for b.Loop() {
		k.Ratchet()
	}
}

var lengths = []struct {
	name string
	n    int
}{
	{"16B", 16},
	{"32B", 32},
	{"64B", 64},
	{"128B", 128},
	{"256B", 256},
	{"1KiB", 1024},
	{"16KiB", 16 * 1024},
	{"1MiB", 1024 * 1024},
}
