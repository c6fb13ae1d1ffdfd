package aestream_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"testing"

	"github.com/codahale/xoodyak"
	"github.com/codahale/xoodyak/aestream"
)

//nolint:gocognit // nested tests
func TestNewWriter(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, aestream.MaxBlockSize)
		if _, err := w.Write([]byte("here's one message; ")); err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("and another")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		p2 := newKeyed(t)
		r := aestream.NewReader(p2, bytes.NewReader(buf.Bytes()), aestream.MaxBlockSize)
		b, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}

		if got, want := b, []byte("here's one message; and another"); !bytes.Equal(got, want) {
			t.Errorf("NewReader(NewWriter(%x)) = %x, want = %x", want, got, want)
		}
	})

	t.Run("io.Copy", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, aestream.MaxBlockSize)
		message := make([]byte, 2345)
		n, err := io.CopyBuffer(w, bytes.NewReader(message), make([]byte, 100))
		if err != nil {
			t.Fatal(err)
		}
		if got, want := n, int64(len(message)); got != want {
			t.Errorf("Copy(aestream, buf) = %d bytes, want = %d", got, want)
		}
		err = w.Close()
		if err != nil {
			t.Fatal(err)
		}

		p2 := newKeyed(t)
		r := aestream.NewReader(p2, bytes.NewReader(buf.Bytes()), aestream.MaxBlockSize)
		b, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}

		if got, want := b, message; !bytes.Equal(got, want) {
			t.Errorf("NewReader(NewWriter(%x)) = %x, want = %x", want, got, want)
		}
	})

	t.Run("empty write", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, aestream.MaxBlockSize)

		if _, err := w.Write([]byte("first")); err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte{}); err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("second")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		p2 := newKeyed(t)
		r := aestream.NewReader(p2, bytes.NewReader(buf.Bytes()), aestream.MaxBlockSize)
		b, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}

		if got, want := string(b), "firstsecond"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("invalid block size", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("The code did not panic")
			}
		}()

		aestream.NewWriter(newKeyed(t), io.Discard, 0)
	})
}

func TestNewReader(t *testing.T) {
	t.Run("truncation", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, aestream.MaxBlockSize)
		if _, err := w.Write([]byte("message")); err != nil {
			t.Fatal(err)
		}
		// Do not close w, so no terminal block is written.

		p2 := newKeyed(t)
		r := aestream.NewReader(p2, bytes.NewReader(buf.Bytes()), aestream.MaxBlockSize)
		_, err := io.ReadAll(r)
		if err == nil {
			t.Error("expected error on truncated stream, got nil")
		}
	})

	t.Run("partial header", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, aestream.MaxBlockSize)
		if _, err := w.Write([]byte("message")); err != nil {
			t.Fatal(err)
		}
		_ = w.Close()

		data := buf.Bytes()
		truncated := data[:len(data)-2]

		p2 := newKeyed(t)
		r := aestream.NewReader(p2, bytes.NewReader(truncated), aestream.MaxBlockSize)
		_, err := io.ReadAll(r)
		if err == nil {
			t.Error("expected error on truncated header, got nil")
		}
		if err != nil && !errors.Is(err, xoodyak.ErrTagMismatch) {
			t.Errorf("expected ErrTagMismatch, got %v", err)
		}
	})

	t.Run("modification", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, 4)
		if _, err := w.Write([]byte("a longer message")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		ciphertext := buf.Bytes()
		for i := range len(ciphertext) {
			bad := bytes.Clone(ciphertext)
			bad[i] ^= 0x40

			r := aestream.NewReader(newKeyed(t), bytes.NewReader(bad), aestream.MaxBlockSize)
			if _, err := io.ReadAll(r); !errors.Is(err, xoodyak.ErrTagMismatch) {
				t.Fatalf("byte %d: expected ErrTagMismatch, got %v", i, err)
			}
		}
	})

	t.Run("reordered blocks", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, 4)
		if _, err := w.Write([]byte("aaaabbbb")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		// Each 4-byte block is sealed as a 19-byte header and a 20-byte block.
		const frame = 3 + xoodyak.TagSize + 4 + xoodyak.TagSize
		ciphertext := buf.Bytes()
		swapped := slices.Concat(ciphertext[frame:2*frame], ciphertext[:frame], ciphertext[2*frame:])

		r := aestream.NewReader(newKeyed(t), bytes.NewReader(swapped), aestream.MaxBlockSize)
		if _, err := io.ReadAll(r); !errors.Is(err, xoodyak.ErrTagMismatch) {
			t.Errorf("expected ErrTagMismatch, got %v", err)
		}
	})

	t.Run("large block", func(t *testing.T) {
		p1 := newKeyed(t)
		buf := bytes.NewBuffer(nil)
		w := aestream.NewWriter(p1, buf, aestream.MaxBlockSize)
		if _, err := w.Write([]byte("message")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		p2 := newKeyed(t)
		// Set max block size smaller than "message" length (7 bytes)
		r := aestream.NewReader(p2, bytes.NewReader(buf.Bytes()), 6)
		_, err := io.ReadAll(r)
		if err == nil {
			t.Error("expected error on block too large, got nil")
		}
		if !errors.Is(err, aestream.ErrBlockTooLarge) {
			t.Errorf("expected ErrBlockTooLarge, got %v", err)
		}
	})
}

func BenchmarkNewWriter(b *testing.B) {
	for _, length := range lengths {
		b.Run(length.name, func(b *testing.B) {
			b.SetBytes(int64(length.n))
			b.ReportAllocs()

			p1 := newKeyed(b)
			w := aestream.NewWriter(p1, io.Discard, aestream.MaxBlockSize)
			buf := make([]byte, length.n)

			for b.Loop() {
				if _, err := w.Write(buf); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkNewReader(b *testing.B) {
	// This is really only useful for compensating for the inability to remove setup costs from BenchmarkReader.
	for _, length := range lengths {
		b.Run(length.name, func(b *testing.B) {
			b.ReportAllocs()

			p1 := newKeyed(b)
			ciphertext := bytes.NewBuffer(make([]byte, 0, length.n))
			w := aestream.NewWriter(p1, ciphertext, aestream.MaxBlockSize)
			buf := make([]byte, length.n)
			_, _ = w.Write(buf)
			_ = w.Close()

			p2 := newKeyed(b)
			for b.Loop() {
				aestream.NewReader(p2.Clone(), bytes.NewReader(ciphertext.Bytes()), aestream.MaxBlockSize)
			}
		})
	}
}

func BenchmarkNewReader_Read(b *testing.B) {
	for _, length := range lengths {
		b.Run(length.name, func(b *testing.B) {
			b.SetBytes(int64(length.n))
			b.ReportAllocs()

			p1 := newKeyed(b)
			ciphertext := bytes.NewBuffer(make([]byte, 0, length.n))
			w := aestream.NewWriter(p1, ciphertext, aestream.MaxBlockSize)
			buf := make([]byte, length.n)
			_, _ = w.Write(buf)
			_ = w.Close()

			p2 := newKeyed(b)
			for b.Loop() {
				r := aestream.NewReader(p2.Clone(), bytes.NewReader(ciphertext.Bytes()), aestream.MaxBlockSize)
				if _, err := io.CopyBuffer(io.Discard, r, buf); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func Example() {
	encrypt := func(key, nonce, plaintext []byte) []byte {
		// Initialize a keyed instance with the key and a unique nonce.
		k, err := xoodyak.NewKeyed(key, nil, nonce, nil)
		if err != nil {
			panic(err)
		}

		// Create a buffer to hold the ciphertext.
		ciphertext := bytes.NewBuffer(nil)

		// Create a streaming authenticated encryption writer.
		w := aestream.NewWriter(k, ciphertext, aestream.MaxBlockSize)

		// Write the plaintext to the writer.
		if _, err := w.Write(plaintext); err != nil {
			panic(err)
		}

		// Close the writer to flush the final block.
		if err := w.Close(); err != nil {
			panic(err)
		}

		return ciphertext.Bytes()
	}

	decrypt := func(key, nonce, ciphertext []byte) ([]byte, error) {
		// Initialize a keyed instance with the key and the same nonce.
		k, err := xoodyak.NewKeyed(key, nil, nonce, nil)
		if err != nil {
			return nil, err
		}

		// Create a streaming authenticated encryption reader.
		r := aestream.NewReader(k, bytes.NewReader(ciphertext), aestream.MaxBlockSize)

		// Read the plaintext from the reader.
		plaintext, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		// Finally, return the plaintext.
		return plaintext, nil
	}

	key := []byte("my-secret-key")
	nonce := []byte("a unique nonce")
	plaintext := []byte("hello world")

	ciphertext := encrypt(key, nonce, plaintext)
	fmt.Printf("ciphertext = %x\n", ciphertext)

	plaintext, err := decrypt(key, nonce, ciphertext)
	if err != nil {
		panic(err)
	}
	fmt.Printf("plaintext  = %s\n", plaintext)

	// Output:
	// ciphertext = 1069801e154961d028c2d548c418e43f3fa31654064364381156f84caa0cb00fe5a56e570da6fce0f409d2da2f4160dc14a567f323c81a34d6b8ddfd11fce59512afff0d14e0bb8425d1d3ad0a65ce9007
	// plaintext  = hello world
}

func newKeyed(tb testing.TB) *xoodyak.Keyed {
	tb.Helper()

	k, err := xoodyak.NewKeyed([]byte("it's a key"), nil, []byte("a nonce"), nil)
	if err != nil {
		tb.Fatal(err)
	}
	return k
}

//nolint:gochecknoglobals // this is fine
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
