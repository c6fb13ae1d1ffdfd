package siv_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/codahale/xoodyak"
	"github.com/codahale/xoodyak/siv"
)

func TestAEAD_Seal(t *testing.T) {
	c, err := siv.New([]byte("key"), nil, 16)
	if err != nil {
		t.Fatal(err)
	}

	nonce := make([]byte, 16)

	t.Run("deterministic", func(t *testing.T) {
		a := c.Seal(nil, nonce, []byte("message"), []byte("ad"))
		b := c.Seal(nil, nonce, []byte("message"), []byte("ad"))
		if !bytes.Equal(a, b) {
			t.Errorf("Seal() = %x, want = %x", b, a)
		}
	})

	t.Run("nonce", func(t *testing.T) {
		a := c.Seal(nil, nonce, []byte("message"), []byte("ad"))
		b := c.Seal(nil, bytes.Repeat([]byte{1}, 16), []byte("message"), []byte("ad"))
		if bytes.Equal(a, b) {
			t.Errorf("Seal() ignored the nonce: %x", a)
		}
	})

	t.Run("in place", func(t *testing.T) {
		want := c.Seal(nil, nonce, []byte("message"), []byte("ad"))

		buf := make([]byte, 7, 7+xoodyak.TagSize)
		copy(buf, "message")
		got := c.Seal(buf[:0], nonce, buf, []byte("ad"))
		if !bytes.Equal(got, want) {
			t.Errorf("Seal() = %x, want = %x", got, want)
		}
	})
}

func TestAEAD_Open(t *testing.T) {
	c, err := siv.New([]byte("key"), []byte("id"), 0)
	if err != nil {
		t.Fatal(err)
	}

	ciphertext := c.Seal(nil, nil, []byte("message"), []byte("ad"))

	t.Run("valid", func(t *testing.T) {
		plaintext, err := c.Open(nil, nil, ciphertext, []byte("ad"))
		if err != nil {
			t.Fatal(err)
		}

		if got, want := string(plaintext), "message"; got != want {
			t.Errorf("Open() = %q, want = %q", got, want)
		}
	})

	t.Run("modified ciphertext", func(t *testing.T) {
		for i := range len(ciphertext) * 8 {
			bad := bytes.Clone(ciphertext)
			bad[i/8] ^= 1 << (i % 8)

			dst := make([]byte, 0, len(bad))
			if _, err := c.Open(dst, nil, bad, []byte("ad")); !errors.Is(err, xoodyak.ErrTagMismatch) {
				t.Fatalf("bit %d: Open() = %v, want = %v", i, err, xoodyak.ErrTagMismatch)
			}

			if got, want := dst[:7], make([]byte, 7); !bytes.Equal(got, want) {
				t.Fatalf("bit %d: unauthenticated plaintext = %x", i, got)
			}
		}
	})

	t.Run("short ciphertext", func(t *testing.T) {
		if _, err := c.Open(nil, nil, ciphertext[:5], []byte("ad")); !errors.Is(err, xoodyak.ErrInvalidLength) {
			t.Errorf("Open() = %v, want = %v", err, xoodyak.ErrInvalidLength)
		}
	})
}

func Example() {
	key := []byte("a very secret key, 32 bytes long")
	nonce := []byte("a 16-byte nonce!")
	ad := []byte("some additional data")
	plaintext := []byte("hello world")

	// Create a new SIV AEAD instance with a 16-byte nonce.
	c, err := siv.New(key, nil, 16)
	if err != nil {
		panic(err)
	}

	// Seal the plaintext.
	ciphertext := c.Seal(nil, nonce, plaintext, ad)
	fmt.Printf("ciphertext = %x\n", ciphertext)

	// Open the ciphertext.
	decrypted, err := c.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		panic(err)
	}
	fmt.Printf("plaintext  = %s\n", decrypted)

	// Output:
	// ciphertext = 639b2be02446c0f840adc46ba0a84ad7bf3fdcd47e6fbee5cb8258
	// plaintext  = hello world
}
