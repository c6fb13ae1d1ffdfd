package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/codahale/xoodyak"
	"github.com/codahale/xoodyak/aestream"
	"github.com/codahale/xoodyak/internal/psk"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/urfave/cli/v2"
)

// A sealed stream starts with a header of a version byte, a compression byte, a salt, and a nonce, followed by an
// aestream of the (possibly compressed) plaintext.
const (
	version    = 1
	headerSize = 2 + psk.SaltSize + psk.NonceSize
	domain     = "xoodyak.seal"
)

type compression byte

const (
	compressNone compression = iota
	compressLZ4
	compressZstd
)

func parseCompression(s string) (compression, error) {
	switch s {
	case "none", "":
		return compressNone, nil
	case "lz4":
		return compressLZ4, nil
	case "zstd":
		return compressZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression algorithm: %q", s)
	}
}

func (c compression) String() string {
	switch c {
	case compressNone:
		return "none"
	case compressLZ4:
		return "lz4"
	case compressZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", byte(c))
	}
}

var (
	errInvalidHeader = errors.New("invalid header")

	// kdfParams are overridden in tests.
	kdfParams = psk.DefaultParams
)

func sealCmd(c *cli.Context) error {
	alg, err := parseCompression(c.String("compress"))
	if err != nil {
		return err
	}

	log := logger(c)
	log.Debug("sealing", "compress", alg)
	if err := seal(c.App.Writer, c.App.Reader, []byte(c.String("passphrase")), alg); err != nil {
		return err
	}
	return nil
}

func openCmd(c *cli.Context) error {
	log := logger(c)
	alg, err := open(c.App.Writer, c.App.Reader, []byte(c.String("passphrase")))
	if err != nil {
		return err
	}
	log.Debug("opened", "compress", alg)
	return nil
}

func seal(dst io.Writer, src io.Reader, passphrase []byte, alg compression) error {
	header := make([]byte, headerSize)
	header[0] = version
	header[1] = byte(alg)
	if _, err := rand.Read(header[2:]); err != nil {
		return err
	}
	if _, err := dst.Write(header); err != nil {
		return err
	}

	k, err := newKeyed(passphrase, header)
	if err != nil {
		return err
	}

	w := aestream.NewWriter(k, dst, aestream.MaxBlockSize)
	cw, err := compressor(w, alg)
	if err != nil {
		return err
	}

	if _, err := io.Copy(cw, src); err != nil {
		return err
	}
	if cw != w {
		if err := cw.Close(); err != nil {
			return err
		}
	}
	return w.Close()
}

func open(dst io.Writer, src io.Reader, passphrase []byte) (compression, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, errInvalidHeader
	}
	alg := compression(header[1])
	if header[0] != version || alg > compressZstd {
		return 0, errInvalidHeader
	}

	k, err := newKeyed(passphrase, header)
	if err != nil {
		return 0, err
	}

	ar := aestream.NewReader(k, src, aestream.MaxBlockSize)
	r, closeFn, err := decompressor(ar, alg)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	if _, err := io.Copy(dst, r); err != nil {
		return 0, err
	}

	// Decompressors may stop at the end of their frame, so read through the terminal block.
	if _, err := io.Copy(io.Discard, ar); err != nil {
		return 0, err
	}
	return alg, nil
}

// newKeyed derives a key from the passphrase and the header's salt, and returns a Keyed instance which has absorbed
// the full header, nonce included.
func newKeyed(passphrase, header []byte) (*xoodyak.Keyed, error) {
	if len(passphrase) == 0 {
		return nil, psk.ErrInvalidPassphrase
	}

	key := kdfParams.DeriveKey(domain, passphrase, header[2:2+psk.SaltSize])
	defer clear(key)

	k, err := xoodyak.NewKeyed(key, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	k.Absorb(header)
	return k, nil
}

func compressor(w io.WriteCloser, alg compression) (io.WriteCloser, error) {
	switch alg {
	case compressLZ4:
		return lz4.NewWriter(w), nil
	case compressZstd:
		return zstd.NewWriter(w)
	default:
		return w, nil
	}
}

func decompressor(r io.Reader, alg compression) (io.Reader, func(), error) {
	switch alg {
	case compressLZ4:
		return lz4.NewReader(r), func() {}, nil
	case compressZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	default:
		return r, func() {}, nil
	}
}
