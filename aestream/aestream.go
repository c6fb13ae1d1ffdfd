// Package aestream provides a streaming authenticated encryption scheme on top of a xoodyak.Keyed instance.
//
// The writer encodes each block's length as a 3-byte big endian integer, seals that header, seals the block, and
// writes both to the wrapped writer, then ratchets the instance's state. An empty block is used to mark the end of the
// stream when the writer is closed. A block may be at most 2^24-1 bytes long (16,777,215 bytes).
//
// The reader reads the sealed header, opens it, decodes it into a block length, reads an encrypted block of that
// length and its authentication tag, then opens the sealed block. When it encounters the empty block, it returns EOF.
// If the stream terminates before that, xoodyak.ErrTagMismatch is returned.
//
// Headers and blocks are sealed with the instance's AEAD operations with an empty nonce and empty associated data;
// their position in the instance's transcript is what distinguishes them. Callers should construct the instance with
// a unique nonce per stream.
//
// For maximum throughput and transmission efficiency, the use of bufio.Reader and bufio.Writer wrappers is strongly
// recommended.
package aestream

import (
	"errors"
	"io"
	"slices"

	"github.com/codahale/xoodyak"
)

// MaxBlockSize is the maximum size of an aestream block, in bytes. Writes larger than the writer's block size are
// broken up into blocks of that size.
const MaxBlockSize = 1<<24 - 1

// ErrBlockTooLarge is returned when reading a block which is larger than the specified maximum block size.
var ErrBlockTooLarge = errors.New("aestream: block size > max block size")

// NewWriter wraps the given xoodyak.Keyed and io.Writer with a streaming authenticated encryption writer. Writes are
// split into blocks of at most maxBlockSize bytes.
//
// The returned io.WriteCloser MUST be closed for the encrypted stream to be valid. NewWriter panics if maxBlockSize is
// not between 1 and MaxBlockSize.
func NewWriter(k *xoodyak.Keyed, w io.Writer, maxBlockSize int) io.WriteCloser {
	if maxBlockSize < 1 || maxBlockSize > MaxBlockSize {
		panic("aestream: invalid max block size")
	}

	return &sealWriter{
		k:            k,
		w:            w,
		buf:          make([]byte, 0, 1024),
		closed:       false,
		maxBlockSize: maxBlockSize,
	}
}

// NewReader wraps the given xoodyak.Keyed and io.Reader with a streaming authenticated encryption reader.
//
// The maxBlockSize parameter limits the size of the blocks that will be read. If a block is encountered that is larger
// than this limit, ErrBlockTooLarge is returned.
//
// If the stream has been modified or truncated, xoodyak.ErrTagMismatch is returned.
func NewReader(k *xoodyak.Keyed, r io.Reader, maxBlockSize int) io.Reader {
	return &openReader{
		k:            k,
		r:            r,
		buf:          make([]byte, 0, 1024),
		blockBuf:     nil,
		closed:       false,
		maxBlockSize: maxBlockSize,
	}
}

type sealWriter struct {
	k            *xoodyak.Keyed
	w            io.Writer
	buf          []byte
	closed       bool
	maxBlockSize int
}

func (s *sealWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	total := len(p)
	for len(p) > 0 {
		blockLen := min(len(p), s.maxBlockSize)
		err = s.sealAndWrite(p[:blockLen])
		if err != nil {
			return total - len(p), err
		}
		p = p[blockLen:]
	}

	return total, nil
}

func (s *sealWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// Encode and seal a header for a zero-length block.
	return s.sealAndWrite(nil)
}

func (s *sealWriter) sealAndWrite(p []byte) error {
	// Encode a header with a 3-byte big endian block length and seal it.
	s.buf = slices.Grow(s.buf[:0], headerSize+xoodyak.TagSize+len(p)+xoodyak.TagSize)
	header := s.buf[:headerSize]
	putUint24(header, uint32(len(p))) //nolint:gosec // len(p) <= MaxBlockSize
	encryptedHeader := s.k.Seal(header[:0], nil, nil, header)

	// Seal the block, append it to the header, ratchet, and send it.
	block := s.k.Seal(encryptedHeader, nil, nil, p)
	s.k.Ratchet()
	if _, err := s.w.Write(block); err != nil {
		return err
	}
	return nil
}

type openReader struct {
	k             *xoodyak.Keyed
	r             io.Reader
	buf, blockBuf []byte
	closed        bool
	maxBlockSize  int
}

func (o *openReader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

readBuffered:

	// If a block is buffered, satisfy the read with that.
	if len(o.blockBuf) > 0 {
		n = min(len(o.blockBuf), len(p))
		copy(p, o.blockBuf[:n])
		o.blockBuf = o.blockBuf[n:]
		return n, nil
	}

	// If the stream is closed, return EOF.
	if o.closed {
		return 0, io.EOF
	}

	// Read and open the header and decode the block length.
	header, err := o.readAndOpen(headerSize)
	if err != nil {
		return 0, err
	}
	blockLen := int(uint24(header))
	if blockLen > o.maxBlockSize {
		return 0, ErrBlockTooLarge
	}

	// Read and open the block.
	block, err := o.readAndOpen(blockLen)
	if err != nil {
		return 0, err
	}
	o.k.Ratchet()
	o.closed = len(block) == 0
	o.blockBuf = block

	// Satisfy the read with the buffered contents.
	goto readBuffered
}

func (o *openReader) readAndOpen(n int) ([]byte, error) {
	o.buf = slices.Grow(o.buf[:0], n+xoodyak.TagSize)
	data := o.buf[:n+xoodyak.TagSize]
	_, err := io.ReadFull(o.r, data)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, xoodyak.ErrTagMismatch
		}
		return nil, err
	}
	return o.k.Open(data[:0], nil, nil, data)
}

const headerSize = 3

func uint24(b []byte) uint32 {
	_ = b[2] // bounds check hint to compiler; see golang.org/issue/14808
	return uint32(b[2]) | uint32(b[1])<<8 | uint32(b[0])<<16
}

func putUint24(b []byte, v uint32) {
	_ = b[2] // early bounds check to guarantee the safety of writes below
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

var (
	_ io.WriteCloser = (*sealWriter)(nil)
	_ io.Reader      = (*openReader)(nil)
)
