// Package psk establishes authenticated, encrypted aestream sessions between two parties who share a passphrase.
//
// The initiator sends a random salt and a random nonce. The responder sends a random nonce. Both parties derive a key
// from the passphrase and salt with balloon hashing, absorb both nonces into a keyed Xoodyak instance, and fork it into
// one instance per direction. Each direction is an aestream, so a party using the wrong passphrase finds out when the
// first block fails to open.
package psk

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/codahale/xoodyak"
	"github.com/codahale/xoodyak/aestream"
	"github.com/codahale/xoodyak/balloon"
)

const (
	// SaltSize is the size, in bytes, of the salt used to derive a session key from a passphrase.
	SaltSize = 16

	// NonceSize is the size, in bytes, of each party's nonce.
	NonceSize = 16

	// KeySize is the size, in bytes, of the derived session key.
	KeySize = balloon.Size

	// RequestSize is the size, in bytes, of an initiator's request.
	RequestSize = SaltSize + NonceSize

	// ResponseSize is the size, in bytes, of a responder's response.
	ResponseSize = NonceSize
)

// Params are the balloon hashing costs used to derive a key from a passphrase.
type Params struct {
	SpaceCost   uint32
	TimeCost    uint32
	Parallelism uint32
}

// DefaultParams are the costs used by the commands in this module.
var DefaultParams = Params{SpaceCost: 1 << 13, TimeCost: 3, Parallelism: 2}

// DeriveKey returns a KeySize-byte key derived from the domain separation string, passphrase, and salt.
func (p Params) DeriveKey(domain string, passphrase, salt []byte) []byte {
	return balloon.Hash(domain, passphrase, salt, p.SpaceCost, p.TimeCost, p.Parallelism)
}

// ErrInvalidPassphrase is returned when the passphrase is empty.
var ErrInvalidPassphrase = errors.New("xoodyak/psk: empty passphrase")

// Session is one side of an established session.
type Session struct {
	// Reader opens blocks sent by the other party.
	Reader io.Reader

	// Writer seals blocks sent to the other party. Closing it sends the final block.
	Writer io.WriteCloser
}

// Initiate writes a request to conn, reads the response, and returns the initiator's side of the session.
func Initiate(conn io.ReadWriter, domain string, passphrase []byte, params Params, maxBlockSize int) (*Session, error) {
	if len(passphrase) == 0 {
		return nil, ErrInvalidPassphrase
	}

	request := make([]byte, RequestSize)
	if _, err := rand.Read(request); err != nil {
		return nil, err
	}
	if _, err := conn.Write(request); err != nil {
		return nil, fmt.Errorf("xoodyak/psk: error writing request: %w", err)
	}

	response := make([]byte, ResponseSize)
	if _, err := io.ReadFull(conn, response); err != nil {
		return nil, fmt.Errorf("xoodyak/psk: error reading response: %w", err)
	}

	send, recv, err := session(domain, passphrase, params, request, response)
	if err != nil {
		return nil, err
	}

	return &Session{
		Reader: aestream.NewReader(recv, conn, maxBlockSize),
		Writer: aestream.NewWriter(send, conn, maxBlockSize),
	}, nil
}

// Respond reads a request from conn, writes a response, and returns the responder's side of the session.
func Respond(conn io.ReadWriter, domain string, passphrase []byte, params Params, maxBlockSize int) (*Session, error) {
	if len(passphrase) == 0 {
		return nil, ErrInvalidPassphrase
	}

	request := make([]byte, RequestSize)
	if _, err := io.ReadFull(conn, request); err != nil {
		return nil, fmt.Errorf("xoodyak/psk: error reading request: %w", err)
	}

	response := make([]byte, ResponseSize)
	if _, err := rand.Read(response); err != nil {
		return nil, err
	}
	if _, err := conn.Write(response); err != nil {
		return nil, fmt.Errorf("xoodyak/psk: error writing response: %w", err)
	}

	i2r, r2i, err := session(domain, passphrase, params, request, response)
	if err != nil {
		return nil, err
	}

	return &Session{
		Reader: aestream.NewReader(i2r, conn, maxBlockSize),
		Writer: aestream.NewWriter(r2i, conn, maxBlockSize),
	}, nil
}

// session returns the initiator-to-responder and responder-to-initiator instances.
func session(domain string, passphrase []byte, params Params, request, response []byte) (i2r, r2i *xoodyak.Keyed, err error) {
	key := params.DeriveKey(domain, passphrase, request[:SaltSize])
	k, err := xoodyak.NewKeyed(key, nil, nil, nil)
	clear(key)
	if err != nil {
		return nil, nil, err
	}
	defer k.Clear()

	k.Absorb([]byte(domain))
	k.Absorb(request[SaltSize:])
	k.Absorb(response)

	i2r = k.Clone()
	i2r.Absorb([]byte("initiator"))

	r2i = k.Clone()
	r2i.Absorb([]byte("responder"))

	return i2r, r2i, nil
}
