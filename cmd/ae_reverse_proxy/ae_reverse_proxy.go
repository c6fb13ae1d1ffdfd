// Command ae_reverse_proxy is a Xoodyak authenticated encryption reverse proxy which terminates
// passphrase-authenticated aestream connections and makes plaintext connections.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/codahale/xoodyak/aestream"
	"github.com/codahale/xoodyak/internal/psk"
)

func main() {
	var (
		listen  = flag.String("listen", "127.0.0.1:5050", "the address to listen on")
		connect = flag.String("connect", "127.0.0.1:4040", "the address to connect to")
	)
	flag.Parse()

	log := slog.New(slog.Default().Handler())

	passphrase := []byte(os.Getenv("XOODYAK_PASSPHRASE"))
	if len(passphrase) == 0 {
		log.Error("XOODYAK_PASSPHRASE must be set")
		os.Exit(1)
	}

	listenConfig := new(net.ListenConfig)
	listener, err := listenConfig.Listen(context.Background(), "tcp", *listen)
	if err != nil {
		panic(err)
	}
	log.Info("listening", "addr", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error("failed to accept connection", "err", err)
			continue
		}

		go func() {
			log.Info("accepted new connection", "addr", conn.RemoteAddr())
			defer func() {
				_ = conn.Close()
				log.Info("closed connection", "addr", conn.RemoteAddr())
			}()

			session, err := psk.Respond(conn, "xoodyak.ae_proxy", passphrase, psk.DefaultParams, aestream.MaxBlockSize)
			if err != nil {
				log.Error("error establishing session", "err", err)
				return
			}
			defer func() {
				if err := session.Writer.Close(); err != nil {
					log.Error("error closing aestream", "err", err)
				}
			}()

			log.Info("connecting", "addr", *connect)
			dialer := new(net.Dialer)
			client, err := dialer.DialContext(context.Background(), "tcp", *connect)
			if err != nil {
				log.Error("error connecting", "err", err)
				return
			}
			defer func() {
				_ = client.Close()
			}()

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				if _, err := io.Copy(client, session.Reader); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Error("error reading from proxy", "err", err)
				}
				cancel()
			}()
			go func() {
				if _, err := io.Copy(session.Writer, client); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Error("error writing to proxy", "err", err)
				}
				cancel()
			}()
			<-ctx.Done()
		}()
	}
}
