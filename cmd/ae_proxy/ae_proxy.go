// Command ae_proxy is a Xoodyak authenticated encryption proxy which accepts plaintext connections and makes
// passphrase-authenticated aestream connections.
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
		listen  = flag.String("listen", "127.0.0.1:6060", "the address to listen on")
		connect = flag.String("connect", "127.0.0.1:5050", "the address to connect to")
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

			session, err := psk.Initiate(client, "xoodyak.ae_proxy", passphrase, psk.DefaultParams,
				aestream.MaxBlockSize)
			if err != nil {
				log.Error("error establishing session", "err", err)
				return
			}
			log.Info("session established", "addr", client.RemoteAddr())
			defer func() {
				log.Info("closing aestream")
				if err := session.Writer.Close(); err != nil {
					log.Error("error closing aestream", "err", err)
				}
			}()

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				if _, err := io.Copy(session.Writer, conn); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Error("error reading from client", "err", err)
				}
				cancel()
			}()
			go func() {
				if _, err := io.Copy(conn, session.Reader); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Error("error writing to client", "err", err)
				}
				cancel()
			}()
			<-ctx.Done()
		}()
	}
}
