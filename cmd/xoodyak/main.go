// Command xoodyak hashes files and seals or opens passphrase-encrypted streams.
//
//	xoodyak sum [FILE...]
//	XOODYAK_PASSPHRASE=... xoodyak seal [--compress none|lz4|zstd] < plaintext > ciphertext
//	XOODYAK_PASSPHRASE=... xoodyak open < ciphertext > plaintext
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	passphraseFlag := &cli.StringFlag{
		Name:     "passphrase",
		Usage:    "the `PASSPHRASE` used to derive the encryption key",
		EnvVars:  []string{"XOODYAK_PASSPHRASE"},
		Required: true,
	}

	return &cli.App{
		Name:      "xoodyak",
		Usage:     "hash, seal, and open data with Xoodyak",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "sum",
				Usage:     "print the Xoodyak hash of each file, or of stdin",
				ArgsUsage: "[FILE...]",
				Action:    sumCmd,
			},
			{
				Name:  "seal",
				Usage: "encrypt stdin to stdout",
				Flags: []cli.Flag{
					passphraseFlag,
					&cli.StringFlag{
						Name:    "compress",
						Aliases: []string{"c"},
						Usage:   "compress the plaintext with `ALGORITHM` (none, lz4, or zstd)",
						Value:   "none",
					},
				},
				Action: sealCmd,
			},
			{
				Name:   "open",
				Usage:  "decrypt stdin to stdout",
				Flags:  []cli.Flag{passphraseFlag},
				Action: openCmd,
			},
		},
	}
}

func logger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}
