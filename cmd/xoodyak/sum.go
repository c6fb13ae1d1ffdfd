package main

import (
	"fmt"
	"io"
	"os"

	"github.com/codahale/xoodyak/digest"
	"github.com/urfave/cli/v2"
)

func sumCmd(c *cli.Context) error {
	log := logger(c)

	if c.NArg() == 0 {
		return sum(c.App.Writer, c.App.Reader, "-")
	}

	for _, name := range c.Args().Slice() {
		log.Debug("hashing", "file", name)
		f, err := os.Open(name) //nolint:gosec // user-supplied path
		if err != nil {
			return err
		}
		err = sum(c.App.Writer, f, name)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func sum(w io.Writer, r io.Reader, name string) error {
	h := digest.New()
	if _, err := io.Copy(h, r); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%x  %s\n", h.Sum(nil), name)
	return err
}
