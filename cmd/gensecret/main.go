package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const SecretKeyBytesLen = 32

func main() {
	if err := run(os.Stdout, rand.Reader, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}
}

// Print hex encoded random key suitable for SECRET_KEY
func run(w io.Writer, random io.Reader, args []string) error {
	fs := pflag.NewFlagSet("gensecret", pflag.ContinueOnError)
	size := fs.IntP("bytes", "b", SecretKeyBytesLen, "Key length in bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *size < 16 {
		return fmt.Errorf("key must be at least 16 bytes, got %d", *size)
	}

	b := make([]byte, *size)
	if _, err := io.ReadFull(random, b); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, hex.EncodeToString(b))
	return err
}
