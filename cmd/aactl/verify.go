//go:build unix

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/arloliu/aarchive/archive"
	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/header"
)

func runVerify(args []string, stdout, stderr io.Writer) error {
	var flags commonFlags
	fs := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	flags.register(fs)

	path, err := parse(fs, args)
	if err != nil {
		return err
	}

	logger := newLogger(flags.verbose, stderr)
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	dec, err := openArchive(path, flags, logger)
	if err != nil {
		return err
	}
	defer dec.Close()

	var failed, digests int
	for {
		h, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		n, err := verifyEntry(dec, h)
		digests += n
		if err != nil {
			if !errors.Is(err, errs.ErrDigestMismatch) && !errors.Is(err, errs.ErrInvalidPath) {
				return err
			}
			failed++
			p, _ := h.LookupString(field.KeyPAT)
			fmt.Fprintf(stdout, "FAIL %s: %v\n", p, err)
			continue
		}
		sugar.Debugw("entry verified", "entry", dec.Entries()-1, "digests", n)
	}

	fmt.Fprintf(stdout, "%d entries, %d digests checked, %d failed\n", dec.Entries(), digests, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed verification", failed, dec.Entries())
	}

	return nil
}

// verifyEntry checks the entry path and, when the entry has a DAT payload, its
// digests.
func verifyEntry(dec *archive.Decoder, h *header.Header) (int, error) {
	if p, ok := h.LookupString(field.KeyPAT); ok && !archive.ValidPath(p) {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidPath, p)
	}
	if !h.Has(field.KeyDAT) {
		return 0, nil
	}

	r, _, err := dec.OpenBlob(field.KeyDAT)
	if err != nil {
		return 0, err
	}

	return archive.VerifyPayload(h, r)
}
