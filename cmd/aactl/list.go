//go:build unix

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/arloliu/aarchive/archive"
	"github.com/arloliu/aarchive/field"
)

type listFlags struct {
	commonFlags

	fields      string
	format      string
	fingerprint bool
}

func runList(args []string, stdout, stderr io.Writer) error {
	var flags listFlags
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	flags.register(fs)
	fs.StringVar(&flags.fields, "fields", "", "comma-separated field keys to show, e.g. TYP,PAT,DAT (default all)")
	fs.StringVar(&flags.format, "format", "text", "output format: text or yaml")
	fs.BoolVar(&flags.fingerprint, "fingerprint", false, "print the xxHash64 of every blob payload")

	path, err := parse(fs, args)
	if err != nil {
		return err
	}

	keys, err := field.ParseKeyList(flags.fields)
	if err != nil {
		return err
	}
	out, err := newPrinter(flags.format, stdout)
	if err != nil {
		return err
	}

	logger := newLogger(flags.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	dec, err := openArchive(path, flags.commonFlags, logger)
	if err != nil {
		return err
	}
	defer dec.Close()

	for {
		h, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		rec := newEntryRecord(dec.Entries()-1, h, keys)
		if flags.fingerprint {
			for i := range rec.Blobs {
				if err := fingerprintBlob(dec, &rec.Blobs[i]); err != nil {
					return err
				}
			}
		}
		if err := out.entry(rec); err != nil {
			return err
		}
	}

	return out.close()
}

func fingerprintBlob(dec *archive.Decoder, b *blobRecord) error {
	key, err := field.ParseKey(b.Key)
	if err != nil {
		return err
	}

	r, _, err := dec.OpenBlob(key)
	if err != nil {
		return err
	}
	sum, _, err := archive.FingerprintReader(r)
	if err != nil {
		return fmt.Errorf("fingerprint %s: %w", b.Key, err)
	}
	b.Fingerprint = archive.FormatFingerprint(sum)

	return nil
}
