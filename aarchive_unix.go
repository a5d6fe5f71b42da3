//go:build unix

package aarchive

import (
	"golang.org/x/sys/unix"

	"github.com/arloliu/aarchive/archive"
	"github.com/arloliu/aarchive/stream"
)

// Create creates or truncates the archive file at path and returns an encoder for it.
func Create(path string, opts ...archive.Option) (*archive.Encoder, error) {
	out, err := stream.OpenPath(path, unix.O_CREAT|unix.O_WRONLY|unix.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	enc, err := archive.NewEncoder(out, opts...)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	return enc, nil
}

// Open opens the archive file at path and returns a decoder for it.
func Open(path string, opts ...archive.Option) (*archive.Decoder, error) {
	in, err := stream.OpenPath(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}

	dec, err := archive.NewDecoder(in, opts...)
	if err != nil {
		_ = in.Close()
		return nil, err
	}

	return dec, nil
}
