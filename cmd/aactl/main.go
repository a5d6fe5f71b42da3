//go:build unix

// aactl inspects archives: it lists entry headers and verifies entry paths and
// payload digests.
//
// Usage:
//
//	aactl list [flags] ARCHIVE
//	aactl verify [flags] ARCHIVE
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sys/unix"

	"github.com/arloliu/aarchive/archive"
	"github.com/arloliu/aarchive/format"
	"github.com/arloliu/aarchive/stream"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: aactl list|verify [flags] ARCHIVE")

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	var err error
	switch args[0] {
	case "list":
		err = runList(args[1:], stdout, stderr)
	case "verify":
		err = runVerify(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprintln(stdout, errUsage.Error())
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}

	return err
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	compression string
	verbose     bool
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.compression, "compression", "none", "block compression of the archive: none, zstd, s2 or lz4")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")
}

// parse parses args and returns the single archive path argument.
func parse(fs *pflag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected one archive path, got %d arguments", fs.NArg())
	}

	return fs.Arg(0), nil
}

func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(stderr), level)

	return zap.New(core)
}

// openArchive opens path for reading as an archive decoder.
func openArchive(path string, c commonFlags, logger *zap.Logger, opts ...archive.Option) (*archive.Decoder, error) {
	ct, ok := format.ParseCompression(c.compression)
	if !ok {
		return nil, fmt.Errorf("unknown compression %q", c.compression)
	}

	in, err := stream.OpenPath(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}

	opts = append([]archive.Option{archive.WithCompression(ct), archive.WithLogger(logger)}, opts...)
	dec, err := archive.NewDecoder(in, opts...)
	if err != nil {
		_ = in.Close()
		return nil, err
	}

	return dec, nil
}
