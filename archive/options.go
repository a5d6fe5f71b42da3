package archive

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/format"
	"github.com/arloliu/aarchive/internal/hwinfo"
	"github.com/arloliu/aarchive/internal/options"
	"github.com/arloliu/aarchive/pcompress"
)

type config struct {
	threads       int
	blockSize     int
	compression   format.CompressionType
	logger        *zap.Logger
	validatePaths bool
	uniquePaths   bool
}

// Option configures an Encoder or Decoder.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		blockSize:   pcompress.DefaultBlockSize,
		compression: format.CompressionNone,
		logger:      zap.NewNop(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.threads == 0 {
		cfg.threads = hwinfo.DefaultThreads()
	}

	return cfg, nil
}

// compressed reports whether the stream is wrapped in a block frame.
func (c *config) compressed() bool {
	return c.compression != format.CompressionNone
}

func (c *config) pcompressOptions() []pcompress.Option {
	return []pcompress.Option{
		pcompress.WithThreads(c.threads),
		pcompress.WithBlockSize(c.blockSize),
		pcompress.WithLogger(c.logger),
	}
}

// WithThreads sets the number of worker threads used for block compression.
// Zero selects one thread per physical core.
func WithThreads(n int) Option {
	return options.New(func(c *config) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidThreads, n)
		}
		c.threads = n

		return nil
	})
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

// WithCompression wraps the archive stream in a block frame compressed with ct.
// format.CompressionNone, the default, writes the entries unframed.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *config) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = ct
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, ct)
		}
	})
}

// WithBlockSize sets the raw block size of a compressed stream.
func WithBlockSize(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 || n > pcompress.MaxBlockSize {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBlockSize, n)
		}
		c.blockSize = n

		return nil
	})
}

// WithPathValidation rejects entries whose PAT field fails ValidPath.
func WithPathValidation(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.validatePaths = enabled
	})
}

// WithUniquePaths makes an Encoder reject an entry whose path was already written.
// Without it duplicates are logged and accepted.
func WithUniquePaths(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.uniquePaths = enabled
	})
}
