package pcompress

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/internal/hwinfo"
	"github.com/arloliu/aarchive/internal/options"
)

const (
	// DefaultBlockSize is the raw block size used when none is configured.
	DefaultBlockSize = 256 << 10
	// MaxBlockSize is the largest raw block size a frame may declare.
	MaxBlockSize = 64 << 20
)

type config struct {
	threads   int
	blockSize int
	logger    *zap.SugaredLogger
}

// Option configures a Writer or Reader.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		blockSize: DefaultBlockSize,
		logger:    zap.NewNop().Sugar(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.threads == 0 {
		cfg.threads = hwinfo.DefaultThreads()
	}

	return cfg, nil
}

// WithThreads sets the number of blocks compressed concurrently.
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

// WithBlockSize sets the raw block size used by a Writer.
// The size must be in (0, MaxBlockSize].
func WithBlockSize(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 || n > MaxBlockSize {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBlockSize, n)
		}
		c.blockSize = n

		return nil
	})
}

// WithLogger sets the logger used for stream statistics. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger.Sugar()
	})
}
