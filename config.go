package crinex

import (
	"fmt"
	"time"

	"github.com/arloliu/crinex/diff"
	"github.com/arloliu/crinex/errs"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/internal/options"
)

// DefaultProgram is written to the CRINEX PROG / DATE line unless WithProgram
// overrides it.
const DefaultProgram = "crinex-go"

// Config holds the settings of a compression or decompression session.
type Config struct {
	// Order is the arc order the compressor differences with.
	Order int
	// MaxOrder is the highest arc order the decompressor accepts in an
	// initialisation token.
	MaxOrder int
	// Strict wraps reconstructed modern records at five observables per line.
	// Legacy records are always wrapped.
	Strict bool
	// Revision forces a revision. RevisionAuto takes it from the header.
	Revision format.Revision
	// Program names the converter in the CRINEX header.
	Program string
	// Now returns the conversion time written to the CRINEX header.
	Now func() time.Time
}

// Option configures a Config.
type Option = options.Option[*Config]

// DefaultConfig returns the settings used when no option is given.
func DefaultConfig() *Config {
	return &Config{
		Order:    diff.DefaultOrder,
		MaxOrder: diff.MaxOrder,
		Revision: format.RevisionAuto,
		Program:  DefaultProgram,
		Now:      time.Now,
	}
}

// NewConfig applies opts to the default configuration and validates the result.
func NewConfig(opts ...Option) (*Config, error) {
	return options.Build(DefaultConfig(), opts...)
}

// Validate checks that the orders are usable.
func (c *Config) Validate() error {
	if c.Order < 0 || c.Order > diff.MaxOrder {
		return fmt.Errorf("%w: order %d not in [0, %d]", errs.ErrInvalidOrder, c.Order, diff.MaxOrder)
	}
	if c.MaxOrder < 0 || c.MaxOrder > diff.MaxOrder {
		return fmt.Errorf("%w: max order %d not in [0, %d]", errs.ErrInvalidOrder, c.MaxOrder, diff.MaxOrder)
	}
	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// WithOrder sets the compression arc order, 0 to 9.
func WithOrder(order int) Option {
	return options.New(func(c *Config) error {
		if order < 0 || order > diff.MaxOrder {
			return fmt.Errorf("%w: %d", errs.ErrInvalidOrder, order)
		}
		c.Order = order

		return nil
	})
}

// WithMaxOrder sets the highest arc order accepted on decompression.
func WithMaxOrder(order int) Option {
	return options.New(func(c *Config) error {
		if order < 0 || order > diff.MaxOrder {
			return fmt.Errorf("%w: %d", errs.ErrInvalidOrder, order)
		}
		c.MaxOrder = order

		return nil
	})
}

// WithStrict enables 80 column wrapping of modern records on decompression.
func WithStrict(strict bool) Option {
	return options.NoError(func(c *Config) {
		c.Strict = strict
	})
}

// WithRevision requires the stream to be of revision rev.
func WithRevision(rev format.Revision) Option {
	return options.New(func(c *Config) error {
		switch rev {
		case format.RevisionAuto, format.RevisionLegacy, format.RevisionModern:
			c.Revision = rev
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidRevision, rev)
		}
	})
}

// WithProgram sets the converter name written to the CRINEX header.
func WithProgram(program string) Option {
	return options.NoError(func(c *Config) {
		c.Program = program
	})
}

// WithNow sets the clock used for the CRINEX header date.
func WithNow(now func() time.Time) Option {
	return options.NoError(func(c *Config) {
		c.Now = now
	})
}

// checkRevision rejects a header whose revision disagrees with a forced one.
func (c *Config) checkRevision(rev format.Revision) error {
	if c.Revision != format.RevisionAuto && c.Revision != rev {
		return fmt.Errorf("%w: stream is %s, configured %s", errs.ErrInvalidRevision, rev, c.Revision)
	}

	return nil
}
