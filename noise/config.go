package noise

import (
	"time"

	"github.com/pkg/errors"
)

// Algorithm names accepted by New
const (
	AlgorithmSimplex     = "simplex"
	AlgorithmOpenSimplex = "opensimplex"
	AlgorithmPerlin      = "perlin"
)

// Seed modes
const (
	// SeedFixed uses Config.Seed, the field is identical every session
	SeedFixed = "fixed"
	// SeedSession derives the seed from the session start time
	SeedSession = "session"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown noise algorithm")
	ErrUnknownSeedMode  = errors.New("unknown seed mode")
)

// Config selects the noise implementation and its seeding
type Config struct {
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm"`
	Seed      int64  `mapstructure:"seed" yaml:"seed"`
	SeedMode  string `mapstructure:"seed_mode" yaml:"seed_mode"`
}

// DefaultConfig reproduces the reference field
func DefaultConfig() Config {
	return Config{
		Algorithm: AlgorithmSimplex,
		Seed:      0,
		SeedMode:  SeedFixed,
	}
}

// ResolveSeed returns the seed a session started at now should use
func (c Config) ResolveSeed(now time.Time) (int64, error) {
	switch c.SeedMode {
	case "", SeedFixed:
		return c.Seed, nil
	case SeedSession:
		return now.UnixNano() / int64(time.Millisecond), nil
	default:
		return 0, errors.Wrapf(ErrUnknownSeedMode, "%q", c.SeedMode)
	}
}

// Validate checks the algorithm and seed mode names
func (c Config) Validate() error {
	switch c.Algorithm {
	case "", AlgorithmSimplex, AlgorithmOpenSimplex, AlgorithmPerlin:
	default:
		return errors.Wrapf(ErrUnknownAlgorithm, "%q", c.Algorithm)
	}
	_, err := c.ResolveSeed(time.Time{})
	return err
}

// New constructs the configured Source, one per session
func New(c Config, now time.Time) (Source, error) {
	seed, err := c.ResolveSeed(now)
	if err != nil {
		return nil, err
	}

	switch c.Algorithm {
	case "", AlgorithmSimplex:
		return NewSimplex(seed), nil
	case AlgorithmOpenSimplex:
		return NewOpenSimplex(seed), nil
	case AlgorithmPerlin:
		return NewPerlin(seed), nil
	default:
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", c.Algorithm)
	}
}
