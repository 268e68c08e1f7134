// Package config contains the campaign configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/topoprobe/campaign/internal/coordinator"
	"github.com/topoprobe/campaign/internal/hujsonx"
)

// Version is the current version of the configuration file.
const Version = 1

// Defaults used by [*Config.Default].
const (
	DefaultCycles       = 1
	DefaultMaxRounds    = 6
	DefaultEpsilon      = 0.1
	DefaultTool         = "diamond-miner"
	DefaultProtocol     = "icmp"
	DefaultMinTTL       = 6
	DefaultMaxTTL       = 32
	DefaultOutputDir    = "campaign"
	DefaultPollInterval = 10 * time.Second
)

// ErrInvalidConfig indicates that the configuration is not valid.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the campaign configuration.
type Config struct {
	// Comment is ignored.
	Comment string `json:"_"`

	// Version MUST be equal to [Version].
	Version int `json:"version"`

	// Name is the campaign name.
	Name string `json:"name"`

	// Platform describes the measurement platform.
	Platform Platform `json:"platform"`

	// OutputDir contains artifacts, ledgers, logs, and the database.
	OutputDir string `json:"output_dir"`

	// Universe describes the authorized prefix universe.
	Universe Universe `json:"universe"`

	// Cycles is the number of cycles every arm runs.
	Cycles int `json:"n_cycles"`

	// PollInterval is the interval between job status sweeps.
	PollInterval Duration `json:"poll_interval"`

	// BarrierTimeout OPTIONALLY bounds the wait at each barrier.
	BarrierTimeout Duration `json:"barrier_timeout"`

	// Barrier is the barrier mode.
	Barrier coordinator.BarrierMode `json:"barrier"`

	// MaxConcurrency OPTIONALLY limits concurrent status queries.
	MaxConcurrency int `json:"max_concurrency"`

	// Probing contains the campaign-wide probing defaults.
	Probing Probing `json:"probing"`

	// Agents is the OPTIONAL static list of agents to use instead
	// of asking the platform.
	Agents []string `json:"agents"`

	// Arms contains the campaign arms.
	Arms []*Arm `json:"arms"`
}

// Platform describes the measurement platform.
type Platform struct {
	URL      string `json:"url"`
	Username string `json:"username"`
}

// Universe describes the authorized prefix universe.
type Universe struct {
	// Path is the JSON file containing the prefix groups.
	Path string `json:"path"`

	// SampleTarget OPTIONALLY restricts the universe to a random
	// sample of groups totalling at least this many units.
	SampleTarget int `json:"sample_target"`

	// Seed seeds the sampler and the strategies. Zero means
	// using a random seed.
	Seed uint64 `json:"seed"`
}

// Probing contains the probing parameters.
type Probing struct {
	Tool     string `json:"tool"`
	Protocol string `json:"protocol"`
	MinTTL   int    `json:"min_ttl"`
	MaxTTL   int    `json:"max_ttl"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return c, nil
}

// Parse parses the configuration from human-readable JSON bytes.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := hujsonx.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}
	c.Default()
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}
	return &c, nil
}

// Default fills the missing settings with their default values.
func (c *Config) Default() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Cycles == 0 {
		c.Cycles = DefaultCycles
	}
	if c.PollInterval == 0 {
		c.PollInterval = Duration(DefaultPollInterval)
	}
	if c.Barrier == "" {
		c.Barrier = coordinator.BarrierGlobal
	}
	if c.Probing.Tool == "" {
		c.Probing.Tool = DefaultTool
	}
	if c.Probing.Protocol == "" {
		c.Probing.Protocol = DefaultProtocol
	}
	if c.Probing.MinTTL == 0 {
		c.Probing.MinTTL = DefaultMinTTL
	}
	if c.Probing.MaxTTL == 0 {
		c.Probing.MaxTTL = DefaultMaxTTL
	}
	for _, arm := range c.Arms {
		if arm != nil {
			arm.defaults(&c.Probing)
		}
	}
}

// Validate returns an error if the configuration is not valid.
func (c *Config) Validate() error {
	if c.Version != Version {
		return fmt.Errorf("%w: expected version %d, got %d", ErrInvalidConfig, Version, c.Version)
	}
	if c.Platform.URL != "" {
		if _, err := url.ParseRequestURI(c.Platform.URL); err != nil {
			return fmt.Errorf("%w: platform.url: %w", ErrInvalidConfig, err)
		}
	}
	if c.Universe.Path == "" {
		return fmt.Errorf("%w: missing universe.path", ErrInvalidConfig)
	}
	if c.Universe.SampleTarget < 0 {
		return fmt.Errorf("%w: negative universe.sample_target", ErrInvalidConfig)
	}
	if c.Cycles < 0 {
		return fmt.Errorf("%w: negative n_cycles", ErrInvalidConfig)
	}
	if c.PollInterval < 0 || c.BarrierTimeout < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: negative max_concurrency", ErrInvalidConfig)
	}
	switch c.Barrier {
	case coordinator.BarrierGlobal, coordinator.BarrierPerArm:
	default:
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, coordinator.ErrUnknownBarrierMode, c.Barrier)
	}
	if len(c.Arms) <= 0 {
		return fmt.Errorf("%w: no arms", ErrInvalidConfig)
	}
	names := make(map[string]bool)
	for idx, arm := range c.Arms {
		if arm == nil {
			return fmt.Errorf("%w: arms[%d] is null", ErrInvalidConfig, idx)
		}
		if names[arm.Name] {
			return fmt.Errorf("%w: duplicate arm %q", ErrInvalidConfig, arm.Name)
		}
		names[arm.Name] = true
		if err := arm.validate(); err != nil {
			return fmt.Errorf("%w: arms[%d]: %w", ErrInvalidConfig, idx, err)
		}
	}
	return nil
}
