// Package campaign wires the components of a campaign run: the prefix
// universe, the platform client, the driver, the strategies, the
// schedulers, the coordinator, and the local persistence.
package campaign

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/topoprobe/campaign/internal/artifacts"
	"github.com/topoprobe/campaign/internal/config"
	"github.com/topoprobe/campaign/internal/coordinator"
	"github.com/topoprobe/campaign/internal/cycle"
	"github.com/topoprobe/campaign/internal/database"
	"github.com/topoprobe/campaign/internal/driver"
	"github.com/topoprobe/campaign/internal/kvstore"
	"github.com/topoprobe/campaign/internal/measurementapi"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/prefixes"
	"github.com/topoprobe/campaign/internal/strategy"
)

// ErrNoPlatform indicates that we need a platform but the config does not
// contain any platform URL.
var ErrNoPlatform = errors.New("campaign: no platform configured")

// Names of the entries inside the output directory.
const (
	ArtifactsDirName = "artifacts"
	DatabaseFileName = "campaign.sqlite3"
	LedgersDirName   = "ledgers"
	LogFileName      = "log.txt"
)

// Options contains the options of [Open].
type Options struct {
	// ArmLogger OPTIONALLY returns the logger of a given arm. When nil,
	// we prefix the messages of Logger with the arm name.
	ArmLogger func(arm string) model.Logger

	// Config is the MANDATORY campaign configuration.
	Config *config.Config

	// DryRun disables submissions and status queries.
	DryRun bool

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// Password is the platform password.
	Password string

	// Progress is the OPTIONAL barrier progress callback.
	Progress coordinator.ProgressFunc
}

// Campaign is a configured campaign. The zero value is invalid; construct
// using [Open] and release the resources using [*Campaign.Close].
type Campaign struct {
	// Artifacts contains the cycles artifacts.
	Artifacts *artifacts.Store

	// Client is the platform client, or nil without a platform.
	Client *measurementapi.Client

	// DB is the local database.
	DB *database.Database

	// Ledger contains the per-arm ledgers.
	Ledger *artifacts.Ledger

	// Seed is the seed used by the sampler and the strategies.
	Seed uint64

	// Universe is the authorized prefix universe.
	Universe *model.PrefixUniverse

	options *Options
}

// Open creates the output directory, loads the universe, opens the
// database, and creates the platform client.
func Open(options *Options) (*Campaign, error) {
	c := options.Config
	logger := options.Logger

	if options.DryRun {
		logger.Info("dry run: we will not submit any job")
	}
	if c.Platform.URL == "" && (!options.DryRun || len(c.Agents) <= 0) {
		return nil, ErrNoPlatform
	}

	seed := c.Universe.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Debugf("using seed %d", seed)

	universe, err := LoadUniverse(&c.Universe, seed, logger)
	if err != nil {
		return nil, err
	}

	ledgersDir := filepath.Join(c.OutputDir, LedgersDirName)
	if err := os.MkdirAll(ledgersDir, 0755); err != nil {
		return nil, err
	}
	kvs, err := kvstore.NewFS(filepath.Join(c.OutputDir, ArtifactsDirName))
	if err != nil {
		return nil, err
	}
	dbPath := filepath.Join(c.OutputDir, DatabaseFileName)
	logger.Debugf("connecting to database sqlite3://%s", dbPath)
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}

	out := &Campaign{
		Artifacts: &artifacts.Store{KVStore: kvs},
		DB:        db,
		Ledger:    &artifacts.Ledger{Dir: ledgersDir},
		Seed:      seed,
		Universe:  universe,
		options:   options,
	}
	if c.Platform.URL != "" {
		out.Client = measurementapi.NewClient(c.Platform.URL, c.Platform.Username, options.Password, logger)
	}
	return out, nil
}

// LoadUniverse loads the prefix groups and, if configured, restricts
// them to a random sample using the given seed.
func LoadUniverse(u *config.Universe, seed uint64, logger model.Logger) (*model.PrefixUniverse, error) {
	groups, err := prefixes.Load(u.Path)
	if err != nil {
		return nil, err
	}
	if u.SampleTarget > 0 {
		var size int
		groups, size = prefixes.Sample(groups, u.SampleTarget, prefixes.NewRand(seed))
		logger.Infof("sampled %d groups containing %d prefixes", len(groups), size)
	}
	universe := model.NewPrefixUniverse(groups)
	logger.Infof("universe: %d groups, %d prefixes", len(universe.Groups()), universe.TotalSize())
	return universe, nil
}

// Close releases the resources.
func (c *Campaign) Close() error {
	return c.DB.Close()
}

func (c *Campaign) armLogger(arm string) model.Logger {
	if c.options.ArmLogger != nil {
		return c.options.ArmLogger(arm)
	}
	return &model.ArmLogger{Arm: arm, Logger: c.options.Logger}
}

func (c *Campaign) platform() driver.Platform {
	if c.Client == nil {
		return nil
	}
	return c.Client
}

// Run runs all the arms under a new run named after name. It returns the
// database run and the coordinator result, which are never nil unless
// we cannot create the run or reset the ledgers.
func (c *Campaign) Run(ctx context.Context, name string) (*database.Run, *coordinator.Result, error) {
	cfg := c.options.Config
	logger := c.options.Logger
	arms := cfg.NewArms(c.Universe.TotalSize())

	// each ledger only contains the cycles of the latest run
	for _, arm := range arms {
		if err := c.Ledger.Reset(arm.Name); err != nil {
			return nil, nil, err
		}
	}

	run, err := c.DB.CreateRun(uuid.NewString(), name, c.options.DryRun, len(arms), cfg.Cycles)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("run %s: %d arms, %d cycles", run.RunUUID, len(arms), cfg.Cycles)

	drv := driver.New(c.platform(), c.options.DryRun, cfg.Agents, logger)
	var (
		poller model.JobPoller       = driver.DryRunPoller{}
		source model.DiscoverySource = strategy.NoDiscoveries{}
	)
	if !c.options.DryRun {
		poller, source = c.Client, c.Client
	}
	factory := strategy.NewFactory(source, c.Seed, logger)
	recorder := c.DB.NewRecorder(run)

	var schedulers []*cycle.Scheduler
	for _, arm := range arms {
		schedulers = append(schedulers, cycle.NewScheduler(&cycle.Config{
			Arm:       arm,
			Artifacts: c.Artifacts,
			Budgeter:  drv,
			Cycles:    cfg.Cycles,
			Factory:   factory,
			Logger:    c.armLogger(arm.Name),
			Recorder:  recorder,
			Submitter: drv,
			Universe:  c.Universe,
		}))
	}

	coord := coordinator.New(coordinator.Config{
		BarrierTimeout: cfg.BarrierTimeout.Std(),
		Ledger:         c.Ledger,
		Logger:         logger,
		MaxConcurrency: cfg.MaxConcurrency,
		Mode:           cfg.Barrier,
		PollInterval:   cfg.PollInterval.Std(),
		Poller:         poller,
		Progress:       c.options.Progress,
		Schedulers:     schedulers,
	})
	result, err := coord.Run(ctx)
	if ferr := c.DB.FinishRun(run, err); ferr != nil {
		logger.Warnf("cannot finish run %s: %s", run.RunUUID, ferr.Error())
	}
	return run, result, err
}
