// Package root contains the root command and the helpers shared
// by the subcommands.
package root

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/topoprobe/campaign/internal/config"
	"github.com/topoprobe/campaign/internal/log/handlers/cli"
	"github.com/topoprobe/campaign/internal/measurementapi"
	"github.com/topoprobe/campaign/internal/version"
)

// Cmd is the root command
var Cmd = kingpin.New("campaign", "Multi-arm topology probing campaign runner.")

// Command is syntax sugar for defining sub-commands
var Command = Cmd.Command

func init() {
	verbose := Cmd.Flag("verbose", "Enable verbose log output.").Short('v').Bool()

	Cmd.PreAction(func(ctx *kingpin.ParseContext) error {
		log.SetHandler(cli.Default)
		if *verbose {
			log.SetLevel(log.DebugLevel)
			log.Debugf("campaign version %s", version.Version)
		}
		return nil
	})
}

// PlatformFlags contains the flags of the commands talking to the platform.
type PlatformFlags struct {
	ConfigPath *string
	Password   *string
}

// NewPlatformFlags registers the [PlatformFlags] with the given command.
func NewPlatformFlags(cmd *kingpin.CmdClause) *PlatformFlags {
	return &PlatformFlags{
		ConfigPath: cmd.Flag("config", "Campaign configuration file.").Short('c').Required().ExistingFile(),
		Password: cmd.Flag("password", "Platform password.").
			Envar("CAMPAIGN_PASSWORD").String(),
	}
}

// Init loads the config and creates the platform client.
func (f *PlatformFlags) Init() (*config.Config, *measurementapi.Client, error) {
	log.Debugf("Reading config file from %s", *f.ConfigPath)
	c, err := config.Load(*f.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if c.Platform.URL == "" {
		return nil, nil, errors.New("the config does not contain platform.url")
	}
	client := measurementapi.NewClient(c.Platform.URL, c.Platform.Username, *f.Password, log.Log)
	return c, client, nil
}
