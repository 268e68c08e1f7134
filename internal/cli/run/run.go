// Package run implements the run command.
package run

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/topoprobe/campaign/internal/campaign"
	"github.com/topoprobe/campaign/internal/cli/root"
	"github.com/topoprobe/campaign/internal/config"
	"github.com/topoprobe/campaign/internal/coordinator"
	"github.com/topoprobe/campaign/internal/log/handlers/cli"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/output"
)

// errNotConfirmed indicates that the user did not confirm the run.
var errNotConfirmed = errors.New("run not confirmed")

func init() {
	cmd := root.Command("run", "Run a campaign.")
	configPath := cmd.Arg("config", "Campaign configuration file.").Required().ExistingFile()
	dryRun := cmd.Flag("dry-run", "Build every cycle without submitting any job.").Bool()
	password := cmd.Flag("password", "Platform password.").Envar("CAMPAIGN_PASSWORD").String()
	yes := cmd.Flag("yes", "Do not ask for confirmation.").Short('y').Bool()
	batch := cmd.Flag("batch", "Run without prompts and progress bars.").Bool()
	prometheusAddr := cmd.Flag("prometheus", "Serve prometheus metrics at the given address.").String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		log.Debugf("Reading config file from %s", *configPath)
		c, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Error("failed to load the config")
			return err
		}
		if !*dryRun && !*yes && !*batch {
			if err := confirm(c); err != nil {
				log.WithError(err).Error("cannot run the campaign")
				return err
			}
		}

		closeLog, err := openLogFile(c.OutputDir)
		if err != nil {
			log.WithError(err).Error("failed to open the log file")
			return err
		}
		defer closeLog()

		if *prometheusAddr != "" {
			if err := servePrometheus(*prometheusAddr); err != nil {
				log.WithError(err).Error("failed to serve prometheus metrics")
				return err
			}
		}

		options := &campaign.Options{
			ArmLogger: func(arm string) model.Logger {
				return log.WithField("arm", arm)
			},
			Config:   c,
			DryRun:   *dryRun,
			Logger:   log.Log,
			Password: *password,
		}
		if !*batch && c.Barrier == coordinator.BarrierGlobal {
			options.Progress = (&barrierProgress{}).update
		}
		cpn, err := campaign.Open(options)
		if err != nil {
			log.WithError(err).Error("failed to open the campaign")
			return err
		}
		defer cpn.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		name := c.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(*configPath), filepath.Ext(*configPath))
		}
		log.Infof("Running campaign %s", color.BlueString(name))
		run, result, err := cpn.Run(ctx, name)
		if result != nil {
			fields := log.Fields{}
			for arm, ids := range result.History {
				fields[arm] = len(ids)
			}
			output.Table("completed cycles", fields)
		}
		if err != nil {
			log.WithError(err).Error("the campaign failed")
			return err
		}
		log.Infof("run %s done", run.RunUUID)
		return nil
	})
}

func confirm(c *config.Config) error {
	var names []string
	for _, arm := range c.Arms {
		names = append(names, arm.Name)
	}
	var ok bool
	prompt := &survey.Confirm{
		Message: "Submit " + color.BlueString("%d", c.Cycles) + " cycles of " +
			strings.Join(names, ", ") + " to " + c.Platform.URL + "?",
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return err
	}
	if !ok {
		return errNotConfirmed
	}
	return nil
}

// openLogFile also writes the logs to the log file in the output directory.
func openLogFile(outputDir string) (func(), error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	filep, err := os.OpenFile(filepath.Join(outputDir, campaign.LogFileName),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetHandler(multi.New(cli.Default, text.New(filep)))
	return func() {
		log.SetHandler(cli.Default)
		filep.Close()
	}, nil
}

func servePrometheus(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	promMux := http.NewServeMux()
	promMux.Handle("/metrics", promhttp.Handler())
	promSrv := &http.Server{Handler: promMux}
	go promSrv.Serve(listener)
	log.Infof("serving prometheus metrics at http://%s/metrics", listener.Addr().String())
	return nil
}
