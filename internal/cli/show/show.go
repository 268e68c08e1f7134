// Package show implements the show command.
package show

import (
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/topoprobe/campaign/internal/campaign"
	"github.com/topoprobe/campaign/internal/cli/root"
	"github.com/topoprobe/campaign/internal/config"
	"github.com/topoprobe/campaign/internal/database"
	"github.com/topoprobe/campaign/internal/output"
)

func init() {
	cmd := root.Command("show", "Show the runs of a campaign.")
	configPath := cmd.Arg("config", "Campaign configuration file.").Required().ExistingFile()
	runUUID := cmd.Flag("run", "Only show the cycles of this run.").String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		c, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Error("failed to load the config")
			return err
		}
		db, err := database.Open(filepath.Join(c.OutputDir, campaign.DatabaseFileName))
		if err != nil {
			log.WithError(err).Error("failed to open the database")
			return err
		}
		defer db.Close()

		if *runUUID != "" {
			return showRun(db, *runUUID)
		}
		return showRuns(db)
	})
}

func showRun(db *database.Database, runUUID string) error {
	run, err := db.GetRun(runUUID)
	if err != nil {
		log.WithError(err).Error("failed to get the run")
		return err
	}
	cycles, err := db.ListCycles(run.ID)
	if err != nil {
		log.WithError(err).Error("failed to list the cycles")
		return err
	}
	output.SectionTitle(run.RunUUID)
	for _, cycle := range cycles {
		output.Table(cycle.OutputJobID, log.Fields{
			"arm":          cycle.ArmName,
			"cycle":        cycle.CycleIndex,
			"input":        cycle.InputJobID,
			"job":          cycle.OutputJobID,
			"status":       cycle.Status,
			"agents":       cycle.NumAgents,
			"targets":      cycle.NumTargets,
			"exploitation": cycle.NumExploit,
		})
	}
	return nil
}

func showRuns(db *database.Database) error {
	runs, err := db.ListRuns()
	if err != nil {
		log.WithError(err).Error("failed to list the runs")
		return err
	}
	var targetsPerCycle []int
	output.SectionTitle("Runs")
	for idx, run := range runs {
		cycles, err := db.ListCycles(run.ID)
		if err != nil {
			log.WithError(err).Error("failed to list the cycles")
			return err
		}
		var targets int
		for _, cycle := range cycles {
			targets += cycle.NumTargets
			targetsPerCycle = append(targetsPerCycle, cycle.NumTargets)
		}
		output.RunItem(output.RunItemData{
			RunUUID:    run.RunUUID,
			Name:       run.Name,
			Status:     string(run.Status),
			StartTime:  run.StartTime,
			DryRun:     run.DryRun,
			Cycles:     len(cycles),
			Targets:    targets,
			Index:      idx,
			TotalCount: len(runs),
		})
	}
	summary, err := output.NewRunSummaryData(len(runs), targetsPerCycle)
	if err != nil {
		log.WithError(err).Error("failed to compute the summary")
		return err
	}
	output.RunSummary(summary)
	return nil
}
