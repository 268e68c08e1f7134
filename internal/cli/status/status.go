// Package status implements the status command.
package status

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/topoprobe/campaign/internal/cli/root"
	"github.com/topoprobe/campaign/internal/measurementapi"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/output"
)

func init() {
	cmd := root.Command("status", "Query the status of a job.")
	flags := root.NewPlatformFlags(cmd)
	jobID := cmd.Arg("job", "The job ID.").Required().String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		_, client, err := flags.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize")
			return err
		}
		measurement, err := client.GetMeasurement(context.Background(), model.JobID(*jobID))
		if err != nil {
			log.WithError(err).Error("failed to get the measurement")
			return err
		}
		status, err := measurementapi.MapMeasurementState(measurement.State)
		if err != nil {
			log.WithError(err).Error("failed to map the measurement state")
			return err
		}
		output.Table("status", log.Fields{
			"job":    *jobID,
			"state":  measurement.State,
			"status": string(status),
			"tool":   measurement.Tool,
		})
		return nil
	})
}
