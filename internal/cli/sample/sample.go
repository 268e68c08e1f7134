// Package sample implements the sample command.
package sample

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/topoprobe/campaign/internal/cli/root"
	"github.com/topoprobe/campaign/internal/prefixes"
)

func init() {
	cmd := root.Command("sample", "Sample prefix groups until reaching a budget.")
	in := cmd.Flag("in", "Input universe file.").Required().ExistingFile()
	out := cmd.Flag("out", "Output universe file.").Required().String()
	target := cmd.Flag("target", "Minimum number of prefixes to sample.").Required().Int()
	seed := cmd.Flag("seed", "Random seed.").Default("1").Uint64()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		groups, err := prefixes.Load(*in)
		if err != nil {
			log.WithError(err).Error("failed to load the universe")
			return err
		}
		sampled, size := prefixes.Sample(groups, *target, prefixes.NewRand(*seed))
		if err := prefixes.Save(*out, sampled); err != nil {
			log.WithError(err).Error("failed to save the sample")
			return err
		}
		log.Infof("sampled %d groups containing %d prefixes", len(sampled), size)
		return nil
	})
}
