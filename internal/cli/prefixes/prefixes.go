// Package prefixes implements the prefixes command.
package prefixes

import (
	"net/netip"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/topoprobe/campaign/internal/cli/root"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/prefixes"
)

func readPrefixList(path string) ([]netip.Prefix, error) {
	if path == "" {
		return nil, nil
	}
	filep, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer filep.Close()
	list, err := prefixes.ReadPrefixList(filep)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return list, nil
}

func init() {
	cmd := root.Command("prefixes", "Build the prefix universe from the announced routes.")
	announced := cmd.Flag("announced", "File containing the announced prefixes.").Required().ExistingFile()
	excluded := cmd.Flag("excluded", "File containing the excluded prefixes.").ExistingFile()
	out := cmd.Flag("out", "Output universe file.").Required().String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		routes, err := readPrefixList(*announced)
		if err != nil {
			log.WithError(err).Error("failed to read the announced prefixes")
			return err
		}
		exclusions, err := readPrefixList(*excluded)
		if err != nil {
			log.WithError(err).Error("failed to read the excluded prefixes")
			return err
		}
		groups, err := prefixes.Build(routes, exclusions)
		if err != nil {
			log.WithError(err).Error("failed to build the universe")
			return err
		}
		if err := prefixes.Save(*out, groups); err != nil {
			log.WithError(err).Error("failed to save the universe")
			return err
		}
		log.Infof("saved %d groups containing %d prefixes to %s", len(groups), model.TotalSize(groups), *out)
		return nil
	})
}
