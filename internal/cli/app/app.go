// Package app contains the CLI entry point.
package app

import (
	"os"

	"github.com/topoprobe/campaign/internal/cli/root"
	"github.com/topoprobe/campaign/internal/version"
)

// Run the app. This is the main app entry point
func Run() error {
	root.Cmd.Version(version.Version)
	_, err := root.Cmd.Parse(os.Args[1:])
	return err
}
