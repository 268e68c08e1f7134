// Command campaign runs multi-arm topology probing campaigns.
package main

import (
	"os"

	"github.com/apex/log"
	"github.com/topoprobe/campaign/internal/cli/app"
	_ "github.com/topoprobe/campaign/internal/cli/prefixes"
	_ "github.com/topoprobe/campaign/internal/cli/rank"
	_ "github.com/topoprobe/campaign/internal/cli/run"
	_ "github.com/topoprobe/campaign/internal/cli/sample"
	_ "github.com/topoprobe/campaign/internal/cli/show"
	_ "github.com/topoprobe/campaign/internal/cli/status"
	_ "github.com/topoprobe/campaign/internal/cli/version"
)

func main() {
	if err := app.Run(); err != nil {
		log.WithError(err).Error("exiting with error")
		os.Exit(1)
	}
}
