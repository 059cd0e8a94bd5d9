package main // Entry point package

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/dinner-invite/internal/pkg/logger"
)

const releaseVersion = "1.0.0"

func main() {
	err := newRootCmd().Execute()
	_ = logger.Sync()
	cobra.CheckErr(err)
}
