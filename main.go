package main

import (
	"os"

	"github.com/bitrise-io/sage/cmd"
	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/logger"
)

func main() {
	err := cmd.Execute()
	cmd.PrintError(os.Stderr, err)
	logger.Sync()
	os.Exit(errs.ExitCode(err))
}
