package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/bdl/cli"
	"github.com/ardnew/bdl/cli/cmd"
	"github.com/ardnew/bdl/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Debug("run failed", slog.Any("error", err))
		cmd.Report(os.Stderr, err)
		os.Exit(1)
	}
}
