package main

import (
	"os"

	"pipestat/app/cli/cmd"
	"pipestat/pkg/util/context"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		if !cmd.Printed(err) {
			context.Background().Logger().Error(err)
		}
		os.Exit(1)
	}
}
