package cmd

import (
	"time"

	"pipestat/app/cli/cmd/common"
	"pipestat/pkg/util/context"

	tm "github.com/buger/goterm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	filterOptions
	remote   string
	interval time.Duration
}

// NewWatchCommand returns a new instance of a pipestat command
func NewWatchCommand() *cobra.Command {
	var opts watchOptions
	command := &cobra.Command{
		Use:   "watch",
		Short: "refresh a table of the pipelines status until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return watch(ctx, opts)
		},
	}
	opts.addFlags(command)
	command.Flags().StringVar(&opts.remote, "remote", "", "uri of a pipestat server to query instead of AWS")
	command.Flags().DurationVar(&opts.interval, "interval", 30*time.Second, "refresh interval")
	return command
}

func watch(ctx context.Context, opts watchOptions) error {
	filter, err := opts.filter()
	if err != nil {
		return err
	}
	src, err := common.NewSource(ctx, opts.remote)
	if err != nil {
		return err
	}
	tm.Clear()
	for {
		snap, err := src.Snapshot(ctx, filter)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "cannot get pipelines status")
		}
		tm.Clear()
		tm.MoveCursor(1, 1)
		common.PrintSnapshot(tm.Screen, snap, common.PrintOptions{Now: time.Now(), Failures: true})
		tm.Flush()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(opts.interval):
		}
	}
}
