package cmd

import (
	"io"
	"os"

	"pipestat/app/cli/cmd/common"
	"pipestat/pkg/api"
	"pipestat/pkg/broker"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	names     []string
	operation string
}

func (o *filterOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.names, "filter", "f", nil, "pipeline name to filter on, can be repeated")
	cmd.Flags().StringVar(&o.operation, "op", string(api.FilterExclude), "filter operation, include or exclude")
}

func (o filterOptions) filter() (api.Filter, error) {
	op := api.FilterOperation(o.operation)
	if op != api.FilterInclude && op != api.FilterExclude {
		return api.Filter{}, errors.Errorf("unknown filter operation %s", o.operation)
	}
	return api.Filter{Names: o.names, Operation: op}, nil
}

type statusOptions struct {
	filterOptions
	table   bool
	remote  string
	publish bool
}

// NewStatusCommand returns a new instance of a pipestat command
func NewStatusCommand() *cobra.Command {
	var opts statusOptions
	command := &cobra.Command{
		Use:   "status",
		Short: "print the status of the pipelines, one JSON record per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return status(ctx, os.Stdout, opts)
		},
	}
	opts.addFlags(command)
	command.Flags().BoolVar(&opts.table, "table", false, "print a table instead of JSON records")
	command.Flags().StringVar(&opts.remote, "remote", "", "uri of a pipestat server to query instead of AWS")
	command.Flags().BoolVar(&opts.publish, "publish", false, "publish the snapshot to the configured broker")
	return command
}

func status(ctx context.Context, w io.Writer, opts statusOptions) error {
	filter, err := opts.filter()
	if err != nil {
		return err
	}
	src, err := common.NewSource(ctx, opts.remote)
	if err != nil {
		return err
	}
	snap, err := src.Snapshot(ctx, filter)
	if err != nil {
		return err
	}
	for _, f := range snap.Failures {
		ctx.Logger().Warnf("%s failure %s: %s", f.Stage, f.PipelineID, f.Message)
	}

	if opts.publish {
		if err := publish(ctx, snap); err != nil {
			return err
		}
	}

	if opts.table {
		common.PrintSnapshot(w, snap, common.PrintOptions{Failures: true})
		return nil
	}
	return common.PrintJSON(w, snap.Pipelines)
}

func publish(ctx context.Context, snap api.Snapshot) error {
	b, err := broker.NewFromConfig(ctx, "broker")
	if err != nil {
		return errors.Wrap(err, "cannot create broker")
	}
	defer b.Close()
	exchange := broker.ExchangeFromConfig("broker")
	if err := b.DeclareExchange(ctx, exchange); err != nil {
		return err
	}
	return broker.PublishSnapshot(ctx, b, exchange, snap)
}
