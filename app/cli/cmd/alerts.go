package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pipestat/pkg/broker"
	"pipestat/pkg/events"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewAlertsCommand returns a new instance of a pipestat command
func NewAlertsCommand() *cobra.Command {
	var pipelineID, queue string
	command := &cobra.Command{
		Use:   "alerts",
		Short: "print the records of unhealthy pipelines as they are published, one JSON record per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			b, err := broker.NewFromConfig(ctx, "broker")
			if err != nil {
				return errors.Wrap(err, "cannot create broker")
			}
			defer b.Close()
			return alerts(ctx, os.Stdout, b, broker.ExchangeFromConfig("broker"), queue, pipelineID)
		},
	}
	command.Flags().StringVar(&pipelineID, "pipeline", "", "only print alerts of the pipeline with this id")
	command.Flags().StringVar(&queue, "queue", "", "durable queue to consume from, an exclusive one is created if not set")
	return command
}

func alerts(ctx context.Context, w io.Writer, b broker.Broker, exchange, queue, pipelineID string) error {
	if err := b.DeclareExchange(ctx, exchange); err != nil {
		return err
	}
	qname, err := b.CreateQueue(ctx, queue, exchange, broker.BindingKeyUnhealthy(pipelineID))
	if err != nil {
		return err
	}
	return b.Receive(ctx, printAlert(w), qname)
}

// printAlert returns a handler printing the record carried by UNHEALTHY events
func printAlert(w io.Writer) broker.HandleFunc {
	return func(ctx context.Context, evt events.Event) error {
		if evt.Type != events.TypeUnhealthy {
			ctx.Logger().Debugf("ignoring event %s", evt)
			return nil
		}
		raw, ok := evt.Data.(json.RawMessage)
		if !ok {
			b, err := json.Marshal(evt.Data)
			if err != nil {
				return errors.Wrapf(err, "cannot encode event %s", evt)
			}
			raw = b
		}
		_, err := fmt.Fprintln(w, string(raw))
		return err
	}
}
