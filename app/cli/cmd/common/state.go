package common

import (
	gocontext "context"

	"pipestat/app/cli/cmd/client"
	"pipestat/pkg/api"
	"pipestat/pkg/status"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

// Source returns snapshots of the pipelines status
type Source interface {
	Snapshot(ctx context.Context, filter api.Filter) (api.Snapshot, error)
}

// NewSource returns a Source querying the pipestat server at the given uri,
// or running the aggregation locally if uri is empty.
func NewSource(ctx context.Context, uri string) (Source, error) {
	if uri != "" {
		cli, err := client.New(uri)
		if err != nil {
			return nil, errors.Wrap(err, "cannot create pipestat client")
		}
		return remote{cli: cli}, nil
	}
	agg, err := status.NewFromConfig(ctx)
	if err != nil {
		return nil, err
	}
	return local{agg: agg}, nil
}

type local struct {
	agg *status.Aggregator
}

func (l local) Snapshot(ctx context.Context, filter api.Filter) (api.Snapshot, error) {
	return l.agg.Run(ctx, filter)
}

type snapshotter interface {
	Snapshot(ctx gocontext.Context) (api.Snapshot, error)
}

type remote struct {
	cli snapshotter
}

// Snapshot returns the latest snapshot of the server with only the records passing the filter.
func (r remote) Snapshot(ctx context.Context, filter api.Filter) (api.Snapshot, error) {
	snap, err := r.cli.Snapshot(ctx)
	if err != nil {
		return api.Snapshot{}, errors.Wrap(err, "cannot get snapshot from server")
	}
	snap.Pipelines = filter.Apply(snap.Pipelines)
	return snap, nil
}
