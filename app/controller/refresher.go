package main

import (
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/broker"
	"pipestat/pkg/store"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

// runner performs aggregation runs
type runner interface {
	Run(ctx context.Context, filter api.Filter) (api.Snapshot, error)
}

// refresher periodically runs the aggregation and saves the resulting snapshot.
// If a broker is set, snapshots are published too.
type refresher struct {
	agg      runner
	store    store.SnapshotWriter
	broker   broker.Broker
	exchange string
	filter   api.Filter
	interval time.Duration
}

// refresh performs one aggregation run.
// A publishing failure is logged only, the snapshot is saved anyway.
func (r refresher) refresh(ctx context.Context) error {
	snap, err := r.agg.Run(ctx, r.filter)
	if err != nil {
		return errors.Wrap(err, "cannot refresh snapshot")
	}
	if err := r.store.SaveSnapshot(ctx, snap); err != nil {
		return errors.Wrapf(err, "cannot save snapshot of run %s", snap.RunID)
	}
	if r.broker != nil {
		if err := broker.PublishSnapshot(ctx, r.broker, r.exchange, snap); err != nil {
			context.WithRunID(ctx, snap.RunID).Logger().Error(err)
		}
	}
	return nil
}

// run refreshes the snapshot right away then at every interval, until ctx is done
func (r refresher) run(ctx context.Context) {
	if r.interval <= 0 {
		r.interval = time.Minute
	}
	ctx.Logger().Infof("refreshing snapshot every %s", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if err := r.refresh(ctx); err != nil {
			ctx.Logger().Error(err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
