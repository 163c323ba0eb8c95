package status

import (
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/datapipeline"
	"pipestat/pkg/util/context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Aggregator builds the status records of the pipelines reachable with a Data Pipeline client.
type Aggregator struct {
	cli  datapipeline.Client
	conf datapipeline.Config
	now  func() time.Time
}

// New returns a new Aggregator
func New(cli datapipeline.Client, conf datapipeline.Config) *Aggregator {
	if conf.Concurrency < 1 {
		conf.Concurrency = 1
	}
	return &Aggregator{
		cli:  cli,
		conf: conf,
		now:  time.Now,
	}
}

// NewFromConfig returns an Aggregator over the AWS Data Pipeline service,
// configured from the datapipeline section of the config and/or env variables
func NewFromConfig(ctx context.Context) (*Aggregator, error) {
	conf, err := datapipeline.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	cli, err := datapipeline.NewAWSClient(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create data pipeline client")
	}
	return New(cli, conf), nil
}

// SetClock sets the function returning the query time of each run
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Status returns the status records of the pipelines passing the filter, in pipeline order.
// Failures are logged and never returned: a cancelled run returns no record.
func (a *Aggregator) Status(ctx context.Context, filter api.Filter) []api.PipelineRecord {
	snap, err := a.Run(ctx, filter)
	if err != nil {
		ctx.Logger().Error(err)
		return []api.PipelineRecord{}
	}
	return snap.Pipelines
}

// Run performs an aggregation run and returns its snapshot.
// Listing, describing and task fetching failures are recovered and reported in the snapshot.
// The only error returned is the cancellation of ctx (or the configured timeout),
// in which case the partial result is discarded.
func (a *Aggregator) Run(ctx context.Context, filter api.Filter) (api.Snapshot, error) {
	ctx = context.WithRunID(ctx, uuid.New().String())
	ctx, cancel := context.WithTimeout(ctx, a.conf.Timeout)
	defer cancel()

	snap := api.Snapshot{
		RunID:     ctx.RunID(),
		QueryTime: a.now().UTC(),
		Pipelines: []api.PipelineRecord{},
	}
	ctx.Logger().Debugf("starting aggregation run with filter %s %v", filter.Operation, filter.Names)

	ids, err := a.ListPipelineIDs(ctx)
	if err != nil {
		ctx.Logger().Warn(err)
		snap.Failures = append(snap.Failures, api.Failure{Stage: api.StageList, Message: err.Error()})
	}
	if err := ctx.Err(); err != nil {
		return api.Snapshot{}, errors.Wrap(err, "aggregation run interrupted while listing pipelines")
	}

	descs, errs := a.DescribePipelines(ctx, ids)
	for _, err := range errs {
		ctx.Logger().Warn(err)
		snap.Failures = append(snap.Failures, api.Failure{Stage: api.StageDescribe, Message: err.Error()})
	}
	if err := ctx.Err(); err != nil {
		return api.Snapshot{}, errors.Wrap(err, "aggregation run interrupted while describing pipelines")
	}

	var kept []datapipeline.PipelineDescription
	for _, d := range descs {
		if filter.Keep(d.Name) {
			kept = append(kept, d)
		}
	}
	ctx.Logger().Debugf("%d pipelines listed, %d described, %d kept by filter", len(ids), len(descs), len(kept))

	type result struct {
		record api.PipelineRecord
		ok     bool
		err    error
	}
	results := make([]result, len(kept))

	var g errgroup.Group
	g.SetLimit(a.conf.Concurrency)
	for i, d := range kept {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pctx := context.WithPipelineID(ctx, d.PipelineID)
			tasks, err := a.FetchTasks(pctx, d.PipelineID, api.BuildingStatuses)
			if err != nil {
				pctx.Logger().Warn(err)
			}
			r, ok := BuildRecord(tasks, datapipeline.FieldMap(d.Fields), snap.QueryTime)
			if !ok {
				pctx.Logger().Debugf("pipeline %s dropped, id, name or health status is missing", d.Name)
			}
			results[i] = result{record: r, ok: ok, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return api.Snapshot{}, errors.Wrap(err, "aggregation run interrupted while fetching tasks")
	}
	if err := ctx.Err(); err != nil {
		return api.Snapshot{}, errors.Wrap(err, "aggregation run interrupted while fetching tasks")
	}

	for i, r := range results {
		if r.err != nil {
			snap.Failures = append(snap.Failures, api.Failure{
				Stage:      api.StageTasks,
				PipelineID: kept[i].PipelineID,
				Message:    r.err.Error(),
			})
		}
		if r.ok {
			snap.Pipelines = append(snap.Pipelines, r.record)
		}
	}
	ctx.Logger().Infof("aggregation run done, %d pipelines reported, %d failures", len(snap.Pipelines), len(snap.Failures))
	return snap, nil
}
