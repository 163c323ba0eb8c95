package status

import (
	"pipestat/pkg/api"
	"pipestat/pkg/datapipeline"
	"pipestat/pkg/util/context"
	"pipestat/pkg/util/maps"

	"github.com/pkg/errors"
)

const (
	fieldTaskStatus    = "@status"
	fieldAttemptStatus = "attemptStatus"
)

// FetchTasks returns the attempt objects of the given pipeline whose status is in allowed.
// If allowed is empty, every attempt is returned, whatever its status.
// A non nil error tells the tasks could not be fetched; the returned tasks are then empty,
// which must not be read as "the pipeline has no task".
func (a *Aggregator) FetchTasks(ctx context.Context, pipelineID string, allowed []api.TaskStatus) ([]api.PipelineTask, error) {
	ids, err := a.cli.QueryObjects(ctx, pipelineID, datapipeline.SphereAttempt)
	if err != nil {
		return []api.PipelineTask{}, errors.Wrap(err, "cannot query attempts")
	}
	if len(ids) == 0 {
		return []api.PipelineTask{}, nil
	}

	var objects []datapipeline.PipelineObject
	for _, batch := range batches(ids, datapipeline.MaxDescribeIDs) {
		objs, err := a.cli.DescribeObjects(ctx, pipelineID, batch)
		if err != nil {
			return []api.PipelineTask{}, errors.Wrapf(err, "cannot describe %d attempts", len(ids))
		}
		objects = append(objects, objs...)
	}

	tasks := make([]api.PipelineTask, 0, len(objects))
	unknown := 0
	for _, o := range objects {
		fields := datapipeline.FieldMap(o.Fields)
		status := api.ParseTaskStatus(maps.GetOrBlank(fields, fieldTaskStatus))
		if !status.Known() {
			unknown++
		}
		if len(allowed) > 0 && !status.In(allowed) {
			continue
		}
		tasks = append(tasks, api.PipelineTask{
			PipelineID:    pipelineID,
			TaskID:        o.ID,
			TaskName:      o.Name,
			Status:        status,
			AttemptStatus: maps.GetOrBlank(fields, fieldAttemptStatus),
		})
	}
	ctx.Logger().Tracef("%d of %d attempts kept, %d with an unknown status", len(tasks), len(objects), unknown)
	return tasks, nil
}
