package status

import (
	"pipestat/pkg/datapipeline"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

// DescribePipelines returns the metadata of the given pipelines, described by batches of
// datapipeline.MaxDescribeIDs in input order.
// A failed batch discards the whole result unless partial results are enabled,
// in which case the other batches are kept and one error is returned per failed batch.
func (a *Aggregator) DescribePipelines(ctx context.Context, ids []string) ([]datapipeline.PipelineDescription, []error) {
	var res []datapipeline.PipelineDescription
	var errs []error
	for i, batch := range batches(ids, datapipeline.MaxDescribeIDs) {
		descs, err := a.cli.DescribePipelines(ctx, batch)
		if err != nil {
			err = errors.Wrapf(err, "cannot describe batch %d of %d pipelines", i+1, len(batch))
			if !a.conf.PartialResults {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		res = append(res, descs...)
	}
	return res, errs
}

// batches splits ids into consecutive slices of at most size elements
func batches(ids []string, size int) [][]string {
	var res [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		res = append(res, ids[start:end])
	}
	return res
}
