package status

import (
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

// ListPipelineIDs returns the identifiers of all pipelines, following list markers until the last page.
// Identifiers are returned in API order, duplicates are kept.
// When a page cannot be fetched, no identifier is returned unless partial results are enabled,
// in which case the identifiers of the pages fetched so far are returned with the error.
func (a *Aggregator) ListPipelineIDs(ctx context.Context) ([]string, error) {
	var ids []string
	marker := ""
	for page := 1; ; page++ {
		p, err := a.cli.ListPipelines(ctx, marker)
		if err != nil {
			err = errors.Wrapf(err, "cannot fetch page %d of pipelines", page)
			if a.conf.PartialResults {
				return ids, err
			}
			return nil, err
		}
		ctx.Logger().Tracef("page %d lists %d pipelines", page, len(p.IDs))
		ids = append(ids, p.IDs...)
		if p.Marker == nil {
			return ids, nil
		}
		marker = *p.Marker
	}
}
