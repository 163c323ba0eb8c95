package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pipestat/pkg/api"
)

const (
	// PipelineMethod is http method used for endpoint Pipeline
	PipelineMethod     = http.MethodGet
	pipelinePathFormat = "/api/pipelines/%s"
)

var (
	// PipelinePath is the path definition of the endpoint Pipeline.
	PipelinePath = fmt.Sprintf(pipelinePathFormat, fmt.Sprintf(":%s", PipelineIDParam))
)

func (cli client) Pipeline(ctx context.Context, pid string) (api.PipelineRecord, error) {
	var res api.PipelineRecord
	if err := cli.get(ctx, cli.path(pipelinePathFormat, url.PathEscape(pid)), fmt.Sprintf("pipeline %s", pid), &res); err != nil {
		return api.PipelineRecord{}, err
	}
	return res, nil
}
