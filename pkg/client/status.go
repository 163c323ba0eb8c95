package client

import (
	"context"
	"net/http"
	"net/url"

	"pipestat/pkg/api"
)

const (
	// StatusMethod is http method used for endpoint Status
	StatusMethod = http.MethodGet
	// StatusPath is the path definition of the endpoint Status.
	StatusPath = "/api/pipelines/status"
)

// StatusQuery returns the query string encoding the given filter
func StatusQuery(filter api.Filter) string {
	q := url.Values{}
	for _, n := range filter.Names {
		q.Add(NameParam, n)
	}
	if filter.Operation != "" {
		q.Set(OperationParam, string(filter.Operation))
	}
	return q.Encode()
}

// FilterFromQuery returns the filter encoded in the given query values
func FilterFromQuery(q url.Values) api.Filter {
	return api.Filter{
		Names:     q[NameParam],
		Operation: api.FilterOperation(q.Get(OperationParam)),
	}
}

func (cli client) Status(ctx context.Context, filter api.Filter) ([]api.PipelineRecord, error) {
	u := cli.path(StatusPath)
	if q := StatusQuery(filter); q != "" {
		u += "?" + q
	}
	res := []api.PipelineRecord{}
	if err := cli.get(ctx, u, "snapshot", &res); err != nil {
		return nil, err
	}
	return res, nil
}
