package client

import (
	"context"
	"net/http"
	"net/url"

	"pipestat/pkg/api"
)

const (
	// ObjectsMethod is http method used for endpoint Objects
	ObjectsMethod = http.MethodGet
	// ObjectsPath is the path definition of the endpoint Objects.
	ObjectsPath = "/api/objects"
)

func (cli client) Objects(ctx context.Context, path string) ([]api.ObjectInfo, error) {
	q := url.Values{}
	q.Set(PathParam, path)
	res := []api.ObjectInfo{}
	if err := cli.get(ctx, cli.path(ObjectsPath)+"?"+q.Encode(), "bucket "+path, &res); err != nil {
		return nil, err
	}
	return res, nil
}
