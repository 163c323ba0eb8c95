package client

import (
	"context"
	"net/http"

	"pipestat/pkg/api"
)

const (
	// SnapshotMethod is http method used for endpoint Snapshot
	SnapshotMethod = http.MethodGet
	// SnapshotPath is the path definition of the endpoint Snapshot.
	SnapshotPath = "/api/snapshot"
)

func (cli client) Snapshot(ctx context.Context) (api.Snapshot, error) {
	var res api.Snapshot
	if err := cli.get(ctx, cli.path(SnapshotPath), "snapshot", &res); err != nil {
		return api.Snapshot{}, err
	}
	return res, nil
}
