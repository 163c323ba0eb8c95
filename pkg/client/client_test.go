package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pipestat/pkg/api"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conf := DefaultConfig()
	conf.URI = srv.URL + "/"
	conf.RetryMax = 0
	cli, err := NewClientWithConfig(conf)
	require.NoError(t, err)
	return cli
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
	_, err = NewClient("http://localhost:8080")
	assert.NoError(t, err)
}

func TestStatus(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, StatusPath, r.URL.Path)
		f := FilterFromQuery(r.URL.Query())
		assert.Equal(t, []string{"a", "b c"}, f.Names)
		assert.Equal(t, api.FilterInclude, f.Operation)
		writeJSON(w, http.StatusOK, []api.PipelineRecord{{ID: "df-1", Name: "a"}, {ID: "df-2", Name: "b c"}})
	})

	res, err := cli.Status(context.Background(), api.Filter{Names: []string{"a", "b c"}, Operation: api.FilterInclude})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "df-2", res[1].ID)
	assert.NotNil(t, res[0].Tasks)
}

func TestStatusQuery(t *testing.T) {
	assert.Equal(t, "", StatusQuery(api.Filter{}))
	assert.Equal(t, "name=a&name=b&op=exclude", StatusQuery(api.Filter{Names: []string{"a", "b"}, Operation: api.FilterExclude}))
}

func TestPipeline(t *testing.T) {
	ts := time.Date(2017, 8, 31, 14, 58, 4, 0, time.UTC)
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/pipelines/df-1":
			writeJSON(w, http.StatusOK, api.PipelineRecord{
				ID:            "df-1",
				LatestRunTime: &ts,
				Tasks:         []api.PipelineTask{{TaskID: "t1", Status: api.TaskStatusRunning}},
			})
		default:
			writeJSON(w, http.StatusNotFound, api.ErrorResponse{Message: "not found"})
		}
	})

	r, err := cli.Pipeline(context.Background(), "df-1")
	require.NoError(t, err)
	assert.Equal(t, "df-1", r.ID)
	require.NotNil(t, r.LatestRunTime)
	assert.True(t, ts.Equal(*r.LatestRunTime))
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, api.TaskStatusRunning, r.Tasks[0].Status)

	_, err = cli.Pipeline(context.Background(), "df-2")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "pipeline df-2 not found")
}

func TestSnapshot(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SnapshotPath, r.URL.Path)
		writeJSON(w, http.StatusOK, api.Snapshot{
			RunID:    "run-1",
			Failures: []api.Failure{{Stage: api.StageTasks, PipelineID: "df-1", Message: "boom"}},
		})
	})

	snap, err := cli.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", snap.RunID)
	require.Len(t, snap.Failures, 1)
	assert.Equal(t, api.StageTasks, snap.Failures[0].Stage)
}

func TestObjects(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ObjectsPath, r.URL.Path)
		switch r.URL.Query().Get(PathParam) {
		case "s3://bucket/prefix":
			writeJSON(w, http.StatusOK, []api.ObjectInfo{{Key: "prefix/a", Size: 3, LastModified: "2019-03-01T10:00:00.000Z"}})
		case "bucket":
			writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Message: "No results!"})
		default:
			writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Message: "access denied"})
		}
	})
	ctx := context.Background()

	res, err := cli.Objects(ctx, "s3://bucket/prefix")
	require.NoError(t, err)
	assert.Equal(t, []api.ObjectInfo{{Key: "prefix/a", Size: 3, LastModified: "2019-03-01T10:00:00.000Z"}}, res)

	_, err = cli.Objects(ctx, "bucket")
	require.Error(t, err)
	var badRequest ErrBadRequest
	assert.True(t, errors.As(err, &badRequest))
	assert.EqualError(t, err, "No results!")

	_, err = cli.Objects(ctx, "s3://forbidden/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "500")
}
