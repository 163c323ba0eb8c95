package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/events"
	"pipestat/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterOptions(t *testing.T) {
	f, err := filterOptions{names: []string{"a"}, operation: "include"}.filter()
	require.NoError(t, err)
	assert.Equal(t, api.Filter{Names: []string{"a"}, Operation: api.FilterInclude}, f)

	_, err = filterOptions{operation: "only"}.filter()
	assert.Error(t, err)
}

func snapshotServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/snapshot":
			json.NewEncoder(w).Encode(api.Snapshot{
				RunID:     "run-1",
				QueryTime: time.Date(2012, 2, 14, 9, 0, 0, 0, time.UTC),
				Pipelines: []api.PipelineRecord{
					{ID: "df-1", Name: "a", HealthStatus: "HEALTHY"},
					{ID: "df-2", Name: "b", HealthStatus: "ERROR"},
				},
			})
		case "/api/objects":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(api.ErrorResponse{Message: "No results!"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStatusRemote(t *testing.T) {
	srv := snapshotServer(t)
	var buf bytes.Buffer

	opts := statusOptions{filterOptions: filterOptions{names: []string{"a"}, operation: "exclude"}, remote: srv.URL}
	require.NoError(t, status(context.Background(), &buf, opts))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var r api.PipelineRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &r))
	assert.Equal(t, "df-2", r.ID)

	buf.Reset()
	opts = statusOptions{filterOptions: filterOptions{operation: "exclude"}, remote: srv.URL, table: true}
	require.NoError(t, status(context.Background(), &buf, opts))
	assert.Contains(t, buf.String(), "✖ b")
}

func TestLsInvalidLocation(t *testing.T) {
	var buf bytes.Buffer
	err := ls(context.Background(), &buf, "bucket/prefix", "")
	require.Error(t, err)
	assert.True(t, Printed(err))
	assert.Equal(t, `{"message":"No results!"}`+"\n", buf.String())
}

func TestLsRemoteError(t *testing.T) {
	srv := snapshotServer(t)
	var buf bytes.Buffer
	err := ls(context.Background(), &buf, "bucket", srv.URL)
	require.Error(t, err)
	assert.True(t, Printed(err))
	assert.Equal(t, `{"message":"No results!"}`+"\n", buf.String())
}

func TestPrintAlert(t *testing.T) {
	var buf bytes.Buffer
	h := printAlert(&buf)
	ctx := context.Background()

	require.NoError(t, h(ctx, events.Event{Type: events.TypeSnapshot, Data: json.RawMessage(`{}`)}))
	require.NoError(t, h(ctx, events.Event{Type: events.TypeUnhealthy, Data: json.RawMessage(`{"id":"df-2"}`)}))
	require.NoError(t, h(ctx, events.Event{Type: events.TypeUnhealthy, Data: api.ErrorResponse{Message: "x"}}))
	assert.Equal(t, "{\"id\":\"df-2\"}\n{\"message\":\"x\"}\n", buf.String())
}
