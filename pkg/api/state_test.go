package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record() PipelineRecord {
	t := time.Date(2017, 8, 31, 14, 58, 4, 0, time.UTC)
	since := "48448299"
	return PipelineRecord{
		ID:               "df-0977100BVBIK29Y9RF6",
		Name:             "Author Profile Backfill Pipeline",
		AccountID:        "242194143705",
		HealthStatus:     "HEALTHY",
		PipelineState:    "FINISHED",
		LatestRunTime:    &t,
		NextRunTime:      &t,
		ScheduledPeriod:  "24 hours",
		SinceLastRunTime: &since,
	}
}

func TestPipelineRecordJSON(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		expected := `{"id":"df-0977100BVBIK29Y9RF6","name":"Author Profile Backfill Pipeline","account_id":"242194143705","health_status":"HEALTHY","pipeline_state":"FINISHED","latest_run_time":"2017-08-31T14:58:04Z","next_run_time":"2017-08-31T14:58:04Z","scheduled_period":"24 hours","since_last_run_time":"48448299","tasks":[]}`
		b, err := json.Marshal(record())
		require.NoError(t, err)
		assert.Equal(t, expected, string(b))
	})

	t.Run("absent_optionals", func(t *testing.T) {
		r := record()
		r.LatestRunTime = nil
		r.NextRunTime = nil
		r.SinceLastRunTime = nil
		r.Tasks = []PipelineTask{{
			PipelineID:    r.ID,
			TaskID:        "@Copy_2017-08-31T14:58:04_Attempt=1",
			TaskName:      "Copy",
			Status:        TaskStatusRunning,
			AttemptStatus: "",
		}}
		expected := `{"id":"df-0977100BVBIK29Y9RF6","name":"Author Profile Backfill Pipeline","account_id":"242194143705","health_status":"HEALTHY","pipeline_state":"FINISHED","latest_run_time":null,"next_run_time":null,"scheduled_period":"24 hours","since_last_run_time":null,"tasks":[{"pipeline_id":"df-0977100BVBIK29Y9RF6","task_id":"@Copy_2017-08-31T14:58:04_Attempt=1","task_name":"Copy","status":"RUNNING","attempt_status":""}]}`
		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Equal(t, expected, string(b))
	})
}

func TestPipelineRecordHealth(t *testing.T) {
	healthy := record()
	assert.True(t, healthy.IsHealthy())

	broken := record()
	broken.HealthStatus = "ERROR"
	assert.False(t, broken.IsHealthy())
}

func TestPipelineRecordBuilding(t *testing.T) {
	r := record()
	assert.False(t, r.IsBuilding())

	r.Tasks = []PipelineTask{{Status: TaskStatusFinished}, {Status: TaskStatusUnknown}}
	assert.False(t, r.IsBuilding())

	r.Tasks = append(r.Tasks, PipelineTask{Status: TaskStatusWaitingForRunner})
	assert.True(t, r.IsBuilding())
}

func TestFilter(t *testing.T) {
	include := Filter{Names: []string{"A", "B"}, Operation: FilterInclude}
	assert.True(t, include.Keep("A"))
	assert.False(t, include.Keep("C"))

	exclude := Filter{Names: []string{"A", "B"}, Operation: FilterExclude}
	assert.False(t, exclude.Keep("A"))
	assert.True(t, exclude.Keep("C"))

	// Unknown operations behave as exclude
	other := Filter{Names: []string{"A"}, Operation: "whatever"}
	assert.False(t, other.Keep("A"))
	assert.True(t, other.Keep("C"))

	assert.True(t, Filter{}.Keep("anything"))
	assert.False(t, Filter{Operation: FilterInclude}.Keep("anything"))

	records := []PipelineRecord{{Name: "C"}, {Name: "A"}, {Name: "D"}}
	assert.Equal(t, []PipelineRecord{{Name: "C"}, {Name: "D"}}, exclude.Apply(records))
}

func TestErrorJSON(t *testing.T) {
	assert.Equal(t, `{"message":"access denied"}`, ErrorJSON("access denied"))
}
