package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatusString(t *testing.T) {
	assert.Equal(t, "CREATING", TaskStatusCreating.String())
	assert.Equal(t, "FAILED", TaskStatusFailed.String())
	assert.Equal(t, "WAITING_ON_DEPENDENCIES", TaskStatusWaitingOnDependencies.String())
	assert.Equal(t, "", TaskStatusUnknown.String())
}

func TestParseTaskStatus(t *testing.T) {
	all := []TaskStatus{
		TaskStatusCreating,
		TaskStatusFailed,
		TaskStatusFinished,
		TaskStatusRunning,
		TaskStatusWaitingForRunner,
		TaskStatusWaitingOnDependencies,
	}
	for _, s := range all {
		assert.Equal(t, s, ParseTaskStatus(s.String()))
		assert.True(t, s.Known())
	}

	assert.Equal(t, TaskStatusUnknown, ParseTaskStatus(""))
	assert.Equal(t, TaskStatusUnknown, ParseTaskStatus("running"))
	assert.Equal(t, TaskStatusUnknown, ParseTaskStatus("CASCADE_FAILED"))
	assert.False(t, TaskStatusUnknown.Known())
}

func TestIsBuilding(t *testing.T) {
	t.Run("building", func(t *testing.T) {
		assert.True(t, IsBuilding("CREATING"))
		assert.True(t, IsBuilding("RUNNING"))
		assert.True(t, IsBuilding("WAITING_FOR_RUNNER"))
		assert.True(t, IsBuilding("WAITING_ON_DEPENDENCIES"))
	})

	t.Run("inactive", func(t *testing.T) {
		assert.False(t, IsBuilding("FAILED"))
		assert.False(t, IsBuilding("FINISHED"))
		assert.False(t, IsBuilding(""))
		assert.False(t, IsBuilding("SOMETHING_ELSE"))
		assert.False(t, TaskStatusUnknown.Building())
	})
}

func TestTaskStatusJSON(t *testing.T) {
	b, err := json.Marshal([]TaskStatus{TaskStatusRunning, TaskStatusUnknown})
	require.NoError(t, err)
	assert.Equal(t, `["RUNNING",""]`, string(b))

	var s []TaskStatus
	require.NoError(t, json.Unmarshal([]byte(`["FINISHED","bogus"]`), &s))
	assert.Equal(t, []TaskStatus{TaskStatusFinished, TaskStatusUnknown}, s)
}
