package api

import (
	"encoding/json"
	"time"
)

const (
	// HealthStatusHealthy is the health token reported for healthy pipelines
	HealthStatusHealthy = "HEALTHY"

	// PipelineStateScheduled is the state of a pipeline waiting for its next scheduled run
	PipelineStateScheduled = "SCHEDULED"
)

// PipelineTask represents one execution attempt of a pipeline.
type PipelineTask struct {
	PipelineID    string     `json:"pipeline_id"`
	TaskID        string     `json:"task_id"`
	TaskName      string     `json:"task_name"`
	Status        TaskStatus `json:"status"`
	AttemptStatus string     `json:"attempt_status"`
}

// PipelineRecord is the status of a pipeline at a given query time.
type PipelineRecord struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	AccountID        string         `json:"account_id"`
	HealthStatus     string         `json:"health_status"`
	PipelineState    string         `json:"pipeline_state"`
	LatestRunTime    *time.Time     `json:"latest_run_time"`
	NextRunTime      *time.Time     `json:"next_run_time"`
	ScheduledPeriod  string         `json:"scheduled_period"`
	SinceLastRunTime *string        `json:"since_last_run_time"`
	Tasks            []PipelineTask `json:"tasks"`
}

// IsBuilding returns true if at least one task is in a building status
func (r PipelineRecord) IsBuilding() bool {
	for _, t := range r.Tasks {
		if t.Status.Building() {
			return true
		}
	}
	return false
}

// IsHealthy returns true if the pipeline reports the HEALTHY status
func (r PipelineRecord) IsHealthy() bool {
	return r.HealthStatus == HealthStatusHealthy
}

// MarshalJSON always renders tasks as an array
func (r PipelineRecord) MarshalJSON() ([]byte, error) {
	type record PipelineRecord
	if r.Tasks == nil {
		r.Tasks = []PipelineTask{}
	}
	return json.Marshal(record(r))
}

// Stage identifies the aggregation step a failure happened in
type Stage string

const (
	// StageList is the pipeline listing step
	StageList Stage = "LIST"
	// StageDescribe is the pipeline metadata step
	StageDescribe Stage = "DESCRIBE"
	// StageTasks is the per pipeline task fetching step
	StageTasks Stage = "TASKS"
)

// Failure is a recovered error that happened during an aggregation run.
type Failure struct {
	Stage      Stage  `json:"stage"`
	PipelineID string `json:"pipeline_id,omitempty"`
	Message    string `json:"message"`
}

// Snapshot is the result of one aggregation run.
type Snapshot struct {
	RunID     string           `json:"run_id"`
	QueryTime time.Time        `json:"query_time"`
	Pipelines []PipelineRecord `json:"pipelines"`
	Failures  []Failure        `json:"failures,omitempty"`
}

// Pipeline returns the record with the given id
func (s Snapshot) Pipeline(id string) (PipelineRecord, bool) {
	for _, p := range s.Pipelines {
		if p.ID == id {
			return p, true
		}
	}
	return PipelineRecord{}, false
}
