package api

// TaskStatus is the execution status of a pipeline task (an attempt object)
type TaskStatus int

const (
	// TaskStatusUnknown is used for missing or unparseable status tokens
	TaskStatusUnknown TaskStatus = iota

	// TaskStatusCreating status for tasks being created
	TaskStatusCreating

	// TaskStatusFailed status for failed tasks
	TaskStatusFailed

	// TaskStatusFinished status for tasks finished successfully
	TaskStatusFinished

	// TaskStatusRunning status for running tasks
	TaskStatusRunning

	// TaskStatusWaitingForRunner status for tasks waiting for a task runner to pick them up
	TaskStatusWaitingForRunner

	// TaskStatusWaitingOnDependencies status for tasks waiting on their preconditions
	TaskStatusWaitingOnDependencies
)

var (
	taskStatusTokens = map[TaskStatus]string{
		TaskStatusCreating:              "CREATING",
		TaskStatusFailed:                "FAILED",
		TaskStatusFinished:              "FINISHED",
		TaskStatusRunning:               "RUNNING",
		TaskStatusWaitingForRunner:      "WAITING_FOR_RUNNER",
		TaskStatusWaitingOnDependencies: "WAITING_ON_DEPENDENCIES",
	}
	taskStatusValues = make(map[string]TaskStatus)

	// BuildingStatuses are the statuses of tasks still in progress
	BuildingStatuses = []TaskStatus{
		TaskStatusRunning,
		TaskStatusCreating,
		TaskStatusWaitingForRunner,
		TaskStatusWaitingOnDependencies,
	}
)

func init() {
	for s, token := range taskStatusTokens {
		taskStatusValues[token] = s
	}
}

// ParseTaskStatus returns the status for the given wire token.
// TaskStatusUnknown is returned for any token outside of the known set.
func ParseTaskStatus(token string) TaskStatus {
	return taskStatusValues[token]
}

// String returns the wire token, empty for TaskStatusUnknown
func (s TaskStatus) String() string {
	return taskStatusTokens[s]
}

// Known returns false for TaskStatusUnknown
func (s TaskStatus) Known() bool {
	_, ok := taskStatusTokens[s]
	return ok
}

// Building returns true if the status is one of BuildingStatuses
func (s TaskStatus) Building() bool {
	return s.In(BuildingStatuses)
}

// In returns true if the status is part of the given set
func (s TaskStatus) In(statuses []TaskStatus) bool {
	for _, st := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

// MarshalText implements encoding.TextMarshaler
func (s TaskStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *TaskStatus) UnmarshalText(text []byte) error {
	*s = ParseTaskStatus(string(text))
	return nil
}

// IsBuilding returns true if the given token parses to a building status
func IsBuilding(token string) bool {
	return ParseTaskStatus(token).Building()
}
