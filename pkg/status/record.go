package status

import (
	"strconv"
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/util/maps"
)

// TimestampLayout is the layout of the run times reported in pipeline fields, always UTC
const TimestampLayout = "2006-01-02T15:04:05"

// metadata holds the pipeline fields used to build a record
type metadata struct {
	ID              string `field:"@id"`
	Name            string `field:"name"`
	AccountID       string `field:"@accountId"`
	HealthStatus    string `field:"@healthStatus"`
	PipelineState   string `field:"@pipelineState"`
	LatestRunTime   string `field:"@latestRunTime"`
	NextRunTime     string `field:"@nextRunTime"`
	ScheduledPeriod string `field:"@scheduledPeriod"`
}

// BuildRecord builds the status record of a pipeline from its fields and tasks.
// It returns false if the id, name or health status field is missing.
func BuildRecord(tasks []api.PipelineTask, fields map[string]string, queryTime time.Time) (api.PipelineRecord, bool) {
	var m metadata
	if err := maps.Decode(fields, &m); err != nil {
		return api.PipelineRecord{}, false
	}
	if m.ID == "" || m.Name == "" || m.HealthStatus == "" {
		return api.PipelineRecord{}, false
	}

	var since *string
	if m.PipelineState == api.PipelineStateScheduled {
		since = SecondsAgo(queryTime, m.LatestRunTime)
	}
	if tasks == nil {
		tasks = []api.PipelineTask{}
	}

	return api.PipelineRecord{
		ID:               m.ID,
		Name:             m.Name,
		AccountID:        m.AccountID,
		HealthStatus:     m.HealthStatus,
		PipelineState:    m.PipelineState,
		LatestRunTime:    ParseTimestamp(m.LatestRunTime),
		NextRunTime:      ParseTimestamp(m.NextRunTime),
		ScheduledPeriod:  m.ScheduledPeriod,
		SinceLastRunTime: since,
		Tasks:            tasks,
	}, true
}

// ParseTimestamp parses a pipeline run time, nil if it does not match TimestampLayout
func ParseTimestamp(s string) *time.Time {
	// time.Parse accepts fractional seconds the layout does not mention
	if len(s) != len(TimestampLayout) {
		return nil
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// SecondsAgo returns the number of seconds elapsed between the given run time and now, as a string.
// It is negative for run times in the future and nil if the run time cannot be parsed.
func SecondsAgo(now time.Time, runTime string) *string {
	t := ParseTimestamp(runTime)
	if t == nil {
		return nil
	}
	s := strconv.FormatInt(now.Unix()-t.Unix(), 10)
	return &s
}
