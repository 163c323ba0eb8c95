package common

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"pipestat/pkg/api"

	"github.com/pkg/errors"
)

var (
	taskStatusIconMap map[api.TaskStatus]string
)

func init() {
	taskStatusIconMap = map[api.TaskStatus]string{
		api.TaskStatusCreating:              "◷",
		api.TaskStatusWaitingForRunner:      "◷",
		api.TaskStatusWaitingOnDependencies: "◷",
		api.TaskStatusRunning:               "●",
		api.TaskStatusFinished:              "✔",
		api.TaskStatusFailed:                "✖",
		api.TaskStatusUnknown:               "?",
	}
}

// PrintOptions defines print options
type PrintOptions struct {
	// Now is the time run times are compared to, the snapshot query time if zero
	Now time.Time
	// Failures prints the failures of the snapshot below the table
	Failures bool
}

// PrintJSON prints the records in the given writer, one JSON document per line
func PrintJSON(w io.Writer, records []api.PipelineRecord) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return errors.Wrapf(err, "cannot encode record of pipeline %s", r.ID)
		}
	}
	return nil
}

// PrintSnapshot prints the snapshot as a table in the given writer
func PrintSnapshot(w io.Writer, snap api.Snapshot, opts PrintOptions) {
	now := opts.Now
	if now.IsZero() {
		now = snap.QueryTime
	}

	building := 0
	unhealthy := 0
	for _, r := range snap.Pipelines {
		if r.IsBuilding() {
			building++
		}
		if !r.IsHealthy() {
			unhealthy++
		}
	}

	// Header
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", snap.RunID)
	fmt.Fprintf(tw, "Queried:\t%s\n", date(&snap.QueryTime))
	fmt.Fprintf(tw, "Pipelines:\t%d (%d building, %d unhealthy)\n", len(snap.Pipelines), building, unhealthy)
	tw.Flush()
	fmt.Fprintln(w)

	tw.Init(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PIPELINE\tID\tSTATE\tLAST RUN\tNEXT RUN\tTASKS")
	for _, r := range snap.Pipelines {
		printRecord(tw, r, now)
	}
	tw.Flush()

	if opts.Failures && len(snap.Failures) > 0 {
		fmt.Fprintln(w)
		tw.Init(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "STAGE\tPIPELINE\tERROR")
		for _, f := range snap.Failures {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Stage, f.PipelineID, f.Message)
		}
		tw.Flush()
	}
}

func printRecord(w io.Writer, r api.PipelineRecord, now time.Time) {
	icon := "✔"
	if !r.IsHealthy() {
		icon = "✖"
	} else if r.IsBuilding() {
		icon = "●"
	}
	last := ""
	if r.LatestRunTime != nil {
		last = duration(r.LatestRunTime, &now) + " ago"
	}
	fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%s\t%s\n", icon, r.Name, r.ID, r.PipelineState, last, date(r.NextRunTime), taskSummary(r.Tasks))
}

// taskSummary returns a string to be printed for the tasks of a pipeline, counting tasks per status
func taskSummary(tasks []api.PipelineTask) string {
	counts := make(map[api.TaskStatus]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	statuses := make([]api.TaskStatus, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		name := s.String()
		if name == "" {
			name = "UNKNOWN"
		}
		parts = append(parts, fmt.Sprintf("%s %s %d", taskStatusIconMap[s], name, counts[s]))
	}
	return strings.Join(parts, ", ")
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2 Jan 2006 15:04:05")
}

func duration(start, end *time.Time) string {
	var d time.Duration
	if start == nil {
		return ""
	}
	if end == nil {
		d = time.Now().Sub(*start)
	} else {
		d = end.Sub(*start)
	}
	if d < 0 {
		return "-" + duration(end, start)
	}

	// Print
	if d.Seconds() <= 60.0 {
		return fmt.Sprintf("%0.0fs", d.Seconds())
	} else if d.Minutes() <= 60.0 {
		m := int64(d.Minutes())
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dm %0.0fs", m, s)
	} else {
		h := int64(d.Hours())
		m := int64(math.Mod(d.Minutes(), 60))
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dh %0.dm %0.0fs", h, m, s)
	}
}
