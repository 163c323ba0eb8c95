package api

// FilterOperation tells how names of a Filter are applied
type FilterOperation string

const (
	// FilterInclude keeps only the pipelines named in the filter
	FilterInclude FilterOperation = "include"

	// FilterExclude drops the pipelines named in the filter.
	// Any operation other than FilterInclude behaves as FilterExclude.
	FilterExclude FilterOperation = "exclude"
)

// Filter selects pipelines by name.
// The zero value excludes nothing, thus keeps every pipeline.
type Filter struct {
	Names     []string        `json:"names"`
	Operation FilterOperation `json:"op"`
}

// Keep returns true if a pipeline with the given name passes the filter
func (f Filter) Keep(name string) bool {
	listed := false
	for _, n := range f.Names {
		if n == name {
			listed = true
			break
		}
	}
	if f.Operation == FilterInclude {
		return listed
	}
	return !listed
}

// Apply returns the records passing the filter, in the same order
func (f Filter) Apply(records []PipelineRecord) []PipelineRecord {
	res := make([]PipelineRecord, 0, len(records))
	for _, r := range records {
		if f.Keep(r.Name) {
			res = append(res, r)
		}
	}
	return res
}
