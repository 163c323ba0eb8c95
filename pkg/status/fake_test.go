package status

import (
	"sync"

	"pipestat/pkg/datapipeline"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

// fakeClient is an in memory datapipeline.Client
type fakeClient struct {
	mu sync.Mutex

	// pages are returned in order by ListPipelines, keyed by the expected marker
	pages     map[string]datapipeline.PipelinePage
	listErrAt string

	pipelines     map[string]datapipeline.PipelineDescription
	describeErrOn string
	describeCalls [][]string

	attempts       map[string][]datapipeline.PipelineObject
	queryErrOn     string
	describeObjErr string
	block          chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages:     make(map[string]datapipeline.PipelinePage),
		pipelines: make(map[string]datapipeline.PipelineDescription),
		attempts:  make(map[string][]datapipeline.PipelineObject),
	}
}

func (f *fakeClient) ListPipelines(ctx context.Context, marker string) (datapipeline.PipelinePage, error) {
	if f.listErrAt != "" && marker == f.listErrAt {
		return datapipeline.PipelinePage{}, errors.New("list failure")
	}
	p, ok := f.pages[marker]
	if !ok {
		return datapipeline.PipelinePage{}, errors.Errorf("unknown marker %s", marker)
	}
	return p, nil
}

func (f *fakeClient) DescribePipelines(ctx context.Context, ids []string) ([]datapipeline.PipelineDescription, error) {
	f.mu.Lock()
	f.describeCalls = append(f.describeCalls, append([]string(nil), ids...))
	f.mu.Unlock()
	if len(ids) > datapipeline.MaxDescribeIDs {
		return nil, errors.New("too many ids")
	}
	var res []datapipeline.PipelineDescription
	for _, id := range ids {
		if id == f.describeErrOn {
			return nil, errors.Errorf("cannot describe %s", id)
		}
		if d, ok := f.pipelines[id]; ok {
			res = append(res, d)
		}
	}
	return res, nil
}

func (f *fakeClient) QueryObjects(ctx context.Context, pipelineID, sphere string) ([]string, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if sphere != datapipeline.SphereAttempt {
		return nil, errors.Errorf("unexpected sphere %s", sphere)
	}
	if pipelineID == f.queryErrOn {
		return nil, errors.New("query failure")
	}
	var ids []string
	for _, o := range f.attempts[pipelineID] {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

func (f *fakeClient) DescribeObjects(ctx context.Context, pipelineID string, ids []string) ([]datapipeline.PipelineObject, error) {
	if pipelineID == f.describeObjErr {
		return nil, errors.New("describe objects failure")
	}
	if len(ids) > datapipeline.MaxDescribeIDs {
		return nil, errors.New("too many ids")
	}
	want := make(map[string]bool)
	for _, id := range ids {
		want[id] = true
	}
	var res []datapipeline.PipelineObject
	for _, o := range f.attempts[pipelineID] {
		if want[o.ID] {
			res = append(res, o)
		}
	}
	return res, nil
}

func str(s string) *string {
	return &s
}

func fields(kv ...string) []datapipeline.Field {
	var res []datapipeline.Field
	for i := 0; i+1 < len(kv); i += 2 {
		res = append(res, datapipeline.Field{Key: kv[i], StringValue: str(kv[i+1])})
	}
	return res
}

// addPipeline registers a healthy scheduled pipeline
func (f *fakeClient) addPipeline(id, name string) {
	f.pipelines[id] = datapipeline.PipelineDescription{
		PipelineID: id,
		Name:       name,
		Fields: fields(
			"@id", id,
			"name", name,
			"@accountId", "123456789012",
			"@healthStatus", "HEALTHY",
			"@pipelineState", "SCHEDULED",
			"@latestRunTime", "2012-02-13T07:30:00",
			"@nextRunTime", "2012-02-14T07:30:00",
			"@scheduledPeriod", "1 day",
		),
	}
}

func (f *fakeClient) addAttempt(pipelineID, id, status string) {
	f.attempts[pipelineID] = append(f.attempts[pipelineID], datapipeline.PipelineObject{
		ID:     id,
		Name:   "attempt " + id,
		Fields: fields("@status", status, "attemptStatus", "detail "+id),
	})
}
