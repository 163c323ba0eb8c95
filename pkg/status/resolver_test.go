package status

import (
	"fmt"
	"testing"

	"pipestat/pkg/datapipeline"
	"pipestat/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("df-%02d", i)
	}
	return ids
}

func TestBatches(t *testing.T) {
	assert.Nil(t, batches(nil, 25))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, batches([]string{"a", "b", "c"}, 2))
	assert.Equal(t, [][]string{{"a", "b"}}, batches([]string{"a", "b"}, 2))

	b := batches(pipelineIDs(30), 25)
	require.Len(t, b, 2)
	assert.Len(t, b[0], 25)
	assert.Len(t, b[1], 5)
}

func TestDescribePipelines(t *testing.T) {
	ctx := context.Background()
	ids := pipelineIDs(30)

	t.Run("batched_in_order", func(t *testing.T) {
		cli := newFakeClient()
		for _, id := range ids {
			cli.addPipeline(id, "name-"+id)
		}
		a := New(cli, datapipeline.DefaultConfig())

		descs, errs := a.DescribePipelines(ctx, ids)
		assert.Empty(t, errs)
		require.Len(t, cli.describeCalls, 2)
		assert.Equal(t, ids[:25], cli.describeCalls[0])
		assert.Equal(t, ids[25:], cli.describeCalls[1])
		require.Len(t, descs, 30)
		for i, d := range descs {
			assert.Equal(t, ids[i], d.PipelineID)
		}
	})

	t.Run("empty", func(t *testing.T) {
		cli := newFakeClient()
		a := New(cli, datapipeline.DefaultConfig())
		descs, errs := a.DescribePipelines(ctx, nil)
		assert.Empty(t, errs)
		assert.Empty(t, descs)
		assert.Empty(t, cli.describeCalls)
	})

	t.Run("failure_collapses", func(t *testing.T) {
		cli := newFakeClient()
		for _, id := range ids {
			cli.addPipeline(id, "name-"+id)
		}
		cli.describeErrOn = ids[27]
		a := New(cli, datapipeline.DefaultConfig())

		descs, errs := a.DescribePipelines(ctx, ids)
		assert.Len(t, errs, 1)
		assert.Empty(t, descs)
	})

	t.Run("failure_partial", func(t *testing.T) {
		cli := newFakeClient()
		for _, id := range ids {
			cli.addPipeline(id, "name-"+id)
		}
		cli.describeErrOn = ids[3]
		conf := datapipeline.DefaultConfig()
		conf.PartialResults = true
		a := New(cli, conf)

		descs, errs := a.DescribePipelines(ctx, ids)
		assert.Len(t, errs, 1)
		require.Len(t, descs, 5)
		assert.Equal(t, ids[25], descs[0].PipelineID)
	})
}
