package cronrunner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunner_AddValidatesSpec(t *testing.T) {
	r := New(zap.NewNop(), context.Background())

	_, err := r.Add("five", "*/5 * * * *", func(context.Context) {})
	require.NoError(t, err)
	_, err = r.Add("six", "0 */5 * * * *", func(context.Context) {})
	require.NoError(t, err)
	_, err = r.Add("every", "@every 10m", func(context.Context) {})
	require.NoError(t, err)

	_, err = r.Add("bad", "not a spec", func(context.Context) {})
	assert.Error(t, err)
}

func TestRunner_RunsJobAndRecoversPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := New(zap.NewNop(), ctx)

	var runs atomic.Int32
	_, err := r.Add("count", "@every 1s", func(got context.Context) {
		if got == ctx {
			runs.Add(1)
		}
	})
	require.NoError(t, err)
	_, err = r.Add("panics", "@every 1s", func(context.Context) { panic("boom") })
	require.NoError(t, err)

	r.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	r.Stop()
}

func TestRunner_SkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(nil, ctx)
	cancel()

	var runs atomic.Int32
	_, err := r.Add("count", "@every 1s", func(context.Context) { runs.Add(1) })
	require.NoError(t, err)

	r.Start()
	time.Sleep(1200 * time.Millisecond)
	r.Stop()
	assert.Equal(t, int32(0), runs.Load())
}
