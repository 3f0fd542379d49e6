package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.AddSyncCandidates("created", 3)
	m.AddSyncCandidates("created", 0)
	m.RecordIngestRow("pipeline", "attached")
	m.RecordIngestRow("pipeline", "attached")
	m.RecordSubmission("accepted")
	m.ObserveJob(JobCandidateSync, 250*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.syncCandidatesTotal.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ingestRowsTotal.WithLabelValues("pipeline", "attached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classificationSubmissionsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.jobDuration))
}

func TestMetrics_DoubleRegisterFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddSyncCandidates("created", 1)
		m.RecordIngestRow("mock", "skipped")
		m.RecordSubmission("failed")
		m.ObserveJob(JobIngestMock, time.Second)
		assert.Nil(t, m.Registry())
	})
}
