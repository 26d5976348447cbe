package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTimerObserveDurationVecRecordsSample(t *testing.T) {
	before := testutil.CollectAndCount(SchedulingLatency)

	timer := NewTimer()
	time.Sleep(time.Millisecond)
	timer.ObserveDurationVec(SchedulingLatency, "balanced")

	after := testutil.CollectAndCount(SchedulingLatency)
	assert.Greater(t, after, before)
}

func TestAPIRequestsTotalIncrementsByLabel(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("/api/works", "200"))
	APIRequestsTotal.WithLabelValues("/api/works", "200").Inc()
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("/api/works", "200"))
	assert.Equal(t, before+1, after)
}

func TestHandlerServesPrometheusFormat(t *testing.T) {
	h := Handler()
	assert.NotNil(t, h)
}
