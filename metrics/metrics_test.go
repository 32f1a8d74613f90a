package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaGauges(t *testing.T) {
	EipsAllocated.Set(3)
	EipQuota.Set(5)

	var m dto.Metric
	require.NoError(t, EipsAllocated.Write(&m))
	assert.Equal(t, float64(3), m.GetGauge().GetValue())

	require.NoError(t, EipQuota.Write(&m))
	assert.Equal(t, float64(5), m.GetGauge().GetValue())
}

func TestObserveAWSRequest(t *testing.T) {
	start := time.Now().Add(-10 * time.Millisecond)
	ObserveAWSRequest("AllocateAddress", nil, start)
	ObserveAWSRequest("AllocateAddress", assert.AnError, start)

	var m dto.Metric
	h, err := AWSRequestDuration.GetMetricWithLabelValues("AllocateAddress", "success")
	require.NoError(t, err)
	require.NoError(t, h.(interface{ Write(*dto.Metric) error }).Write(&m))
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}
