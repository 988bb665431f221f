package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.QuotesRecorded.WithLabelValues(OutcomeOpened).Inc()
	m.QuotesRecorded.WithLabelValues(OutcomeFolded).Add(2)
	m.QuotesDropped.WithLabelValues(DropInactive).Inc()
	m.SeriesQueried.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.QuotesRecorded.WithLabelValues(OutcomeOpened)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.QuotesRecorded.WithLabelValues(OutcomeFolded)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.QuotesDropped.WithLabelValues(DropInactive)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SeriesQueried), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
