package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/mxprobe/internal/metrics"
)

func TestMetrics_Verdicts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveVerdict("exists", 120*time.Millisecond)
	m.ObserveVerdict("exists", 80*time.Millisecond)
	m.ObserveVerdict("temp_fail", 3*time.Second)

	expected := `
# HELP mxprobe_verdicts_total Verification results by final status
# TYPE mxprobe_verdicts_total counter
mxprobe_verdicts_total{status="exists"} 2
mxprobe_verdicts_total{status="temp_fail"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "mxprobe_verdicts_total")
	require.NoError(t, err)

	series, err := testutil.GatherAndCount(reg, "mxprobe_verification_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestMetrics_Attempts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveAttempt("fault", "timeout")
	m.ObserveAttempt("fault", "timeout")
	m.ObserveAttempt("exists", "")

	expected := `
# HELP mxprobe_smtp_attempts_total SMTP session attempts by outcome (exists, does_not_exist, temp_fail, fault)
# TYPE mxprobe_smtp_attempts_total counter
mxprobe_smtp_attempts_total{outcome="exists"} 1
mxprobe_smtp_attempts_total{outcome="fault"} 2
# HELP mxprobe_smtp_faults_total SMTP session faults by error kind
# TYPE mxprobe_smtp_faults_total counter
mxprobe_smtp_faults_total{kind="timeout"} 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"mxprobe_smtp_attempts_total", "mxprobe_smtp_faults_total")
	require.NoError(t, err)
}
