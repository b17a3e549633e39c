package mxprobe_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/mxprobe"
)

func TestResult_JSONKeepsEmptyFields(t *testing.T) {
	out, err := json.Marshal(mxprobe.Result{
		Email:  "not-an-address",
		Status: mxprobe.StatusInvalidSyntax,
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	for _, key := range []string{"email", "domain", "status", "mx_used", "smtp_code", "smtp_response", "error", "elapsed_ms"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "", fields["mx_used"])
	assert.Equal(t, float64(0), fields["smtp_code"])

	assert.NotContains(t, fields, "error_kind")
	assert.NotContains(t, fields, "suggestion")
}
