package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/liquidmon/lmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeEnvelope parses buf as a JSONEnvelope.
func decodeEnvelope(t *testing.T, buf *bytes.Buffer) JSONEnvelope {
	t.Helper()
	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	return env
}

func TestMachineMode_DefaultValue(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer

	data := struct {
		Level   string `json:"level"`
		Running int    `json:"running"`
	}{"warning", 3}
	require.NoError(t, WriteJSONSuccess(&buf, data))

	env := decodeEnvelope(t, &buf)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)

	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "warning", dataMap["level"])
	assert.Equal(t, float64(3), dataMap["running"]) // JSON numbers are float64
}

func TestWriteJSONSuccess_NilDataOmitted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, nil))

	assert.NotContains(t, buf.String(), `"data"`)
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestWriteJSONError_AllFields(t *testing.T) {
	var buf bytes.Buffer

	details := map[string]interface{}{"endpoint": "/api/stats/current"}
	require.NoError(t, WriteJSONError(&buf, ErrCodeAuthRequired, "Authentication required", "Log in first", details))

	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeAuthRequired, env.Error.Code)
	assert.Equal(t, "Authentication required", env.Error.Message)
	assert.Equal(t, "Log in first", env.Error.Suggestion)
}

func TestWriteJSONFromError(t *testing.T) {
	t.Run("generic", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteJSONFromError(&buf, fmt.Errorf("boom")))

		env := decodeEnvelope(t, &buf)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeUnknown, env.Error.Code)
		assert.Equal(t, "boom", env.Error.Message)
	})

	t.Run("wrapped structured error", func(t *testing.T) {
		var buf bytes.Buffer
		inner := errors.WrapWithCode(fmt.Errorf("connection refused"), errors.ErrAPI, "GET /api/stats/current failed", "Is the server running?")
		require.NoError(t, WriteJSONFromError(&buf, fmt.Errorf("status: %w", inner)))

		env := decodeEnvelope(t, &buf)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeServerUnreachable, env.Error.Code)
		assert.Equal(t, "GET /api/stats/current failed", env.Error.Message)
		assert.Equal(t, map[string]interface{}{"cause": "connection refused"}, env.Error.Details)
	})
}

func TestErrorToJSON_NilReturnsNil(t *testing.T) {
	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_AllInternalErrorCodes(t *testing.T) {
	tests := []struct {
		internalCode string
		message      string
		wantCode     string
	}{
		{errors.ErrConfig, "Config file not found", ErrCodeConfigNotFound},
		{errors.ErrConfig, "No server configured", ErrCodeConfigNotFound},
		{errors.ErrConfig, "server_url must start with http", ErrCodeConfigInvalid},
		{errors.ErrAPI, "GET /api/containers returned 500", ErrCodeServerUnreachable},
		{errors.ErrAuth, "Authentication required", ErrCodeAuthRequired},
		{errors.ErrDecode, "Unexpected payload", ErrCodeBadResponse},
		{errors.ErrCache, "Cache unreadable", ErrCodeCache},
		{"OTHER", "Something else", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := ErrorToJSON(errors.New(tt.internalCode, tt.message, ""))
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Nil(t, got.Details)
		})
	}
}
