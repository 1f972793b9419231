package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/doctor"
	"github.com/liquidmon/lmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyServer(t *testing.T) string {
	t.Helper()
	srv := newTestServer(t, map[string]http.HandlerFunc{
		api.PathCurrent:    writeJSON(normalStats),
		api.PathPeaks:      writeJSON(`{"cpu_peak": {"value": 90, "timestamp": "2026-03-01 12:00:00"}}`),
		api.PathHistory:    writeJSON(`[]`),
		api.PathContainers: writeJSON(containers),
		api.PathAlerts:     writeJSON(`[]`),
	})
	return srv.URL
}

func TestDoctor_AllClear(t *testing.T) {
	useConfig(t, healthyServer(t))

	var buf bytes.Buffer
	require.NoError(t, runDoctor(context.Background(), &buf, collectChecks(Config()), false, false))

	out := buf.String()
	assert.Contains(t, out, "lmon diagnostic report")
	assert.Contains(t, out, "CONFIG")
	assert.Contains(t, out, "SERVER")
	assert.Contains(t, out, "LOCAL")
	assert.Contains(t, out, "/api/containers: 2 containers")
	assert.Contains(t, out, "Everything looks good")
}

func TestDoctor_JSON(t *testing.T) {
	useConfig(t, healthyServer(t))

	var buf bytes.Buffer
	require.NoError(t, runDoctor(context.Background(), &buf, collectChecks(Config()), true, false))

	var env struct {
		Success bool         `json:"success"`
		Data    DoctorOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	require.Len(t, env.Data.Categories, 3)
	assert.Equal(t, "CONFIG", env.Data.Categories[0].Name)
	assert.Equal(t, "SERVER", env.Data.Categories[1].Name)
	assert.Len(t, env.Data.Categories[1].Results, 5)
	for _, r := range env.Data.Categories[1].Results {
		assert.Equal(t, doctor.StatusPass, r.Status, r.Name)
	}
	assert.True(t, env.Data.Summary.AllClear)
	assert.Zero(t, env.Data.Summary.Fail)
}

func TestDoctor_ServerDown(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		api.PathCurrent: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	useConfig(t, srv.URL)

	var buf bytes.Buffer
	err := runDoctor(context.Background(), &buf, collectChecks(Config()), false, false)

	code, ok := errors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "issues found")
}

func TestCollectChecks_NoServer(t *testing.T) {
	useConfig(t, "")

	checks := collectChecks(Config())
	for _, c := range checks {
		assert.NotEqual(t, doctor.CategoryServer, c.Category(), "no server checks without server_url")
	}

	results := doctor.RunAll(context.Background(), checks)
	assert.True(t, doctor.HasFailures(results))
}
