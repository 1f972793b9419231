package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	normalStats = `{
		"cpu_usage": 12, "ram_usage": 40, "cpu_temp": null,
		"disk_usage": 40, "disk_used_gb": 40, "disk_free_gb": 60, "disk_total_gb": 100,
		"net_recv_speed": 2048, "net_sent_speed": 512, "processes": 120, "uptime": 3600
	}`
	criticalStats = `{"cpu_usage": 95, "ram_usage": 85, "cpu_temp": 61.5, "disk_usage": 40}`
	warningStats  = `{"cpu_usage": 20, "ram_usage": 82}`
	containers    = `[
		{"id": "a", "name": "web", "state": "running", "net_rx": 10, "net_tx": 10, "net_rx_speed": 30000},
		{"id": "b", "name": "db", "state": "exited", "net_rx": 0, "net_tx": 0}
	]`
)

func statusServer(t *testing.T, stats string, entities http.HandlerFunc) *api.Client {
	t.Helper()
	if entities == nil {
		entities = writeJSON(containers)
	}
	srv := newTestServer(t, map[string]http.HandlerFunc{
		api.PathCurrent:    writeJSON(stats),
		api.PathContainers: entities,
	})
	return api.NewClient(srv.URL)
}

func TestRunStatus_Text(t *testing.T) {
	client := statusServer(t, normalStats, nil)

	var buf bytes.Buffer
	err := runStatus(context.Background(), &buf, client, "http://pi.local:5000", false)
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{
		"lmon",
		"http://pi.local:5000",
		"System normal",
		"12.0%",
		"N/A",
		"40.0% 40.0/100.0 GB",
		"2.00 MB/s",
		"0.50 MB/s",
		"01:00:00",
		"1/2",
		"web 29.3 KB/s",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRunStatus_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		stats    string
		wantCode int
		level    api.Level
	}{
		{"normal", normalStats, 0, api.LevelNormal},
		{"warning", warningStats, ExitWarning, api.LevelWarning},
		{"critical", criticalStats, ExitCritical, api.LevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := statusServer(t, tt.stats, nil)

			var buf bytes.Buffer
			err := runStatus(context.Background(), &buf, client, "http://x", true)

			code, ok := errors.GetExitCode(err)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, code)
			}

			var env struct {
				Success bool         `json:"success"`
				Data    StatusOutput `json:"data"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &env), "output is written before the exit code")
			assert.True(t, env.Success)
			assert.Equal(t, tt.level, env.Data.Level)
		})
	}
}

func TestRunStatus_JSONEntities(t *testing.T) {
	client := statusServer(t, criticalStats, nil)

	var buf bytes.Buffer
	_ = runStatus(context.Background(), &buf, client, "http://x", true)

	var env struct {
		Data StatusOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	require.NotNil(t, env.Data.Entities)
	assert.Equal(t, 2, env.Data.Entities.Total)
	assert.Equal(t, 1, env.Data.Entities.Running)
	require.NotNil(t, env.Data.Entities.TopDownload)
	assert.Equal(t, "web", env.Data.Entities.TopDownload.Name)
	assert.Equal(t, 30000.0, env.Data.Entities.TopDownload.Rate)
	assert.Nil(t, env.Data.Entities.TopUpload, "nothing above the talker floor")
	require.NotNil(t, env.Data.Host.CPUTemp)
	assert.Equal(t, 61.5, *env.Data.Host.CPUTemp)
}

func TestRunStatus_EntitiesFailureIsNotFatal(t *testing.T) {
	client := statusServer(t, normalStats, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	var buf bytes.Buffer
	require.NoError(t, runStatus(context.Background(), &buf, client, "http://x", false))

	assert.Contains(t, buf.String(), "containers unavailable")
	assert.NotContains(t, buf.String(), "Running")
}

func TestRunStatus_StatsFailure(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		api.PathCurrent: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		api.PathContainers: writeJSON(containers),
	})

	var buf bytes.Buffer
	err := runStatus(context.Background(), &buf, api.NewClient(srv.URL), "http://x", false)

	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
	_, isExit := errors.GetExitCode(err)
	assert.False(t, isExit)
	assert.Empty(t, buf.String())
}

func TestStatusCommand_UsesConfig(t *testing.T) {
	client := newTestServer(t, map[string]http.HandlerFunc{
		api.PathCurrent:    writeJSON(normalStats),
		api.PathContainers: writeJSON(`[]`),
	})
	useConfig(t, client.URL)

	var buf bytes.Buffer
	require.NoError(t, statusCommand(context.Background(), &buf, false))
	assert.Contains(t, buf.String(), client.URL)
	assert.Contains(t, buf.String(), "0/0")
}

func TestStatusCommand_NoServer(t *testing.T) {
	useConfig(t, "")

	err := statusCommand(context.Background(), &bytes.Buffer{}, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestStatusExitError(t *testing.T) {
	assert.NoError(t, statusExitError(api.LevelNormal))

	code, ok := errors.GetExitCode(statusExitError(api.LevelWarning))
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	code, _ = errors.GetExitCode(statusExitError(api.LevelCritical))
	assert.Equal(t, 2, code)
}
