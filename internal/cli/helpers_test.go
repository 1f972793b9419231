package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/liquidmon/lmon/internal/ui"
	"github.com/stretchr/testify/require"
)

func init() {
	ui.DisableColors()
	stdinIsTerminal = func() bool { return false }
}

// newTestServer serves routes on an httptest server closed at test end.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

// useConfig writes a config file pointing at serverURL and makes it the
// --config value for the rest of the test.
func useConfig(t *testing.T, serverURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".lmon.yaml")

	content := "version: 1\n"
	if serverURL != "" {
		content += "server_url: " + serverURL + "\n"
	}
	content += "cache:\n  path: " + filepath.Join(dir, "entities.json") + "\n"
	content += "log:\n  file: " + filepath.Join(dir, "lmon.log") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	orig := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = orig })
	return path
}
