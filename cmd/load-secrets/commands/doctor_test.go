package commands

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
)

// newConnectTestServer runs a minimal Connect server with one vault ("app")
// holding one item ("db") with a password field.
func newConnectTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ".")
	})
	mux.HandleFunc("/v1/vaults", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":"v1","name":"app"}]`)
	})
	mux.HandleFunc("/v1/vaults/v1/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("filter") == `title eq "db"` {
			fmt.Fprint(w, `[{"id":"item-1","title":"db","vault":{"id":"v1"}}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/v1/vaults/v1/items/item-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"item-1","title":"db","vault":{"id":"v1"},"fields":[{"id":"f1","label":"password","value":"p"}]}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDoctorCommandReportsVaultPresence(t *testing.T) {
	clearActionInputs(t)
	server := newConnectTestServer(t)

	cmd := NewDoctorCommand(testCommandConfig())
	output := captureCommandOutput(t, cmd, []string{
		"--connect-server-url", server.URL,
		"--connect-server-token", "test-token",
		"--secret-path", "app/db\nghost/item",
	})

	assert.Contains(t, output, "VAULT")
	assert.Contains(t, output, "✓ vault found")
	assert.Contains(t, output, "✗ vault not found")
}

func TestDoctorCommandFailOnNotFound(t *testing.T) {
	clearActionInputs(t)
	server := newConnectTestServer(t)

	cmd := NewDoctorCommand(testCommandConfig())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--connect-server-url", server.URL,
		"--connect-server-token", "test-token",
		"--secret-path", "ghost/item",
		"--fail-on-not-found", "true",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDoctorCommandHeartbeatFailure(t *testing.T) {
	clearActionInputs(t)
	server := newConnectTestServer(t)
	serverURL := server.URL
	server.Close()

	cmd := NewDoctorCommand(testCommandConfig())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--connect-server-url", serverURL,
		"--connect-server-token", "test-token",
		"--secret-path", "app/db",
	})

	err := cmd.Execute()
	require.Error(t, err)

	var transport acterrors.TransportError
	assert.ErrorAs(t, err, &transport)
}
