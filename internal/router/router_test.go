package router_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptaflow/console/internal/console"
	"github.com/comptaflow/console/internal/router"
	"github.com/comptaflow/console/internal/session"
	"github.com/comptaflow/console/internal/test"
)

// newRouter builds a full engine against a stub backend that answers every
// collection with an empty list.
func newRouter(t *testing.T) *gin.Engine {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(backend.Close)

	store, err := session.OpenStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)

	registry := console.NewRegistry(backend.URL, store, zerolog.Nop())

	r, teardown, err := router.Router(registry)
	require.NoError(t, err)
	t.Cleanup(teardown)

	return r
}

func TestGetRoot(t *testing.T) {
	recorder := test.Request(t, newRouter(t), "GET", "/", "")

	test.AssertHTTPStatus(t, http.StatusOK, &recorder)
	assert.JSONEq(t, `{
		"links": {
			"version": "/version",
			"healthz": "/healthz",
			"auth": "/auth",
			"journals": "/console/journals",
			"moves": "/console/moves",
			"taxes": "/console/taxes",
			"fiscalPositions": "/console/fiscal-positions"
		}
	}`, recorder.Body.String())
}

func TestGetVersion(t *testing.T) {
	recorder := test.Request(t, newRouter(t), "GET", "/version", "")

	test.AssertHTTPStatus(t, http.StatusOK, &recorder)
	assert.JSONEq(t, `{"data": {"version": "0.0.0"}}`, recorder.Body.String())
}

func TestGetHealthz(t *testing.T) {
	recorder := test.Request(t, newRouter(t), "GET", "/healthz", "")

	test.AssertHTTPStatus(t, http.StatusNoContent, &recorder)
}

func TestMethodNotAllowed(t *testing.T) {
	recorder := test.Request(t, newRouter(t), "DELETE", "/version", "")

	test.AssertHTTPStatus(t, http.StatusMethodNotAllowed, &recorder)
}

func TestMetricsEndpoint(t *testing.T) {
	recorder := test.Request(t, newRouter(t), "GET", "/metrics", "")

	test.AssertHTTPStatus(t, http.StatusOK, &recorder)
}

func TestConsoleIssuesSessionCookie(t *testing.T) {
	recorder := test.Request(t, newRouter(t), "GET", "/console/journals", "")

	test.AssertHTTPStatus(t, http.StatusOK, &recorder)

	cookies := recorder.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == console.SessionCookie {
			found = true
			assert.NotEmpty(t, cookie.Value)
		}
	}
	assert.True(t, found, "expected a %s cookie, got %v", console.SessionCookie, cookies)
}
