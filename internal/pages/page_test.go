package pages_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/pages"
	"github.com/comptaflow/console/internal/session"
	"github.com/comptaflow/console/internal/upstream"
)

// fakeBackend is a scriptable double of the accounting backend. Bodies maps
// GET paths to canned responses, statuses forces an HTTP status for a
// "METHOD /path" pair, and protectedPaths lists paths that answer 401
// unless the request carries the protectedToken.
type fakeBackend struct {
	*httptest.Server

	mu             sync.Mutex
	bodies         map[string]string
	statuses       map[string]int
	calls          map[string]int
	requestBodies  map[string][]string
	protectedPaths map[string]bool
	protectedToken string
	refreshOK      bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		bodies:         map[string]string{},
		statuses:       map[string]int{},
		calls:          map[string]int{},
		requestBodies:  map[string][]string{},
		protectedPaths: map[string]bool{},
		refreshOK:      true,
	}

	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.Close)

	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	b.calls[key]++

	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		b.requestBodies[key] = append(b.requestBodies[key], string(raw))
	}

	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case upstream.PathToken:
		_, _ = w.Write([]byte(`{"access": "access-1", "refresh": "refresh-1", "user": {"id": 7, "email": "claire@comptaflow.fr"}}`))
		return
	case upstream.PathTokenRefresh:
		if !b.refreshOK {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Token invalide"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access": "access-2"}`))
		return
	}

	if status, ok := b.statuses[key]; ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message": "le backend a refusé la requête"}`))
		return
	}

	if b.protectedPaths[r.URL.Path] && r.Header.Get("Authorization") != "Bearer "+b.protectedToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Token invalide"}`))
		return
	}

	if r.Method == http.MethodGet {
		if canned, ok := b.bodies[r.URL.Path]; ok {
			_, _ = w.Write([]byte(canned))
			return
		}
		_, _ = w.Write([]byte(`[]`))
		return
	}

	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_, _ = w.Write([]byte(`{}`))
}

func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

func (b *fakeBackend) lastRequestBody(method, path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	bodies := b.requestBodies[method+" "+path]
	if len(bodies) == 0 {
		return ""
	}
	return bodies[len(bodies)-1]
}

func (b *fakeBackend) setStatus(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[method+" "+path] = status
}

func (b *fakeBackend) setBody(path string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[path] = string(raw)
}

func newAuth(t *testing.T, b *fakeBackend) *session.Controller {
	t.Helper()

	store, err := session.OpenStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)

	auth, err := session.NewController(b.URL, store, "test-session", zerolog.Nop())
	require.NoError(t, err)

	return auth
}

func login(t *testing.T, auth *session.Controller) {
	t.Helper()
	require.NoError(t, auth.Login(context.Background(), session.Credentials{Username: "claire", Password: "secret"}))
}

func journalFixtures(n int) []models.Journal {
	journals := make([]models.Journal, 0, n)
	for i := 1; i <= n; i++ {
		journals = append(journals, models.Journal{
			ID:      models.ID(strconv.Itoa(i)),
			Code:    "JRN" + strconv.Itoa(i),
			Name:    "Journal " + strconv.Itoa(i),
			Type:    models.JournalTypeGeneral,
			Company: models.Rel[models.Reference]("1"),
			Active:  true,
		})
	}
	return journals
}

func TestAnonymousLoadDegradesProtectedAccess(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(3))
	backend.setBody(upstream.PathAccounts, []models.Reference{{ID: "1", Name: "411000", Code: "411000"}})
	backend.protectedPaths[upstream.PathCompanies] = true

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	view := page.View()
	assert.Equal(t, pages.StatusReady, view.Status)
	assert.Len(t, view.Rows, 3)
	assert.False(t, view.ProtectedAccess)
	assert.Empty(t, view.References["companies"])
	assert.Len(t, view.References["accounts"], 1)

	// The protected collection was never even requested.
	assert.Zero(t, backend.count(http.MethodGet, upstream.PathCompanies))
}

func TestFailingPublicSourceDegradesToEmpty(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(2))
	backend.setStatus(http.MethodGet, upstream.PathCountries, http.StatusInternalServerError)

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	view := page.View()
	assert.Equal(t, pages.StatusReady, view.Status)
	assert.Len(t, view.Rows, 2)
	assert.Empty(t, view.References["countries"])
}

func TestProtectedFetchRefreshesOnceOn401(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(1))
	backend.setBody(upstream.PathCompanies, []models.Reference{{ID: "1", Name: "Comptaflow SAS"}})
	backend.protectedPaths[upstream.PathCompanies] = true
	backend.protectedToken = "access-2" // only the refreshed token is accepted

	auth := newAuth(t, backend)
	login(t, auth)

	page := pages.Journals(auth, zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	view := page.View()
	assert.True(t, view.ProtectedAccess)
	assert.Len(t, view.References["companies"], 1)

	// Exactly one refresh and one retry: two fetches of the protected
	// collection in total.
	assert.Equal(t, 1, backend.count(http.MethodPost, upstream.PathTokenRefresh))
	assert.Equal(t, 2, backend.count(http.MethodGet, upstream.PathCompanies))
}

func TestProtectedFetchGivesUpWhenRefreshIsRejected(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(1))
	backend.protectedPaths[upstream.PathCompanies] = true
	backend.protectedToken = "never-issued"
	backend.refreshOK = false

	auth := newAuth(t, backend)
	login(t, auth)

	page := pages.Journals(auth, zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	view := page.View()
	assert.Equal(t, pages.StatusReady, view.Status)
	assert.False(t, view.ProtectedAccess)
	assert.Equal(t, session.ErrSessionExpired.Error(), view.Error)

	// Public rows survive the failed protected load.
	assert.Len(t, view.Rows, 1)
	assert.Equal(t, 1, backend.count(http.MethodGet, upstream.PathCompanies))
	assert.Equal(t, 1, backend.count(http.MethodPost, upstream.PathTokenRefresh))
}

func TestCreateReloadsInsteadOfPatchingLocally(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(2))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))
	loadsBefore := backend.count(http.MethodGet, upstream.PathJournals)

	require.NoError(t, page.Create(context.Background(), map[string]string{"code": "ACH", "name": "Achats"}))

	assert.Equal(t, 1, backend.count(http.MethodPost, upstream.PathJournals))
	assert.Equal(t, loadsBefore+1, backend.count(http.MethodGet, upstream.PathJournals))
}

func TestFailedMutationSurfacesErrorWithoutReload(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(2))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))
	loadsBefore := backend.count(http.MethodGet, upstream.PathJournals)

	backend.setStatus(http.MethodPost, upstream.PathJournals, http.StatusUnprocessableEntity)
	err := page.Create(context.Background(), map[string]string{"code": ""})

	require.Error(t, err)
	assert.Equal(t, loadsBefore, backend.count(http.MethodGet, upstream.PathJournals))

	view := page.View()
	assert.Equal(t, "le backend a refusé la requête", view.Error)
	assert.Len(t, view.Rows, 2)
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(1))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	err := page.Remove(context.Background(), "1", false)
	assert.ErrorIs(t, err, pages.ErrConfirmationRequired)
	assert.Zero(t, backend.count(http.MethodDelete, upstream.PathJournals+"1/"))

	require.NoError(t, page.Remove(context.Background(), "1", true))
	assert.Equal(t, 1, backend.count(http.MethodDelete, upstream.PathJournals+"1/"))
}

func TestDuplicateStripsIDAndMarksTheCopy(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathTaxes, []models.TaxRate{
		{ID: "5", Name: "TVA 18%", Amount: "18", AmountType: models.TaxAmountPercent, Scope: models.TaxScopeSale},
	})
	backend.setBody(upstream.PathTaxes+"5/", models.TaxRate{
		ID: "5", Name: "TVA 18%", Amount: "18", AmountType: models.TaxAmountPercent, Scope: models.TaxScopeSale,
	})

	page := pages.TaxRates(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	require.NoError(t, page.Duplicate(context.Background(), "5"))

	var posted struct {
		ID     *json.RawMessage `json:"id"`
		Name   string           `json:"name"`
		Amount string           `json:"amount"`
	}
	raw := backend.lastRequestBody(http.MethodPost, upstream.PathTaxes)
	require.NoError(t, json.Unmarshal([]byte(raw), &posted))

	assert.Equal(t, "TVA 18% (Copie)", posted.Name)
	assert.Equal(t, "18", posted.Amount)
	if posted.ID != nil {
		assert.Equal(t, "null", string(*posted.ID))
	}
}

func TestSetFlag(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(1))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	require.NoError(t, page.SetFlag(context.Background(), "1", "active", false))
	assert.JSONEq(t, `{"active": false}`, backend.lastRequestBody(http.MethodPatch, upstream.PathJournals+"1/"))

	err := page.SetFlag(context.Background(), "1", "name", true)
	assert.ErrorIs(t, err, pages.ErrUnknownFlag)
}

func TestSelectionStaysWithinVisibleRows(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(25))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	// Ids on page two are invisible from page one and cannot be selected.
	page.ToggleSelection("15")
	assert.Empty(t, page.View().Selected)

	page.ToggleSelection("3")
	assert.Equal(t, []models.ID{"3"}, page.View().Selected)

	// Changing page drops the now-invisible selection.
	page.SetPage(2, 0)
	assert.Empty(t, page.View().Selected)
}

func TestSelectAllVisibleTogglesBackToEmpty(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(25))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	page.SelectAllVisible()
	assert.Len(t, page.View().Selected, 10)

	page.SelectAllVisible()
	assert.Empty(t, page.View().Selected)
}

func TestSelectAllVisibleReplacesPartialSelection(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(12))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	page.ToggleSelection("3")
	page.SelectAllVisible()

	assert.Len(t, page.View().Selected, 10)
}

func TestFilterChangePrunesSelection(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(5))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	page.ToggleSelection("2")
	page.SetFilters(pages.Filters{Search: "Journal 4"})

	view := page.View()
	assert.Len(t, view.Rows, 1)
	assert.Empty(t, view.Selected)

	// Resetting the filter does not resurrect the pruned selection.
	page.ResetFilters()
	assert.Empty(t, page.View().Selected)
}

func TestViewReferencesAreASnapshot(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(1))
	backend.setBody(upstream.PathAccounts, []models.Reference{{ID: "1", Name: "411000"}})

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	view := page.View()
	view.References["accounts"] = nil
	view.References["injected"] = []models.Reference{{ID: "9"}}

	fresh := page.View()
	assert.Len(t, fresh.References["accounts"], 1)
	assert.NotContains(t, fresh.References, "injected")
}

func TestReloadPrunesVanishedSelection(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(5))

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	page.ToggleSelection("4")
	require.Equal(t, []models.ID{"4"}, page.View().Selected)

	// The backend collection shrinks; after the reload the selection no
	// longer references the vanished record.
	backend.setBody(upstream.PathJournals, journalFixtures(2))
	require.NoError(t, page.Retry(context.Background()))

	assert.Empty(t, page.View().Selected)
}

func TestRetryAfterError(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setBody(upstream.PathJournals, journalFixtures(1))
	backend.setStatus(http.MethodPost, upstream.PathJournals, http.StatusBadGateway)

	page := pages.Journals(newAuth(t, backend), zerolog.Nop())
	require.NoError(t, page.LoadPublicData(context.Background()))

	require.Error(t, page.Create(context.Background(), map[string]string{"code": "ACH"}))
	assert.NotEmpty(t, page.View().Error)

	require.NoError(t, page.Retry(context.Background()))

	view := page.View()
	assert.Equal(t, pages.StatusReady, view.Status)
	assert.Empty(t, view.Error)
}
