// Package console exposes the page and form controllers over HTTP so a
// browser can drive them. One controller set is materialized per console
// session, identified by a cookie; each set owns its own collections,
// filters, pagination and selection.
package console

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/pages"
	"github.com/comptaflow/console/internal/session"
)

// SessionCookie names the cookie carrying the console session key.
const SessionCookie = "console_session"

const contextKeySet = "console-set"

// Set is the controller set of one console session.
type Set struct {
	Auth            *session.Controller
	Journals        *pages.Page[models.Journal]
	Moves           *pages.Page[models.Move]
	TaxRates        *pages.Page[models.TaxRate]
	FiscalPositions *pages.Page[models.FiscalPosition]
}

// Registry materializes and caches controller sets per console session.
type Registry struct {
	backendURL string
	store      *session.Store
	log        zerolog.Logger

	mu   sync.Mutex
	sets map[string]*Set
}

// NewRegistry creates a registry backed by the given session store.
func NewRegistry(backendURL string, store *session.Store, log zerolog.Logger) *Registry {
	return &Registry{
		backendURL: backendURL,
		store:      store,
		log:        log,
		sets:       map[string]*Set{},
	}
}

// Lookup returns the controller set for the session key, creating it on
// first use.
func (r *Registry) Lookup(key string) (*Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.sets[key]; ok {
		return set, nil
	}

	auth, err := session.NewController(r.backendURL, r.store, key, r.log)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Auth:            auth,
		Journals:        pages.Journals(auth, r.log),
		Moves:           pages.Moves(auth, r.log),
		TaxRates:        pages.TaxRates(auth, r.log),
		FiscalPositions: pages.FiscalPositions(auth, r.log),
	}
	r.sets[key] = set

	return set, nil
}

// Middleware ensures the console session cookie exists and attaches the
// session's controller set to the request context.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(SessionCookie)
		if err != nil || key == "" {
			key = uuid.NewString()
			c.SetCookie(SessionCookie, key, 0, "/", "", false, true)
		}

		set, err := r.Lookup(key)
		if err != nil {
			r.log.Error().Err(err).Msg("could not materialize console session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpError{Error: "could not initialize the console session"})
			return
		}

		c.Set(contextKeySet, set)
		c.Next()
	}
}

func fromContext(c *gin.Context) *Set {
	return c.MustGet(contextKeySet).(*Set)
}
