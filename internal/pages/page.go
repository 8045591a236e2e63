// Package pages implements the list-page controller: it keeps one primary
// collection plus several reference collections in sync with the backend
// and provides a filtered, paginated, selectable view with CRUD actions.
// One controller instance exists per entity type and console session.
package pages

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/session"
	"github.com/comptaflow/console/internal/upstream"
)

// Status is the load state of a page.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

var (
	// ErrConfirmationRequired is returned by Remove when the caller has not
	// confirmed the deletion.
	ErrConfirmationRequired = errors.New("deletion requires explicit confirmation")

	// ErrUnknownFlag is returned by SetFlag for a field that is not a
	// toggleable flag of the entity.
	ErrUnknownFlag = errors.New("unknown flag field")
)

// Source is one reference collection fetched for a page.
type Source struct {
	Name string // key in the references map
	Path string // backend resource path
}

// Config parameterizes the list-page controller for one entity type.
type Config[E models.Record] struct {
	Name      string // page name, used for logging
	Resource  string // path of the primary collection
	Fields    FieldSet[E]
	Public    []Source // reference collections available anonymously
	Protected []Source // reference collections requiring authentication
	Flags     []string // fields toggleable via SetFlag
	Duplicate func(E) E
}

// Page is the list-page controller. All exported methods are safe for
// concurrent use; in practice calls arrive one at a time per console
// session.
type Page[E models.Record] struct {
	cfg  Config[E]
	auth *session.Controller
	log  zerolog.Logger

	mu          sync.Mutex
	status      Status
	errMsg      string
	protectedOK bool
	records     []E
	refs        map[string][]models.Reference
	filters     Filters
	page        int
	perPage     int
	selected    map[models.ID]struct{}
}

// New creates a page controller. The initial status is loading until the
// first LoadPublicData completes.
func New[E models.Record](cfg Config[E], auth *session.Controller, log zerolog.Logger) *Page[E] {
	return &Page[E]{
		cfg:      cfg,
		auth:     auth,
		log:      log.With().Str("page", cfg.Name).Logger(),
		status:   StatusLoading,
		refs:     map[string][]models.Reference{},
		records:  []E{},
		page:     1,
		perPage:  DefaultPerPage,
		selected: map[models.ID]struct{}{},
	}
}

// LoadPublicData fetches the primary collection and all public reference
// collections concurrently. Each source is isolated: a failing source
// degrades to an empty collection and is logged, never aborting the
// others. When the session is authenticated the protected collections are
// loaded afterwards; otherwise they are cleared.
func (p *Page[E]) LoadPublicData(ctx context.Context) error {
	p.mu.Lock()
	p.status = StatusLoading
	p.errMsg = ""
	p.mu.Unlock()

	client := p.auth.Client()

	var (
		records []E
		refsMu  sync.Mutex
		refs    = map[string][]models.Reference{}
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows := []E{}
		if err := client.List(gctx, p.cfg.Resource, &rows); err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p.log.Warn().Err(err).Msg("primary collection fetch failed, degrading to empty")
			rows = []E{}
		}
		records = rows
		return nil
	})

	for _, src := range p.cfg.Public {
		g.Go(func() error {
			rows := []models.Reference{}
			if err := client.List(gctx, src.Path, &rows); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.log.Warn().Err(err).Str("source", src.Name).Msg("reference fetch failed, degrading to empty")
				rows = []models.Reference{}
			}
			refsMu.Lock()
			refs[src.Name] = rows
			refsMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.mu.Lock()
		p.status = StatusError
		p.errMsg = "could not reach the backend"
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	p.records = records
	p.refs = refs
	p.pruneSelectionLocked()
	p.mu.Unlock()

	if p.auth.IsAuthenticated() && len(p.cfg.Protected) > 0 {
		p.loadProtectedData(ctx)
	} else {
		p.mu.Lock()
		p.protectedOK = false
		p.mu.Unlock()
	}

	p.mu.Lock()
	p.status = StatusReady
	p.mu.Unlock()

	return nil
}

// loadProtectedData fetches the collections that require an authenticated
// principal. A 401 triggers exactly one token refresh and one retry; a
// second failure marks protected access as unavailable without a further
// retry loop. Already-loaded public data is preserved on any failure.
func (p *Page[E]) loadProtectedData(ctx context.Context) {
	for _, src := range p.cfg.Protected {
		rows, err := p.fetchProtected(ctx, src)
		if err != nil {
			p.log.Warn().Err(err).Str("source", src.Name).Msg("protected fetch failed")

			p.mu.Lock()
			p.protectedOK = false
			if errors.Is(err, session.ErrSessionExpired) {
				p.errMsg = session.ErrSessionExpired.Error()
			} else {
				p.errMsg = "could not load protected data"
			}
			p.mu.Unlock()
			return
		}

		p.mu.Lock()
		p.refs[src.Name] = rows
		p.mu.Unlock()
	}

	p.mu.Lock()
	p.protectedOK = true
	p.mu.Unlock()
}

func (p *Page[E]) fetchProtected(ctx context.Context, src Source) ([]models.Reference, error) {
	client := p.auth.Client()

	rows := []models.Reference{}
	err := client.List(ctx, src.Path, &rows)
	if err == nil {
		return rows, nil
	}

	if !upstream.IsStatus(err, http.StatusUnauthorized) {
		return nil, err
	}

	// Bounded retry: one refresh, one retry of the same fetch.
	if err := p.auth.Refresh(ctx); err != nil {
		return nil, session.ErrSessionExpired
	}

	if err := client.List(ctx, src.Path, &rows); err != nil {
		if upstream.IsStatus(err, http.StatusUnauthorized) {
			return nil, session.ErrSessionExpired
		}
		return nil, err
	}

	return rows, nil
}

// Status returns the current load state.
func (p *Page[E]) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// View is the renderable state of a page.
type View[E models.Record] struct {
	Status          Status                        `json:"status"`
	Error           string                        `json:"error,omitempty"`
	ProtectedAccess bool                          `json:"protected_access"`
	Rows            []E                           `json:"rows"`
	Selected        []models.ID                   `json:"selected"`
	Filters         Filters                       `json:"filters"`
	Pagination      Pagination                    `json:"pagination"`
	References      map[string][]models.Reference `json:"references"`
}

// View computes the current filtered, paginated view. Derived pagination
// values are always recomputed from the filtered length.
func (p *Page[E]) View() View[E] {
	p.mu.Lock()
	defer p.mu.Unlock()

	filtered := Apply(p.records, p.filters, p.cfg.Fields)
	pagination := Paginate(len(filtered), p.page, p.perPage)
	rows := pageSlice(filtered, pagination)

	selected := make([]models.ID, 0, len(p.selected))
	for _, row := range rows {
		if _, ok := p.selected[row.RecordID()]; ok {
			selected = append(selected, row.RecordID())
		}
	}

	// The view is a snapshot: the references map is copied so a caller
	// holding it does not race with the next protected reload.
	refs := make(map[string][]models.Reference, len(p.refs))
	for name, rows := range p.refs {
		refs[name] = rows
	}

	return View[E]{
		Status:          p.status,
		Error:           p.errMsg,
		ProtectedAccess: p.protectedOK,
		Rows:            rows,
		Selected:        selected,
		Filters:         p.filters,
		Pagination:      pagination,
		References:      refs,
	}
}

// SetFilters replaces the filter state and re-clamps the current page.
func (p *Page[E]) SetFilters(filters Filters) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filters = filters
	p.pruneSelectionLocked()
}

// ResetFilters clears all filters.
func (p *Page[E]) ResetFilters() {
	p.SetFilters(Filters{})
}

// SetPage moves to the given page. A perPage of 0 keeps the current size.
func (p *Page[E]) SetPage(page, perPage int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if perPage > 0 {
		p.perPage = perPage
	}
	p.page = page
	p.pruneSelectionLocked()
}

// ToggleSelection toggles the selection of a currently visible row. Ids
// that are not rendered are ignored, keeping the selection a subset of the
// visible rows.
func (p *Page[E]) ToggleSelection(id models.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.visibleLocked(id) {
		return
	}

	if _, ok := p.selected[id]; ok {
		delete(p.selected, id)
	} else {
		p.selected[id] = struct{}{}
	}
}

// SelectAllVisible toggles the full-page selection: if every visible row is
// already selected the selection is cleared, otherwise exactly the visible
// rows become selected, discarding any prior selection of invisible rows.
func (p *Page[E]) SelectAllVisible() {
	p.mu.Lock()
	defer p.mu.Unlock()

	visible := p.visibleIDsLocked()

	all := len(visible) > 0
	for _, id := range visible {
		if _, ok := p.selected[id]; !ok {
			all = false
			break
		}
	}

	p.selected = map[models.ID]struct{}{}
	if !all {
		for _, id := range visible {
			p.selected[id] = struct{}{}
		}
	}
}

func (p *Page[E]) visibleIDsLocked() []models.ID {
	filtered := Apply(p.records, p.filters, p.cfg.Fields)
	pagination := Paginate(len(filtered), p.page, p.perPage)

	rows := pageSlice(filtered, pagination)
	ids := make([]models.ID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RecordID())
	}

	return ids
}

func (p *Page[E]) visibleLocked(id models.ID) bool {
	for _, visible := range p.visibleIDsLocked() {
		if visible == id {
			return true
		}
	}

	return false
}

// pruneSelectionLocked drops selected ids that are no longer rendered, so
// no selection can silently act on hidden rows.
func (p *Page[E]) pruneSelectionLocked() {
	visible := map[models.ID]struct{}{}
	for _, id := range p.visibleIDsLocked() {
		visible[id] = struct{}{}
	}

	for id := range p.selected {
		if _, ok := visible[id]; !ok {
			delete(p.selected, id)
		}
	}
}

// Create posts a new record and reloads the full data set. Local state is
// never patched: reloading guarantees server-computed fields are shown.
func (p *Page[E]) Create(ctx context.Context, body any) error {
	return p.mutate(ctx, func() error {
		return p.auth.Client().Post(ctx, p.cfg.Resource, body, nil)
	})
}

// Update replaces an existing record and reloads the full data set.
func (p *Page[E]) Update(ctx context.Context, id models.ID, body any) error {
	return p.mutate(ctx, func() error {
		return p.auth.Client().Put(ctx, p.cfg.Resource+id.String()+"/", body, nil)
	})
}

// Remove deletes a record. It refuses to act without explicit confirmation.
func (p *Page[E]) Remove(ctx context.Context, id models.ID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	return p.mutate(ctx, func() error {
		return p.auth.Client().Delete(ctx, p.cfg.Resource+id.String()+"/")
	})
}

// Duplicate fetches the source record, strips its identifier, marks the
// copy per the "(Copie)" convention and submits it as a new record.
func (p *Page[E]) Duplicate(ctx context.Context, id models.ID) error {
	return p.mutate(ctx, func() error {
		var source E
		if err := p.auth.Client().Get(ctx, p.cfg.Resource+id.String()+"/", &source); err != nil {
			return err
		}

		return p.auth.Client().Post(ctx, p.cfg.Resource, p.cfg.Duplicate(source), nil)
	})
}

// SetFlag toggles a boolean flag field (e.g. active, auto_apply) on a
// record via a partial update.
func (p *Page[E]) SetFlag(ctx context.Context, id models.ID, field string, value bool) error {
	allowed := false
	for _, flag := range p.cfg.Flags {
		if flag == field {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrUnknownFlag
	}

	return p.mutate(ctx, func() error {
		return p.auth.Client().Patch(ctx, p.cfg.Resource+id.String()+"/", map[string]bool{field: value}, nil)
	})
}

// Retry re-runs the full load after a surfaced error.
func (p *Page[E]) Retry(ctx context.Context) error {
	return p.LoadPublicData(ctx)
}

// mutate performs exactly one backend call and, on success, reloads the
// full data set instead of patching local state. On failure the error is
// surfaced as the page-level error message and no reload happens; the user
// retries via Retry.
func (p *Page[E]) mutate(ctx context.Context, call func() error) error {
	if err := call(); err != nil {
		p.log.Error().Err(err).Msg("mutation failed")

		p.mu.Lock()
		p.errMsg = errorText(err)
		p.mu.Unlock()
		return err
	}

	return p.LoadPublicData(ctx)
}

func errorText(err error) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	var protoErr *upstream.ProtocolError
	if errors.As(err, &protoErr) {
		return "the backend could not be reached"
	}

	return err.Error()
}
