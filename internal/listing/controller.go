// Package listing implements the paginated resource controller shared by
// every list view: search, facet filters, debounced re-querying,
// server-driven pagination, a stats panel and mutation-then-refresh.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "hostel-portal/internal/common/errors"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/common/metrics"

	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownFilter        = errors.New("UNKNOWN_FILTER")
	ErrConfirmationRequired = errors.New("CONFIRMATION_REQUIRED")
	ErrClosed               = errors.New("CONTROLLER_CLOSED")
)

// ListResult is one decoded list response. Pagination and Total are nil
// when the backend omitted them.
type ListResult[T any] struct {
	Items      []T
	Pagination *RawPagination
	Total      *int
}

type ListFunc[T any] func(ctx context.Context, q Query) (ListResult[T], error)

type StatsFunc[S any] func(ctx context.Context, q Query) (S, error)

// Options binds a controller to one resource.
type Options[T any, S any] struct {
	// Resource names the collection in messages, metrics and logs.
	Resource string
	List     ListFunc[T]
	// Stats is optional; without it the stats panel never loads.
	Stats          StatsFunc[S]
	Facets         []Facet
	DefaultFilters map[string]string
	ItemsPerPage   int
	Debounce       time.Duration
	Notifier       apperrors.Notifier
	Logger         logger.Logger
	Confirmer      Confirmer
	// OnChange runs after every applied list or stats result.
	OnChange func()
}

// Snapshot is a consistent copy of everything a view renders.
type Snapshot[T any, S any] struct {
	Query           QueryState
	Items           []T
	Pagination      Pagination
	Stats           S
	ShowStats       bool
	Loading         bool
	StatsLoading    bool
	FiltersExpanded bool
	FiltersActive   bool
	ShowControls    bool
}

// Controller is safe for concurrent use.
type Controller[T any, S any] struct {
	opts      Options[T, S]
	handler   *apperrors.ErrorHandler
	log       logger.Logger
	debouncer *Debouncer
	ctx       context.Context
	cancel    context.CancelFunc

	mu              sync.Mutex
	state           QueryState
	items           []T
	pagination      Pagination
	stats           S
	showStats       bool
	filtersExpanded bool
	loading         bool
	statsLoading    bool
	listSeq         uint64
	statsSeq        uint64
	closed          bool
}

func New[T any, S any](opts Options[T, S]) *Controller[T, S] {
	if opts.ItemsPerPage < 1 {
		opts.ItemsPerPage = 10
	}
	if opts.Resource == "" {
		opts.Resource = "items"
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	log := opts.Logger.With(map[string]interface{}{"resource": opts.Resource})
	return &Controller[T, S]{
		opts:      opts,
		// Failure metadata already names the resource.
		handler:   apperrors.NewErrorHandler(opts.Logger, opts.Notifier),
		log:       log,
		debouncer: NewDebouncer(opts.Debounce),
		ctx:       ctx,
		cancel:    cancel,
		state: QueryState{
			Filters:      copyFilters(opts.DefaultFilters),
			Page:         1,
			ItemsPerPage: opts.ItemsPerPage,
		},
		items:      []T{},
		pagination: emptyPagination(opts.ItemsPerPage),
	}
}

func (c *Controller[T, S]) Resource() string { return c.opts.Resource }

func (c *Controller[T, S]) Facets() []Facet { return c.opts.Facets }

// Load fetches page 1, plus stats when the panel is open.
func (c *Controller[T, S]) Load(ctx context.Context) {
	c.refresh(ctx, 1)
}

// Refresh re-fetches the current page, plus stats when the panel is open.
func (c *Controller[T, S]) Refresh(ctx context.Context) {
	c.refresh(ctx, c.currentPage())
}

// Close cancels any pending debounced fetch and in-flight background work.
func (c *Controller[T, S]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.debouncer.Close()
	c.cancel()
}

// ---- query state ----

// SetSearch records the search term and schedules a debounced fetch.
func (c *Controller[T, S]) SetSearch(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.SearchTerm = term
	c.state.Interacted = true
	c.state.Page = 1
	c.mu.Unlock()
	c.schedule()
}

// SetFilter records a facet value and schedules a debounced fetch.
func (c *Controller[T, S]) SetFilter(key, value string) error {
	if !c.knownFacet(key) {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state.Filters[key] = value
	c.state.Interacted = true
	c.state.Page = 1
	c.mu.Unlock()
	c.schedule()
	return nil
}

// ClearFilters restores the default facets and clears the search term.
// It goes through the same debounced trigger as any other edit.
func (c *Controller[T, S]) ClearFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Filters = copyFilters(c.opts.DefaultFilters)
	c.state.SearchTerm = ""
	c.state.Interacted = true
	c.state.Page = 1
	c.mu.Unlock()
	c.schedule()
}

// SetItemsPerPage changes the page size and fetches page 1 immediately.
func (c *Controller[T, S]) SetItemsPerPage(ctx context.Context, n int) {
	if n < 1 {
		return
	}
	c.mu.Lock()
	c.state.ItemsPerPage = n
	c.mu.Unlock()
	c.Fetch(ctx, 1)
}

// ToggleFilters flips the expanded state of the filter panel. It has no
// network effect.
func (c *Controller[T, S]) ToggleFilters() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filtersExpanded = !c.filtersExpanded
	return c.filtersExpanded
}

func (c *Controller[T, S]) State() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller[T, S]) knownFacet(key string) bool {
	if len(c.opts.Facets) == 0 {
		return true
	}
	for _, f := range c.opts.Facets {
		if f.Key == key {
			return true
		}
	}
	return false
}

func (c *Controller[T, S]) schedule() {
	if c.debouncer.Trigger(func() { c.refresh(c.ctx, 1) }) {
		metrics.DebounceCoalesced.WithLabelValues(c.opts.Resource).Inc()
	}
}

// filtersActiveLocked reports facets that are set and differ from their default.
func (c *Controller[T, S]) filtersActiveLocked() bool {
	for k, v := range c.state.Filters {
		if IsActiveValue(v) && v != c.opts.DefaultFilters[k] {
			return true
		}
	}
	return false
}

// ---- pagination ----

// GoToPage fetches page n immediately, clamped to the known page range.
func (c *Controller[T, S]) GoToPage(ctx context.Context, n int) {
	c.mu.Lock()
	n = clamp(n, 1, c.pagination.TotalPages)
	c.mu.Unlock()
	c.Fetch(ctx, n)
}

func (c *Controller[T, S]) Next(ctx context.Context) bool {
	p := c.Pagination()
	if !p.CanNext() {
		return false
	}
	c.Fetch(ctx, p.CurrentPage+1)
	return true
}

func (c *Controller[T, S]) Prev(ctx context.Context) bool {
	p := c.Pagination()
	if !p.CanPrev() {
		return false
	}
	c.Fetch(ctx, p.CurrentPage-1)
	return true
}

func (c *Controller[T, S]) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *Controller[T, S]) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination.CurrentPage
}

// ---- fetching ----

// refresh loads page and, when the panel is open, the stats in parallel.
func (c *Controller[T, S]) refresh(ctx context.Context, page int) {
	var g errgroup.Group
	g.Go(func() error {
		c.Fetch(ctx, page)
		return nil
	})
	if c.StatsVisible() {
		g.Go(func() error {
			c.FetchStats(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// Fetch loads one page. Failures leave an empty, valid page and notify the
// user once; responses to superseded requests are dropped.
func (c *Controller[T, S]) Fetch(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.listSeq++
	seq := c.listSeq
	c.loading = true
	ipp := c.state.ItemsPerPage
	q := Query{
		Page:    page,
		Limit:   ipp,
		Search:  c.state.SearchTerm,
		Filters: copyFilters(c.state.Filters),
	}
	c.mu.Unlock()

	defer c.finishList(seq)

	start := time.Now()
	res, err := c.callList(ctx, q)
	metrics.FetchDuration.WithLabelValues(c.opts.Resource, "list").Observe(time.Since(start).Seconds())

	c.mu.Lock()
	if c.abandonedLocked(err) {
		c.mu.Unlock()
		c.log.Debug("dropped list response after close", map[string]interface{}{"page": page})
		return
	}
	if seq != c.listSeq {
		c.mu.Unlock()
		metrics.StaleResponses.WithLabelValues(c.opts.Resource, "list").Inc()
		c.log.Debug("discarded stale list response", map[string]interface{}{"page": page, "seq": seq})
		return
	}
	if err != nil {
		c.items = []T{}
		c.pagination = emptyPagination(ipp)
		c.state.Page = 1
		c.loading = false
		c.mu.Unlock()

		metrics.FetchTotal.WithLabelValues(c.opts.Resource, "list", "failure").Inc()
		c.handler.Handle(apperrors.NewFetchFailedError(c.opts.Resource, err), fmt.Sprintf("Failed to fetch %s", c.opts.Resource))
		c.changed()
		return
	}

	items := res.Items
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.pagination = Normalize(res.Pagination, res.Total, len(items), page, ipp)
	c.state.Page = c.pagination.CurrentPage
	c.loading = false
	c.mu.Unlock()

	metrics.FetchTotal.WithLabelValues(c.opts.Resource, "list", "success").Inc()
	c.changed()
}

// abandonedLocked reports whether a returning request belongs to a view
// that has been closed. Such results are neither applied nor reported.
func (c *Controller[T, S]) abandonedLocked(err error) bool {
	if c.closed {
		return true
	}
	return errors.Is(err, context.Canceled) && c.ctx.Err() != nil
}

func (c *Controller[T, S]) finishList(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.listSeq {
		c.loading = false
	}
}

func (c *Controller[T, S]) callList(ctx context.Context, q Query) (res ListResult[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("list %s panicked: %v", c.opts.Resource, r)
		}
	}()
	if c.opts.List == nil {
		return res, fmt.Errorf("no list function bound for %s", c.opts.Resource)
	}
	return c.opts.List(ctx, q)
}

// ---- stats ----

// ToggleStats flips the stats panel and loads stats when it opens.
func (c *Controller[T, S]) ToggleStats(ctx context.Context) bool {
	c.mu.Lock()
	c.showStats = !c.showStats
	on := c.showStats
	c.mu.Unlock()
	if on {
		c.FetchStats(ctx)
	}
	return on
}

func (c *Controller[T, S]) StatsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showStats
}

func (c *Controller[T, S]) HasStats() bool { return c.opts.Stats != nil }

// FetchStats loads the aggregate panel for the current search and filters.
// A failure leaves the zero snapshot. Items and pagination are untouched.
func (c *Controller[T, S]) FetchStats(ctx context.Context) {
	if c.opts.Stats == nil {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.statsSeq++
	seq := c.statsSeq
	c.statsLoading = true
	q := Query{Search: c.state.SearchTerm, Filters: copyFilters(c.state.Filters)}
	c.mu.Unlock()

	defer c.finishStats(seq)

	start := time.Now()
	stats, err := c.callStats(ctx, q)
	metrics.FetchDuration.WithLabelValues(c.opts.Resource, "stats").Observe(time.Since(start).Seconds())

	c.mu.Lock()
	if c.abandonedLocked(err) {
		c.mu.Unlock()
		c.log.Debug("dropped stats response after close", nil)
		return
	}
	if seq != c.statsSeq {
		c.mu.Unlock()
		metrics.StaleResponses.WithLabelValues(c.opts.Resource, "stats").Inc()
		return
	}
	if err != nil {
		var zero S
		c.stats = zero
		c.statsLoading = false
		c.mu.Unlock()

		metrics.FetchTotal.WithLabelValues(c.opts.Resource, "stats", "failure").Inc()
		c.handler.Handle(apperrors.NewStatsFailedError(c.opts.Resource, err), fmt.Sprintf("Failed to fetch %s statistics", c.opts.Resource))
		c.changed()
		return
	}
	c.stats = stats
	c.statsLoading = false
	c.mu.Unlock()

	metrics.FetchTotal.WithLabelValues(c.opts.Resource, "stats", "success").Inc()
	c.changed()
}

func (c *Controller[T, S]) finishStats(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.statsSeq {
		c.statsLoading = false
	}
}

func (c *Controller[T, S]) callStats(ctx context.Context, q Query) (s S, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stats %s panicked: %v", c.opts.Resource, r)
		}
	}()
	return c.opts.Stats(ctx, q)
}

// ---- reading ----

func (c *Controller[T, S]) Snapshot() Snapshot[T, S] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.items))
	copy(items, c.items)
	active := c.filtersActiveLocked()
	return Snapshot[T, S]{
		Query:           c.state.clone(),
		Items:           items,
		Pagination:      c.pagination,
		Stats:           c.stats,
		ShowStats:       c.showStats,
		Loading:         c.loading,
		StatsLoading:    c.statsLoading,
		FiltersExpanded: c.filtersExpanded,
		FiltersActive:   active,
		ShowControls:    len(c.items) > 0 || c.state.Interacted || active,
	}
}

// Item returns the row at 0-based index i on the current page.
func (c *Controller[T, S]) Item(i int) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, false
	}
	return c.items[i], true
}

func (c *Controller[T, S]) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Error(string)   {}
