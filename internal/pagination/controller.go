package pagination

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"clinicbook/internal/domain"
)

// PageSizes are the items-per-page values a list offers
var PageSizes = []int{5, 10, 20, 50}

// DefaultPageSize is used when no valid size is configured
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of PageSizes
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// CyclePageSize returns the next (dir > 0) or previous (dir < 0) page size.
// It stays at the ends of the range.
func CyclePageSize(cur, dir int) int {
	idx := -1
	for i, s := range PageSizes {
		if s == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		return DefaultPageSize
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(PageSizes) {
		idx = len(PageSizes) - 1
	}
	return PageSizes[idx]
}

// Fetcher loads one page of appointments
type Fetcher interface {
	FetchPage(ctx context.Context, page, limit int) (*domain.Page, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, page, limit int) (*domain.Page, error)

func (f FetcherFunc) FetchPage(ctx context.Context, page, limit int) (*domain.Page, error) {
	return f(ctx, page, limit)
}

// State is the pagination metadata of a list
type State struct {
	CurrentPage     int
	TotalPages      int
	TotalItems      int
	ItemsPerPage    int
	HasNextPage     bool
	HasPreviousPage bool
}

// DefaultState is the state before the first load
func DefaultState() State {
	return State{CurrentPage: 1, TotalPages: 1, ItemsPerPage: DefaultPageSize}
}

// Request identifies one in-flight fetch
type Request struct {
	Seq   uint64
	Page  int
	Limit int
}

// Controller owns the pagination state, the loaded page and the client-side
// filter of one list view. It is not safe for concurrent use; the TUI drives it
// from its Update loop and runs only the fetch itself in a command.
type Controller struct {
	fetcher  Fetcher
	errLabel string

	state   State
	items   []domain.Appointment
	filter  domain.Filter
	loading bool
	errMsg  string
	lastErr error
	seq     uint64
}

// New creates a controller. errLabel is the message shown when a load fails,
// e.g. "Failed to load appointments".
func New(fetcher Fetcher, errLabel string, itemsPerPage int) *Controller {
	st := DefaultState()
	if ValidPageSize(itemsPerPage) {
		st.ItemsPerPage = itemsPerPage
	}
	return &Controller{
		fetcher:  fetcher,
		errLabel: errLabel,
		state:    st,
		filter:   domain.FilterAll,
	}
}

func (c *Controller) State() State                { return c.state }
func (c *Controller) Items() []domain.Appointment { return c.items }
func (c *Controller) Filter() domain.Filter       { return c.filter }
func (c *Controller) Loading() bool               { return c.loading }

// Error returns the user-facing error message of the last load, or ""
func (c *Controller) Error() string { return c.errMsg }

// Err returns the underlying error of the last load
func (c *Controller) Err() error { return c.lastErr }

// Visible returns the loaded items passing the current filter
func (c *Controller) Visible() []domain.Appointment {
	return FilterItems(c.items, c.filter, nowFunc())
}

// Load fetches page synchronously. A page of zero or less reloads the current
// page.
func (c *Controller) Load(ctx context.Context, page int) error {
	req := c.Begin(page)
	defer func() { c.loading = false }()

	resp, err := c.fetcher.FetchPage(ctx, req.Page, req.Limit)
	c.Complete(req, resp, err)
	if err != nil {
		return fmt.Errorf("load page %d: %w", req.Page, err)
	}
	return nil
}

// Begin starts a fetch and returns the request to run. Any earlier request
// becomes stale.
func (c *Controller) Begin(page int) Request {
	if page <= 0 {
		page = c.state.CurrentPage
	}
	c.seq++
	c.loading = true
	c.errMsg = ""
	c.lastErr = nil
	return Request{Seq: c.seq, Page: page, Limit: c.state.ItemsPerPage}
}

// Fetch runs req against the fetcher. It does not touch controller state and
// may be called from a goroutine.
func (c *Controller) Fetch(ctx context.Context, req Request) (*domain.Page, error) {
	return c.fetcher.FetchPage(ctx, req.Page, req.Limit)
}

// Complete applies the outcome of req. Completions of stale requests are
// dropped and Complete returns false.
func (c *Controller) Complete(req Request, resp *domain.Page, err error) bool {
	if req.Seq != c.seq {
		log.Debug().Uint64("seq", req.Seq).Uint64("latest", c.seq).Msg("pagination: dropping stale page")
		return false
	}
	c.loading = false

	if err != nil {
		log.Error().Err(err).Int("page", req.Page).Msg("pagination: load failed")
		c.errMsg = c.errLabel
		c.lastErr = err
		return true
	}
	if resp == nil {
		resp = &domain.Page{}
	}

	c.items = resp.Data
	if c.items == nil {
		c.items = []domain.Appointment{}
	}
	c.applyPagination(req.Page, resp.Pagination)
	return true
}

func (c *Controller) applyPagination(requested int, p *domain.Pagination) {
	if p == nil {
		p = &domain.Pagination{}
	}
	st := c.state
	st.CurrentPage = intOr(p.CurrentPage, requested)
	st.TotalPages = intOr(p.TotalPages, 1)
	st.TotalItems = intOr(p.TotalItems, 0)
	st.HasNextPage = boolOr(p.HasNextPage, false)
	st.HasPreviousPage = boolOr(p.HasPreviousPage, false)

	if st.TotalPages < 1 {
		st.TotalPages = 1
	}
	if st.TotalItems < 0 {
		st.TotalItems = 0
	}
	if st.CurrentPage > st.TotalPages {
		st.CurrentPage = st.TotalPages
	}
	if st.CurrentPage < 1 {
		st.CurrentPage = 1
	}
	c.state = st
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// goTo moves to page and reports that a fetch is needed
func (c *Controller) goTo(page int) (int, bool) {
	c.state.CurrentPage = page
	return page, true
}

// First moves to page 1 when not already there
func (c *Controller) First() (int, bool) {
	if c.state.CurrentPage <= 1 {
		return c.state.CurrentPage, false
	}
	return c.goTo(1)
}

// Previous moves back one page when the server reported a previous page
func (c *Controller) Previous() (int, bool) {
	if !c.state.HasPreviousPage {
		return c.state.CurrentPage, false
	}
	return c.goTo(c.state.CurrentPage - 1)
}

// Next moves forward one page when the server reported a next page
func (c *Controller) Next() (int, bool) {
	if !c.state.HasNextPage {
		return c.state.CurrentPage, false
	}
	return c.goTo(c.state.CurrentPage + 1)
}

// Last moves to the final page
func (c *Controller) Last() (int, bool) {
	if c.state.CurrentPage >= c.state.TotalPages {
		return c.state.CurrentPage, false
	}
	return c.goTo(c.state.TotalPages)
}

// Jump moves to page n when it is a different, existing page
func (c *Controller) Jump(n int) (int, bool) {
	if n == c.state.CurrentPage || n < 1 || n > c.state.TotalPages {
		return c.state.CurrentPage, false
	}
	return c.goTo(n)
}

// SetItemsPerPage changes the page size and returns to page 1
func (c *Controller) SetItemsPerPage(n int) (int, bool) {
	if !ValidPageSize(n) || n == c.state.ItemsPerPage {
		return c.state.CurrentPage, false
	}
	c.state.ItemsPerPage = n
	return c.goTo(1)
}

// SetFilter changes the temporal filter and returns to page 1
func (c *Controller) SetFilter(f domain.Filter) (int, bool) {
	if f == c.filter {
		return c.state.CurrentPage, false
	}
	c.filter = f
	return c.goTo(1)
}

// Refresh always refetches the current page
func (c *Controller) Refresh() (int, bool) {
	return c.state.CurrentPage, true
}
