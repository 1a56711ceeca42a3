package pagination

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicbook/internal/domain"
)

func ptr[T any](v T) *T { return &v }

type recordingFetcher struct {
	calls [][2]int
	resp  *domain.Page
	err   error
}

func (f *recordingFetcher) FetchPage(_ context.Context, page, limit int) (*domain.Page, error) {
	f.calls = append(f.calls, [2]int{page, limit})
	return f.resp, f.err
}

func pageOf(cur, total, items int, next, prev bool) *domain.Page {
	return &domain.Page{
		Data: []domain.Appointment{{ID: "a1"}, {ID: "a2"}},
		Pagination: &domain.Pagination{
			CurrentPage:     ptr(cur),
			TotalPages:      ptr(total),
			TotalItems:      ptr(items),
			HasNextPage:     ptr(next),
			HasPreviousPage: ptr(prev),
		},
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(&recordingFetcher{}, "Failed to load appointments", 7)
	assert.Equal(t, DefaultState(), c.State())
	assert.Equal(t, domain.FilterAll, c.Filter())
	assert.False(t, c.Loading())
	assert.Empty(t, c.Error())
}

func TestLoadAppliesPagination(t *testing.T) {
	f := &recordingFetcher{resp: pageOf(3, 7, 65, true, true)}
	c := New(f, "Failed to load appointments", 10)

	require.NoError(t, c.Load(context.Background(), 3))
	assert.Equal(t, [][2]int{{3, 10}}, f.calls)
	assert.Equal(t, State{CurrentPage: 3, TotalPages: 7, TotalItems: 65, ItemsPerPage: 10, HasNextPage: true, HasPreviousPage: true}, c.State())
	assert.Len(t, c.Items(), 2)
	assert.False(t, c.Loading())
}

func TestLoadFallbacks(t *testing.T) {
	f := &recordingFetcher{resp: &domain.Page{}}
	c := New(f, "Failed to load appointments", 10)

	require.NoError(t, c.Load(context.Background(), 4))
	st := c.State()
	// currentPage falls back to the requested page, then is clamped to totalPages
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 1, st.TotalPages)
	assert.Equal(t, 0, st.TotalItems)
	assert.False(t, st.HasNextPage)
	assert.False(t, st.HasPreviousPage)
	assert.NotNil(t, c.Items())
	assert.Empty(t, c.Items())
}

func TestLoadPartialPagination(t *testing.T) {
	f := &recordingFetcher{resp: &domain.Page{Pagination: &domain.Pagination{TotalPages: ptr(5)}}}
	c := New(f, "Failed to load appointments", 10)

	require.NoError(t, c.Load(context.Background(), 4))
	assert.Equal(t, 4, c.State().CurrentPage)
	assert.Equal(t, 5, c.State().TotalPages)
}

func TestLoadClampsCurrentPage(t *testing.T) {
	f := &recordingFetcher{resp: pageOf(9, 3, 30, false, true)}
	c := New(f, "x", 10)

	require.NoError(t, c.Load(context.Background(), 9))
	assert.Equal(t, 3, c.State().CurrentPage)
}

func TestLoadZeroMeansCurrentPage(t *testing.T) {
	f := &recordingFetcher{resp: pageOf(2, 4, 40, true, true)}
	c := New(f, "x", 20)
	require.NoError(t, c.Load(context.Background(), 2))

	require.NoError(t, c.Load(context.Background(), 0))
	assert.Equal(t, [2]int{2, 20}, f.calls[1])
}

func TestLoadFailureSetsError(t *testing.T) {
	f := &recordingFetcher{resp: pageOf(1, 2, 20, true, false)}
	c := New(f, "Failed to load pending appointments", 10)
	require.NoError(t, c.Load(context.Background(), 1))

	f.err = errors.New("connection refused")
	err := c.Load(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, "Failed to load pending appointments", c.Error())
	assert.ErrorIs(t, c.Err(), f.err)
	assert.False(t, c.Loading())

	// the error is cleared by the next load
	f.err = nil
	require.NoError(t, c.Load(context.Background(), 1))
	assert.Empty(t, c.Error())
}

func TestBeginCompleteDropsStale(t *testing.T) {
	c := New(&recordingFetcher{}, "x", 10)

	first := c.Begin(2)
	second := c.Begin(3)
	assert.True(t, c.Loading())

	assert.False(t, c.Complete(first, pageOf(2, 5, 50, true, true), nil))
	assert.True(t, c.Loading())
	assert.Equal(t, 1, c.State().CurrentPage)

	assert.True(t, c.Complete(second, pageOf(3, 5, 50, true, true), nil))
	assert.False(t, c.Loading())
	assert.Equal(t, 3, c.State().CurrentPage)
}

func loaded(t *testing.T, cur, total int, next, prev bool) *Controller {
	t.Helper()
	c := New(&recordingFetcher{resp: pageOf(cur, total, total*10, next, prev)}, "x", 10)
	require.NoError(t, c.Load(context.Background(), cur))
	return c
}

func TestNavigation(t *testing.T) {
	t.Run("first", func(t *testing.T) {
		c := loaded(t, 1, 5, true, false)
		_, ok := c.First()
		assert.False(t, ok)

		c = loaded(t, 3, 5, true, true)
		p, ok := c.First()
		assert.True(t, ok)
		assert.Equal(t, 1, p)
		assert.Equal(t, 1, c.State().CurrentPage)
	})

	t.Run("previous", func(t *testing.T) {
		c := loaded(t, 1, 5, true, false)
		_, ok := c.Previous()
		assert.False(t, ok)

		c = loaded(t, 3, 5, true, true)
		p, ok := c.Previous()
		assert.True(t, ok)
		assert.Equal(t, 2, p)
	})

	t.Run("next", func(t *testing.T) {
		c := loaded(t, 5, 5, false, true)
		_, ok := c.Next()
		assert.False(t, ok)

		c = loaded(t, 3, 5, true, true)
		p, ok := c.Next()
		assert.True(t, ok)
		assert.Equal(t, 4, p)
	})

	t.Run("last", func(t *testing.T) {
		c := loaded(t, 5, 5, false, true)
		_, ok := c.Last()
		assert.False(t, ok)

		c = loaded(t, 2, 5, true, true)
		p, ok := c.Last()
		assert.True(t, ok)
		assert.Equal(t, 5, p)
	})

	t.Run("jump", func(t *testing.T) {
		c := loaded(t, 2, 5, true, true)
		for _, n := range []int{0, 2, 6, -1} {
			_, ok := c.Jump(n)
			assert.False(t, ok, "jump to %d", n)
		}
		p, ok := c.Jump(4)
		assert.True(t, ok)
		assert.Equal(t, 4, p)
	})

	t.Run("refresh", func(t *testing.T) {
		c := loaded(t, 2, 5, true, true)
		p, ok := c.Refresh()
		assert.True(t, ok)
		assert.Equal(t, 2, p)
	})
}

func TestSetItemsPerPage(t *testing.T) {
	c := loaded(t, 3, 5, true, true)

	_, ok := c.SetItemsPerPage(10)
	assert.False(t, ok, "unchanged size is a no-op")
	_, ok = c.SetItemsPerPage(15)
	assert.False(t, ok, "size outside the allowed set")
	assert.Equal(t, 3, c.State().CurrentPage)

	p, ok := c.SetItemsPerPage(20)
	assert.True(t, ok)
	assert.Equal(t, 1, p)
	assert.Equal(t, 20, c.State().ItemsPerPage)
}

func TestSetFilter(t *testing.T) {
	c := loaded(t, 3, 5, true, true)

	_, ok := c.SetFilter(domain.FilterAll)
	assert.False(t, ok)

	p, ok := c.SetFilter(domain.FilterToday)
	assert.True(t, ok)
	assert.Equal(t, 1, p)
	assert.Equal(t, domain.FilterToday, c.Filter())
}

func TestCyclePageSize(t *testing.T) {
	assert.Equal(t, 20, CyclePageSize(10, 1))
	assert.Equal(t, 5, CyclePageSize(10, -1))
	assert.Equal(t, 5, CyclePageSize(5, -1))
	assert.Equal(t, 50, CyclePageSize(50, 1))
	assert.Equal(t, DefaultPageSize, CyclePageSize(7, 1))
}

func TestVisibleUsesFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = orig }()

	f := &recordingFetcher{resp: &domain.Page{Data: []domain.Appointment{
		{ID: "today", Start: "2026-03-10T08:00:00"},
		{ID: "tomorrow", Start: "2026-03-11T08:00:00"},
	}}}
	c := New(f, "x", 10)
	require.NoError(t, c.Load(context.Background(), 1))
	c.SetFilter(domain.FilterUpcoming)

	require.Len(t, c.Visible(), 1)
	assert.Equal(t, "tomorrow", c.Visible()[0].ID)
}
