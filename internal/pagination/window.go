package pagination

import (
	"fmt"
	"time"

	"clinicbook/internal/domain"
)

// WindowSize is the maximum number of page buttons shown
const WindowSize = 5

// Window returns the page numbers to show around cur
func Window(cur, total int) []int {
	if total < 1 {
		total = 1
	}
	start := max(1, cur-2)
	end := min(total, start+WindowSize-1)
	if end-start+1 < WindowSize {
		start = max(1, end-WindowSize+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Range returns the 1-based item range of the current page as reported by the
// server. from is 0 when there are no items.
func Range(st State) (from, to, total int) {
	total = st.TotalItems
	if total <= 0 {
		return 0, 0, 0
	}
	from = (st.CurrentPage-1)*st.ItemsPerPage + 1
	to = min(st.CurrentPage*st.ItemsPerPage, total)
	return from, to, total
}

// Summary renders "Showing X to Y of Z" and, for an active filter, the number
// of loaded items matching it
func Summary(st State, filter domain.Filter, matched int) string {
	from, to, total := Range(st)
	s := fmt.Sprintf("Showing %d to %d of %d", from, to, total)
	if filter != domain.FilterAll && filter != "" {
		s += fmt.Sprintf(" (%d match filter)", matched)
	}
	return s
}

// nowFunc is replaced in tests
var nowFunc = time.Now

// FilterItems applies the temporal filter to a loaded page. Dates are
// compared date-only in local time. Items whose start cannot be parsed are
// dropped by every filter except all.
func FilterItems(items []domain.Appointment, filter domain.Filter, now time.Time) []domain.Appointment {
	if filter == domain.FilterAll || filter == "" {
		return items
	}

	today := dateOnly(now)
	out := make([]domain.Appointment, 0, len(items))
	for _, item := range items {
		start, ok := item.StartTime()
		if !ok {
			continue
		}
		day := dateOnly(start)
		keep := false
		switch filter {
		case domain.FilterToday:
			keep = day.Equal(today)
		case domain.FilterUpcoming:
			keep = day.After(today)
		case domain.FilterPast:
			keep = day.Before(today)
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	t = t.In(time.Local)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
