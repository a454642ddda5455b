package finder

import (
	"cmp"
	"slices"
	"time"

	"github.com/david/youth-hub/internal/models"
)

// Sort returns a sorted copy of list. Any mode other than Upcoming Deadline
// orders by latest posting.
func (e *Engine) Sort(list []models.Opportunity, mode string) []models.Opportunity {
	out := slices.Clone(list)
	loc := e.now().Location()
	if mode == models.SortUpcomingDeadline {
		slices.SortStableFunc(out, func(a, b models.Opportunity) int {
			return compareDeadlines(a.Deadline, b.Deadline, loc)
		})
		return out
	}
	SortByPosted(out, loc)
	return out
}

// SortByPosted orders list in place, newest posting first. Unparseable
// posting dates go last.
func SortByPosted(list []models.Opportunity, loc *time.Location) {
	slices.SortStableFunc(list, func(a, b models.Opportunity) int {
		ta, okA := ParseDate(a.PostedDate, loc)
		tb, okB := ParseDate(b.PostedDate, loc)
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
}

// deadline classes in ascending sort order
const (
	classDated = iota
	classUnparseable
	classOpen
)

func deadlineClass(deadline string, loc *time.Location) (int, time.Time) {
	if models.IsOpenEnrollment(deadline) {
		return classOpen, time.Time{}
	}
	t, ok := ParseDate(deadline, loc)
	if !ok {
		return classUnparseable, time.Time{}
	}
	return classDated, t
}

func compareDeadlines(a, b string, loc *time.Location) int {
	ca, ta := deadlineClass(a, loc)
	cb, tb := deadlineClass(b, loc)
	if ca != cb {
		return cmp.Compare(ca, cb)
	}
	if ca == classDated {
		return ta.Compare(tb)
	}
	return 0
}
