package models

// Deadline windows.
const (
	DeadlineNext7Days   = "Next 7 Days"
	DeadlineNext30Days  = "Next 30 Days"
	DeadlineNext3Months = "Next 3 Months"
	DeadlineOver3Months = "Over 3 Months"
)

// Posting-recency windows.
const (
	PostedLast24Hours = "Last 24 Hours"
	PostedLast7Days   = "Last 7 Days"
	PostedLast30Days  = "Last 30 Days"
	PostedLast3Months = "Last 3 Months"
)

// Sort modes.
const (
	SortLatestPostings   = "Latest Postings"
	SortUpcomingDeadline = "Upcoming Deadline"
)

var (
	DeadlineOptions     = []string{AllUpcoming, DeadlineNext7Days, DeadlineNext30Days, DeadlineNext3Months, DeadlineOver3Months}
	PostedWithinOptions = []string{AllTime, PostedLast24Hours, PostedLast7Days, PostedLast30Days, PostedLast3Months}
	SortOptions         = []string{SortLatestPostings, SortUpcomingDeadline}
)

// Criteria holds the seven independent filter selectors. Each selector has an
// "All"-type sentinel meaning unconstrained.
type Criteria struct {
	Search       string `json:"search"`
	Country      string `json:"country"`
	Category     string `json:"sector"`
	Education    string `json:"education"`
	Deadline     string `json:"deadline"`
	PostedWithin string `json:"postedWithin"`
	SortBy       string `json:"sortBy"`
}

// DefaultCriteria is the selector state a fresh listing view starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Country:      All,
		Category:     All,
		Education:    All,
		Deadline:     AllUpcoming,
		PostedWithin: PostedLast3Months,
		SortBy:       SortLatestPostings,
	}
}

// Unconstrained returns criteria that let every valid record through.
func Unconstrained() Criteria {
	c := DefaultCriteria()
	c.PostedWithin = AllTime
	return c
}
