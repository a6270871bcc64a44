package utils

import "time"

// We have constants here rather than in the packages you might expect to avoid import loops.

// PAGE_SIZE is the upstream page size.  A page shorter than this signals the
// end of the result set.
const PAGE_SIZE = 99

// SCORE_GENIUS_FEEDBACK is the only automated score we consume.
const SCORE_GENIUS_FEEDBACK = "genius-feedback"

// UNKNOWN_USER is the placeholder identity the trace store records when a
// session has no resolvable user.
const UNKNOWN_USER = "Unknown User"

// TAG_ALL disables tag filtering.
const TAG_ALL = "all"

const RATING_CORRECT = "correct"
const RATING_NEEDS_WORK = "needs-work"
const RATING_WRONG = "wrong"

// Session evaluation tri-state, derived from genius-feedback scores.
const EVALUATION_CORRECT = "correct"
const EVALUATION_INCORRECT = "incorrect"
const EVALUATION_MIXED = "mixed"

// ValidRating reports whether r is one of the accepted manual rating values.
func ValidRating(r string) bool {
	return r == RATING_CORRECT || r == RATING_NEEDS_WORK || r == RATING_WRONG
}

// ParseRelativeDate turns a date-picker value into a time.  Accepts the
// relative phrases the UI offers as well as plain and RFC3339 dates.
func ParseRelativeDate(s string, fallback time.Time) time.Time {
	switch s {
	case "today":
		return time.Now()
	case "1 day ago":
		return time.Now().AddDate(0, 0, -1)
	case "7 days ago":
		return time.Now().AddDate(0, 0, -7)
	case "30 days ago":
		return time.Now().AddDate(0, 0, -30)
	case "90 days ago":
		return time.Now().AddDate(0, 0, -90)
	case "1 year ago":
		return time.Now().AddDate(-1, 0, 0)
	default:
		// Try parsing as a date.
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			t, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return fallback
			}
		}
		return t
	}
}
