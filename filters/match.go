package filters

import (
	"strings"

	"github.com/juspay/genius-dashboard-go/category"
	"github.com/juspay/genius-dashboard-go/tracestore"
	"github.com/juspay/genius-dashboard-go/utils"
)

// Filter applies the conjunctive session predicate, preserving input order.
// tags and evals are the precomputed per-session maps (see the stats
// package).  The predicate is pure: re-applying it with the same arguments
// returns the same list.
func Filter(sessions []tracestore.Session, s State, search string, tags map[string][]string, evals map[string]string) []tracestore.Session {
	matched := make([]tracestore.Session, 0, len(sessions))

	for _, session := range sessions {
		if Matches(session, s, search, tags, evals) {
			matched = append(matched, session)
		}
	}

	return matched
}

// Matches is the per-session predicate.  All clauses must pass.
func Matches(session tracestore.Session, s State, search string, tags map[string][]string, evals map[string]string) bool {
	if !matchesSearch(session, search) {
		return false
	}

	cat := category.Categorize(session.UserIDs, s.TeamEmails)

	// Category toggles are any-of: with at least one active, the session's
	// category must match an active one.  With none active there is no
	// category filtering at all.
	if s.ShowOnlyMerchant || s.ShowOnlyTeam || s.ShowOnlyJuspayOthers {
		ok := (s.ShowOnlyMerchant && cat == category.Merchant) ||
			(s.ShowOnlyTeam && cat == category.Team) ||
			(s.ShowOnlyJuspayOthers && cat == category.JuspayGeniusMerchant)

		if !ok {
			return false
		}
	}

	if s.SelectedTag != "" && s.SelectedTag != utils.TAG_ALL {
		if !hasTag(tags[session.ID], s.SelectedTag) {
			return false
		}
	}

	if s.FilterCorrect || s.FilterIncorrect {
		eval := evals[session.ID]

		switch {
		case s.FilterCorrect && s.FilterIncorrect:
			// Both flags: any evaluation qualifies, unevaluated doesn't.
			if eval == "" {
				return false
			}
		case s.FilterCorrect:
			if eval != utils.EVALUATION_CORRECT {
				return false
			}
		case s.FilterIncorrect:
			if eval != utils.EVALUATION_INCORRECT && eval != utils.EVALUATION_MIXED {
				return false
			}
		}
	}

	if s.HideUnknownUser && cat == category.Unknown {
		return false
	}

	return true
}

func matchesSearch(session tracestore.Session, search string) bool {
	if search == "" {
		return true
	}

	needle := strings.ToLower(search)

	if strings.Contains(strings.ToLower(session.ID), needle) {
		return true
	}

	for _, uid := range session.UserIDs {
		if strings.Contains(strings.ToLower(uid), needle) {
			return true
		}
	}

	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
