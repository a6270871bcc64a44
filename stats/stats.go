// Package stats derives the dashboard numbers from an accumulated snapshot.
//
// There are deliberately two filtered views over the same traces: the
// headline statistics and the category-card counts apply different subsets of
// the active filters and therefore produce different numbers.  The inclusion
// rules are documented per function; do not unify them - the cards must stay
// stable while they are being toggled, and the headline must reflect would-be
// totals while an evaluation filter is active.
package stats

import (
	"math"

	"github.com/juspay/genius-dashboard-go/category"
	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/tracestore"
	"github.com/juspay/genius-dashboard-go/utils"
)

// EvaluationsBySession folds genius-feedback scores into a per-session
// tri-state: any 1 and any 0 → mixed, any 1 → correct, any 0 → incorrect.
// Sessions with no scored traces are absent from the map.
func EvaluationsBySession(scores []tracestore.Score, traces []tracestore.Trace) map[string]string {
	evals := map[string]string{}

	if len(scores) == 0 || len(traces) == 0 {
		return evals
	}

	sessionByTrace := map[string]string{}
	for _, t := range traces {
		sessionByTrace[t.ID] = t.SessionID
	}

	type tally struct{ correct, incorrect bool }
	tallies := map[string]*tally{}

	for _, s := range scores {
		sessionID := sessionByTrace[s.TraceID]
		if sessionID == "" {
			continue
		}

		t := tallies[sessionID]
		if t == nil {
			t = &tally{}
			tallies[sessionID] = t
		}

		if s.Value == 1 {
			t.correct = true
		} else if s.Value == 0 {
			t.incorrect = true
		}
	}

	for sessionID, t := range tallies {
		switch {
		case t.correct && t.incorrect:
			evals[sessionID] = utils.EVALUATION_MIXED
		case t.correct:
			evals[sessionID] = utils.EVALUATION_CORRECT
		case t.incorrect:
			evals[sessionID] = utils.EVALUATION_INCORRECT
		}
	}

	return evals
}

// TagsBySession merges each session's trace tags into one deduplicated set,
// preserving first-seen order.
func TagsBySession(traces []tracestore.Trace) map[string][]string {
	tags := map[string][]string{}
	seen := map[string]map[string]bool{}

	for _, t := range traces {
		if t.SessionID == "" || len(t.Tags) == 0 {
			continue
		}

		if seen[t.SessionID] == nil {
			seen[t.SessionID] = map[string]bool{}
		}

		for _, tag := range t.Tags {
			if !seen[t.SessionID][tag] {
				seen[t.SessionID][tag] = true
				tags[t.SessionID] = append(tags[t.SessionID], tag)
			}
		}
	}

	return tags
}

// Headline is the top-of-page statistics block.
type Headline struct {
	TotalSessions     int `json:"totalSessions"`
	TotalQueries      int `json:"totalQueries"`
	CorrectQueries    int `json:"correctQueries"`
	IncorrectQueries  int `json:"incorrectQueries"`
	CorrectPercentage int `json:"correctPercentage"`
}

// CardCounts backs the clickable category cards.
type CardCounts struct {
	MerchantQueries             int `json:"merchantQueries"`
	GeniusTeamQueries           int `json:"geniusTeamQueries"`
	JuspayGeniusMerchantQueries int `json:"juspayGeniusMerchantQueries"`
}

// CategoryBreakdown is one row of the detailed statistics table.
type CategoryBreakdown struct {
	TotalSessions    int `json:"totalSessions"`
	TotalQueries     int `json:"totalQueries"`
	IncorrectQueries int `json:"incorrectQueries"`
	Accuracy         int `json:"accuracy"`
}

// Detailed groups the breakdown by user category.  "Other" is the
// juspay-genius-merchant bucket.
type Detailed struct {
	Merchant CategoryBreakdown `json:"merchant"`
	Team     CategoryBreakdown `json:"team"`
	Other    CategoryBreakdown `json:"other"`
}

// HeadlineStats computes the headline block.
//
// Inclusion rules: sessions pass search + category toggles + tag +
// hide-unknown; the correct/incorrect filter flags are deliberately excluded
// so the counts reflect would-be totals regardless of any active evaluation
// filter.  TotalSessions is the exception - it reports the length of the
// fully filtered list (evaluation flags included), mirroring the visible
// session list.
//
// With no traces accumulated at all the result is all zeros.
func HeadlineStats(snap *tracestore.Snapshot, s filters.State, search string, tags map[string][]string, evals map[string]string) Headline {
	if len(snap.Traces) == 0 {
		return Headline{}
	}

	statsState := s
	statsState.FilterCorrect = false
	statsState.FilterIncorrect = false

	sessionsForStats := filters.Filter(snap.Sessions, statsState, search, tags, evals)
	tracesForStats := tracesOf(snap.Traces, sessionsForStats, s.SelectedTag)

	traceIncluded := map[string]bool{}
	for _, t := range tracesForStats {
		traceIncluded[t.ID] = true
	}

	var correct, incorrect int
	for _, score := range snap.Scores {
		if !traceIncluded[score.TraceID] {
			continue
		}
		if score.Value == 1 {
			correct++
		} else if score.Value == 0 {
			incorrect++
		}
	}

	return Headline{
		TotalSessions:     len(filters.Filter(snap.Sessions, s, search, tags, evals)),
		TotalQueries:      len(tracesForStats),
		CorrectQueries:    correct,
		IncorrectQueries:  incorrect,
		CorrectPercentage: percentage(correct, incorrect),
	}
}

// CardStats computes the per-category trace counts shown on the filter
// cards.
//
// Inclusion rules: sessions pass search + tag + hide-unknown only.  Both the
// category toggles and the evaluation flags are deliberately excluded -
// clicking a card must not change the number on any card.
func CardStats(snap *tracestore.Snapshot, s filters.State, search string, tags map[string][]string, evals map[string]string) CardCounts {
	if len(snap.Traces) == 0 {
		return CardCounts{}
	}

	cardState := s
	cardState.ShowOnlyMerchant = false
	cardState.ShowOnlyTeam = false
	cardState.ShowOnlyJuspayOthers = false
	cardState.FilterCorrect = false
	cardState.FilterIncorrect = false

	sessionsForCards := filters.Filter(snap.Sessions, cardState, search, tags, evals)
	tracesForCards := tracesOf(snap.Traces, sessionsForCards, s.SelectedTag)

	sessionByID := map[string]tracestore.Session{}
	for _, session := range snap.Sessions {
		sessionByID[session.ID] = session
	}

	var counts CardCounts
	for _, t := range tracesForCards {
		session, ok := sessionByID[t.SessionID]
		if !ok {
			continue
		}

		switch category.Categorize(session.UserIDs, s.TeamEmails) {
		case category.Merchant:
			counts.MerchantQueries++
		case category.Team:
			counts.GeniusTeamQueries++
		case category.JuspayGeniusMerchant:
			counts.JuspayGeniusMerchantQueries++
		}
	}

	return counts
}

// DetailedStats computes the per-category statistics table.
//
// Inclusion rules: sessions pass search + category toggles + tag +
// hide-unknown (evaluation flags excluded); the passing sessions are then
// regrouped by category.
func DetailedStats(snap *tracestore.Snapshot, s filters.State, search string, tags map[string][]string, evals map[string]string) Detailed {
	if len(snap.Traces) == 0 {
		return Detailed{}
	}

	statsState := s
	statsState.FilterCorrect = false
	statsState.FilterIncorrect = false

	sessionsForStats := filters.Filter(snap.Sessions, statsState, search, tags, evals)

	byCategory := map[category.Category][]tracestore.Session{}
	for _, session := range sessionsForStats {
		cat := category.Categorize(session.UserIDs, s.TeamEmails)
		byCategory[cat] = append(byCategory[cat], session)
	}

	return Detailed{
		Merchant: breakdown(snap, byCategory[category.Merchant]),
		Team:     breakdown(snap, byCategory[category.Team]),
		Other:    breakdown(snap, byCategory[category.JuspayGeniusMerchant]),
	}
}

func breakdown(snap *tracestore.Snapshot, sessions []tracestore.Session) CategoryBreakdown {
	sessionIncluded := map[string]bool{}
	for _, session := range sessions {
		sessionIncluded[session.ID] = true
	}

	traceIncluded := map[string]bool{}
	totalQueries := 0
	for _, t := range snap.Traces {
		if t.SessionID != "" && sessionIncluded[t.SessionID] {
			traceIncluded[t.ID] = true
			totalQueries++
		}
	}

	var correct, incorrect int
	for _, score := range snap.Scores {
		if !traceIncluded[score.TraceID] {
			continue
		}
		if score.Value == 1 {
			correct++
		} else if score.Value == 0 {
			incorrect++
		}
	}

	return CategoryBreakdown{
		TotalSessions:    len(sessions),
		TotalQueries:     totalQueries,
		IncorrectQueries: incorrect,
		Accuracy:         percentage(correct, incorrect),
	}
}

// tracesOf keeps traces belonging to the given sessions, further narrowed by
// the selected tag.
func tracesOf(traces []tracestore.Trace, sessions []tracestore.Session, selectedTag string) []tracestore.Trace {
	included := map[string]bool{}
	for _, session := range sessions {
		included[session.ID] = true
	}

	matched := make([]tracestore.Trace, 0, len(traces))
	for _, t := range traces {
		if t.SessionID == "" || !included[t.SessionID] {
			continue
		}

		if selectedTag != "" && selectedTag != utils.TAG_ALL && !containsTag(t.Tags, selectedTag) {
			continue
		}

		matched = append(matched, t)
	}

	return matched
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// percentage rounds correct/(correct+incorrect) to whole percent, 0 when
// nothing was evaluated.
func percentage(correct, incorrect int) int {
	evaluated := correct + incorrect
	if evaluated == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(evaluated) * 100))
}
