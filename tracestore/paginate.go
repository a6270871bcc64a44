package tracestore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/juspay/genius-dashboard-go/utils"
)

// The accumulators fetch sequential pages and concatenate them until the
// store returns a short page.  There is no retry: a failed page fetch ends
// accumulation and the prefix fetched so far is returned alongside the error,
// so aggregations can proceed on partial data.  There is no cap either -
// memory grows with the number of items in range.

// AllSessions accumulates every session created within [from, to].
func (c *Client) AllSessions(ctx context.Context, projectID string, from, to time.Time) ([]Session, error) {
	var all []Session

	for page := 0; ; page++ {
		sessions, err := c.Sessions(ctx, projectID, from, to, page, utils.PAGE_SIZE)
		if err != nil {
			return all, err
		}

		all = append(all, sessions...)

		if len(sessions) < utils.PAGE_SIZE {
			return all, nil
		}
	}
}

// AllTraces accumulates every trace with a timestamp within [from, to].
func (c *Client) AllTraces(ctx context.Context, projectID string, from, to time.Time) ([]Trace, error) {
	var all []Trace

	for page := 0; ; page++ {
		traces, err := c.Traces(ctx, projectID, from, to, page, utils.PAGE_SIZE)
		if err != nil {
			return all, err
		}

		all = append(all, traces...)

		if len(traces) < utils.PAGE_SIZE {
			return all, nil
		}
	}
}

// AllScores accumulates every genius-feedback score for the project.
func (c *Client) AllScores(ctx context.Context, projectID string) ([]Score, error) {
	var all []Score

	for page := 0; ; page++ {
		scores, err := c.Scores(ctx, projectID, utils.SCORE_GENIUS_FEEDBACK, page, utils.PAGE_SIZE)
		if err != nil {
			return all, err
		}

		all = append(all, scores...)

		if len(scores) < utils.PAGE_SIZE {
			return all, nil
		}
	}
}

// Snapshot is the accumulated working set for one date range.  Any of the
// slices may be a partial prefix if its accumulation failed part-way.
type Snapshot struct {
	Sessions []Session
	Traces   []Trace
	Scores   []Score
}

// Snap accumulates sessions, traces and scores concurrently.  The three
// fetches are independent and unordered; a failure in one does not stop the
// others.  The joined error is returned for logging - callers are expected to
// serve whatever arrived.
func (c *Client) Snap(ctx context.Context, projectID string, from, to time.Time) (*Snapshot, error) {
	snap := &Snapshot{}

	var wg sync.WaitGroup
	var sessErr, traceErr, scoreErr error

	wg.Add(3)

	go func() {
		defer wg.Done()
		snap.Sessions, sessErr = c.AllSessions(ctx, projectID, from, to)
	}()

	go func() {
		defer wg.Done()
		snap.Traces, traceErr = c.AllTraces(ctx, projectID, from, to)
	}()

	go func() {
		defer wg.Done()
		snap.Scores, scoreErr = c.AllScores(ctx, projectID)
	}()

	wg.Wait()

	return snap, errors.Join(sessErr, traceErr, scoreErr)
}
