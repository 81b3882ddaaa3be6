package client

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer fetch was started before this one
// finished; its result must not update displayed state.
var ErrSuperseded = errors.New("fetch superseded by newer parameters")

// CourseFetcher serializes course list fetches so that only the response for
// the most recent parameter set wins. Starting a fetch cancels the in-flight
// one, mirroring how the UI drops stale results when filters change mid-flight.
type CourseFetcher struct {
	client *Client

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewCourseFetcher creates a CourseFetcher backed by the given client.
func NewCourseFetcher(c *Client) *CourseFetcher {
	return &CourseFetcher{client: c}
}

// Fetch lists courses with params, cancelling any fetch still in flight.
// Returns ErrSuperseded when another Fetch started before this one completed.
func (f *CourseFetcher) Fetch(ctx context.Context, params ListParams) (CourseList, error) {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	resp, err := f.client.ListCourses(fetchCtx, params)

	f.mu.Lock()
	current := f.generation == gen
	if current {
		f.cancel = nil
	}
	f.mu.Unlock()
	cancel()

	if !current {
		return CourseList{}, ErrSuperseded
	}
	if err != nil {
		return CourseList{}, err
	}

	return resp, nil
}
