package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/models"
)

// ErrSearchFailed is the single message shown when a search does not complete.
var ErrSearchFailed = errors.New("Search failed. Please try again.")

// SearchState represents the state of one search invocation
type SearchState string

const (
	// SearchIdle means the query is blank and genres are shown instead of results
	SearchIdle SearchState = "idle"

	// SearchLoading means the simulated request is in flight
	SearchLoading SearchState = "loading"

	// SearchResults means at least one record matched
	SearchResults SearchState = "results"

	// SearchEmpty means the search completed with no matches
	SearchEmpty SearchState = "empty"

	// SearchError means the search was interrupted
	SearchError SearchState = "error"
)

// String returns the string representation of SearchState
func (s SearchState) String() string {
	return string(s)
}

// IsFinished returns true if no further update follows this state
func (s SearchState) IsFinished() bool {
	return s == SearchIdle || s == SearchResults || s == SearchEmpty || s == SearchError
}

// SearchUpdate is a snapshot of a search.
type SearchUpdate struct {
	State   SearchState
	Query   string
	Results models.SearchResults
	Genres  []string // set only in the idle state
	Err     error    // set only in the error state
}

// SearchEngine runs searches against a catalog after a simulated delay.
type SearchEngine struct {
	catalog *catalog.Catalog
	delay   time.Duration
}

// NewSearchEngine creates a [SearchEngine]. A nil catalog uses [catalog.Default].
func NewSearchEngine(c *catalog.Catalog, delay time.Duration) *SearchEngine {
	if c == nil {
		c = catalog.Default()
	}
	return &SearchEngine{catalog: c, delay: delay}
}

// Run performs a search, reporting each state on progress when it is non-nil.
//
// A blank query never enters the loading state. The returned error is non-nil only in the error state
// and wraps both [ErrSearchFailed] and the cause.
func (e *SearchEngine) Run(ctx context.Context, query string, progress chan<- SearchUpdate) (SearchUpdate, error) {
	if strings.TrimSpace(query) == "" {
		update := SearchUpdate{State: SearchIdle, Query: query, Genres: catalog.PopularGenres()}
		sendProgress(progress, update)
		return update, nil
	}

	sendProgress(progress, SearchUpdate{State: SearchLoading, Query: query})

	if err := Simulate(ctx, e.delay); err != nil {
		err = fmt.Errorf("%w: %w", ErrSearchFailed, err)
		update := SearchUpdate{State: SearchError, Query: query, Err: err}
		sendProgress(progress, update)
		return update, err
	}

	update := SearchUpdate{State: SearchEmpty, Query: query, Results: e.catalog.Search(query)}
	if update.Results.HasResults() {
		update.State = SearchResults
	}
	sendProgress(progress, update)
	return update, nil
}

// Search runs a search without progress reporting.
func (e *SearchEngine) Search(ctx context.Context, query string) (SearchUpdate, error) {
	return e.Run(ctx, query, nil)
}

// Start runs a search in the background.
func (e *SearchEngine) Start(ctx context.Context, query string, progress chan<- SearchUpdate) *Task[SearchUpdate] {
	return Go(ctx, func(ctx context.Context) (SearchUpdate, error) {
		return e.Run(ctx, query, progress)
	})
}

// sendProgress sends an update through the channel without blocking.
func sendProgress(progress chan<- SearchUpdate, update SearchUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
