// Package binding keeps query results fresh by refetching whenever the change
// feed reports a write to the watched table or row.
package binding

import (
	"context"
	"sync"

	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/pkg/changefeed"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

type Querier[T any] interface {
	Find(ctx context.Context, q dto.Query) ([]T, error)
}

// State is a point-in-time view of a collection. Data is nil until the first
// successful fetch; a failed fetch sets Err and keeps the previous Data.
type State[T any] struct {
	Data    []T   `json:"data"`
	Loading bool  `json:"loading"`
	Err     error `json:"-"`
}

// Collection is a live query over one table.
type Collection[T any] struct {
	source Querier[T]
	feed   changefeed.Feed
	logger *types.Logger

	mu       sync.Mutex
	query    dto.Query
	state    State[T]
	onUpdate func(State[T])

	lifecycle sync.Mutex
	watch     *watch
}

func NewCollection[T any](source Querier[T], feed changefeed.Feed, query dto.Query, log *types.Logger) *Collection[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Collection[T]{
		source: source,
		feed:   feed,
		logger: log,
		query:  query,
		state:  State[T]{Loading: true},
	}
}

// OnUpdate registers fn to receive the state after every fetch. fn runs on the
// binding goroutine and must not call SetQuery or Close.
func (c *Collection[T]) OnUpdate(fn func(State[T])) {
	c.mu.Lock()
	c.onUpdate = fn
	c.mu.Unlock()
}

// Start subscribes to the table, runs the initial fetch and then refetches once
// per change until ctx is done or Close is called.
func (c *Collection[T]) Start(ctx context.Context) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.watch.close()
	c.watch = nil

	q := c.Query()
	sub := c.feed.Subscribe(q.Table, "")
	c.refetch(ctx, q)
	c.watch = startWatch(ctx, sub, func(changefeed.Change) {
		c.refetch(ctx, q)
	})
}

// SetQuery replaces the query. The previous subscription is closed before the
// next one is opened.
func (c *Collection[T]) SetQuery(ctx context.Context, q dto.Query) {
	c.mu.Lock()
	c.query = q
	c.state.Loading = true
	c.mu.Unlock()
	c.Start(ctx)
}

func (c *Collection[T]) Close() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.watch.close()
	c.watch = nil
}

func (c *Collection[T]) Query() dto.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Collection[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Collection[T]) refetch(ctx context.Context, q dto.Query) {
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()

	rows, err := c.source.Find(ctx, q)

	c.mu.Lock()
	if err != nil {
		c.logger.Warnf("query %s failed: %v", q.Table, err)
		c.state.Err = err
	} else {
		c.state.Data = rows
		c.state.Err = nil
	}
	c.state.Loading = false
	state, fn := c.state, c.onUpdate
	c.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}
