package binding

import (
	"context"
	"errors"
	"sync"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/pkg/changefeed"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

type Getter[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
}

// DocState is a point-in-time view of one row. Exists is nil while unknown:
// before the first fetch, after a failed fetch and when idle.
type DocState[T any] struct {
	Data    *T    `json:"data"`
	Exists  *bool `json:"exists"`
	Loading bool  `json:"loading"`
	Err     error `json:"-"`
}

// Document is a live query over one row of a table.
type Document[T any] struct {
	source Getter[T]
	feed   changefeed.Feed
	table  string
	logger *types.Logger

	mu       sync.Mutex
	id       string
	state    DocState[T]
	onUpdate func(DocState[T])

	lifecycle sync.Mutex
	watch     *watch
}

func NewDocument[T any](source Getter[T], feed changefeed.Feed, table string, log *types.Logger) *Document[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Document[T]{
		source: source,
		feed:   feed,
		table:  table,
		logger: log,
	}
}

// OnUpdate registers fn to receive every new state. fn runs on the binding
// goroutine and must not call SetID or Close.
func (d *Document[T]) OnUpdate(fn func(DocState[T])) {
	d.mu.Lock()
	d.onUpdate = fn
	d.mu.Unlock()
}

// SetID switches the binding to the row id. An empty id resets it to the idle
// state without querying or subscribing.
func (d *Document[T]) SetID(ctx context.Context, id string) {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	d.watch.close()
	d.watch = nil

	d.mu.Lock()
	d.id = id
	d.state = DocState[T]{Loading: id != ""}
	d.mu.Unlock()

	if id == "" {
		d.emit()
		return
	}

	sub := d.feed.Subscribe(d.table, id)
	d.refetch(ctx, id)
	d.watch = startWatch(ctx, sub, func(change changefeed.Change) {
		if change.Type == changefeed.Delete {
			d.mu.Lock()
			d.state = DocState[T]{Exists: boolPtr(false)}
			d.mu.Unlock()
			d.emit()
			return
		}
		d.refetch(ctx, id)
	})
}

func (d *Document[T]) Close() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	d.watch.close()
	d.watch = nil
}

func (d *Document[T]) ID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

func (d *Document[T]) Snapshot() DocState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Document[T]) refetch(ctx context.Context, id string) {
	d.mu.Lock()
	d.state.Loading = true
	d.mu.Unlock()

	row, err := d.source.Get(ctx, id)

	d.mu.Lock()
	switch {
	case errors.Is(err, errorz.ErrNotFound):
		d.state = DocState[T]{Exists: boolPtr(false)}
	case err != nil:
		d.logger.Warnf("get %s/%s failed: %v", d.table, id, err)
		d.state.Err = err
		d.state.Exists = nil
	default:
		d.state = DocState[T]{Data: row, Exists: boolPtr(true)}
	}
	d.state.Loading = false
	d.mu.Unlock()

	d.emit()
}

func (d *Document[T]) emit() {
	d.mu.Lock()
	state, fn := d.state, d.onUpdate
	d.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}

func boolPtr(v bool) *bool {
	return &v
}
