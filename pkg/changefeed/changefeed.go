// Package changefeed fans row change events out to per-table and per-row
// subscribers inside one process.
package changefeed

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultSubscriberCapacity = 64
	defaultDedupeWindow       = 1024
)

type ChangeType string

const (
	Insert ChangeType = "INSERT"
	Update ChangeType = "UPDATE"
	Delete ChangeType = "DELETE"
)

// Change describes one committed write.
type Change struct {
	ID    string     `json:"id"`
	Table string     `json:"table"`
	RowID string     `json:"row_id"`
	Type  ChangeType `json:"type"`
	At    time.Time  `json:"at"`
}

// Publisher accepts committed changes.
type Publisher interface {
	Publish(change Change)
}

// Feed hands out subscriptions. An empty rowID subscribes to the whole table.
type Feed interface {
	Subscribe(table, rowID string) Subscription
}

// Subscription is one live listener. Close is idempotent and closes Events.
type Subscription struct {
	Events <-chan Change
	cancel func()
}

func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

type Logger interface {
	Debugf(template string, args ...interface{})
}

type Option func(*Hub)

func WithSubscriberCapacity(capacity int) Option {
	return func(h *Hub) {
		if capacity > 0 {
			h.channelSize = capacity
		}
	}
}

func WithDedupeWindow(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.dedupeWindow = size
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// Hub is the in-process change feed.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}

	dedupeMu     sync.Mutex
	recentIDs    map[string]struct{}
	recentOrder  []string
	dedupeWindow int

	channelSize int
	logger      Logger
}

func New(opts ...Option) *Hub {
	h := &Hub{
		subscribers:  map[string]map[*subscriber]struct{}{},
		recentIDs:    map[string]struct{}{},
		dedupeWindow: defaultDedupeWindow,
		channelSize:  defaultSubscriberCapacity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

func key(table, rowID string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if rowID == "" {
		return table
	}
	return table + "/" + rowID
}

func (h *Hub) Subscribe(table, rowID string) Subscription {
	k := key(table, rowID)
	sub := &subscriber{ch: make(chan Change, h.channelSize)}

	h.mu.Lock()
	if h.subscribers[k] == nil {
		h.subscribers[k] = map[*subscriber]struct{}{}
	}
	h.subscribers[k][sub] = struct{}{}
	h.mu.Unlock()

	return Subscription{
		Events: sub.ch,
		cancel: func() { h.remove(k, sub) },
	}
}

// Publish delivers the change to table and row subscribers. Changes whose ID
// was already seen are ignored; an empty ID is assigned.
func (h *Hub) Publish(change Change) {
	if change.ID == "" {
		change.ID = uuid.NewString()
	} else if h.isDuplicate(change.ID) {
		return
	}
	if change.At.IsZero() {
		change.At = time.Now()
	}

	h.mu.RLock()
	targets := h.snapshot(key(change.Table, ""))
	if change.RowID != "" {
		targets = append(targets, h.snapshot(key(change.Table, change.RowID))...)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if !sub.deliver(change) && h.logger != nil {
			h.logger.Debugf("changefeed: dropped %s %s/%s (queue full)", change.Type, change.Table, change.RowID)
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, subs := range h.subscribers {
		n += len(subs)
	}
	return n
}

func (h *Hub) snapshot(k string) []*subscriber {
	live := h.subscribers[k]
	items := make([]*subscriber, 0, len(live))
	for sub := range live {
		items = append(items, sub)
	}
	return items
}

func (h *Hub) remove(k string, sub *subscriber) {
	h.mu.Lock()
	if subs := h.subscribers[k]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, k)
		}
	}
	h.mu.Unlock()
	sub.close()
}

func (h *Hub) isDuplicate(id string) bool {
	h.dedupeMu.Lock()
	defer h.dedupeMu.Unlock()
	if _, ok := h.recentIDs[id]; ok {
		return true
	}
	h.recentIDs[id] = struct{}{}
	h.recentOrder = append(h.recentOrder, id)
	if len(h.recentOrder) > h.dedupeWindow {
		oldest := h.recentOrder[0]
		h.recentOrder = h.recentOrder[1:]
		delete(h.recentIDs, oldest)
	}
	return false
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan Change
	closed bool
}

// deliver never blocks. A full queue drops the incoming change: any queued
// change already triggers a refetch that observes it.
func (s *subscriber) deliver(change Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- change:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
