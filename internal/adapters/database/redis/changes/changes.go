package changes

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Badsnus/campus-hub/pkg/changefeed"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultChannel = "campus-hub:changes"
	publishTimeout = 3 * time.Second
)

// Storage carries change events between instances over Redis pub/sub.
type Storage struct {
	redis   *redis.Client
	channel string
}

func NewStorage(client *redis.Client, channel string) *Storage {
	if channel == "" {
		channel = defaultChannel
	}
	return &Storage{
		redis:   client,
		channel: channel,
	}
}

func (s *Storage) Publish(ctx context.Context, change changefeed.Change) error {
	payload, err := encode(change)
	if err != nil {
		return err
	}
	return s.redis.Publish(ctx, s.channel, payload).Err()
}

// Listen calls handle for every change received until ctx is done.
func (s *Storage) Listen(ctx context.Context, handle func(changefeed.Change)) error {
	sub := s.redis.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			change, err := decode(msg.Payload)
			if err != nil {
				continue
			}
			handle(change)
		}
	}
}

func (s *Storage) Close() error {
	return s.redis.Close()
}

func encode(change changefeed.Change) (string, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decode(payload string) (changefeed.Change, error) {
	var change changefeed.Change
	err := json.Unmarshal([]byte(payload), &change)
	return change, err
}

type remote interface {
	Publish(ctx context.Context, change changefeed.Change) error
	Listen(ctx context.Context, handle func(changefeed.Change)) error
}

// Relay publishes locally and to every other instance. Changes coming back
// from Redis carry the same ID and are dropped by the hub's dedupe window.
type Relay struct {
	hub    *changefeed.Hub
	remote remote
	logger *types.Logger
}

func NewRelay(hub *changefeed.Hub, remote remote, logger *types.Logger) *Relay {
	return &Relay{
		hub:    hub,
		remote: remote,
		logger: logger,
	}
}

func (r *Relay) Publish(change changefeed.Change) {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.At.IsZero() {
		change.At = time.Now()
	}
	r.hub.Publish(change)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.remote.Publish(ctx, change); err != nil {
		r.logger.Warnf("relay %s %s/%s: %v", change.Type, change.Table, change.RowID, err)
	}
}

func (r *Relay) Subscribe(table, rowID string) changefeed.Subscription {
	return r.hub.Subscribe(table, rowID)
}

// Run forwards remote changes into the hub until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("Starting change relay")
	for {
		err := r.remote.Listen(ctx, r.hub.Publish)
		if ctx.Err() != nil {
			return
		}
		r.logger.Errorf("change relay stopped: %v", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}
