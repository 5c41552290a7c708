package redis

import (
	"context"
	"fmt"

	"github.com/Badsnus/campus-hub/internal/adapters/database/redis/changes"
	"github.com/Badsnus/campus-hub/internal/adapters/database/redis/locks"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Locks   *locks.Storage
	Changes *changes.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
	Channel  string
}

func New(opts Options) (*Client, error) {
	lockStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := lockStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping lock storage: %w", err)
	}

	// pub/sub is not scoped by DB, the same connection settings are reused
	changeStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := changeStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping change storage: %w", err)
	}

	return &Client{
		Locks:   locks.NewStorage(lockStorage),
		Changes: changes.NewStorage(changeStorage, opts.Channel),
	}, nil
}

func (c *Client) Close() error {
	if err := c.Locks.Close(); err != nil {
		return err
	}
	return c.Changes.Close()
}
