package changes

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Badsnus/campus-hub/pkg/changefeed"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	mu        sync.Mutex
	published []changefeed.Change
	incoming  chan changefeed.Change
	err       error
}

func (f *fakeRemote) Publish(_ context.Context, change changefeed.Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, change)
	return f.err
}

func (f *fakeRemote) Listen(ctx context.Context, handle func(changefeed.Change)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-f.incoming:
			handle(c)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	in := changefeed.Change{ID: "1", Table: "events", RowID: "e1", Type: changefeed.Delete}
	payload, err := encode(in)
	require.NoError(t, err)
	out, err := decode(payload)
	require.NoError(t, err)
	assert.Equal(t, in.RowID, out.RowID)
	assert.Equal(t, in.Type, out.Type)

	_, err = decode("{broken")
	assert.Error(t, err)
}

func TestRelayPublishesLocallyAndRemotely(t *testing.T) {
	hub := changefeed.New()
	remote := &fakeRemote{err: errors.New("redis down")}
	relay := NewRelay(hub, remote, logger.Nop())

	sub := relay.Subscribe("events", "")
	defer sub.Close()

	relay.Publish(changefeed.Change{Table: "events", RowID: "e1", Type: changefeed.Insert})

	got := <-sub.Events
	assert.Equal(t, "e1", got.RowID)
	require.Len(t, remote.published, 1)
	assert.Equal(t, got.ID, remote.published[0].ID)
}

func TestRelayDropsEcho(t *testing.T) {
	hub := changefeed.New()
	remote := &fakeRemote{incoming: make(chan changefeed.Change, 1)}
	relay := NewRelay(hub, remote, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)

	sub := relay.Subscribe("events", "")
	defer sub.Close()

	relay.Publish(changefeed.Change{Table: "events", RowID: "e1", Type: changefeed.Update})
	local := <-sub.Events

	remote.incoming <- local
	remote.incoming <- changefeed.Change{ID: "other", Table: "events", RowID: "e2", Type: changefeed.Update}

	select {
	case got := <-sub.Events:
		assert.Equal(t, "e2", got.RowID)
	case <-time.After(time.Second):
		t.Fatal("remote change not forwarded")
	}
}
