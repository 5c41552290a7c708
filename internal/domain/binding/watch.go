package binding

import (
	"context"
	"sync"

	"github.com/Badsnus/campus-hub/pkg/changefeed"
)

// watch owns one subscription and the goroutine draining it. Changes are
// handled one at a time, so refetches of a binding never overlap.
type watch struct {
	sub  changefeed.Subscription
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startWatch(ctx context.Context, sub changefeed.Subscription, handle func(changefeed.Change)) *watch {
	w := &watch{
		sub:  sub,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case change, ok := <-sub.Events:
				if !ok {
					return
				}
				handle(change)
			}
		}
	}()
	return w
}

// close unsubscribes and waits for an in-flight refetch to finish. It must
// not be called from inside an update callback.
func (w *watch) close() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		close(w.stop)
		w.sub.Close()
	})
	<-w.done
}
