package app

import (
	"context"
	"sync"
	"time"
)

// Heartbeat runs tick on a fixed interval until stopped.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat starts the ticker goroutine. The parent context bounds its
// lifetime, Stop ends it early.
func StartHeartbeat(ctx context.Context, interval time.Duration, tick func()) *Heartbeat {
	ctx, cancel := context.WithCancel(ctx)
	hb := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go hb.loop(ctx, interval, tick)
	return hb
}

func (hb *Heartbeat) loop(ctx context.Context, interval time.Duration, tick func()) {
	defer close(hb.done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ctx.Err() != nil {
				return
			}
			tick()
		}
	}
}

// Stop cancels the ticker and waits until a tick in progress has returned.
// After Stop returns tick is never called again. Safe to call more than once.
func (hb *Heartbeat) Stop() {
	if hb == nil {
		return
	}
	hb.once.Do(hb.cancel)
	<-hb.done
}
