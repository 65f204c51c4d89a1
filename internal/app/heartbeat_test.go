package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeartbeat_TicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	hb := StartHeartbeat(context.Background(), 5*time.Millisecond, func() { ticks.Add(1) })

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	hb.Stop()
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
}

func TestHeartbeat_StopWaitsForTickInProgress(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	hb := StartHeartbeat(context.Background(), time.Millisecond, func() {
		select {
		case <-started:
		default:
			close(started)
		}
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	hb.Stop()
	assert.True(t, finished.Load())
}

func TestHeartbeat_StopIsIdempotent(t *testing.T) {
	hb := StartHeartbeat(context.Background(), time.Hour, func() {})
	hb.Stop()
	hb.Stop()

	var nilHB *Heartbeat
	nilHB.Stop()
}

func TestHeartbeat_ParentContextEndsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hb := StartHeartbeat(ctx, time.Hour, func() {})
	cancel()

	select {
	case <-hb.done:
	case <-time.After(time.Second):
		t.Fatal("heartbeat did not exit after parent cancel")
	}
}
