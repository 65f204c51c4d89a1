package signal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/dkeye/Vibesync/internal/app/orch"
	"github.com/dkeye/Vibesync/internal/core"
	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// TokenKey is the gin context key the auth middleware stores the bearer token under.
const TokenKey = "auth_token"

var ErrDraining = errors.New("room sockets draining")

type RoomWSController struct {
	Orch *orch.Orchestrator
	opts Options

	upgrader websocket.Upgrader

	mu       sync.Mutex
	draining bool
	live     sync.WaitGroup
}

func NewRoomWSController(o *orch.Orchestrator, opts Options) *RoomWSController {
	ctl := &RoomWSController{
		Orch: o,
		opts: opts.withDefaults(),
	}
	ctl.upgrader.CheckOrigin = func(r *http.Request) bool {
		return originAllowed(r, ctl.opts.AllowedOrigins)
	}
	return ctl
}

// HandleRoom runs one room connection to completion on the calling
// goroutine. ctx is the server lifetime: when it ends the session is closed
// with going-away.
func (ctl *RoomWSController) HandleRoom(ctx context.Context, c *gin.Context) {
	room := domain.RoomID(strings.TrimSpace(c.Param("room")))
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrRoomIDEmpty.Error()})
		return
	}

	if !originAllowed(c.Request, ctl.opts.AllowedOrigins) {
		log.Warn().Str("module", "signal").Str("origin", c.GetHeader("Origin")).Str("room", string(room)).Msg("cross-origin socket refused")
		c.JSON(http.StatusForbidden, gin.H{"error": "origin not allowed"})
		return
	}

	if !ctl.track() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrDraining.Error()})
		return
	}
	defer ctl.live.Done()

	sess := ctl.Orch.NewSession(room)
	log.Info().Str("module", "signal").Str("sid", sess.ID()).Str("room", string(room)).Msg("new WS connection")

	hs := &wsHandshake{w: c.Writer, r: c.Request, upgrader: &ctl.upgrader, opts: ctl.opts}
	reqCtx := c.Request.Context()
	if err := sess.Connect(reqCtx, hs, c.GetString(TokenKey)); err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", sess.ID()).Msg("connection not joined")
		return
	}

	stop := context.AfterFunc(ctx, func() { sess.Disconnect(core.CloseGoingAway) })
	defer stop()

	code := hs.ep.readPump(func(f core.Frame) {
		_ = sess.Receive(reqCtx, f)
	})
	sess.Disconnect(code)
	<-hs.ep.Done()
}

func (ctl *RoomWSController) track() bool {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if ctl.draining {
		return false
	}
	ctl.live.Add(1)
	return true
}

// Wait refuses new room connections and blocks until every running one has
// finished its teardown, or ctx ends. Sessions are closed by cancelling the
// context passed to HandleRoom.
func (ctl *RoomWSController) Wait(ctx context.Context) error {
	ctl.mu.Lock()
	ctl.draining = true
	ctl.mu.Unlock()

	done := make(chan struct{})
	go func() {
		ctl.live.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for room sockets: %w", ctx.Err())
	}
}
