package http

import (
	"context"
	"crypto/sha256"
	"net/http"
	"strings"

	"github.com/dkeye/Vibesync/internal/adapters/signal"
	"github.com/dkeye/Vibesync/internal/app/orch"
	"github.com/dkeye/Vibesync/internal/config"
	"github.com/dkeye/Vibesync/internal/core"
	rest "github.com/dkeye/Vibesync/internal/transport/http"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	sessionTokenKey = "token"
	sessionMaxAge   = 7 * 24 * 3600
)

// cookieStore signs and encrypts the session, so the stored token is not
// readable in the browser.
func cookieStore(cfg *config.Config) cookie.Store {
	blockKey := sha256.Sum256([]byte("vibesync-session-encryption:" + cfg.Secret))
	store := cookie.NewStore([]byte(cfg.Secret), blockKey[:])
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Mode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// SocketOptions maps config onto room socket settings.
func SocketOptions(cfg *config.Config) signal.Options {
	return signal.Options{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		PongWait:       cfg.PongWait,
		WriteWait:      cfg.WriteWait,
		SendBuffer:     cfg.SendBuffer,
		AllowedOrigins: cfg.AllowedOrigins,
	}
}

// bearerToken returns the token from the query string or the Authorization header.
func bearerToken(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// TokenMiddleware resolves the caller's token and remembers it in the cookie
// session, so a browser can open the websocket without repeating it.
func TokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token := bearerToken(c.Request)
		if token != "" {
			if stored, _ := session.Get(sessionTokenKey).(string); stored != token {
				session.Set(sessionTokenKey, token)
				if err := session.Save(); err != nil {
					log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
				}
			}
		} else if stored, ok := session.Get(sessionTokenKey).(string); ok {
			token = stored
		}
		c.Set(signal.TokenKey, token)
		c.Next()
	}
}

// RequireUser rejects requests whose token does not validate.
func RequireUser(v core.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString(signal.TokenKey)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, err := v.Validate(c.Request.Context(), token)
		if err != nil || user == nil {
			log.Info().Err(err).Str("module", "adapters.http").Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(rest.UserKey, user)
		c.Next()
	}
}

// SetupRouter wires REST and the room socket. ctx bounds every socket
// session; cancel it and then call ws.Wait to drain them.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, rooms rest.RoomStore, ws *signal.RoomWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Use(sessions.Sessions("vibesync", cookieStore(cfg)))
	r.Use(TokenMiddleware())

	h := &rest.Handlers{Rooms: rooms, Presence: o.Presence}
	handleRoom := func(c *gin.Context) { ws.HandleRoom(ctx, c) }

	r.GET("/healthz", h.Health)
	r.GET("/ws/room/:room", handleRoom)
	r.GET("/ws/room/:room/", handleRoom)

	api := r.Group("/api")
	api.GET("/rooms/:id", h.GetRoom)
	api.GET("/rooms/:id/presence", h.RoomPresence)

	authed := api.Group("", RequireUser(o.Validator))
	authed.POST("/rooms", h.CreateRoom)
	authed.POST("/rooms/:id/video", h.SetVideoURL)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
