package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/cache"
	"github.com/chakravyuh/quiz-backend/internal/config"
	"github.com/chakravyuh/quiz-backend/internal/middleware"
	ws "github.com/chakravyuh/quiz-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the live round feed to connected judges.
type WSHandler struct {
	rdb       *redis.Client
	standings *cache.StandingsCache
	log       zerolog.Logger
	upgrader  websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, standings *cache.StandingsCache, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:       rdb,
		standings: standings,
		log:       log.With().Str("component", "ws_handler").Logger(),
		upgrader:  buildUpgrader(allowedOrigins),
	}
}

// JudgeFeedStream godoc
// WS /ws/v1/judge/feed
// Upgrades to WebSocket and forwards round feed events (submissions,
// reviews, completions) published on Redis PubSub.
func (h *WSHandler) JudgeFeedStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("judge_id", claims.UserID).Logger()
	wsLog.Info().Msg("Judge feed connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	h.sendSnapshot(ctx, conn)

	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.FeedChannel())
	defer pubsub.Close()

	// Reader goroutine: only pings and client disconnects are expected.
	go func() {
		defer cancel()
		for {
			var envelope ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &envelope); err != nil {
				return
			}
			if envelope.Action == ws.ActionPing {
				ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Info().Msg("Judge feed disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var item ws.FeedItem
			if err := json.Unmarshal([]byte(msg.Payload), &item); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed feed payload")
				continue
			}
			if err := ws.WriteTyped(conn, ws.FeedResponse{Event: ws.EventFeed, Item: item}); err != nil {
				wsLog.Info().Msg("Judge feed disconnected")
				return
			}
		}
	}
}

func (h *WSHandler) sendSnapshot(ctx context.Context, conn *websocket.Conn) {
	standings, err := h.standings.Top(ctx, 50)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to load standings snapshot")
		return
	}
	rows := make([]ws.SnapshotStanding, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, ws.SnapshotStanding{TeamID: s.TeamID, Score: s.Score})
	}
	ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Standings: rows})
}
