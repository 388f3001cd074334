package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/conn"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/router"
)

// the widget connects from arbitrary customer origins
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UserWS is the end-user duplex channel. One goroutine per connection reads
// frames until the transport closes; each frame is dispatched into the
// session router synchronously, so a single connection's messages are
// processed in arrival order.
func (h *Handler) UserWS(c *gin.Context) {
	clientID := c.Param("clientId")
	userID := c.Param("userId")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	ch := conn.NewWSChannel(ws)
	key := conn.UserKey(clientID, userID)
	h.router.Registry().Register(key, ch)
	log.Info().Str("party", key.String()).Msg("user connected")

	defer func() {
		h.router.DisconnectUser(clientID, userID)
		_ = ch.Close()
		log.Info().Str("party", key.String()).Msg("user disconnected")
	}()

	h.readLoop(ws, ch, func(frame router.InboundFrame) {
		h.router.HandleUserFrame(context.Background(), clientID, userID, frame, ch)
	})
}

// AgentWS is the agent-dashboard duplex channel. Disconnect additionally
// marks the agent record offline; sessions assigned to the agent are left
// untouched.
func (h *Handler) AgentWS(c *gin.Context) {
	agentID := c.Param("agentId")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	ch := conn.NewWSChannel(ws)
	key := conn.AgentKey(agentID)
	h.router.Registry().Register(key, ch)
	log.Info().Str("party", key.String()).Msg("agent connected")

	defer func() {
		h.router.DisconnectAgent(context.Background(), agentID)
		_ = ch.Close()
		log.Info().Str("party", key.String()).Msg("agent disconnected")
	}()

	h.readLoop(ws, ch, func(frame router.InboundFrame) {
		h.router.HandleAgentFrame(context.Background(), agentID, frame, ch)
	})
}

// readLoop reads frames until the connection drops. A frame that is not
// valid JSON gets an error frame back and the loop continues; only transport
// errors end the loop.
func (h *Handler) readLoop(ws *websocket.Conn, ch conn.Channel, dispatch func(router.InboundFrame)) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var frame router.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			if sendErr := ch.Send(router.ErrorFrame{Error: "invalid message format: " + err.Error()}); sendErr != nil {
				return
			}
			continue
		}
		dispatch(frame)
	}
}
