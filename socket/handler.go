package socket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/UsmanDevCraft/quick-doodle-backend/game"
	"github.com/UsmanDevCraft/quick-doodle-backend/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin policy is enforced by the router middleware.
		return true
	},
}

type Handler struct {
	service *game.Service
	hub     *Hub
}

func NewHandler(service *game.Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// Serve upgrades the request and runs the connection's pumps.
func (h *Handler) Serve(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	c := newClient(conn, h)
	log.Debug().Str("ip", ctx.ClientIP()).Msg("client connected")

	go c.writePump()
	go c.readPump()
}

func (h *Handler) handleDisconnect(c *client) {
	h.service.HandleDisconnect(c)
	h.hub.Remove(c)
	log.Debug().Msg("client disconnected")
}

var knownEvents = map[string]struct{}{
	"createRoom":        {},
	"joinRoom":          {},
	"joinGlobalRoom":    {},
	"leaveRoom":         {},
	"requestRoomInfo":   {},
	"checkRoom":         {},
	"chatMessage":       {},
	"guessWord":         {},
	"drawing":           {},
	"toggleModeChanged": {},
	"voteKick":          {},
}

// metricEvent maps unrecognized client-supplied event names onto one fixed
// label so the counter's cardinality stays bounded.
func metricEvent(event string) string {
	if _, ok := knownEvents[event]; ok {
		return event
	}
	return "unknown"
}

// dispatch routes one inbound envelope. Every mutating operation answers
// with a structured ack instead of letting a fault drop the connection;
// malformed payloads are no-ops.
func (h *Handler) dispatch(c *client, env Envelope) {
	metrics.EventsTotal.WithLabelValues(metricEvent(env.Event)).Inc()
	ctx := context.Background()

	switch env.Event {
	case "createRoom":
		payload, ok := decode[createRoomPayload](env.Data)
		if !ok {
			return
		}
		if _, err := h.service.CreateRoom(ctx, payload.RoomID, payload.Username, game.RoomMode(payload.Mode), c); err != nil {
			c.sendAck(env.AckID, ack{Success: false, Message: "server error"})
			return
		}
		c.sendAck(env.AckID, ack{Success: true, RoomID: payload.RoomID})

	case "joinRoom":
		payload, ok := decode[joinRoomPayload](env.Data)
		if !ok {
			return
		}
		if err := h.service.Join(ctx, payload.RoomID, payload.Username, c); err != nil {
			c.sendAck(env.AckID, ack{Success: false, Message: err.Error()})
			return
		}
		c.sendAck(env.AckID, ack{Success: true})

	case "joinGlobalRoom":
		payload, ok := decode[joinGlobalRoomPayload](env.Data)
		if !ok {
			return
		}
		roomID, err := h.service.JoinGlobal(ctx, payload.Username, c)
		if err != nil {
			c.sendAck(env.AckID, ack{Success: false, Message: err.Error()})
			return
		}
		c.sendAck(env.AckID, ack{Success: true, RoomID: roomID})

	case "leaveRoom":
		payload, ok := decode[leaveRoomPayload](env.Data)
		if !ok {
			return
		}
		if err := h.service.Leave(ctx, payload.RoomID, payload.Username); err != nil {
			c.sendAck(env.AckID, ack{Success: false, Message: err.Error()})
			return
		}
		c.sendAck(env.AckID, ack{Success: true})

	case "requestRoomInfo":
		payload, ok := decode[requestRoomInfoPayload](env.Data)
		if !ok {
			return
		}
		h.service.RequestRoomInfo(ctx, payload.RoomID, payload.Username, c)

	case "checkRoom":
		payload, ok := decode[checkRoomPayload](env.Data)
		if !ok {
			return
		}
		c.sendAck(env.AckID, h.service.CheckRoom(ctx, payload.RoomID, payload.Username))

	case "chatMessage":
		payload, ok := decode[chatMessagePayload](env.Data)
		if !ok {
			return
		}
		h.service.Chat(ctx, payload.RoomID, payload.Username, payload.Text)

	case "guessWord":
		payload, ok := decode[guessWordPayload](env.Data)
		if !ok {
			return
		}
		h.service.SubmitGuess(ctx, payload.RoomID, payload.Username, payload.Guess)

	case "drawing":
		payload, ok := decode[drawingPayload](env.Data)
		if !ok {
			return
		}
		h.service.RelayDrawing(payload.RoomID, c, payload.Data)

	case "toggleModeChanged":
		payload, ok := decode[toggleModePayload](env.Data)
		if !ok {
			return
		}
		h.service.RelayToggleMode(payload.RoomID, c, payload.Mode)

	case "voteKick":
		payload, ok := decode[voteKickPayload](env.Data)
		if !ok {
			return
		}
		if err := h.service.VoteKick(ctx, payload.RoomID, payload.Target, payload.Voter); err != nil {
			c.sendAck(env.AckID, ack{Success: false, Message: err.Error()})
			return
		}
		c.sendAck(env.AckID, ack{Success: true})

	default:
		log.Debug().Str("event", env.Event).Msg("unknown event ignored")
	}
}
