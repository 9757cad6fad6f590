package socket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	outboxSize     = 256

	// Inbound event budget per connection; drawing traffic is chatty, so
	// the burst is generous.
	eventsPerSecond = 40
	eventBurst      = 80
)

// client wraps one websocket connection with a pair of pumps: readPump feeds
// the dispatcher, writePump drains a buffered outbox.
type client struct {
	socket  *websocket.Conn
	outbox  chan outbound
	done    chan struct{}
	limiter *rate.Limiter
	handler *Handler
}

func newClient(socket *websocket.Conn, handler *Handler) *client {
	return &client{
		socket:  socket,
		outbox:  make(chan outbound, outboxSize),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(eventsPerSecond, eventBurst),
		handler: handler,
	}
}

// Send queues an event without ever blocking the caller; a full outbox means
// the consumer is too slow and the frame is dropped.
func (c *client) Send(event string, data any) {
	select {
	case c.outbox <- outbound{Event: event, Data: data}:
	default:
		log.Warn().Str("event", event).Msg("outbox full, frame dropped")
	}
}

func (c *client) sendAck(ackID int64, data any) {
	if ackID == 0 {
		return
	}
	select {
	case c.outbox <- outbound{Event: "ack", AckID: ackID, Data: data}:
	default:
	}
}

func (c *client) readPump() {
	defer func() {
		c.handler.handleDisconnect(c)
		close(c.done)
		c.socket.Close()
	}()

	c.socket.SetReadLimit(maxMessageSize)
	c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		c.socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			continue
		}
		c.handler.dispatch(c, env)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case frame := <-c.outbox:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
