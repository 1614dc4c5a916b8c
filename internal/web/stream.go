package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"arena/internal/combatlog"
	"arena/internal/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamTopics are forwarded to the browser. PlayerAction stays server side.
var streamTopics = []events.Topic{
	events.GameStart,
	events.ActionStart,
	events.StateChanged,
	events.ActionComplete,
	events.Error,
}

// Frame is one event as sent over /ws.
type Frame struct {
	Topic   events.Topic `json:"topic"`
	Payload any          `json:"payload"`
}

// GET /ws
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	// The handshake cannot carry a new cookie, so only attach to a known session.
	m, id, ok := s.existing(r)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}
	log := s.log().WithField("session", id)

	// Subscribe before the handshake so nothing emitted after it is missed.
	send := make(chan Frame, sendBuffer)
	unsubs := make([]func(), 0, len(streamTopics))
	for _, topic := range streamTopics {
		topic := topic // per-iteration copy; go.mod targets 1.21 loop semantics
		unsubs = append(unsubs, m.Bus.Subscribe(topic, func(p any) {
			if topic == events.Error {
				p = combatlog.ErrorText
			}
			select {
			case send <- Frame{Topic: topic, Payload: p}:
			default:
				log.WithField("topic", topic).Warn("stream buffer full, dropping event")
			}
		}))
	}
	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("close websocket")
		}
	}()
	log.Info("stream connected")

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, send, done, log)
	log.Info("stream disconnected")
}

// readPump discards client messages and closes done when the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, send <-chan Frame, done <-chan struct{}, log logrus.FieldLogger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case f := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(f); err != nil {
				log.WithError(err).Debug("write frame failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
