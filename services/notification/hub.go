package notification

import (
	"context"
	"fmt"
	"net/http"

	"munaybol/services/logger"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

const sessionUserKey = "userID"

// Hub keeps the websocket sessions of this process, keyed by user id
type Hub struct {
	m      *melody.Melody
	logger logger.Logger
}

func NewHub(m *melody.Melody, log logger.Logger) *Hub {
	h := &Hub{m: m, logger: log}
	m.HandleConnect(func(s *melody.Session) {
		if id, ok := sessionUser(s); ok {
			h.logger.Debug("ws conectado usuario %d", id)
		}
	})
	m.HandleDisconnect(func(s *melody.Session) {
		if id, ok := sessionUser(s); ok {
			h.logger.Debug("ws desconectado usuario %d", id)
		}
	})
	return h
}

// HandleRequest upgrades the request and binds the session to userID
func (h *Hub) HandleRequest(w http.ResponseWriter, r *http.Request, userID uint) error {
	return h.m.HandleRequestWithKeys(w, r, map[string]interface{}{sessionUserKey: userID})
}

func sessionUser(s *melody.Session) (uint, bool) {
	v, ok := s.Get(sessionUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Publish writes the event to the sessions of userID only
func (h *Hub) Publish(ctx context.Context, userID uint, event Event) error {
	if h.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.m.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, ok := sessionUser(s)
		return ok && id == userID
	})
}

// Close drops every connection
func (h *Hub) Close() error {
	return h.m.Close()
}
