package notification

import (
	"context"
	"net/http"

	"hris-payroll/internal/events"

	"github.com/olahol/melody"
	"go.uber.org/zap"
)

const (
	sessionKeyCompany  = "company_id"
	sessionKeyChannels = "channels"
)

// Hub pushes approval events to connected websocket clients. Each session
// only receives events of its company addressed to one of its channels.
type Hub struct {
	m      *melody.Melody
	logger *zap.Logger
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("notification.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.hub")
	}

	m := melody.New()
	h := &Hub{m: m, logger: l}

	m.HandleConnect(func(s *melody.Session) {
		channels, _ := s.Get(sessionKeyChannels)
		h.logger.Debug("ws session connected", zap.Any("channels", channels))
	})
	m.HandleDisconnect(func(s *melody.Session) {
		h.logger.Debug("ws session disconnected")
	})
	m.HandleError(func(s *melody.Session, err error) {
		h.logger.Warn("ws session error", zap.Error(err))
	})
	return h
}

// Serve upgrades the request. The caller has already authenticated it.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, companyID string, channels []string) error {
	return h.m.HandleRequestWithKeys(w, r, map[string]any{
		sessionKeyCompany:  companyID,
		sessionKeyChannels: channels,
	})
}

// Broadcast delivers e to every matching session. It satisfies the consumer
// handler signature and never blocks on slow clients beyond melody's buffer.
func (h *Hub) Broadcast(ctx context.Context, e events.Event) error {
	data, err := events.Encode(e)
	if err != nil {
		return err
	}

	audiences := e.Audiences()
	company := e.TenantID()
	return h.m.BroadcastFilter(data, func(s *melody.Session) bool {
		sessionCompany, _ := s.Get(sessionKeyCompany)
		channels, _ := s.Get(sessionKeyChannels)
		return sessionMatches(sessionCompany, channels, company, audiences)
	})
}

func (h *Hub) Sessions() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	return h.m.Close()
}

func sessionMatches(sessionCompany, sessionChannels any, company string, audiences []string) bool {
	if c, _ := sessionCompany.(string); c == "" || c != company {
		return false
	}
	channels, _ := sessionChannels.([]string)
	for _, ch := range channels {
		for _, a := range audiences {
			if ch == a {
				return true
			}
		}
	}
	return false
}
