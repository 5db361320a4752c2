package notification

import (
	"context"
	"time"

	"munaybol/services/logger"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const DefaultRelayChannel = "munaybol_notifications"

type relayMessage struct {
	UserID uint  `json:"user_id"`
	Event  Event `json:"event"`
}

// PgRelay fans notifications out to every instance through PostgreSQL LISTEN/NOTIFY.
// Publish sends pg_notify; Listen delivers received events to the local publisher.
type PgRelay struct {
	db      *gorm.DB
	dsn     string
	channel string
	local   Publisher
	logger  logger.Logger
}

func NewPgRelay(db *gorm.DB, dsn string, local Publisher, log logger.Logger) *PgRelay {
	return &PgRelay{
		db:      db,
		dsn:     dsn,
		channel: DefaultRelayChannel,
		local:   local,
		logger:  log,
	}
}

func (r *PgRelay) Publish(ctx context.Context, userID uint, event Event) error {
	payload, err := json.Marshal(relayMessage{UserID: userID, Event: event})
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", r.channel, string(payload)).Error
}

// Listen blocks until ctx is done
func (r *PgRelay) Listen(ctx context.Context) error {
	listener := pq.NewListener(r.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Error("pq listener: %v", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(r.channel); err != nil {
		return err
	}
	r.logger.Info("Escuchando notificaciones en canal %s", r.channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}
			if err := r.dispatch(ctx, n.Extra); err != nil {
				r.logger.Error("relay dispatch: %v", err)
			}
		case <-time.After(90 * time.Second):
			go listener.Ping()
		}
	}
}

func (r *PgRelay) dispatch(ctx context.Context, raw string) error {
	var msg relayMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return err
	}
	return r.local.Publish(ctx, msg.UserID, msg.Event)
}
