package notification

import (
	"context"
	"time"

	"munaybol/models"
)

const EventTypeNotification = "notification"

// Event is the frame pushed to websocket clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Payload struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	Link      string    `json:"link"`
}

// NewNotificationEvent wraps a stored notification
func NewNotificationEvent(n models.Notification) Event {
	return Event{
		Type: EventTypeNotification,
		Payload: Payload{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
			Link:      n.Link,
		},
	}
}

// Publisher pushes an event to every live connection of a user
type Publisher interface {
	Publish(ctx context.Context, userID uint, event Event) error
}

// Alerter forwards operational messages to administrators
type Alerter interface {
	Alert(ctx context.Context, text string) error
}
