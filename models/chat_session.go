package models

import (
	"time"

	"gorm.io/datatypes"
)

type ChatMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Ts      time.Time `json:"ts"`
}

type ChatSession struct {
	ID            string                           `gorm:"primaryKey;size:36" json:"id"`
	UsuarioID     *uint                            `gorm:"column:usuario_id;index" json:"-"`
	Title         string                           `gorm:"size:200" json:"title"`
	Archived      bool                             `gorm:"not null;index" json:"archived"`
	History       datatypes.JSONSlice[ChatMessage] `json:"-"`
	MessagesCount int                              `gorm:"not null" json:"messages_count"`
	LastMessageAt *time.Time                       `json:"last_message_at"`
	CreatedAt     time.Time                        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

func (s ChatSession) OwnedBy(userID uint) bool {
	return s.UsuarioID != nil && *s.UsuarioID == userID
}

// Append adds turns to the history and refreshes the denormalized counters
func (s *ChatSession) Append(turns ...ChatMessage) {
	for _, t := range turns {
		s.History = append(s.History, t)
	}
	s.MessagesCount = len(s.History)
	if len(turns) > 0 {
		last := turns[len(turns)-1].Ts
		s.LastMessageAt = &last
	}
}

// Tail returns the last n turns of the history
func (s ChatSession) Tail(n int) []ChatMessage {
	if n <= 0 || len(s.History) <= n {
		return append([]ChatMessage(nil), s.History...)
	}
	return append([]ChatMessage(nil), s.History[len(s.History)-n:]...)
}
