package model

import "time"

const (
	EventChatCreated   = "chat.created"
	EventChatDeleted   = "chat.deleted"
	EventTurnExchanged = "turn.exchanged"
)

// ChatEvent is an audit-trail record persisted asynchronously from the
// event queue. Best effort only; losing one never fails a request.
type ChatEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:50;not null;index" json:"type"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
