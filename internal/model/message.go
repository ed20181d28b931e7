package model

import "time"

const (
	SenderUser   = "user"
	SenderGemini = "gemini"
)

// Message is one immutable conversation turn. Never updated after creation;
// removed only when its chat is deleted.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"`
	Sender    string    `gorm:"size:50;not null" json:"sender"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"not null;index;autoCreateTime" json:"timestamp"`
}
