package app

import (
	"context"

	"jogai-backend/internal/ai"
	"jogai-backend/internal/model"
)

// Store interfaces live on the consumer side so services can be exercised
// against in-memory fakes. The repository package provides the gorm-backed
// implementations.

type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
	Save(user *model.User) error
	Delete(id uint) error
}

type ChatStore interface {
	Create(chat *model.Chat) error
	GetByID(id uint) (*model.Chat, error)
	ListByUserID(userID uint) ([]model.Chat, error)
	Save(chat *model.Chat) error
	// Delete removes the chat together with its messages.
	Delete(id uint) error
	LastUsedAge(userID uint) (*int, error)
}

type MessageStore interface {
	Create(message *model.Message) error
	ListByChatID(chatID uint) ([]model.Message, error)
	CountByChatAndSender(chatID uint, sender string) (int64, error)
	DeleteByID(id uint) error
}

// EventSink receives chat lifecycle events. Best effort; failures are logged
// by the caller and never fail the originating request.
type EventSink interface {
	Publish(ctx context.Context, event model.ChatEvent) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, chatID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, chatID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, chatID uint) error
	MarkDirty(ctx context.Context, chatID uint) error
	IsDirty(ctx context.Context, chatID uint) (bool, error)
}

// Generator is the upstream generative-language API.
type Generator interface {
	Generate(ctx context.Context, contents []ai.Content) (string, error)
}
