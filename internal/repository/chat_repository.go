package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jogai-backend/internal/model"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(chat *model.Chat) error {
	if err := r.db.Create(chat).Error; err != nil {
		return fmt.Errorf("create chat failed: %w", err)
	}
	return nil
}

func (r *ChatRepository) GetByID(id uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.First(&chat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query chat by id failed: %w", err)
	}
	return &chat, nil
}

func (r *ChatRepository) ListByUserID(userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	if err := r.db.Where("user_id = ?", userID).Order("last_accessed_at DESC").Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("list chats failed: %w", err)
	}
	return chats, nil
}

// Save writes the whole chat row back. Concurrent edits against the same chat
// are last-write-wins; no per-chat locking is applied.
func (r *ChatRepository) Save(chat *model.Chat) error {
	if err := r.db.Save(chat).Error; err != nil {
		return fmt.Errorf("save chat failed: %w", err)
	}
	return nil
}

func (r *ChatRepository) Delete(id uint) error {
	if err := r.db.Where("chat_id = ?", id).Delete(&model.Message{}).Error; err != nil {
		return fmt.Errorf("delete chat messages failed: %w", err)
	}
	if err := r.db.Delete(&model.Chat{}, id).Error; err != nil {
		return fmt.Errorf("delete chat failed: %w", err)
	}
	return nil
}

// LastUsedAge returns the age of the most recently created chat of the user
// that has one set, or nil when no chat carries an age.
func (r *ChatRepository) LastUsedAge(userID uint) (*int, error) {
	var chat model.Chat
	err := r.db.Where("user_id = ? AND age IS NOT NULL", userID).
		Order("created_at DESC").
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query last used age failed: %w", err)
	}
	return chat.Config.Age, nil
}
