package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jogai-backend/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Save(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("save user failed: %w", err)
	}
	return nil
}

// Delete removes the user together with its chats and their messages. The
// explicit deletes keep the cascade working even when the schema was created
// without foreign key constraints.
func (r *UserRepository) Delete(id uint) error {
	chatIDs := r.db.Model(&model.Chat{}).Select("id").Where("user_id = ?", id)
	if err := r.db.Where("chat_id IN (?)", chatIDs).Delete(&model.Message{}).Error; err != nil {
		return fmt.Errorf("delete user messages failed: %w", err)
	}
	if err := r.db.Where("user_id = ?", id).Delete(&model.Chat{}).Error; err != nil {
		return fmt.Errorf("delete user chats failed: %w", err)
	}
	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}
	return nil
}
