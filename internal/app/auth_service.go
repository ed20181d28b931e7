package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"jogai-backend/internal/model"
	"jogai-backend/internal/pkg/jwtutil"
)

const minPasswordLength = 6

type AuthService struct {
	userRepo      UserStore
	chatRepo      ChatStore
	cache         HistoryCache
	events        EventSink
	jwtSecret     string
	jwtExpiration time.Duration
	logger        *zap.Logger
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(
	userRepo UserStore,
	chatRepo ChatStore,
	cache HistoryCache,
	events EventSink,
	jwtSecret string,
	jwtExpiration time.Duration,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:      userRepo,
		chatRepo:      chatRepo,
		cache:         cache,
		events:        events,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		logger:        logger,
	}
}

func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password

	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login returns the same generic error for an unknown username and a wrong
// password so the response does not leak which one failed.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) ChangePassword(input ChangePasswordInput) error {
	if input.UserID == 0 || input.CurrentPassword == "" || input.NewPassword == "" {
		return ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	if len(input.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if input.NewPassword == input.CurrentPassword {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Save(user)
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

// DeleteUser removes the account and everything it owns. Each chat is torn
// down the same way a single-chat delete is: rows and messages removed, the
// cached history dropped, and a chat.deleted event published. Only then does
// the user row go.
func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	chats, err := s.chatRepo.ListByUserID(id)
	if err != nil {
		return err
	}
	for _, chat := range chats {
		if err := s.chatRepo.Delete(chat.ID); err != nil {
			return err
		}
		if s.cache != nil {
			if err := s.cache.DeleteHistory(ctx, chat.ID); err != nil {
				s.logger.Warn("delete cached history failed", zap.Uint("chat_id", chat.ID), zap.Error(err))
			}
		}
		if s.events != nil {
			event := model.ChatEvent{Type: model.EventChatDeleted, ChatID: chat.ID, UserID: id}
			if err := s.events.Publish(ctx, event); err != nil {
				s.logger.Warn("publish chat event failed", zap.String("type", event.Type), zap.Error(err))
			}
		}
	}

	return s.userRepo.Delete(id)
}
