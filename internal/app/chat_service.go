package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"jogai-backend/internal/model"
)

const (
	minPlayerAge = 4
	maxPlayerAge = 150
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ChatService covers the CRUD surface of chat sessions and the read path
// that lazily triggers the opening model turn.
type ChatService struct {
	userRepo     UserStore
	chatRepo     ChatStore
	messageRepo  MessageStore
	titles       *TitleService
	conversation *ConversationService
	machine      *StatusMachine
	cache        HistoryCache
	events       EventSink
	logger       *zap.Logger
}

type CreateChatInput struct {
	UserID           uint
	TitlePlaceholder string
	Config           model.ChatConfig
}

func NewChatService(
	userRepo UserStore,
	chatRepo ChatStore,
	messageRepo MessageStore,
	titles *TitleService,
	conversation *ConversationService,
	machine *StatusMachine,
	cache HistoryCache,
	events EventSink,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		userRepo:     userRepo,
		chatRepo:     chatRepo,
		messageRepo:  messageRepo,
		titles:       titles,
		conversation: conversation,
		machine:      machine,
		cache:        cache,
		events:       events,
		logger:       logger,
	}
}

func (s *ChatService) CreateChat(ctx context.Context, input CreateChatInput) (*model.Chat, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Config.Age != nil && (*input.Config.Age < minPlayerAge || *input.Config.Age > maxPlayerAge) {
		return nil, ErrInvalidAge
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	title, generated := s.titles.Generate(ctx, input.Config, input.TitlePlaceholder)
	if !generated {
		s.logger.Info("chat title fell back to deterministic choice", zap.String("title", title))
	}

	now := time.Now().UTC()
	chat := &model.Chat{
		UserID:         input.UserID,
		Title:          title,
		Status:         model.StatusNew,
		Color:          model.RandomColor(),
		Config:         input.Config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.ChatEvent{
		Type:   model.EventChatCreated,
		ChatID: chat.ID,
		UserID: chat.UserID,
		Detail: fmt.Sprintf("title=%q generated=%t", title, generated),
	})
	return chat, nil
}

func (s *ChatService) ListChats(userID uint) ([]model.Chat, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.chatRepo.ListByUserID(userID)
}

// GetChat fetches the chat and its ordered message history, touching the
// last-accessed timestamp. A new, empty chat triggers the opening model turn;
// if that upstream call fails the read still succeeds with an empty history.
func (s *ChatService) GetChat(ctx context.Context, chatID uint) (*model.Chat, []model.Message, error) {
	chat, err := s.chatRepo.GetByID(chatID)
	if err != nil {
		return nil, nil, err
	}
	if chat == nil {
		return nil, nil, ErrChatNotFound
	}

	if chat.Status == model.StatusNew && s.conversation != nil {
		count, err := s.messageRepo.CountByChatAndSender(chatID, model.SenderUser)
		if err != nil {
			return nil, nil, err
		}
		geminiCount, err := s.messageRepo.CountByChatAndSender(chatID, model.SenderGemini)
		if err != nil {
			return nil, nil, err
		}
		if count == 0 && geminiCount == 0 {
			if _, initErr := s.conversation.Initialize(ctx, chat); initErr != nil {
				s.logger.Warn("initial model turn failed, chat stays empty",
					zap.Uint("chat_id", chatID),
					zap.Error(initErr),
				)
			}
		}
	}

	chat.LastAccessedAt = time.Now().UTC()
	if err := s.chatRepo.Save(chat); err != nil {
		return nil, nil, err
	}

	messages, err := s.loadHistory(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	return chat, messages, nil
}

func (s *ChatService) UpdateTitle(chatID uint, title string) (*model.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return s.updateChat(chatID, func(chat *model.Chat) error {
		chat.Title = title
		return nil
	})
}

// UpdateStatus is the caller-directed override of the lifecycle: any
// enumerated value is accepted, no transition edges are enforced.
func (s *ChatService) UpdateStatus(chatID uint, status model.Status) (*model.Chat, error) {
	target, err := s.machine.Force(status)
	if err != nil {
		return nil, err
	}
	return s.updateChat(chatID, func(chat *model.Chat) error {
		chat.Status = target
		return nil
	})
}

func (s *ChatService) UpdateObservations(chatID uint, observations string) (*model.Chat, error) {
	return s.updateChat(chatID, func(chat *model.Chat) error {
		chat.Observations = observations
		return nil
	})
}

func (s *ChatService) UpdateColor(chatID uint, color string) (*model.Chat, error) {
	if !colorPattern.MatchString(color) {
		return nil, ErrInvalidColor
	}
	return s.updateChat(chatID, func(chat *model.Chat) error {
		chat.Color = color
		return nil
	})
}

func (s *ChatService) DeleteChat(ctx context.Context, chatID uint) error {
	chat, err := s.chatRepo.GetByID(chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return ErrChatNotFound
	}

	if err := s.chatRepo.Delete(chatID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.DeleteHistory(ctx, chatID); err != nil {
			s.logger.Warn("delete cached history failed", zap.Uint("chat_id", chatID), zap.Error(err))
		}
	}

	s.publishEvent(ctx, model.ChatEvent{
		Type:   model.EventChatDeleted,
		ChatID: chatID,
		UserID: chat.UserID,
	})
	return nil
}

// SendMessage validates the chat exists and delegates the turn to the
// conversation service.
func (s *ChatService) SendMessage(ctx context.Context, chatID uint, content string) (*TurnResult, error) {
	chat, err := s.chatRepo.GetByID(chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return s.conversation.SendMessage(ctx, chat, content)
}

func (s *ChatService) LastUsedAge(userID uint) (*int, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.chatRepo.LastUsedAge(userID)
}

func (s *ChatService) updateChat(chatID uint, mutate func(*model.Chat) error) (*model.Chat, error) {
	chat, err := s.chatRepo.GetByID(chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if err := mutate(chat); err != nil {
		return nil, err
	}
	chat.LastAccessedAt = time.Now().UTC()
	if err := s.chatRepo.Save(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// loadHistory serves the message list through the redis cache when it is
// clean, repopulating it after a database read.
func (s *ChatService) loadHistory(ctx context.Context, chatID uint) ([]model.Message, error) {
	if s.cache != nil {
		dirty, err := s.cache.IsDirty(ctx, chatID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.cache.GetHistory(ctx, chatID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dirty, dirtyErr := s.cache.IsDirty(ctx, chatID); dirtyErr == nil && !dirty {
			if setErr := s.cache.SetHistory(ctx, chatID, messages); setErr != nil {
				s.logger.Warn("set cached history failed", zap.Uint("chat_id", chatID), zap.Error(setErr))
			}
		}
	}
	return messages, nil
}

func (s *ChatService) publishEvent(ctx context.Context, event model.ChatEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish chat event failed", zap.String("type", event.Type), zap.Error(err))
	}
}
