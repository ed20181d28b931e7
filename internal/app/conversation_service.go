package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"jogai-backend/internal/ai"
	"jogai-backend/internal/model"
	"jogai-backend/internal/prompt"
)

// ConversationService owns the turn-taking protocol against the upstream
// model. All conversational state is re-derived from the store on every call;
// nothing is held in memory between turns.
type ConversationService struct {
	chatRepo    ChatStore
	messageRepo MessageStore
	generator   Generator
	composer    *prompt.Composer
	machine     *StatusMachine
	cache       HistoryCache
	events      EventSink
	logger      *zap.Logger
}

type TurnResult struct {
	UserMessage   *model.Message
	GeminiMessage *model.Message
	Status        model.Status
}

func NewConversationService(
	chatRepo ChatStore,
	messageRepo MessageStore,
	generator Generator,
	composer *prompt.Composer,
	machine *StatusMachine,
	cache HistoryCache,
	events EventSink,
	logger *zap.Logger,
) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		generator:   generator,
		composer:    composer,
		machine:     machine,
		cache:       cache,
		events:      events,
		logger:      logger,
	}
}

// Initialize produces the lazy first model turn of a chat that is still new
// and empty: the scenario prompt plus a fixed instruction asking for a short
// hook and the "start now?" question. Callers log the error and let the read
// succeed regardless; a chat without an opening turn is fine.
func (s *ConversationService) Initialize(ctx context.Context, chat *model.Chat) (*model.Message, error) {
	if s.generator == nil {
		return nil, nil
	}

	scenario, rendered := s.composer.Render(chat.Config)
	if !rendered {
		s.logger.Warn("scenario template degraded to fallback", zap.Uint("chat_id", chat.ID))
	}

	reply, err := s.generator.Generate(ctx, []ai.Content{
		{Role: ai.RoleUser, Text: scenario + prompt.IntroInstruction},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	message := &model.Message{
		ChatID:    chat.ID,
		Sender:    model.SenderGemini,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	s.invalidateHistory(ctx, chat.ID)
	return message, nil
}

// SendMessage runs one full conversational turn:
//
//  1. the user message is persisted before the upstream call,
//  2. the full context is rebuilt (scenario turn, acknowledgment turn, then
//     every persisted message in timestamp order),
//  3. the upstream model is invoked,
//  4. on upstream failure the just-persisted user message is deleted again so
//     the chat's message count is unchanged,
//  5. on success the reply is persisted and the begin transition fires when
//     this was the chat's first user turn.
func (s *ConversationService) SendMessage(ctx context.Context, chat *model.Chat, content string) (*TurnResult, error) {
	if s.generator == nil {
		return nil, ErrGeminiDisabled
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	userMessage := &model.Message{
		ChatID:    chat.ID,
		Sender:    model.SenderUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messageRepo.Create(userMessage); err != nil {
		return nil, err
	}
	s.invalidateHistory(ctx, chat.ID)

	history, err := s.messageRepo.ListByChatID(chat.ID)
	if err != nil {
		return nil, err
	}

	reply, err := s.generator.Generate(ctx, s.buildContents(chat, history))
	if err != nil {
		if delErr := s.messageRepo.DeleteByID(userMessage.ID); delErr != nil {
			s.logger.Error("rollback of user message failed",
				zap.Uint("chat_id", chat.ID),
				zap.Uint("message_id", userMessage.ID),
				zap.Error(delErr),
			)
		}
		s.invalidateHistory(ctx, chat.ID)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	geminiMessage := &model.Message{
		ChatID:    chat.ID,
		Sender:    model.SenderGemini,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messageRepo.Create(geminiMessage); err != nil {
		return nil, err
	}
	s.invalidateHistory(ctx, chat.ID)

	if chat.Status == model.StatusNew {
		userTurns := countSender(history, model.SenderUser)
		if next, fireErr := s.machine.Fire(chat.Status, EventBegin, TurnStats{UserTurns: userTurns}); fireErr == nil {
			chat.Status = next
		}
	}
	chat.LastAccessedAt = time.Now().UTC()
	if err := s.chatRepo.Save(chat); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.ChatEvent{
		Type:   model.EventTurnExchanged,
		ChatID: chat.ID,
		UserID: chat.UserID,
		Detail: fmt.Sprintf("user=%d gemini=%d", userMessage.ID, geminiMessage.ID),
	})

	return &TurnResult{
		UserMessage:   userMessage,
		GeminiMessage: geminiMessage,
		Status:        chat.Status,
	}, nil
}

// buildContents replays the whole conversation for the upstream call. The
// scenario prompt and its acknowledgment are synthetic turns the player never
// sees; history already contains the turn being answered as its last element.
func (s *ConversationService) buildContents(chat *model.Chat, history []model.Message) []ai.Content {
	scenario, _ := s.composer.Render(chat.Config)

	contents := make([]ai.Content, 0, len(history)+2)
	contents = append(contents,
		ai.Content{Role: ai.RoleUser, Text: scenario},
		ai.Content{Role: ai.RoleModel, Text: prompt.ScenarioAck},
	)
	for _, message := range history {
		role := ai.RoleModel
		if message.Sender == model.SenderUser {
			role = ai.RoleUser
		}
		contents = append(contents, ai.Content{Role: role, Text: message.Content})
	}
	return contents
}

func (s *ConversationService) invalidateHistory(ctx context.Context, chatID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkDirty(ctx, chatID); err != nil {
		s.logger.Warn("mark history dirty failed", zap.Uint("chat_id", chatID), zap.Error(err))
	}
	if err := s.cache.DeleteHistory(ctx, chatID); err != nil {
		s.logger.Warn("delete cached history failed", zap.Uint("chat_id", chatID), zap.Error(err))
	}
}

func (s *ConversationService) publishEvent(ctx context.Context, event model.ChatEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish chat event failed", zap.String("type", event.Type), zap.Error(err))
	}
}

func countSender(messages []model.Message, sender string) int64 {
	var n int64
	for _, message := range messages {
		if message.Sender == sender {
			n++
		}
	}
	return n
}
