package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"jogai-backend/internal/ai"
	"jogai-backend/internal/model"
)

// In-memory stands-ins for the gorm repositories and the Gemini client.

type memUserStore struct {
	seq   uint
	users map[uint]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint]model.User{}}
}

func (s *memUserStore) Create(user *model.User) error {
	s.seq++
	user.ID = s.seq
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) GetByUsername(username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(id uint) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

func (s *memUserStore) Save(user *model.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return errors.New("user missing")
	}
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) Delete(id uint) error {
	delete(s.users, id)
	return nil
}

type memChatStore struct {
	seq   uint
	chats map[uint]model.Chat
	// When linked, Delete drops the chat's messages too, matching the
	// ChatStore contract.
	messages *memMessageStore
}

func newMemChatStore() *memChatStore {
	return &memChatStore{chats: map[uint]model.Chat{}}
}

func (s *memChatStore) Create(chat *model.Chat) error {
	s.seq++
	chat.ID = s.seq
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	s.chats[chat.ID] = *chat
	return nil
}

func (s *memChatStore) GetByID(id uint) (*model.Chat, error) {
	c, ok := s.chats[id]
	if !ok {
		return nil, nil
	}
	copied := c
	return &copied, nil
}

func (s *memChatStore) ListByUserID(userID uint) ([]model.Chat, error) {
	var out []model.Chat
	for _, c := range s.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastAccessedAt.After(out[j].LastAccessedAt)
	})
	return out, nil
}

func (s *memChatStore) Save(chat *model.Chat) error {
	if _, ok := s.chats[chat.ID]; !ok {
		return errors.New("chat missing")
	}
	s.chats[chat.ID] = *chat
	return nil
}

func (s *memChatStore) Delete(id uint) error {
	delete(s.chats, id)
	if s.messages != nil {
		s.messages.deleteByChat(id)
	}
	return nil
}

func (s *memChatStore) LastUsedAge(userID uint) (*int, error) {
	var latest *model.Chat
	for id := range s.chats {
		c := s.chats[id]
		if c.UserID != userID || c.Config.Age == nil {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			copied := c
			latest = &copied
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Config.Age, nil
}

type memMessageStore struct {
	seq      uint
	messages []model.Message
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{}
}

func (s *memMessageStore) Create(message *model.Message) error {
	s.seq++
	message.ID = s.seq
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	s.messages = append(s.messages, *message)
	return nil
}

func (s *memMessageStore) ListByChatID(chatID uint) ([]model.Message, error) {
	var out []model.Message
	for _, m := range s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *memMessageStore) CountByChatAndSender(chatID uint, sender string) (int64, error) {
	var n int64
	for _, m := range s.messages {
		if m.ChatID == chatID && m.Sender == sender {
			n++
		}
	}
	return n, nil
}

func (s *memMessageStore) DeleteByID(id uint) error {
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memMessageStore) deleteByChat(chatID uint) {
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.ChatID != chatID {
			kept = append(kept, m)
		}
	}
	s.messages = kept
}

// stubGenerator replays canned replies and records every request.
type stubGenerator struct {
	replies  []string
	err      error
	requests [][]ai.Content
}

func (g *stubGenerator) Generate(_ context.Context, contents []ai.Content) (string, error) {
	g.requests = append(g.requests, contents)
	if g.err != nil {
		return "", g.err
	}
	reply := "ok"
	if len(g.replies) > 0 {
		reply = g.replies[0]
		if len(g.replies) > 1 {
			g.replies = g.replies[1:]
		}
	}
	return reply, nil
}

type memEventSink struct {
	events []model.ChatEvent
}

func (s *memEventSink) Publish(_ context.Context, event model.ChatEvent) error {
	s.events = append(s.events, event)
	return nil
}

type memHistoryCache struct {
	histories map[uint][]model.Message
	dirty     map[uint]bool
}

func newMemHistoryCache() *memHistoryCache {
	return &memHistoryCache{
		histories: map[uint][]model.Message{},
		dirty:     map[uint]bool{},
	}
}

func (c *memHistoryCache) GetHistory(_ context.Context, chatID uint) ([]model.Message, bool, error) {
	messages, ok := c.histories[chatID]
	return messages, ok, nil
}

func (c *memHistoryCache) SetHistory(_ context.Context, chatID uint, messages []model.Message) error {
	c.histories[chatID] = messages
	return nil
}

func (c *memHistoryCache) DeleteHistory(_ context.Context, chatID uint) error {
	delete(c.histories, chatID)
	return nil
}

func (c *memHistoryCache) MarkDirty(_ context.Context, chatID uint) error {
	c.dirty[chatID] = true
	return nil
}

func (c *memHistoryCache) IsDirty(_ context.Context, chatID uint) (bool, error) {
	return c.dirty[chatID], nil
}
