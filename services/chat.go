package services

import (
	"errors"
	"strings"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"
)

// ChatService owns the conversation lifecycle: resolving the unique chat for a
// (property, client, realtor) triple, appending to the message log and keeping
// read state. Unread counts are always recomputed from the log, never stored.
type ChatService struct {
	store storage.Store
}

func NewChatService(store storage.Store) *ChatService {
	return &ChatService{store: store}
}

// ChatSummary is a chat joined with the caller's unread count for it.
type ChatSummary struct {
	models.Chat
	UnreadCount int64 `json:"unreadCount"`
}

// EnsureChat finds or creates the chat for the triple. The caller must be the
// client; the property must exist, be approved and belong to realtorID.
// Repeated calls return the same chat.
func (s *ChatService) EnsureChat(actor Actor, propertyID, realtorID uint) (*models.Chat, error) {
	if !canStartChat(actor) {
		return nil, ErrForbidden
	}

	property, err := s.store.GetProperty(propertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if property.Status != models.PropertyStatusApproved {
		return nil, ErrNotFound
	}
	if property.RealtorID != realtorID {
		return nil, ErrInvalid
	}

	if chat, err := s.store.FindChat(propertyID, actor.ID, realtorID); err == nil {
		return chat, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	chat := &models.Chat{
		PropertyID: propertyID,
		ClientID:   actor.ID,
		RealtorID:  realtorID,
	}
	if err := s.store.CreateChat(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// SendMessage appends to the chat's log. The content is trimmed and must be
// non-empty; the chat's last-message pointer reflects the new message as soon
// as this returns.
func (s *ChatService) SendMessage(actor Actor, chatID uint, content string) (*models.Message, error) {
	chat, err := s.getChat(chatID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, chat) {
		return nil, ErrForbidden
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalid
	}

	message := &models.Message{
		ChatID:   chat.ID,
		SenderID: actor.ID,
		Content:  content,
	}
	if err := s.store.AppendMessage(message); err != nil {
		return nil, err
	}
	return message, nil
}

// MarkRead flips every message in the chat not sent by the actor to read.
// Calling it again is a no-op.
func (s *ChatService) MarkRead(actor Actor, chatID uint) error {
	chat, err := s.getChat(chatID)
	if err != nil {
		return err
	}
	if !isParticipant(actor, chat) {
		return ErrForbidden
	}
	return s.store.MarkMessagesRead(chat.ID, actor.ID)
}

// Chat returns a single chat, participant-only.
func (s *ChatService) Chat(actor Actor, chatID uint) (*models.Chat, error) {
	chat, err := s.getChat(chatID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, chat) {
		return nil, ErrForbidden
	}
	return chat, nil
}

// Messages returns the chat's log in chronological order, participant-only.
func (s *ChatService) Messages(actor Actor, chatID uint, cursor uint, limit int) ([]models.Message, error) {
	chat, err := s.getChat(chatID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, chat) {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.store.MessagesForChat(chat.ID, cursor, limit)
}

// UnreadCount counts messages in the chat sent by the other side that are
// still unread.
func (s *ChatService) UnreadCount(chatID, userID uint) (int64, error) {
	return s.store.CountUnread(chatID, userID)
}

// TotalUnread sums unread counts over every chat the user participates in.
func (s *ChatService) TotalUnread(userID uint) (int64, error) {
	chats, err := s.store.ChatsForUser(userID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, chat := range chats {
		n, err := s.store.CountUnread(chat.ID, userID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// ListChats returns the actor's chats, newest activity first, each with the
// actor's unread count.
func (s *ChatService) ListChats(actor Actor) ([]ChatSummary, error) {
	chats, err := s.store.ChatsForUser(actor.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		n, err := s.store.CountUnread(chat.ID, actor.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ChatSummary{Chat: chat, UnreadCount: n})
	}
	return summaries, nil
}

// Sender looks up a participant's user record (used for notification copy).
func (s *ChatService) Sender(id uint) (*models.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *ChatService) getChat(chatID uint) (*models.Chat, error) {
	chat, err := s.store.GetChat(chatID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return chat, nil
}
