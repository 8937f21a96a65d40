package services

import (
	"testing"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testClient  = Actor{ID: 1, Role: models.RoleClient}
	testRealtor = Actor{ID: 2, Role: models.RoleRealtor}
	testAdmin   = Actor{ID: 3, Role: models.RoleAdmin}
)

// newApprovedProperty runs a listing through the realtor-submit and
// admin-approve path so chats can be opened against it.
func newApprovedProperty(t *testing.T, store *storage.MemStore) *models.Property {
	t.Helper()
	property := &models.Property{Title: "Двушка на Арбате", Price: 120000, PriceType: "month", Location: "Москва"}
	require.NoError(t, NewListingService(store).Create(testRealtor, property))
	_, err := NewModerationService(store).Approve(testAdmin, property.ID)
	require.NoError(t, err)
	return property
}

func TestEnsureChatIdempotent(t *testing.T) {
	store := storage.NewMemStore()
	property := newApprovedProperty(t, store)
	svc := NewChatService(store)

	first, err := svc.EnsureChat(testClient, property.ID, testRealtor.ID)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := svc.EnsureChat(testClient, property.ID, testRealtor.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// a different client gets a different chat
	otherClient := Actor{ID: 42, Role: models.RoleClient}
	third, err := svc.EnsureChat(otherClient, property.ID, testRealtor.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestEnsureChatPreconditions(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewChatService(store)

	// missing property
	_, err := svc.EnsureChat(testClient, 99, testRealtor.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// property still pending
	pending := &models.Property{Title: "Студия", Price: 50000, Location: "Москва"}
	require.NoError(t, NewListingService(store).Create(testRealtor, pending))
	_, err = svc.EnsureChat(testClient, pending.ID, testRealtor.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// approved property, but the realtor id doesn't own it
	property := newApprovedProperty(t, store)
	_, err = svc.EnsureChat(testClient, property.ID, 77)
	assert.ErrorIs(t, err, ErrInvalid)

	// only clients open chats
	_, err = svc.EnsureChat(testRealtor, property.ID, testRealtor.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendMessageUpdatesLastMessage(t *testing.T) {
	store := storage.NewMemStore()
	property := newApprovedProperty(t, store)
	svc := NewChatService(store)

	chat, err := svc.EnsureChat(testClient, property.ID, testRealtor.ID)
	require.NoError(t, err)
	require.Nil(t, chat.LastMessageID)

	message, err := svc.SendMessage(testClient, chat.ID, "Здравствуйте! Квартира ещё свободна?")
	require.NoError(t, err)
	assert.False(t, message.IsRead)

	// the caller's own re-read reflects the append immediately
	reloaded, err := svc.Chat(testClient, chat.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastMessage)
	assert.Equal(t, message.ID, *reloaded.LastMessageID)
	assert.Equal(t, "Здравствуйте! Квартира ещё свободна?", reloaded.LastMessage.Content)
	assert.Equal(t, message.CreatedAt, reloaded.UpdatedAt)

	// unread lands on the realtor, not on the sender
	realtorUnread, err := svc.UnreadCount(chat.ID, testRealtor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), realtorUnread)

	clientUnread, err := svc.UnreadCount(chat.ID, testClient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), clientUnread)
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	store := storage.NewMemStore()
	property := newApprovedProperty(t, store)
	svc := NewChatService(store)

	chat, err := svc.EnsureChat(testClient, property.ID, testRealtor.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(testClient, chat.ID, "   \t\n")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.SendMessage(testClient, 99, "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	stranger := Actor{ID: 500, Role: models.RoleClient}
	_, err = svc.SendMessage(stranger, chat.ID, "hello")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMarkReadIsScopedAndIdempotent(t *testing.T) {
	store := storage.NewMemStore()
	property := newApprovedProperty(t, store)
	svc := NewChatService(store)

	chat, err := svc.EnsureChat(testClient, property.ID, testRealtor.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(testClient, chat.ID, "Добрый день")
	require.NoError(t, err)
	_, err = svc.SendMessage(testClient, chat.ID, "Когда можно посмотреть?")
	require.NoError(t, err)
	realtorMsg, err := svc.SendMessage(testRealtor, chat.ID, "Завтра после 18:00")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(testRealtor, chat.ID))

	unread, err := svc.UnreadCount(chat.ID, testRealtor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// the realtor's own message stays unread for the client
	clientUnread, err := svc.UnreadCount(chat.ID, testClient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), clientUnread)

	messages, err := svc.Messages(testClient, chat.ID, 0, 0)
	require.NoError(t, err)
	for _, m := range messages {
		if m.ID == realtorMsg.ID {
			assert.False(t, m.IsRead)
		} else {
			assert.True(t, m.IsRead)
		}
	}

	// second call is a no-op
	require.NoError(t, svc.MarkRead(testRealtor, chat.ID))
	unread, err = svc.UnreadCount(chat.ID, testRealtor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestTotalUnreadSpansChats(t *testing.T) {
	store := storage.NewMemStore()
	listings := NewListingService(store)
	moderation := NewModerationService(store)
	svc := NewChatService(store)

	first := &models.Property{Title: "Однушка", Price: 60000, Location: "Москва"}
	require.NoError(t, listings.Create(testRealtor, first))
	_, err := moderation.Approve(testAdmin, first.ID)
	require.NoError(t, err)

	second := &models.Property{Title: "Трёшка", Price: 180000, Location: "Москва"}
	require.NoError(t, listings.Create(testRealtor, second))
	_, err = moderation.Approve(testAdmin, second.ID)
	require.NoError(t, err)

	chatOne, err := svc.EnsureChat(testClient, first.ID, testRealtor.ID)
	require.NoError(t, err)
	chatTwo, err := svc.EnsureChat(testClient, second.ID, testRealtor.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(testClient, chatOne.ID, "По однушке")
	require.NoError(t, err)
	_, err = svc.SendMessage(testClient, chatTwo.ID, "По трёшке")
	require.NoError(t, err)
	_, err = svc.SendMessage(testClient, chatTwo.ID, "Ещё вопрос")
	require.NoError(t, err)

	total, err := svc.TotalUnread(testRealtor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	total, err = svc.TotalUnread(testClient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	summaries, err := svc.ListChats(testRealtor)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	counts := map[uint]int64{}
	for _, s := range summaries {
		counts[s.Chat.ID] = s.UnreadCount
	}
	assert.Equal(t, int64(1), counts[chatOne.ID])
	assert.Equal(t, int64(2), counts[chatTwo.ID])
}
