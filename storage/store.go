package storage

import (
	"errors"

	"github.com/sashicus/grandmoscow/models"
)

// ErrNotFound is returned by Store lookups when the row does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary the domain services depend on. The chat
// resolver, message log, favorites index and moderation workflow only see this
// interface; GormStore backs it in production and MemStore in tests.
type Store interface {
	// Users
	GetUser(id uint) (*models.User, error)
	SaveUser(u *models.User) error

	// Properties
	GetProperty(id uint) (*models.Property, error)
	CreateProperty(p *models.Property) error
	SaveProperty(p *models.Property) error
	// DeletePropertyCascade removes the property along with every chat,
	// message and favorite that references it.
	DeletePropertyCascade(id uint) error
	// PublicListings returns approved, available properties with the owning
	// realtor's public contact fields, newest first.
	PublicListings() ([]models.Property, error)
	PropertiesByRealtor(realtorID uint) ([]models.Property, error)

	// Chats
	GetChat(id uint) (*models.Chat, error)
	FindChat(propertyID, clientID, realtorID uint) (*models.Chat, error)
	// CreateChat inserts the chat unless one already exists for the triple,
	// in which case the existing chat is loaded into c.
	CreateChat(c *models.Chat) error
	// ChatsForUser returns chats where the user is the client or the realtor,
	// most recently updated first.
	ChatsForUser(userID uint) ([]models.Chat, error)

	// Messages
	// AppendMessage creates the message and moves the owning chat's
	// last-message pointer and UpdatedAt in the same transaction.
	AppendMessage(m *models.Message) error
	MessagesForChat(chatID uint, cursor uint, limit int) ([]models.Message, error)
	// MarkMessagesRead flips IsRead on every message in the chat not sent by
	// the reader. Idempotent.
	MarkMessagesRead(chatID, readerID uint) error
	CountUnread(chatID, userID uint) (int64, error)

	// Favorites
	HasFavorite(userID, propertyID uint) (bool, error)
	AddFavorite(f *models.Favorite) error
	RemoveFavorite(userID, propertyID uint) error
	FavoriteIDs(userID uint) ([]uint, error)
}
