package storage

import (
	"errors"

	"github.com/sashicus/grandmoscow/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) SaveUser(u *models.User) error {
	return s.db.Save(u).Error
}

func (s *GormStore) GetProperty(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.db.Preload("Realtor").First(&property, id).Error; err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (s *GormStore) CreateProperty(p *models.Property) error {
	return s.db.Create(p).Error
}

func (s *GormStore) SaveProperty(p *models.Property) error {
	return s.db.Save(p).Error
}

func (s *GormStore) DeletePropertyCascade(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var chatIDs []uint
		if err := tx.Model(&models.Chat{}).Where("property_id = ?", id).Pluck("id", &chatIDs).Error; err != nil {
			return err
		}
		if len(chatIDs) > 0 {
			// Unhook last-message pointers before deleting the messages they reference
			if err := tx.Model(&models.Chat{}).Where("id IN ?", chatIDs).Update("last_message_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("chat_id IN ?", chatIDs).Delete(&models.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", chatIDs).Delete(&models.Chat{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, id).Error
	})
}

func (s *GormStore) PublicListings() ([]models.Property, error) {
	var properties []models.Property
	err := s.db.
		Where("status = ? AND available = ?", models.PropertyStatusApproved, true).
		Preload("Realtor").
		Order("created_at DESC").
		Find(&properties).Error
	return properties, err
}

func (s *GormStore) PropertiesByRealtor(realtorID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.
		Where("realtor_id = ?", realtorID).
		Order("created_at DESC").
		Find(&properties).Error
	return properties, err
}

func (s *GormStore) GetChat(id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.Preload("LastMessage").First(&chat, id).Error; err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

func (s *GormStore) FindChat(propertyID, clientID, realtorID uint) (*models.Chat, error) {
	var chat models.Chat
	err := s.db.
		Where("property_id = ? AND client_id = ? AND realtor_id = ?", propertyID, clientID, realtorID).
		Preload("LastMessage").
		First(&chat).Error
	if err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

func (s *GormStore) CreateChat(c *models.Chat) error {
	// The composite unique index on the triple makes concurrent creates
	// collapse onto one row; on conflict we re-read the winner.
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}, {Name: "client_id"}, {Name: "realtor_id"}},
		DoNothing: true,
	}).Create(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := s.FindChat(c.PropertyID, c.ClientID, c.RealtorID)
		if err != nil {
			return err
		}
		*c = *existing
	}
	return nil
}

func (s *GormStore) ChatsForUser(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.db.
		Where("client_id = ? OR realtor_id = ?", userID, userID).
		Preload("LastMessage").
		Preload("Property").
		Preload("Client").
		Preload("Realtor").
		Order("updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func (s *GormStore) AppendMessage(m *models.Message) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", m.ChatID).
			Updates(map[string]interface{}{
				"last_message_id": m.ID,
				"updated_at":      m.CreatedAt,
			}).Error
	})
}

func (s *GormStore) MessagesForChat(chatID uint, cursor uint, limit int) ([]models.Message, error) {
	q := s.db.Where("chat_id = ?", chatID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var msgs []models.Message
	if err := q.Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	// reverse to chronological
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *GormStore) MarkMessagesRead(chatID, readerID uint) error {
	return s.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Update("is_read", true).Error
}

func (s *GormStore) CountUnread(chatID, userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, userID, false).
		Count(&count).Error
	return count, err
}

func (s *GormStore) HasFavorite(userID, propertyID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) AddFavorite(f *models.Favorite) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
		DoNothing: true,
	}).Create(f).Error
}

func (s *GormStore) RemoveFavorite(userID, propertyID uint) error {
	return s.db.Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.Favorite{}).Error
}

func (s *GormStore) FavoriteIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("property_id", &ids).Error
	return ids, err
}
