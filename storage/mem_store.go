package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/sashicus/grandmoscow/models"
)

// MemStore is an in-memory Store. It backs the service tests and doubles as a
// throwaway backend when no database is around; all methods are safe for
// concurrent use.
type MemStore struct {
	mu sync.Mutex

	users      map[uint]models.User
	properties map[uint]models.Property
	chats      map[uint]models.Chat
	messages   map[uint]models.Message
	favorites  map[[2]uint]models.Favorite

	nextUserID     uint
	nextPropertyID uint
	nextChatID     uint
	nextMessageID  uint
	nextFavoriteID uint
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:      make(map[uint]models.User),
		properties: make(map[uint]models.Property),
		chats:      make(map[uint]models.Chat),
		messages:   make(map[uint]models.Message),
		favorites:  make(map[[2]uint]models.Favorite),
	}
}

func (s *MemStore) GetUser(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemStore) SaveUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		s.nextUserID++
		u.ID = s.nextUserID
		u.CreatedAt = time.Now()
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemStore) GetProperty(id uint) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Realtor = s.users[p.RealtorID]
	return &p, nil
}

func (s *MemStore) CreateProperty(p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPropertyID++
	p.ID = s.nextPropertyID
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.properties[p.ID] = *p
	return nil
}

func (s *MemStore) SaveProperty(p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	s.properties[p.ID] = *p
	return nil
}

func (s *MemStore) DeletePropertyCascade(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.properties, id)
	for chatID, chat := range s.chats {
		if chat.PropertyID != id {
			continue
		}
		for msgID, msg := range s.messages {
			if msg.ChatID == chatID {
				delete(s.messages, msgID)
			}
		}
		delete(s.chats, chatID)
	}
	for pair := range s.favorites {
		if pair[1] == id {
			delete(s.favorites, pair)
		}
	}
	return nil
}

func (s *MemStore) PublicListings() ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Property
	for _, p := range s.properties {
		if p.Status == models.PropertyStatusApproved && (p.Available == nil || *p.Available) {
			p.Realtor = s.users[p.RealtorID]
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) PropertiesByRealtor(realtorID uint) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Property
	for _, p := range s.properties {
		if p.RealtorID == realtorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) GetChat(id uint) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.attachLastMessage(&c)
	return &c, nil
}

func (s *MemStore) FindChat(propertyID, clientID, realtorID uint) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.chats {
		if c.PropertyID == propertyID && c.ClientID == clientID && c.RealtorID == realtorID {
			s.attachLastMessage(&c)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateChat(c *models.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.chats {
		if existing.PropertyID == c.PropertyID && existing.ClientID == c.ClientID && existing.RealtorID == c.RealtorID {
			*c = existing
			return nil
		}
	}
	s.nextChatID++
	c.ID = s.nextChatID
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.chats[c.ID] = *c
	return nil
}

func (s *MemStore) ChatsForUser(userID uint) ([]models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Chat
	for _, c := range s.chats {
		if c.ClientID == userID || c.RealtorID == userID {
			s.attachLastMessage(&c)
			c.Property = s.properties[c.PropertyID]
			c.Client = s.users[c.ClientID]
			c.Realtor = s.users[c.RealtorID]
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemStore) AppendMessage(m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[m.ChatID]
	if !ok {
		return ErrNotFound
	}
	s.nextMessageID++
	m.ID = s.nextMessageID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = m.CreatedAt
	s.messages[m.ID] = *m

	id := m.ID
	chat.LastMessageID = &id
	chat.UpdatedAt = m.CreatedAt
	s.chats[chat.ID] = chat
	return nil
}

func (s *MemStore) MessagesForChat(chatID uint, cursor uint, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.ChatID != chatID {
			continue
		}
		if cursor > 0 && m.ID >= cursor {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *MemStore) MarkMessagesRead(chatID, readerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.messages {
		if m.ChatID == chatID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			s.messages[id] = m
		}
	}
	return nil
}

func (s *MemStore) CountUnread(chatID, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, m := range s.messages {
		if m.ChatID == chatID && m.SenderID != userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) HasFavorite(userID, propertyID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[[2]uint{userID, propertyID}]
	return ok, nil
}

func (s *MemStore) AddFavorite(f *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := [2]uint{f.UserID, f.PropertyID}
	if existing, ok := s.favorites[pair]; ok {
		*f = existing
		return nil
	}
	s.nextFavoriteID++
	f.ID = s.nextFavoriteID
	f.CreatedAt = time.Now()
	s.favorites[pair] = *f
	return nil
}

func (s *MemStore) RemoveFavorite(userID, propertyID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites, [2]uint{userID, propertyID})
	return nil
}

func (s *MemStore) FavoriteIDs(userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var favs []models.Favorite
	for pair, f := range s.favorites {
		if pair[0] == userID {
			favs = append(favs, f)
		}
	}
	sort.Slice(favs, func(i, j int) bool { return favs[i].CreatedAt.After(favs[j].CreatedAt) })
	ids := make([]uint, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.PropertyID)
	}
	return ids, nil
}

// caller must hold s.mu
func (s *MemStore) attachLastMessage(c *models.Chat) {
	if c.LastMessageID == nil {
		return
	}
	if m, ok := s.messages[*c.LastMessageID]; ok {
		c.LastMessage = &m
	}
}
