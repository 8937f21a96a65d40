package services

import (
	"errors"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"
)

// FavoriteService keeps the per-client set of saved property ids.
type FavoriteService struct {
	store storage.Store
}

func NewFavoriteService(store storage.Store) *FavoriteService {
	return &FavoriteService{store: store}
}

// Toggle flips membership of the (actor, property) pair and reports the new
// state. Toggling twice always lands back where it started; there is no error
// path for a pair that was never saved.
func (s *FavoriteService) Toggle(actor Actor, propertyID uint) (favorited bool, err error) {
	if !canToggleFavorite(actor) {
		return false, ErrForbidden
	}
	if _, err := s.store.GetProperty(propertyID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	has, err := s.store.HasFavorite(actor.ID, propertyID)
	if err != nil {
		return false, err
	}
	if has {
		if err := s.store.RemoveFavorite(actor.ID, propertyID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.store.AddFavorite(&models.Favorite{UserID: actor.ID, PropertyID: propertyID}); err != nil {
		return false, err
	}
	return true, nil
}

// IDs returns the actor's favorited property ids, most recently saved first.
func (s *FavoriteService) IDs(actor Actor) ([]uint, error) {
	ids, err := s.store.FavoriteIDs(actor.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}
