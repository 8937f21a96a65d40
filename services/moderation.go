package services

import (
	"errors"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"
)

// ModerationService drives the admin state machine over Property.Status.
// The only transitions are pending -> approved and pending -> rejected; a
// rejected listing re-enters pending when its realtor resubmits it (see
// ListingService.Update).
type ModerationService struct {
	store storage.Store
}

func NewModerationService(store storage.Store) *ModerationService {
	return &ModerationService{store: store}
}

// Approve moves a pending property to approved and clears any admin notes
// left over from an earlier rejection.
func (s *ModerationService) Approve(actor Actor, propertyID uint) (*models.Property, error) {
	return s.transition(actor, propertyID, models.PropertyStatusApproved, "")
}

// Reject moves a pending property to rejected, storing the reviewer's notes.
func (s *ModerationService) Reject(actor Actor, propertyID uint, notes string) (*models.Property, error) {
	return s.transition(actor, propertyID, models.PropertyStatusRejected, notes)
}

func (s *ModerationService) transition(actor Actor, propertyID uint, status, notes string) (*models.Property, error) {
	if !canModerate(actor) {
		return nil, ErrForbidden
	}

	property, err := s.store.GetProperty(propertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if property.Status != models.PropertyStatusPending {
		return nil, ErrInvalid
	}

	property.Status = status
	property.AdminNotes = notes
	if err := s.store.SaveProperty(property); err != nil {
		return nil, err
	}
	return property, nil
}

// SetUserApproval flips the vetting flag on a user account, admin-only.
func (s *ModerationService) SetUserApproval(actor Actor, userID uint, approved bool) (*models.User, error) {
	if !canModerate(actor) {
		return nil, ErrForbidden
	}
	user, err := s.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.IsApproved = &approved
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
