package services

import (
	"errors"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"

	"golang.org/x/exp/slices"
)

// ListingService owns the realtor side of the property lifecycle. Moderation
// transitions live in ModerationService; this one never moves a property out
// of pending on its own.
type ListingService struct {
	store storage.Store
}

func NewListingService(store storage.Store) *ListingService {
	return &ListingService{store: store}
}

// Create submits a new listing. Status always starts at pending regardless of
// what the caller sent.
func (s *ListingService) Create(actor Actor, property *models.Property) error {
	if !canListProperty(actor) {
		return ErrForbidden
	}
	if property.PriceType == "" {
		property.PriceType = "month"
	}
	if !slices.Contains(models.PriceTypes, property.PriceType) {
		return ErrInvalid
	}

	property.RealtorID = actor.ID
	property.Status = models.PropertyStatusPending
	property.AdminNotes = ""
	return s.store.CreateProperty(property)
}

// UpdateInput carries the realtor-editable fields. Nil pointers leave the
// current value untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *float64
	PriceType   *string
	Location    *string
	District    *string
	Bedrooms    *int
	Bathrooms   *int
	Area        *float32
	Images      []byte
	Features    []byte
	Available   *bool
}

// Update edits a listing, owner-only. Editing a rejected property resubmits
// it: status returns to pending and the admin notes are cleared.
func (s *ListingService) Update(actor Actor, propertyID uint, input UpdateInput) (*models.Property, error) {
	property, err := s.getProperty(propertyID)
	if err != nil {
		return nil, err
	}
	if !canEditProperty(actor, property) {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		property.Title = *input.Title
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.Price != nil {
		property.Price = *input.Price
	}
	if input.PriceType != nil {
		if !slices.Contains(models.PriceTypes, *input.PriceType) {
			return nil, ErrInvalid
		}
		property.PriceType = *input.PriceType
	}
	if input.Location != nil {
		property.Location = *input.Location
	}
	if input.District != nil {
		property.District = *input.District
	}
	if input.Bedrooms != nil {
		property.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		property.Bathrooms = *input.Bathrooms
	}
	if input.Area != nil {
		property.Area = *input.Area
	}
	if input.Images != nil {
		property.Images = input.Images
	}
	if input.Features != nil {
		property.Features = input.Features
	}
	if input.Available != nil {
		property.Available = input.Available
	}

	if property.Status == models.PropertyStatusRejected {
		property.Status = models.PropertyStatusPending
		property.AdminNotes = ""
	}

	if err := s.store.SaveProperty(property); err != nil {
		return nil, err
	}
	return property, nil
}

// Delete removes a listing along with every chat, message and favorite that
// references it, owner-only.
func (s *ListingService) Delete(actor Actor, propertyID uint) error {
	property, err := s.getProperty(propertyID)
	if err != nil {
		return err
	}
	if !canEditProperty(actor, property) {
		return ErrForbidden
	}
	return s.store.DeletePropertyCascade(property.ID)
}

// Public returns the catalog: approved and available, realtor contacts
// joined, newest first.
func (s *ListingService) Public() ([]models.Property, error) {
	return s.store.PublicListings()
}

// Get returns a single property. Listings still in moderation are only
// visible to their owner and to admins.
func (s *ListingService) Get(actor Actor, propertyID uint) (*models.Property, error) {
	property, err := s.getProperty(propertyID)
	if err != nil {
		return nil, err
	}
	if property.Status != models.PropertyStatusApproved {
		if actor.Role != models.RoleAdmin && property.RealtorID != actor.ID {
			return nil, ErrNotFound
		}
	}
	return property, nil
}

// Mine returns every listing owned by the realtor, whatever its status.
func (s *ListingService) Mine(actor Actor) ([]models.Property, error) {
	return s.store.PropertiesByRealtor(actor.ID)
}

func (s *ListingService) getProperty(id uint) (*models.Property, error) {
	property, err := s.store.GetProperty(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return property, nil
}
