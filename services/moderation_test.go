package services

import (
	"testing"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectStoresNotesAndLeavesCatalog(t *testing.T) {
	store := storage.NewMemStore()
	listings := NewListingService(store)
	moderation := NewModerationService(store)

	property := &models.Property{Title: "Квартира у метро", Price: 70000, Location: "Москва"}
	require.NoError(t, listings.Create(testRealtor, property))
	require.Equal(t, models.PropertyStatusPending, property.Status)

	rejected, err := moderation.Reject(testAdmin, property.ID, "missing photos")
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusRejected, rejected.Status)
	assert.Equal(t, "missing photos", rejected.AdminNotes)

	catalog, err := listings.Public()
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestApproveClearsEarlierNotes(t *testing.T) {
	store := storage.NewMemStore()
	listings := NewListingService(store)
	moderation := NewModerationService(store)

	property := &models.Property{Title: "Таунхаус", Price: 200000, Location: "Химки"}
	require.NoError(t, listings.Create(testRealtor, property))

	_, err := moderation.Reject(testAdmin, property.ID, "blurry plan")
	require.NoError(t, err)

	// realtor resubmits, admin approves; the old notes must not survive
	price := 190000.0
	_, err = listings.Update(testRealtor, property.ID, UpdateInput{Price: &price})
	require.NoError(t, err)

	approved, err := moderation.Approve(testAdmin, property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusApproved, approved.Status)
	assert.Empty(t, approved.AdminNotes)
}

func TestModerationIsAdminOnly(t *testing.T) {
	store := storage.NewMemStore()
	listings := NewListingService(store)
	moderation := NewModerationService(store)

	property := &models.Property{Title: "Комната", Price: 25000, Location: "Москва"}
	require.NoError(t, listings.Create(testRealtor, property))

	_, err := moderation.Approve(testClient, property.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = moderation.Reject(testRealtor, property.ID, "no")
	assert.ErrorIs(t, err, ErrForbidden)

	// still pending after the refused attempts
	reloaded, err := store.GetProperty(property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusPending, reloaded.Status)
}

func TestTransitionsOnlyLeavePending(t *testing.T) {
	store := storage.NewMemStore()
	moderation := NewModerationService(store)

	property := newApprovedProperty(t, store)

	_, err := moderation.Approve(testAdmin, property.ID)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = moderation.Reject(testAdmin, property.ID, "late")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = moderation.Approve(testAdmin, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetUserApproval(t *testing.T) {
	store := storage.NewMemStore()
	moderation := NewModerationService(store)

	realtor := &models.User{Name: "Анна", Email: "anna@example.com", Role: models.RoleRealtor}
	require.NoError(t, store.SaveUser(realtor))

	updated, err := moderation.SetUserApproval(testAdmin, realtor.ID, true)
	require.NoError(t, err)
	require.NotNil(t, updated.IsApproved)
	assert.True(t, *updated.IsApproved)

	_, err = moderation.SetUserApproval(testRealtor, realtor.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = moderation.SetUserApproval(testAdmin, 404, true)
	assert.ErrorIs(t, err, ErrNotFound)
}
