package services

import (
	"testing"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFavoriteInvolution(t *testing.T) {
	store := storage.NewMemStore()
	property := newApprovedProperty(t, store)
	svc := NewFavoriteService(store)

	favorited, err := svc.Toggle(testClient, property.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	ids, err := svc.IDs(testClient)
	require.NoError(t, err)
	assert.Equal(t, []uint{property.ID}, ids)

	// toggling again lands back where it started
	favorited, err = svc.Toggle(testClient, property.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	ids, err = svc.IDs(testClient)
	require.NoError(t, err)
	assert.Empty(t, ids)

	has, err := store.HasFavorite(testClient.ID, property.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestToggleFavoriteIsClientOnly(t *testing.T) {
	store := storage.NewMemStore()
	property := newApprovedProperty(t, store)
	svc := NewFavoriteService(store)

	_, err := svc.Toggle(testRealtor, property.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Toggle(testAdmin, property.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestToggleFavoriteMissingProperty(t *testing.T) {
	svc := NewFavoriteService(storage.NewMemStore())

	_, err := svc.Toggle(testClient, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoriteSetsAreIndependentPerUser(t *testing.T) {
	store := storage.NewMemStore()
	property := newApprovedProperty(t, store)
	svc := NewFavoriteService(store)

	otherClient := Actor{ID: 9, Role: models.RoleClient}

	_, err := svc.Toggle(testClient, property.ID)
	require.NoError(t, err)

	ids, err := svc.IDs(otherClient)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
