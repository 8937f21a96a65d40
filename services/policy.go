package services

import (
	"errors"

	"github.com/sashicus/grandmoscow/models"
)

// Actor identifies the authenticated caller of a service operation. It is
// built from the access token claims at the route layer.
type Actor struct {
	ID   uint
	Role string
}

var (
	// ErrForbidden means the actor's role or ownership does not permit the mutation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid means the input failed a semantic check (empty message,
	// wrong state transition, mismatched realtor).
	ErrInvalid = errors.New("invalid input")
)

// Every mutation runs one of these checks before touching the store;
// authorization never depends on what a client chose to render.

func canStartChat(a Actor) bool {
	return a.Role == models.RoleClient
}

func canToggleFavorite(a Actor) bool {
	return a.Role == models.RoleClient
}

func canListProperty(a Actor) bool {
	return a.Role == models.RoleRealtor
}

func canEditProperty(a Actor, p *models.Property) bool {
	return a.Role == models.RoleRealtor && p.RealtorID == a.ID
}

func canModerate(a Actor) bool {
	return a.Role == models.RoleAdmin
}

func isParticipant(a Actor, c *models.Chat) bool {
	return a.ID == c.ClientID || a.ID == c.RealtorID
}
