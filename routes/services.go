package routes

import (
	"errors"
	"net/http"

	"github.com/sashicus/grandmoscow/services"
	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var (
	chatService       *services.ChatService
	listingService    *services.ListingService
	moderationService *services.ModerationService
	favoriteService   *services.FavoriteService
	notifier          *services.NotificationService
)

// InitServices wires the handlers to a Store implementation. main uses the
// GORM store; tests hand in a MemStore.
func InitServices(store storage.Store) {
	chatService = services.NewChatService(store)
	listingService = services.NewListingService(store)
	moderationService = services.NewModerationService(store)
	favoriteService = services.NewFavoriteService(store)
	notifier = services.NewNotificationService(store)
}

func actorFromCtx(ctx iris.Context) services.Actor {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	return services.Actor{ID: claims.ID, Role: claims.Role}
}

// optionalActor is for routes reachable without a token; anonymous callers get
// a zero actor that no ownership check will ever match.
func optionalActor(ctx iris.Context) services.Actor {
	if tok := jwt.Get(ctx); tok != nil {
		if claims, ok := tok.(*utils.AccessToken); ok {
			return services.Actor{ID: claims.ID, Role: claims.Role}
		}
	}
	return services.Actor{}
}

// handleServiceError maps service sentinels onto the HTTP error taxonomy:
// authorization failures are 403, missing entities 404, semantic rejections 422.
func handleServiceError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		ctx.StatusCode(iris.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrInvalid):
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", err.Error())
	default:
		utils.CreateInternalServerError(ctx)
	}
}
