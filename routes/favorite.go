package routes

import (
	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
)

// GetFavorites returns the caller's favorited property ids.
func GetFavorites(ctx iris.Context) {
	ids, err := favoriteService.IDs(actorFromCtx(ctx))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "propertyIDs": ids})
}

type toggleFavoriteInput struct {
	PropertyID uint `json:"propertyID" validate:"required"`
}

// ToggleFavorite flips membership for the (caller, property) pair.
func ToggleFavorite(ctx iris.Context) {
	var input toggleFavoriteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	favorited, err := favoriteService.Toggle(actorFromCtx(ctx), input.PropertyID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "favorited": favorited})
}
