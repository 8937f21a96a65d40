package routes

import (
	"encoding/json"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/services"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

// GetListings is the public catalog: approved + available properties with the
// realtor's contact fields, newest first.
func GetListings(ctx iris.Context) {
	properties, err := listingService.Public()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(properties)
}

func GetProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	property, svcErr := listingService.Get(optionalActor(ctx), id)
	if svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}
	ctx.JSON(property)
}

func CreateProperty(ctx iris.Context) {
	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Ensure arrays are never null
	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	features := input.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, _ := json.Marshal(features)

	property := models.Property{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		PriceType:   input.PriceType,
		Location:    input.Location,
		District:    input.District,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Area:        input.Area,
		Images:      datatypes.JSON(imagesJSON),
		Features:    datatypes.JSON(featuresJSON),
		Available:   input.Available,
	}

	if err := listingService.Create(actorFromCtx(ctx), &property); err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&property)
}

func UpdateProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	update := services.UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		PriceType:   input.PriceType,
		Location:    input.Location,
		District:    input.District,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Area:        input.Area,
		Available:   input.Available,
	}
	if input.Images != nil {
		imagesJSON, _ := json.Marshal(input.Images)
		update.Images = imagesJSON
	}
	if input.Features != nil {
		featuresJSON, _ := json.Marshal(input.Features)
		update.Features = featuresJSON
	}

	property, svcErr := listingService.Update(actorFromCtx(ctx), id, update)
	if svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}
	ctx.JSON(property)
}

func DeleteProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	if svcErr := listingService.Delete(actorFromCtx(ctx), id); svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// GetMyProperties lists the calling realtor's own listings in every status.
func GetMyProperties(ctx iris.Context) {
	properties, err := listingService.Mine(actorFromCtx(ctx))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(properties)
}

type CreateListingInput struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Description string   `json:"description" validate:"max=10000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	PriceType   string   `json:"priceType" validate:"omitempty,oneof=day month year"`
	Location    string   `json:"location" validate:"required,max=256"`
	District    string   `json:"district" validate:"max=256"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	Area        float32  `json:"area" validate:"gte=0"`
	Images      []string `json:"images"`
	Features    []string `json:"features"`
	Available   *bool    `json:"available"`
}

type UpdateListingInput struct {
	Title       *string  `json:"title" validate:"omitempty,max=256"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	PriceType   *string  `json:"priceType" validate:"omitempty,oneof=day month year"`
	Location    *string  `json:"location" validate:"omitempty,max=256"`
	District    *string  `json:"district" validate:"omitempty,max=256"`
	Bedrooms    *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   *int     `json:"bathrooms" validate:"omitempty,gte=0"`
	Area        *float32 `json:"area" validate:"omitempty,gte=0"`
	Images      []string `json:"images"`
	Features    []string `json:"features"`
	Available   *bool    `json:"available"`
}
