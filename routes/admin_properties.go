package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/properties
func AdminListProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))
	realtorID := ctx.URLParamDefault("realtor_id", "")
	district := strings.TrimSpace(ctx.URLParamDefault("district", ""))
	createdFrom := ctx.URLParamDefault("created_from", "")
	createdTo := ctx.URLParamDefault("created_to", "")

	q := storage.DB.Model(&models.Property{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if realtorID != "" {
		q = q.Where("realtor_id = ?", realtorID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(title) LIKE ? OR lower(description) LIKE ? OR lower(location) LIKE ?", like, like, like)
	}
	if district != "" {
		q = q.Where("lower(district) = ?", strings.ToLower(district))
	}
	if createdFrom != "" {
		if t, err := time.Parse(time.RFC3339, createdFrom); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if createdTo != "" {
		if t, err := time.Parse(time.RFC3339, createdTo); err == nil {
			q = q.Where("created_at <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var props []models.Property
	if err := q.Preload("Realtor").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&props).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, props, page, perPage, total)
}

// GET /admin/properties/:id
func AdminGetProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var prop models.Property
	if err := storage.DB.Preload("Realtor").First(&prop, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "property not found")
		return
	}
	ctx.JSON(iris.Map{"data": prop, "meta": iris.Map{}, "links": iris.Map{}})
}

// POST /admin/properties/:id/approve
func AdminApproveProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	before, beforeErr := listingService.Get(actorFromCtx(ctx), id)
	if beforeErr != nil {
		handleServiceError(ctx, beforeErr)
		return
	}

	prop, svcErr := moderationService.Approve(actorFromCtx(ctx), id)
	if svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}

	utils.Audit(ctx, "property.approve", "property", prop.ID, before, prop)
	go notifier.SendModerationNotification(prop.RealtorID, prop.ID, prop.Title, prop.Status)

	ctx.JSON(iris.Map{"data": prop})
}

type rejectPropertyInput struct {
	Notes string `json:"notes" validate:"max=5000"`
}

// POST /admin/properties/:id/reject {notes}
func AdminRejectProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body rejectPropertyInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before, beforeErr := listingService.Get(actorFromCtx(ctx), id)
	if beforeErr != nil {
		handleServiceError(ctx, beforeErr)
		return
	}

	prop, svcErr := moderationService.Reject(actorFromCtx(ctx), id, body.Notes)
	if svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}

	utils.Audit(ctx, "property.reject", "property", prop.ID, before, prop)
	go notifier.SendModerationNotification(prop.RealtorID, prop.ID, prop.Title, prop.Status)

	ctx.JSON(iris.Map{"data": prop})
}
