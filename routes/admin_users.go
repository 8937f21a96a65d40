package routes

import (
	"net/http"
	"strings"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// GET /admin/users
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	role := ctx.URLParamDefault("role", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))

	q := storage.DB.Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// GET /admin/users/:id — profile plus recent moderation actions on it
func AdminGetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var actions []models.AuditLog
	storage.DB.Where("resource_type = ? AND resource_id = ?", "user", id).Order("created_at DESC").Limit(50).Find(&actions)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":          user,
			"recentActions": actions,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

type setApprovalInput struct {
	IsApproved *bool `json:"isApproved" validate:"required"`
}

// PATCH /admin/users/:id/approval {isApproved}
func AdminSetUserApproval(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body setApprovalInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user, svcErr := moderationService.SetUserApproval(actorFromCtx(ctx), id, *body.IsApproved)
	if svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}

	utils.Audit(ctx, "user.approval", "user", user.ID, nil, user)
	ctx.JSON(iris.Map{"data": user})
}

type changeRoleInput struct {
	Role string `json:"role" validate:"required"`
}

// PATCH /admin/users/:id/role {role}
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body changeRoleInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !slices.Contains([]string{models.RoleClient, models.RoleRealtor, models.RoleAdmin}, body.Role) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "role must be client/realtor/admin")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.role_change", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}
