package routes

import (
	"time"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"

	"github.com/kataras/iris/v12"
)

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	var pendingProperties int64
	storage.DB.Model(&models.Property{}).Where("status = ?", models.PropertyStatusPending).Count(&pendingProperties)
	var approvedProperties int64
	storage.DB.Model(&models.Property{}).Where("status = ?", models.PropertyStatusApproved).Count(&approvedProperties)
	var realtors int64
	storage.DB.Model(&models.User{}).Where("role = ?", models.RoleRealtor).Count(&realtors)
	var clients int64
	storage.DB.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&clients)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newMessages7, newMessages30 int64
	storage.DB.Model(&models.Message{}).Where("created_at >= ?", since7).Count(&newMessages7)
	storage.DB.Model(&models.Message{}).Where("created_at >= ?", since30).Count(&newMessages30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_properties":  pendingProperties,
			"approved_properties": approvedProperties,
			"realtors":            realtors,
			"clients":             clients,
			"new_messages_7d":     newMessages7,
			"new_messages_30d":    newMessages30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
