package routes

import (
	"github.com/sashicus/grandmoscow/storage"

	"github.com/kataras/iris/v12"
)

// Health reports database connectivity so clients can show a blocking retry
// state instead of failing on individual requests.
func Health(ctx iris.Context) {
	if err := storage.Ping(ctx.Request().Context()); err != nil {
		ctx.StatusCode(iris.StatusServiceUnavailable)
		ctx.JSON(iris.Map{"status": "degraded", "error": err.Error()})
		return
	}
	ctx.JSON(iris.Map{"status": "ok"})
}
