package main

import (
	"log"
	"os"

	"github.com/sashicus/grandmoscow/routes"
	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()
	routes.InitServices(storage.NewGormStore(db))

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	app.Get("/api/health", routes.Health)

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/refresh", refreshTokenVerifierMiddleware, routes.Refresh)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetCurrentUser)
		user.Patch("/profile", accessTokenVerifierMiddleware, routes.UpdateUserProfile)
		user.Patch("/pushtoken", accessTokenVerifierMiddleware, routes.AlterPushToken)
		user.Patch("/settings/notifications", accessTokenVerifierMiddleware, routes.AllowsNotifications)
	}

	property := app.Party("/api/property")
	{
		property.Get("/", routes.GetListings)
		property.Get("/{id:uint}", routes.GetProperty)
		property.Get("/mine", accessTokenVerifierMiddleware, routes.GetMyProperties)
		property.Post("/", accessTokenVerifierMiddleware, routes.CreateProperty)
		property.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateProperty)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteProperty)
	}

	favorites := app.Party("/api/favorites", accessTokenVerifierMiddleware)
	{
		favorites.Get("/", routes.GetFavorites)
		favorites.Post("/toggle", routes.ToggleFavorite)
	}

	chat := app.Party("/api/chat", accessTokenVerifierMiddleware)
	{
		chat.Post("/", routes.EnsureChat)
		chat.Get("/", routes.ListChats)
		chat.Post("/{chatID:uint}/typing", routes.Typing)
		chat.Get("/{chatID:uint}/typing", routes.ListTyping)
	}

	messages := app.Party("/api/messages", accessTokenVerifierMiddleware)
	{
		messages.Get("/", routes.ListMessages)
		messages.Post("/", routes.CreateMessage)
		messages.Post("/read", routes.MarkMessagesRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Patch("/users/{id:uint}/approval", routes.AdminSetUserApproval)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Get("/properties", routes.AdminListProperties)
		admin.Get("/properties/{id:uint}", routes.AdminGetProperty)
		admin.Post("/properties/{id:uint}/approve", routes.AdminApproveProperty)
		admin.Post("/properties/{id:uint}/reject", routes.AdminRejectProperty)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("Server starting on port", port)
	app.Listen(":" + port)
}
