package routes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashicus/grandmoscow/models"
	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/MicahParks/keyfunc"
	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := userInput.Role
	if role == "" {
		role = models.RoleClient
	}

	newUser = models.User{
		Name:        userInput.Name,
		Email:       strings.ToLower(userInput.Email),
		Password:    hashedPassword,
		Role:        role,
		SocialLogin: false}

	storage.DB.Create(&newUser)

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.SocialLogin {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Social Login Account", ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

// GoogleLoginOrSignUp verifies a Google ID token and signs the user in,
// creating the profile on first access with the default client role.
func GoogleLoginOrSignUp(ctx iris.Context) {
	var userInput GoogleSignInInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	jwks, jwksErr := keyfunc.Get(googleJWKSURL, keyfunc.Options{})
	if jwksErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	token, tokenErr := jwtv4.Parse(userInput.IdentityToken, jwks.Keyfunc)
	if tokenErr != nil || !token.Valid {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Invalid identity token", ctx)
		return
	}

	claims := token.Claims.(jwtv4.MapClaims)
	email := strings.ToLower(fmt.Sprint(claims["email"]))
	name := fmt.Sprint(claims["name"])

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		user = models.User{
			Name:           name,
			Email:          email,
			Role:           models.RoleClient,
			SocialLogin:    true,
			SocialProvider: "google",
		}
		storage.DB.Create(&user)
	}

	returnUser(user, ctx)
}

// Refresh rotates the refresh token pair.
func Refresh(ctx iris.Context) {
	utils.RefreshToken(ctx, func(id uint) string {
		var user models.User
		role := models.RoleClient
		if err := storage.DB.Select("id, role").First(&user, id).Error; err == nil && user.Role != "" {
			role = user.Role
		}
		return role
	})
}

// GetCurrentUser returns the authenticated user's own profile.
func GetCurrentUser(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	userExists := storage.DB.First(&user, claims.ID)
	if userExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(user)
}

// UpdateUserProfile edits the caller's own name, avatar and contact fields.
func UpdateUserProfile(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	user.Name = input.Name
	user.AvatarURL = input.AvatarURL
	user.PhoneNumber = input.PhoneNumber
	user.Whatsapp = input.Whatsapp
	user.Telegram = input.Telegram
	user.Address = input.Address

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(user)
}

// AlterPushToken adds or removes an Expo push token on the caller's profile.
func AlterPushToken(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input PushTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var tokens []string
	if user.PushTokens != nil {
		json.Unmarshal(user.PushTokens, &tokens)
	}

	if input.Op == "add" {
		exists := false
		for _, t := range tokens {
			if t == input.Token {
				exists = true
				break
			}
		}
		if !exists {
			tokens = append(tokens, input.Token)
		}
	} else {
		filtered := tokens[:0]
		for _, t := range tokens {
			if t != input.Token {
				filtered = append(filtered, t)
			}
		}
		tokens = filtered
	}

	tokensJSON, _ := json.Marshal(tokens)
	user.PushTokens = tokensJSON
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// AllowsNotifications flips the push opt-in flag.
func AllowsNotifications(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input struct {
		Allows *bool `json:"allowsNotifications" validate:"required"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := storage.DB.Model(&models.User{}).
		Where("id = ?", claims.ID).
		Update("allows_notifications", input.Allows).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID, user.Role)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"role":         user.Role,
		"phoneNumber":  user.PhoneNumber,
		"whatsapp":     user.Whatsapp,
		"telegram":     user.Telegram,
		"address":      user.Address,
		"avatarURL":    user.AvatarURL,
		"isApproved":   user.IsApproved,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,max=256,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"omitempty,oneof=client realtor"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleSignInInput struct {
	IdentityToken string `json:"identityToken" validate:"required"`
}

type UpdateProfileInput struct {
	Name        string `json:"name" validate:"required,max=256"`
	AvatarURL   string `json:"avatarURL" validate:"max=512"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
	Whatsapp    string `json:"whatsapp" validate:"max=64"`
	Telegram    string `json:"telegram" validate:"max=64"`
	Address     string `json:"address" validate:"max=512"`
}

type PushTokenInput struct {
	Token string `json:"token" validate:"required"`
	Op    string `json:"op" validate:"required,oneof=add remove"`
}
