package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
)

type ensureChatInput struct {
	PropertyID uint `json:"propertyID" validate:"required"`
	RealtorID  uint `json:"realtorID" validate:"required"`
}

// EnsureChat finds or creates the one chat for (property, caller, realtor).
// Calling it again with the same triple returns the same chat.
func EnsureChat(ctx iris.Context) {
	var input ensureChatInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	chat, err := chatService.EnsureChat(actorFromCtx(ctx), input.PropertyID, input.RealtorID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "chat": chat})
}

// ListChats returns the caller's chats, newest activity first, each with the
// caller's unread count, plus the total across all of them.
func ListChats(ctx iris.Context) {
	actor := actorFromCtx(ctx)

	summaries, err := chatService.ListChats(actor)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	total, err := chatService.TotalUnread(actor.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "chats": summaries, "totalUnread": total})
}

// Typing sets a short-lived key in Redis for 5 seconds
func Typing(ctx iris.Context) {
	actor := actorFromCtx(ctx)
	chatID, err := ctx.Params().GetUint("chatID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	// Only participants can signal typing
	if _, svcErr := chatService.Chat(actor, chatID); svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}

	key := typingKey(chatID, actor.ID)
	storage.Redis.Set(ctx, key, "1", 5*time.Second)
	ctx.JSON(iris.Map{"success": true})
}

// ListTyping reports whether the other participant is currently typing
func ListTyping(ctx iris.Context) {
	actor := actorFromCtx(ctx)
	chatID, err := ctx.Params().GetUint("chatID")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	chat, svcErr := chatService.Chat(actor, chatID)
	if svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}

	otherID := chat.ClientID
	if actor.ID == chat.ClientID {
		otherID = chat.RealtorID
	}

	typing := []iris.Map{}
	key := typingKey(chatID, otherID)
	if val, err := storage.Redis.Get(ctx, key).Result(); err == nil && val == "1" {
		typing = append(typing, iris.Map{"userID": otherID})
	}

	ctx.JSON(iris.Map{"success": true, "typing": typing})
}

func typingKey(chatID uint, userID uint) string {
	return fmt.Sprintf("typing:chat:%d:user:%d", chatID, userID)
}
