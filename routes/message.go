package routes

import (
	"net/http"

	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
)

type CreateMessageInput struct {
	ChatID  uint   `json:"chatID" validate:"required"`
	Content string `json:"content" validate:"required,max=5000"`
}

func CreateMessage(ctx iris.Context) {
	var req CreateMessageInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := actorFromCtx(ctx)

	message, err := chatService.SendMessage(actor, req.ChatID, req.Content)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	// Push notification to the other participant
	if chat, chatErr := chatService.Chat(actor, req.ChatID); chatErr == nil {
		receiverID := chat.ClientID
		if actor.ID == chat.ClientID {
			receiverID = chat.RealtorID
		}
		senderName := ""
		if sender, senderErr := chatService.Sender(actor.ID); senderErr == nil {
			senderName = sender.Name
		}
		go notifier.SendMessageNotification(receiverID, chat.ID, chat.PropertyID, senderName)
	}

	ctx.JSON(message)
}

// ListMessages: GET /api/messages?chatID=...&cursor=...&limit=...
func ListMessages(ctx iris.Context) {
	chatID, err := ctx.URLParamInt("chatID")
	if err != nil || chatID <= 0 {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}
	limit, _ := ctx.URLParamInt("limit")
	cursor, _ := ctx.URLParamInt("cursor")

	msgs, svcErr := chatService.Messages(actorFromCtx(ctx), uint(chatID), uint(cursor), limit)
	if svcErr != nil {
		handleServiceError(ctx, svcErr)
		return
	}

	nextCursor := 0
	if len(msgs) > 0 {
		nextCursor = int(msgs[0].ID)
	}
	ctx.JSON(iris.Map{"messages": msgs, "nextCursor": nextCursor})
}

type MarkReadInput struct {
	ChatID uint `json:"chatID" validate:"required"`
}

// MarkMessagesRead flips everything the other side sent in the chat to read.
// Safe to call repeatedly.
func MarkMessagesRead(ctx iris.Context) {
	var req MarkReadInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := chatService.MarkRead(actorFromCtx(ctx), req.ChatID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}
