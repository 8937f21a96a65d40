package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"
)

// NotificationService handles all push notification logic
type NotificationService struct {
	store storage.Store
}

func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	user, err := ns.store.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendNotificationToUser sends a notification to a specific user
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data map[string]string) error {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, data); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}

	return lastError
}

// SendMessageNotification tells the other chat participant a new message arrived
func (ns *NotificationService) SendMessageNotification(receiverID, chatID, propertyID uint, senderName string) error {
	propertyTitle := "объект"
	if property, err := ns.store.GetProperty(propertyID); err == nil {
		propertyTitle = property.Title
	}

	title := "Новое сообщение"
	body := fmt.Sprintf("%s написал(а) вам по объекту «%s»", senderName, propertyTitle)

	return ns.SendNotificationToUser(receiverID, title, body, map[string]string{
		"type":   "new_message",
		"chatId": fmt.Sprintf("%d", chatID),
		"screen": "Chat",
	})
}

// SendModerationNotification tells the realtor about an approve/reject decision
func (ns *NotificationService) SendModerationNotification(realtorID, propertyID uint, propertyTitle, status string) error {
	var title, body string
	switch status {
	case "approved":
		title = "Объект одобрен"
		body = fmt.Sprintf("«%s» прошёл модерацию и опубликован в каталоге", propertyTitle)
	case "rejected":
		title = "Объект отклонён"
		body = fmt.Sprintf("«%s» не прошёл модерацию. Откройте объект, чтобы увидеть замечания", propertyTitle)
	default:
		return nil
	}

	return ns.SendNotificationToUser(realtorID, title, body, map[string]string{
		"type":       "property_status",
		"propertyId": fmt.Sprintf("%d", propertyID),
		"status":     status,
		"screen":     "MyProperties",
	})
}
