package services

import (
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"backend_assetflow/models"
)

// NotificationService pushes operational alerts to a Telegram chat. When no
// bot token is configured the service stays inert and every send is a no-op.
type NotificationService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotificationService creates a NotificationService. An empty token or an
// unreachable Telegram API yields a disabled service, not an error.
func NewNotificationService(token, chatID string) *NotificationService {
	if token == "" {
		return &NotificationService{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("Telegram bot unavailable, notifications disabled: %v", err)
		return &NotificationService{}
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		log.Printf("Invalid TELEGRAM_CHAT_ID %q, notifications disabled", chatID)
		return &NotificationService{}
	}

	return &NotificationService{bot: bot, chatID: id}
}

// Enabled reports whether alerts will actually be delivered.
func (ns *NotificationService) Enabled() bool {
	return ns.bot != nil && ns.chatID != 0
}

func (ns *NotificationService) send(text string) {
	if !ns.Enabled() {
		return
	}

	msg := tgbotapi.NewMessage(ns.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := ns.bot.Send(msg); err != nil {
		log.Printf("Failed to send Telegram notification: %v", err)
	}
}

// SendAssignmentOverdue alerts about an assignment past its expected return date.
func (ns *NotificationService) SendAssignmentOverdue(a *models.Assignment) {
	assetName := "asset"
	if a.Asset != nil {
		assetName = a.Asset.Name
	}
	due := ""
	if a.ExpectedReturnDate != nil {
		due = a.ExpectedReturnDate.Format("2006-01-02")
	}
	ns.send(fmt.Sprintf("⚠️ <b>Overdue assignment</b>\n%s assigned to %s was due back %s",
		assetName, a.Assignee.Name, due))
}

// SendAssetDepleted alerts that the last available unit of an asset went out.
func (ns *NotificationService) SendAssetDepleted(asset *models.Asset) {
	ns.send(fmt.Sprintf("📦 <b>Stock depleted</b>\nAll %d units of %s are now assigned",
		asset.Quantity.Total, asset.Name))
}
