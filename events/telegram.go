package events

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hotel-booking/models"
	"hotel-booking/utils"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts booking events to an operations chat. Conflicts after
// payment need a manual refund, so they are the main reason this exists.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Publish(_ context.Context, ev BookingEvent) error {
	msg := tgbotapi.NewMessage(n.chatID, formatOperatorMessage(ev))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func formatOperatorMessage(ev BookingEvent) string {
	var sb strings.Builder
	switch ev.Type {
	case TypeBookingConflict:
		sb.WriteString("⚠️ Payment for already booked dates, refund required\n")
	case TypeBookingPaid:
		sb.WriteString("✅ Room reserved\n")
	case TypeBookingExpired:
		sb.WriteString("⌛ Pending booking expired\n")
	default:
		sb.WriteString(ev.Type + "\n")
	}
	fmt.Fprintf(&sb, "Booking: %d\nHotel: %d Room: %d\n", ev.BookingID, ev.HotelID, ev.RoomID)
	if ev.UserEmail != "" {
		fmt.Fprintf(&sb, "Guest: %s\n", utils.MaskEmail(ev.UserEmail))
	}
	fmt.Fprintf(&sb, "Dates: %s → %s\n", ev.StartDate.Format(models.DateLayout), ev.EndDate.Format(models.DateLayout))
	fmt.Fprintf(&sb, "Amount: %.2f %s\n", ev.TotalPrice, strings.ToUpper(ev.Currency))
	if ev.PaymentIntentID != "" {
		fmt.Fprintf(&sb, "Payment intent: %s\n", ev.PaymentIntentID)
	}
	if ev.Reason != "" {
		fmt.Fprintf(&sb, "Reason: %s\n", ev.Reason)
	}
	return strings.TrimRight(sb.String(), "\n")
}
