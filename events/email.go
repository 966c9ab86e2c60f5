package events

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"hotel-booking/models"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func (c SMTPConfig) configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != ""
}

// headerValue drops line breaks so forwarded values cannot add headers.
var headerValue = strings.NewReplacer("\r", " ", "\n", " ")

func headerSafe(s string) string {
	return strings.TrimSpace(headerValue.Replace(s))
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier mails the guest a receipt once a booking is paid.
// Without SMTP settings it only logs what it would have sent.
type EmailNotifier struct {
	cfg  SMTPConfig
	log  zerolog.Logger
	send sendMailFunc
}

func NewEmailNotifier(cfg SMTPConfig, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, log: logger, send: smtp.SendMail}
}

func (n *EmailNotifier) Publish(_ context.Context, ev BookingEvent) error {
	to := headerSafe(ev.UserEmail)
	if ev.Type != TypeBookingPaid || to == "" {
		return nil
	}
	if !n.cfg.configured() {
		n.log.Info().Str("to", ev.UserEmail).Uint("booking_id", ev.BookingID).Msg("[MOCK EMAIL] booking receipt")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", headerSafe(n.cfg.FromName), n.cfg.Username)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)

	if err := n.send(addr, auth, n.cfg.Username, []string{to}, buildReceipt(from, ev)); err != nil {
		return fmt.Errorf("send receipt to %s: %w", to, err)
	}
	return nil
}

func buildReceipt(from string, ev BookingEvent) []byte {
	name := headerSafe(ev.UserName)
	if name == "" {
		name = "Guest"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", headerSafe(ev.UserEmail)))
	sb.WriteString(fmt.Sprintf("Subject: Booking Confirmation #%d\r\n", ev.BookingID))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(fmt.Sprintf("Dear %s,\r\n\r\n", name))
	sb.WriteString("Thank you for booking with us! Your room is reserved.\r\n\r\n")
	sb.WriteString(fmt.Sprintf("Booking Reference: %d\r\n", ev.BookingID))
	sb.WriteString(fmt.Sprintf("Check-In: %s\r\n", ev.StartDate.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Check-Out: %s\r\n", ev.EndDate.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Total Paid: %.2f %s\r\n\r\n", ev.TotalPrice, strings.ToUpper(ev.Currency)))
	sb.WriteString("If you have any questions, feel free to contact us.\r\n")
	return []byte(sb.String())
}
