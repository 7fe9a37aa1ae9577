package appointment

import (
	"fmt"
	"html"
	"strings"

	"github.com/prabhav0001/DeeCee2-sub000/internal/notify"
)

// ServiceLabel renders a service identifier for display:
// "bridal-consultation" -> "Bridal Consultation".
func ServiceLabel(service string) string {
	words := strings.Split(service, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ConfirmationSummary is the human-readable artifact returned to the caller
// after a successful commit.
func ConfirmationSummary(a *Appointment) string {
	return fmt.Sprintf("%s at our %s store on %s at %s. Booking reference: %s.",
		ServiceLabel(a.Service), a.Location, a.Date, a.Time, a.ID)
}

// ConfirmationMessage builds the request handed to the notification
// dispatcher after a commit.
func ConfirmationMessage(a *Appointment) notify.Request {
	summary := ConfirmationSummary(a)

	text := fmt.Sprintf(
		"Hi %s,\n\nYour appointment is booked: %s\n\nNeed to make changes? Reply to this email or call your store.\n",
		a.Name, summary,
	)

	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your appointment is booked: <strong>%s</strong></p><p>Need to make changes? Reply to this email or call your store.</p>`,
		html.EscapeString(a.Name), html.EscapeString(summary),
	)

	return notify.Request{
		To:      a.Email,
		Subject: fmt.Sprintf("Appointment booked: %s on %s", ServiceLabel(a.Service), a.Date),
		HTML:    htmlBody,
		Text:    text,
	}
}
