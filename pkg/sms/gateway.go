package sms

import (
	"fmt"
	"strings"

	"github.com/apexdrive/rental-backend/internal/models"
)

// Gateway abstracts an outbound SMS provider
type Gateway interface {
	// Send delivers a message to a single phone number and returns the
	// provider's message identifier
	Send(to string, body string) (string, error)

	// GetName returns the name of this SMS gateway
	GetName() string
}

// BookingAlertMessage builds the admin notification sent when a deposit is
// paid. The short code is embedded so the admin can approve or decline the
// booking by replying YES<code> or NO<code>.
func BookingAlertMessage(bookingType models.BookingType, startDate, endDate, location, shortCode string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("New %s booking deposit paid.\n", bookingType))
	b.WriteString(fmt.Sprintf("Dates: %s to %s\n", startDate, endDate))
	if location != "" {
		b.WriteString(fmt.Sprintf("Location: %s\n", location))
	}
	b.WriteString(fmt.Sprintf("Reply YES%s to approve or NO%s to decline.", shortCode, shortCode))

	return b.String()
}
