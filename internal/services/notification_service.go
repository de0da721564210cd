package services

import (
	"fmt"

	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/apexdrive/rental-backend/pkg/sms"
	"github.com/sirupsen/logrus"
)

// NotificationService sends operational alerts to the fleet admin
type NotificationService struct {
	gateway     sms.Gateway
	adminNumber string
	logger      *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(gateway sms.Gateway, adminNumber string, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		gateway:     gateway,
		adminNumber: adminNumber,
		logger:      logger,
	}
}

// NotifyDepositPaid alerts the admin that a booking deposit cleared and asks
// for an approve/decline reply keyed by the booking's short code
func (n *NotificationService) NotifyDepositPaid(booking *models.Booking) error {
	if n.adminNumber == "" {
		return fmt.Errorf("admin phone number not configured")
	}

	body := sms.BookingAlertMessage(
		booking.BookingType,
		booking.StartDate.Format(models.DateLayout),
		booking.EndDate.Format(models.DateLayout),
		booking.PickupLocation,
		booking.BookingCode,
	)

	messageID, err := n.gateway.Send(n.adminNumber, body)
	if err != nil {
		return fmt.Errorf("failed to send booking alert: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"gateway":      n.gateway.GetName(),
		"message_id":   messageID,
		"booking_key":  booking.BookingKey,
		"booking_code": booking.BookingCode,
	}).Info("Deposit alert sent to admin")

	return nil
}
