package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/apexdrive/rental-backend/internal/database"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/apexdrive/rental-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v78"
)

// maxWebhookBodyBytes caps webhook payload reads
const maxWebhookBodyBytes = int64(65536)

// WebhookVerifier abstracts webhook signature verification
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

// DepositNotifier alerts the admin when a deposit clears
type DepositNotifier interface {
	NotifyDepositPaid(booking *models.Booking) error
}

type WebhookHandler struct {
	bookingRepo *database.BookingRepository
	verifier    WebhookVerifier
	notifier    DepositNotifier
	logger      *logrus.Logger
}

func NewWebhookHandler(bookingRepo *database.BookingRepository, verifier WebhookVerifier, notifier DepositNotifier, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		bookingRepo: bookingRepo,
		verifier:    verifier,
		notifier:    notifier,
		logger:      logger,
	}
}

// HandleStripeWebhook processes payment events from Stripe. Completed
// checkout sessions are routed on their metadata type: deposit sessions
// create the booking record, final sessions confirm it.
// POST /api/v1/webhook/stripe
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	session, ok := h.verifiedSession(c)
	if !ok {
		return
	}
	if session == nil {
		// Event type we don't act on; acknowledge so Stripe stops retrying
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	switch session.Metadata["type"] {
	case services.PaymentTypeDeposit:
		h.processDeposit(c, session)
	case services.PaymentTypeFinal:
		h.processFinal(c, session)
	default:
		h.logger.WithField("session_id", session.ID).Warn("Checkout session completed with unknown payment type")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment type"})
	}
}

// HandleLegacyStripeWebhook processes events from the storefront's original
// webhook endpoint, whose checkout sessions carry no type tag. Every
// completed session on this endpoint is a deposit payment.
// POST /api/v1/webhook/stripe/legacy
func (h *WebhookHandler) HandleLegacyStripeWebhook(c *gin.Context) {
	session, ok := h.verifiedSession(c)
	if !ok {
		return
	}
	if session == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	h.processDeposit(c, session)
}

// verifiedSession reads and signature-checks the webhook payload. It returns
// (nil, true) for authentic events the handler does not act on, and
// (nil, false) after writing an error response.
func (h *WebhookHandler) verifiedSession(c *gin.Context) (*stripe.CheckoutSession, bool) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return nil, false
	}

	event, err := h.verifier.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.WithError(err).Warn("Webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return nil, false
	}

	if event.Type != "checkout.session.completed" {
		return nil, true
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		h.logger.WithError(err).Error("Failed to parse checkout session from webhook event")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
		return nil, false
	}

	return &session, true
}

// processDeposit writes the booking carried in the session metadata. The
// insert is keyed on booking_key, so webhook redeliveries and duplicate
// sessions for the same stay collapse onto the row already present.
func (h *WebhookHandler) processDeposit(c *gin.Context, session *stripe.CheckoutSession) {
	meta := session.Metadata

	if meta["user_id"] == "" || meta["car_id"] == "" || meta["total_price"] == "" {
		h.logger.WithField("session_id", session.ID).Warn("Deposit session missing required booking metadata")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required booking metadata"})
		return
	}

	startDate, err := time.Parse(models.DateLayout, meta["start_date"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date in session metadata"})
		return
	}

	endDate, err := time.Parse(models.DateLayout, meta["end_date"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date in session metadata"})
		return
	}

	bookingKey := meta["booking_key"]
	if bookingKey == "" {
		bookingKey = models.GenerateBookingKey()
	}

	bookingType := models.BookingType(meta["booking_type"])
	if bookingType != models.BookingTypeRental && bookingType != models.BookingTypePhotoshoot {
		bookingType = models.BookingTypeRental
	}

	totalPrice, _ := strconv.ParseFloat(meta["total_price"], 64)
	depositAmount, _ := strconv.ParseFloat(meta["deposit_amount"], 64)
	if depositAmount == 0 && session.AmountTotal > 0 {
		depositAmount = float64(session.AmountTotal) / 100
	}

	booking := &models.Booking{
		BookingKey:     bookingKey,
		BookingCode:    models.ShortCode(bookingKey),
		CarID:          meta["car_id"],
		UserID:         meta["user_id"],
		StartDate:      startDate,
		EndDate:        endDate,
		PickupLocation: meta["location"],
		TotalPrice:     totalPrice,
		DepositAmount:  depositAmount,
		BookingType:    bookingType,
		PaidDeposit:    true,
		Status:         models.BookingStatusPending,
	}

	if startTime := meta["start_time"]; startTime != "" {
		booking.StartTime = &startTime
	}
	if endTime := meta["end_time"]; endTime != "" {
		booking.EndTime = &endTime
	}
	if hoursStr := meta["hours"]; hoursStr != "" {
		if hours, err := strconv.Atoi(hoursStr); err == nil && hours > 0 {
			booking.Hours = &hours
		}
	}

	created, err := h.bookingRepo.CreateIfAbsent(booking)
	if err != nil {
		h.logger.WithError(err).WithField("booking_key", booking.BookingKey).Error("Failed to record deposit booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record booking"})
		return
	}

	if !created {
		h.logger.WithField("booking_key", booking.BookingKey).Info("Deposit webhook redelivered, booking already recorded")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"booking_key":  booking.BookingKey,
		"booking_code": booking.BookingCode,
		"session_id":   session.ID,
	}).Info("Deposit paid, booking recorded")

	// Admin notification is best effort. The booking is already stored and
	// returning an error here would make Stripe redeliver the event.
	if err := h.notifier.NotifyDepositPaid(booking); err != nil {
		h.logger.WithError(err).WithField("booking_key", booking.BookingKey).Error("Failed to send deposit alert")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// processFinal confirms the booking referenced by the session metadata
func (h *WebhookHandler) processFinal(c *gin.Context, session *stripe.CheckoutSession) {
	bookingID := session.Metadata["booking_id"]
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing booking_id in session metadata"})
		return
	}

	if err := h.bookingRepo.Confirm(bookingID); err != nil {
		if err.Error() == "booking not found" {
			// Acknowledge so Stripe does not retry an unresolvable event
			h.logger.WithField("booking_id", bookingID).Warn("Final payment received for unknown booking")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Failed to confirm booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm booking"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"session_id": session.ID,
	}).Info("Final payment received, booking confirmed")

	c.JSON(http.StatusOK, gin.H{"received": true})
}
