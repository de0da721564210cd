package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/apexdrive/rental-backend/internal/database"
	"github.com/apexdrive/rental-backend/internal/middleware"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/apexdrive/rental-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PaymentGateway abstracts the hosted checkout provider
type PaymentGateway interface {
	CreateDepositCheckout(p *services.DepositCheckoutParams) (string, error)
	CreateFinalCheckout(bookingID string, amount float64, description string) (string, error)
}

type CheckoutHandler struct {
	bookingRepo *database.BookingRepository
	carRepo     *database.CarRepository
	pricing     *services.PricingService
	gateway     PaymentGateway
	logger      *logrus.Logger
}

func NewCheckoutHandler(bookingRepo *database.BookingRepository, carRepo *database.CarRepository, pricing *services.PricingService, gateway PaymentGateway, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		pricing:     pricing,
		gateway:     gateway,
		logger:      logger,
	}
}

// DepositCheckout starts the deposit payment flow for a booking and returns
// the hosted checkout URL. The booking row itself is only written when the
// payment webhook confirms the deposit.
// POST /api/v1/checkout/deposit
func (h *CheckoutHandler) DepositCheckout(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.DepositCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, _ := time.Parse(models.DateLayout, req.StartDate)
	endDate, _ := time.Parse(models.DateLayout, req.EndDate)

	car, err := h.carRepo.GetByID(req.CarID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch car"})
		return
	}

	if !car.Available {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Car is not available for booking"})
		return
	}

	exists, err = h.bookingRepo.ExistsForStay(req.CarID, userCtx.UserID.String(), startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing bookings"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already booked this car for the selected dates"})
		return
	}

	// Price and deposit are recomputed from the listing; the client's figure
	// is advisory only
	totalPrice := h.pricing.Total(car, req.BookingType, startDate, endDate, req.Hours)
	if req.TotalPrice != totalPrice {
		h.logger.WithFields(logrus.Fields{
			"car_id":       req.CarID,
			"client_price": req.TotalPrice,
			"server_price": totalPrice,
		}).Warn("Client-submitted price does not match computed price")
	}
	depositAmount := h.pricing.Deposit(req.BookingType)

	bookingKey := models.DeriveBookingKey(userCtx.UserID.String(), req.CarID, startDate, endDate)

	url, err := h.gateway.CreateDepositCheckout(&services.DepositCheckoutParams{
		BookingKey:     bookingKey,
		UserID:         userCtx.UserID.String(),
		UserEmail:      userCtx.Email,
		CarID:          car.ID,
		CarName:        car.DisplayName(),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		PickupLocation: req.Location,
		TotalPrice:     totalPrice,
		DepositAmount:  depositAmount,
		BookingType:    req.BookingType,
		Hours:          req.Hours,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to create deposit checkout session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}

// FinalCheckoutRequest represents the admin request to collect the balance
type FinalCheckoutRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// FinalCheckout starts the remaining-balance payment flow for a booking
// whose deposit has cleared.
// POST /api/v1/admin/checkout/final
func (h *CheckoutHandler) FinalCheckout(c *gin.Context) {
	var req FinalCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		return
	}

	if !booking.PaidDeposit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deposit has not been paid for this booking"})
		return
	}

	if booking.Status == models.BookingStatusConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is already confirmed"})
		return
	}

	balance := booking.TotalPrice - booking.DepositAmount
	if balance <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No outstanding balance for this booking"})
		return
	}

	description := fmt.Sprintf("Balance for %s booking %s (%s to %s)",
		booking.BookingType, booking.BookingCode,
		booking.StartDate.Format(models.DateLayout), booking.EndDate.Format(models.DateLayout))

	url, err := h.gateway.CreateFinalCheckout(booking.ID, balance, description)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create final checkout session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}
