package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/apexdrive/rental-backend/internal/database"
	"github.com/apexdrive/rental-backend/internal/middleware"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	bookingRepo *database.BookingRepository
	carRepo     *database.CarRepository
	logger      *logrus.Logger
}

func NewBookingHandler(bookingRepo *database.BookingRepository, carRepo *database.CarRepository, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		logger:      logger,
	}
}

// CreateBooking records a booking directly without payment. Kept for
// storefront flows that collect payment offline.
// POST /api/v1/booking
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start date must be formatted as YYYY-MM-DD"})
		return
	}

	endDate, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date must be formatted as YYYY-MM-DD"})
		return
	}

	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date must not be before start date"})
		return
	}

	// Verify the car exists before taking a booking against it
	if _, err := h.carRepo.GetByID(req.CarID); err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch car"})
		return
	}

	exists, err := h.bookingRepo.ExistsForStay(req.CarID, req.UserID, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing bookings"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already booked this car for the selected dates"})
		return
	}

	bookingKey := models.DeriveBookingKey(req.UserID, req.CarID, startDate, endDate)
	booking := &models.Booking{
		BookingKey:     bookingKey,
		BookingCode:    models.ShortCode(bookingKey),
		CarID:          req.CarID,
		UserID:         req.UserID,
		StartDate:      startDate,
		EndDate:        endDate,
		PickupLocation: req.PickupLocation,
		TotalPrice:     req.TotalPrice,
		BookingType:    models.BookingTypeRental,
		PaidDeposit:    false,
		Status:         models.BookingStatusPending,
	}

	created, err := h.bookingRepo.CreateIfAbsent(booking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}
	if !created {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already booked this car for the selected dates"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"booking_key": booking.BookingKey,
		"car_id":      booking.CarID,
		"user_id":     booking.UserID,
	}).Info("Direct booking created")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    booking,
	})
}

// GetMyBookings retrieves all bookings for the authenticated user
// GET /api/v1/bookings
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingRepo.GetByUserID(userCtx.UserID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
	})
}

// ListBookings retrieves all bookings for the admin dashboard
// GET /api/v1/admin/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
	})
}

// GetBookingByKey retrieves a booking by its dedupe key, used by the
// storefront confirmation page after checkout redirects back.
// GET /api/v1/bookings/key/:key
func (h *BookingHandler) GetBookingByKey(c *gin.Context) {
	bookingKey := c.Param("key")

	booking, err := h.bookingRepo.GetByKey(bookingKey)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}
