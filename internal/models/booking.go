package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for booking dates
const DateLayout = "2006-01-02"

// BookingType represents the kind of booking being requested
type BookingType string

const (
	BookingTypeRental     BookingType = "rental"
	BookingTypePhotoshoot BookingType = "photoshoot"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Booking represents a rental or photoshoot reservation for a car
type Booking struct {
	ID             string        `json:"id" db:"id"`
	BookingKey     string        `json:"booking_key" db:"booking_key"`
	BookingCode    string        `json:"booking_code" db:"booking_code"`
	CarID          string        `json:"car_id" db:"car_id"`
	UserID         string        `json:"user_id" db:"user_id"`
	StartDate      time.Time     `json:"start_date" db:"start_date"`
	EndDate        time.Time     `json:"end_date" db:"end_date"`
	StartTime      *string       `json:"start_time,omitempty" db:"start_time"`
	EndTime        *string       `json:"end_time,omitempty" db:"end_time"`
	PickupLocation string        `json:"pickup_location" db:"pickup_location"`
	TotalPrice     float64       `json:"total_price" db:"total_price"`
	DepositAmount  float64       `json:"deposit_amount" db:"deposit_amount"`
	BookingType    BookingType   `json:"booking_type" db:"booking_type"`
	Hours          *int          `json:"hours,omitempty" db:"hours"`
	PaidDeposit    bool          `json:"paid_deposit" db:"paid_deposit"`
	Status         BookingStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateBookingRequest represents the direct booking submission body
type CreateBookingRequest struct {
	CarID          string  `json:"car_id" binding:"required"`
	UserID         string  `json:"user_id" binding:"required"`
	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        string  `json:"end_date" binding:"required"`
	PickupLocation string  `json:"pickup_location" binding:"required"`
	TotalPrice     float64 `json:"total_price" binding:"required,gt=0"`
}

// DepositCheckoutRequest represents the deposit checkout submission body.
// Field names match the storefront's JSON payload.
type DepositCheckoutRequest struct {
	CarID       string      `json:"carId" binding:"required"`
	StartDate   string      `json:"startDate" binding:"required"`
	EndDate     string      `json:"endDate" binding:"required"`
	StartTime   string      `json:"startTime,omitempty"`
	EndTime     string      `json:"endTime,omitempty"`
	Location    string      `json:"location" binding:"required"`
	TotalPrice  float64     `json:"totalPrice" binding:"required,gt=0"`
	BookingType BookingType `json:"bookingType" binding:"required"`
	Hours       *int        `json:"hours,omitempty"`
}

// Validate checks invariants the binding tags cannot express
func (r *DepositCheckoutRequest) Validate() error {
	if r.BookingType != BookingTypeRental && r.BookingType != BookingTypePhotoshoot {
		return fmt.Errorf("invalid booking type: %s", r.BookingType)
	}

	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return errors.New("start date must be formatted as YYYY-MM-DD")
	}

	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return errors.New("end date must be formatted as YYYY-MM-DD")
	}

	if end.Before(start) {
		return errors.New("end date must not be before start date")
	}

	if r.BookingType == BookingTypePhotoshoot && (r.Hours == nil || *r.Hours <= 0) {
		return errors.New("photoshoot bookings require a positive number of hours")
	}

	return nil
}

// DeriveBookingKey builds the deterministic dedupe key for a booking attempt.
// The same user, car and date range always produce the same key, so duplicate
// submissions and webhook redeliveries collapse onto one row.
func DeriveBookingKey(userID, carID string, start, end time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s", userID, carID, start.Format(DateLayout), end.Format(DateLayout))
}

// GenerateBookingKey creates a random 12-character key for events that arrive
// without one.
func GenerateBookingKey() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}

// ShortCode derives the short booking code admins reference in SMS replies
func ShortCode(bookingKey string) string {
	if len(bookingKey) < 4 {
		return strings.ToLower(bookingKey)
	}
	return strings.ToLower(bookingKey[len(bookingKey)-4:])
}
