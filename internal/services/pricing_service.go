package services

import (
	"math"
	"time"

	"github.com/apexdrive/rental-backend/internal/config"
	"github.com/apexdrive/rental-backend/internal/models"
)

// PricingService computes booking totals and deposit amounts server-side.
// Clients send a display price with their requests, but the charged amounts
// always come from here.
type PricingService struct {
	rentalDeposit     float64
	photoshootDeposit float64
	defaultHourlyRate float64
}

// NewPricingService creates a new PricingService from the booking policy
func NewPricingService(cfg config.BookingConfig) *PricingService {
	return &PricingService{
		rentalDeposit:     cfg.RentalDeposit,
		photoshootDeposit: cfg.PhotoshootDeposit,
		defaultHourlyRate: cfg.DefaultHourlyRate,
	}
}

// RentalDays returns the billable days for a rental: the date span rounded
// up, with a minimum of one day
func (s *PricingService) RentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours = -hours
	}

	days := int(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// RentalTotal computes the total price for a rental booking
func (s *PricingService) RentalTotal(car *models.Car, start, end time.Time) float64 {
	return float64(s.RentalDays(start, end)) * car.PricePerDay
}

// PhotoshootTotal computes the total price for a photoshoot booking. Cars
// without an hourly rate fall back to the default.
func (s *PricingService) PhotoshootTotal(car *models.Car, hours int) float64 {
	rate := s.defaultHourlyRate
	if car.PricePerHour != nil && *car.PricePerHour > 0 {
		rate = *car.PricePerHour
	}
	return float64(hours) * rate
}

// Total computes the charged total for a deposit checkout request against
// the car's stored rates
func (s *PricingService) Total(car *models.Car, bookingType models.BookingType, start, end time.Time, hours *int) float64 {
	if bookingType == models.BookingTypePhotoshoot {
		h := 1
		if hours != nil {
			h = *hours
		}
		return s.PhotoshootTotal(car, h)
	}
	return s.RentalTotal(car, start, end)
}

// Deposit returns the flat deposit amount for a booking type. Deposits are
// policy, not prorated from the total.
func (s *PricingService) Deposit(bookingType models.BookingType) float64 {
	if bookingType == models.BookingTypePhotoshoot {
		return s.photoshootDeposit
	}
	return s.rentalDeposit
}
