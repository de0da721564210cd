package models

import (
	"time"
)

// Car represents a vehicle in the rental fleet
type Car struct {
	ID           string      `json:"id" db:"id"`
	Make         string      `json:"make" db:"make"`
	Model        string      `json:"model" db:"model"`
	PricePerDay  float64     `json:"price_per_day" db:"price_per_day"`
	PricePerHour *float64    `json:"price_per_hour,omitempty" db:"price_per_hour"`
	Location     string      `json:"location" db:"location"`
	ImageURLs    StringArray `json:"image_urls" db:"image_urls"`
	Available    bool        `json:"available" db:"available"`
	Color        *string     `json:"color,omitempty" db:"color"`
	Horsepower   *int        `json:"horsepower,omitempty" db:"horsepower"`
	TopSpeed     *int        `json:"top_speed,omitempty" db:"top_speed"`
	Acceleration *float64    `json:"acceleration,omitempty" db:"acceleration"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the human-readable "Make Model" name of the car
func (c *Car) DisplayName() string {
	return c.Make + " " + c.Model
}

// CreateCarRequest represents the request to add a car to the fleet
type CreateCarRequest struct {
	Make         string   `json:"make" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	PricePerDay  float64  `json:"price_per_day" binding:"required,gt=0"`
	PricePerHour *float64 `json:"price_per_hour,omitempty"`
	Location     string   `json:"location" binding:"required"`
	ImageURLs    []string `json:"image_urls,omitempty"`
	Available    *bool    `json:"available,omitempty"`
	Color        *string  `json:"color,omitempty"`
	Horsepower   *int     `json:"horsepower,omitempty"`
	TopSpeed     *int     `json:"top_speed,omitempty"`
	Acceleration *float64 `json:"acceleration,omitempty"`
}

// UpdateCarRequest represents the request to update a car listing
type UpdateCarRequest struct {
	Make         *string  `json:"make,omitempty"`
	Model        *string  `json:"model,omitempty"`
	PricePerDay  *float64 `json:"price_per_day,omitempty"`
	PricePerHour *float64 `json:"price_per_hour,omitempty"`
	Location     *string  `json:"location,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`
	Available    *bool    `json:"available,omitempty"`
	Color        *string  `json:"color,omitempty"`
	Horsepower   *int     `json:"horsepower,omitempty"`
	TopSpeed     *int     `json:"top_speed,omitempty"`
	Acceleration *float64 `json:"acceleration,omitempty"`
}
