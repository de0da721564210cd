package database

import (
	"database/sql"
	"fmt"

	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/google/uuid"
)

// CarRepository handles database operations for the cars table
type CarRepository struct {
	db DB
}

// NewCarRepository creates a new CarRepository
func NewCarRepository(db DB) *CarRepository {
	return &CarRepository{db: db}
}

const carColumns = `id, make, model, price_per_day, price_per_hour, location,
	   image_urls, available, color, horsepower, top_speed, acceleration,
	   created_at, updated_at`

// List retrieves all cars in the fleet. When onlyAvailable is true, cars
// marked unavailable are filtered out.
func (r *CarRepository) List(onlyAvailable bool) ([]models.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
	`
	if onlyAvailable {
		query += ` WHERE available = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanCars(rows)
}

// GetByID retrieves a car by ID
func (r *CarRepository) GetByID(carID string) (*models.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE id = $1
	`

	return r.scanCar(r.db.QueryRow(query, carID))
}

// Create inserts a new car listing
func (r *CarRepository) Create(car *models.Car) error {
	query := `
		INSERT INTO cars (
			id, make, model, price_per_day, price_per_hour, location,
			image_urls, available, color, horsepower, top_speed, acceleration
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	if car.ID == "" {
		car.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		car.ID, car.Make, car.Model, car.PricePerDay, car.PricePerHour, car.Location,
		car.ImageURLs, car.Available, car.Color, car.Horsepower, car.TopSpeed, car.Acceleration,
	).Scan(&car.CreatedAt, &car.UpdatedAt)

	return err
}

// Update updates a car listing
func (r *CarRepository) Update(car *models.Car) error {
	query := `
		UPDATE cars
		SET make = $2, model = $3, price_per_day = $4, price_per_hour = $5,
			location = $6, image_urls = $7, available = $8, color = $9,
			horsepower = $10, top_speed = $11, acceleration = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		car.ID, car.Make, car.Model, car.PricePerDay, car.PricePerHour,
		car.Location, car.ImageURLs, car.Available, car.Color,
		car.Horsepower, car.TopSpeed, car.Acceleration,
	).Scan(&car.UpdatedAt)

	return err
}

// Delete removes a car from the fleet. Booking rows referencing the car are
// left untouched.
func (r *CarRepository) Delete(carID string) error {
	query := `DELETE FROM cars WHERE id = $1`

	result, err := r.db.Exec(query, carID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("car not found")
	}

	return nil
}

// scanCar scans a single car
func (r *CarRepository) scanCar(row scanner) (*models.Car, error) {
	car := &models.Car{}
	var pricePerHour sql.NullFloat64
	var color sql.NullString
	var horsepower sql.NullInt64
	var topSpeed sql.NullInt64
	var acceleration sql.NullFloat64

	err := row.Scan(
		&car.ID, &car.Make, &car.Model, &car.PricePerDay, &pricePerHour, &car.Location,
		&car.ImageURLs, &car.Available, &color, &horsepower, &topSpeed, &acceleration,
		&car.CreatedAt, &car.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if pricePerHour.Valid {
		car.PricePerHour = &pricePerHour.Float64
	}
	if color.Valid {
		car.Color = &color.String
	}
	if horsepower.Valid {
		hp := int(horsepower.Int64)
		car.Horsepower = &hp
	}
	if topSpeed.Valid {
		ts := int(topSpeed.Int64)
		car.TopSpeed = &ts
	}
	if acceleration.Valid {
		car.Acceleration = &acceleration.Float64
	}

	return car, nil
}

// scanCars scans multiple cars from rows
func (r *CarRepository) scanCars(rows *sql.Rows) ([]models.Car, error) {
	cars := []models.Car{}

	for rows.Next() {
		var car models.Car
		var pricePerHour sql.NullFloat64
		var color sql.NullString
		var horsepower sql.NullInt64
		var topSpeed sql.NullInt64
		var acceleration sql.NullFloat64

		err := rows.Scan(
			&car.ID, &car.Make, &car.Model, &car.PricePerDay, &pricePerHour, &car.Location,
			&car.ImageURLs, &car.Available, &color, &horsepower, &topSpeed, &acceleration,
			&car.CreatedAt, &car.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		if pricePerHour.Valid {
			car.PricePerHour = &pricePerHour.Float64
		}
		if color.Valid {
			car.Color = &color.String
		}
		if horsepower.Valid {
			hp := int(horsepower.Int64)
			car.Horsepower = &hp
		}
		if topSpeed.Valid {
			ts := int(topSpeed.Int64)
			car.TopSpeed = &ts
		}
		if acceleration.Valid {
			car.Acceleration = &acceleration.Float64
		}

		cars = append(cars, car)
	}

	return cars, rows.Err()
}
