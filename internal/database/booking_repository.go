package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/google/uuid"
)

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers
type scanner interface {
	Scan(dest ...interface{}) error
}

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, booking_key, booking_code, car_id, user_id,
	   start_date, end_date, start_time, end_time, pickup_location,
	   total_price, deposit_amount, booking_type, hours, paid_deposit,
	   status, created_at, updated_at`

// Create inserts a new booking row
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, booking_key, booking_code, car_id, user_id,
			start_date, end_date, start_time, end_time, pickup_location,
			total_price, deposit_amount, booking_type, hours, paid_deposit, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING created_at, updated_at
	`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.BookingKey, booking.BookingCode, booking.CarID, booking.UserID,
		booking.StartDate, booking.EndDate, booking.StartTime, booking.EndTime, booking.PickupLocation,
		booking.TotalPrice, booking.DepositAmount, booking.BookingType, booking.Hours,
		booking.PaidDeposit, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	return err
}

// CreateIfAbsent inserts a booking keyed by its booking_key. The insert is
// conditional on the unique key so concurrent webhook redeliveries collapse
// onto a single row. Returns true when a row was inserted, false when a
// booking with the same key already existed.
func (r *BookingRepository) CreateIfAbsent(booking *models.Booking) (bool, error) {
	query := `
		INSERT INTO bookings (
			id, booking_key, booking_code, car_id, user_id,
			start_date, end_date, start_time, end_time, pickup_location,
			total_price, deposit_amount, booking_type, hours, paid_deposit, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		ON CONFLICT (booking_key) DO NOTHING
	`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	result, err := r.db.Exec(
		query,
		booking.ID, booking.BookingKey, booking.BookingCode, booking.CarID, booking.UserID,
		booking.StartDate, booking.EndDate, booking.StartTime, booking.EndTime, booking.PickupLocation,
		booking.TotalPrice, booking.DepositAmount, booking.BookingType, booking.Hours,
		booking.PaidDeposit, booking.Status,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// ExistsForStay reports whether the user already has a booking for the same
// car and date range
func (r *BookingRepository) ExistsForStay(carID, userID string, start, end time.Time) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE car_id = $1
		  AND user_id = $2
		  AND start_date = $3
		  AND end_date = $4
	`

	var count int
	if err := r.db.QueryRow(query, carID, userID, start, end).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByKey retrieves a booking by its dedupe key
func (r *BookingRepository) GetByKey(bookingKey string) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_key = $1
	`

	return r.scanBooking(r.db.QueryRow(query, bookingKey))
}

// GetByUserID retrieves all bookings for a user
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// List retrieves all bookings, newest first
func (r *BookingRepository) List() ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Confirm flips a booking to confirmed status
func (r *BookingRepository) Confirm(bookingID string) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, models.BookingStatusConfirmed)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// scanBooking scans a single booking
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var startTime sql.NullString
	var endTime sql.NullString
	var hours sql.NullInt64

	err := row.Scan(
		&booking.ID, &booking.BookingKey, &booking.BookingCode, &booking.CarID, &booking.UserID,
		&booking.StartDate, &booking.EndDate, &startTime, &endTime, &booking.PickupLocation,
		&booking.TotalPrice, &booking.DepositAmount, &booking.BookingType, &hours,
		&booking.PaidDeposit, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if startTime.Valid {
		booking.StartTime = &startTime.String
	}
	if endTime.Valid {
		booking.EndTime = &endTime.String
	}
	if hours.Valid {
		h := int(hours.Int64)
		booking.Hours = &h
	}

	return booking, nil
}

// scanBookings scans multiple bookings from rows
func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}

	for rows.Next() {
		var booking models.Booking
		var startTime sql.NullString
		var endTime sql.NullString
		var hours sql.NullInt64

		err := rows.Scan(
			&booking.ID, &booking.BookingKey, &booking.BookingCode, &booking.CarID, &booking.UserID,
			&booking.StartDate, &booking.EndDate, &startTime, &endTime, &booking.PickupLocation,
			&booking.TotalPrice, &booking.DepositAmount, &booking.BookingType, &hours,
			&booking.PaidDeposit, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		if startTime.Valid {
			booking.StartTime = &startTime.String
		}
		if endTime.Valid {
			booking.EndTime = &endTime.String
		}
		if hours.Valid {
			h := int(hours.Int64)
			booking.Hours = &h
		}

		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
