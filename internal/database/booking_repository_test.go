package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "booking_key", "booking_code", "car_id", "user_id",
	"start_date", "end_date", "start_time", "end_time", "pickup_location",
	"total_price", "deposit_amount", "booking_type", "hours", "paid_deposit",
	"status", "created_at", "updated_at",
}

func testBooking() *models.Booking {
	start, _ := time.Parse(models.DateLayout, "2026-09-10")
	end, _ := time.Parse(models.DateLayout, "2026-09-12")

	key := models.DeriveBookingKey("user-1", "car-1", start, end)
	return &models.Booking{
		ID:             uuid.New().String(),
		BookingKey:     key,
		BookingCode:    models.ShortCode(key),
		CarID:          "car-1",
		UserID:         "user-1",
		StartDate:      start,
		EndDate:        end,
		PickupLocation: "Los Angeles",
		TotalPrice:     2400,
		DepositAmount:  1500,
		BookingType:    models.BookingTypeRental,
		PaidDeposit:    true,
		Status:         models.BookingStatusPending,
	}
}

func TestCreateBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		booking := testBooking()
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.Equal(t, now, booking.CreatedAt)
		assert.Equal(t, now, booking.UpdatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Generates ID when missing", func(t *testing.T) {
		booking := testBooking()
		booking.ID = ""
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.NotEmpty(t, booking.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		booking := testBooking()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(booking)
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateBookingIfAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Inserts new booking", func(t *testing.T) {
		booking := testBooking()

		mock.ExpectExec(`INSERT INTO bookings`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.CreateIfAbsent(booking)
		require.NoError(t, err)
		assert.True(t, created)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate key is a no-op", func(t *testing.T) {
		booking := testBooking()

		// ON CONFLICT DO NOTHING reports zero rows affected
		mock.ExpectExec(`INSERT INTO bookings`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.CreateIfAbsent(booking)
		require.NoError(t, err)
		assert.False(t, created)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		booking := testBooking()

		mock.ExpectExec(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		created, err := repo.CreateIfAbsent(booking)
		assert.Error(t, err)
		assert.False(t, created)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExistsForStay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	start, _ := time.Parse(models.DateLayout, "2026-09-10")
	end, _ := time.Parse(models.DateLayout, "2026-09-12")

	t.Run("Booking exists", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("car-1", "user-1", start, end).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsForStay("car-1", "user-1", start, end)
		require.NoError(t, err)
		assert.True(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No booking", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs("car-1", "user-1", start, end).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsForStay("car-1", "user-1", start, end)
		require.NoError(t, err)
		assert.False(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingByKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		want := testBooking()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_key`).
			WithArgs(want.BookingKey).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				want.ID, want.BookingKey, want.BookingCode, want.CarID, want.UserID,
				want.StartDate, want.EndDate, nil, nil, want.PickupLocation,
				want.TotalPrice, want.DepositAmount, string(want.BookingType), nil, want.PaidDeposit,
				string(want.Status), now, now,
			))

		booking, err := repo.GetByKey(want.BookingKey)
		require.NoError(t, err)
		assert.Equal(t, want.BookingKey, booking.BookingKey)
		assert.Equal(t, want.BookingCode, booking.BookingCode)
		assert.True(t, booking.PaidDeposit)
		assert.Nil(t, booking.StartTime)
		assert.Nil(t, booking.Hours)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_key`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.GetByKey("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, booking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nullable fields populated", func(t *testing.T) {
		want := testBooking()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_key`).
			WithArgs(want.BookingKey).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				want.ID, want.BookingKey, want.BookingCode, want.CarID, want.UserID,
				want.StartDate, want.EndDate, "10:00", "14:00", want.PickupLocation,
				want.TotalPrice, want.DepositAmount, string(models.BookingTypePhotoshoot), int64(4), want.PaidDeposit,
				string(want.Status), now, now,
			))

		booking, err := repo.GetByKey(want.BookingKey)
		require.NoError(t, err)
		require.NotNil(t, booking.StartTime)
		assert.Equal(t, "10:00", *booking.StartTime)
		require.NotNil(t, booking.EndTime)
		assert.Equal(t, "14:00", *booking.EndTime)
		require.NotNil(t, booking.Hours)
		assert.Equal(t, 4, *booking.Hours)
		assert.Equal(t, models.BookingTypePhotoshoot, booking.BookingType)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingsByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		want := testBooking()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE user_id`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				want.ID, want.BookingKey, want.BookingCode, want.CarID, want.UserID,
				want.StartDate, want.EndDate, nil, nil, want.PickupLocation,
				want.TotalPrice, want.DepositAmount, string(want.BookingType), nil, want.PaidDeposit,
				string(want.Status), now, now,
			))

		bookings, err := repo.GetByUserID("user-1")
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, want.BookingKey, bookings[0].BookingKey)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No bookings", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE user_id`).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		bookings, err := repo.GetByUserID("user-2")
		require.NoError(t, err)
		assert.Empty(t, bookings)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConfirmBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Confirm("booking-1")
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Confirm("missing")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "booking not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Confirm("booking-1")
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// Mock database implementation for testing
type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Get not implemented in mock")
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Select not implemented in mock")
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}
