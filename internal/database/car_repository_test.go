package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carRowColumns = []string{
	"id", "make", "model", "price_per_day", "price_per_hour", "location",
	"image_urls", "available", "color", "horsepower", "top_speed", "acceleration",
	"created_at", "updated_at",
}

func TestListCars(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewCarRepository(mockDB)

	t.Run("Available only", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM cars WHERE available`).
			WillReturnRows(sqlmock.NewRows(carRowColumns).AddRow(
				"car-1", "Lamborghini", "Huracan", 1200.0, 500.0, "Los Angeles",
				[]byte(`{"https://cdn.example.com/huracan.jpg"}`), true, "Verde Mantis", int64(631), int64(202), 2.9,
				now, now,
			))

		cars, err := repo.List(true)
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, "Lamborghini", cars[0].Make)
		assert.Equal(t, "Huracan", cars[0].Model)
		require.NotNil(t, cars[0].PricePerHour)
		assert.Equal(t, 500.0, *cars[0].PricePerHour)
		require.NotNil(t, cars[0].Horsepower)
		assert.Equal(t, 631, *cars[0].Horsepower)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("All cars", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM cars`).
			WillReturnRows(sqlmock.NewRows(carRowColumns).
				AddRow(
					"car-1", "Lamborghini", "Huracan", 1200.0, nil, "Los Angeles",
					[]byte(`{}`), true, nil, nil, nil, nil,
					now, now,
				).
				AddRow(
					"car-2", "Ferrari", "488 GTB", 1400.0, nil, "Miami",
					[]byte(`{}`), false, nil, nil, nil, nil,
					now, now,
				))

		cars, err := repo.List(false)
		require.NoError(t, err)
		require.Len(t, cars, 2)
		assert.False(t, cars[1].Available)
		assert.Nil(t, cars[0].PricePerHour)
		assert.Nil(t, cars[0].Color)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty fleet", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM cars`).
			WillReturnRows(sqlmock.NewRows(carRowColumns))

		cars, err := repo.List(false)
		require.NoError(t, err)
		assert.Empty(t, cars)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetCarByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewCarRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id`).
			WithArgs("car-1").
			WillReturnRows(sqlmock.NewRows(carRowColumns).AddRow(
				"car-1", "Lamborghini", "Huracan", 1200.0, nil, "Los Angeles",
				[]byte(`{"a.jpg","b.jpg"}`), true, nil, nil, nil, nil,
				now, now,
			))

		car, err := repo.GetByID("car-1")
		require.NoError(t, err)
		assert.Equal(t, "car-1", car.ID)
		assert.Equal(t, "Lamborghini Huracan", car.DisplayName())
		assert.Equal(t, models.StringArray{"a.jpg", "b.jpg"}, car.ImageURLs)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		car, err := repo.GetByID("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, car)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateCar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewCarRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		car := &models.Car{
			Make:        "Porsche",
			Model:       "911 Turbo S",
			PricePerDay: 950,
			Location:    "Los Angeles",
			ImageURLs:   models.StringArray{"911.jpg"},
			Available:   true,
		}

		mock.ExpectQuery(`INSERT INTO cars`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		err := repo.Create(car)
		require.NoError(t, err)
		assert.NotEmpty(t, car.ID)
		assert.Equal(t, now, car.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		car := &models.Car{Make: "Porsche", Model: "911", PricePerDay: 950, Location: "LA"}

		mock.ExpectQuery(`INSERT INTO cars`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(car)
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteCar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := &mockDatabase{db: db}
	repo := NewCarRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM cars`).
			WithArgs("car-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete("car-1")
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM cars`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete("missing")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "car not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
