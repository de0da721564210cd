package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apexdrive/rental-backend/internal/database"
	"github.com/apexdrive/rental-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBookingTest(t *testing.T, authenticated bool) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stub := &stubDB{db: db}
	handler := NewBookingHandler(
		database.NewBookingRepository(stub),
		database.NewCarRepository(stub),
		testLogger(),
	)

	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.UserContextKey, middleware.UserContext{
				UserID: testUserID,
				Email:  "driver@apexdrive.test",
				Roles:  []string{"user"},
			})
		})
	}
	router.POST("/booking", handler.CreateBooking)
	router.GET("/bookings", handler.GetMyBookings)
	router.GET("/admin/bookings", handler.ListBookings)
	router.GET("/bookings/key/:key", handler.GetBookingByKey)
	return router, mock
}

func createBookingBody() map[string]interface{} {
	return map[string]interface{}{
		"car_id":          "car-1",
		"user_id":         "user-1",
		"start_date":      "2026-09-10",
		"end_date":        "2026-09-12",
		"pickup_location": "Los Angeles",
		"total_price":     2400.0,
	}
}

func TestCreateBookingEndpoint_Success(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id = \$1`).
		WithArgs("car-1").
		WillReturnRows(availableCarRow(true))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("car-1", "user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := postJSON(router, "/booking", createBookingBody())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "user-1-car-1-2026-09-10-2026-09-12")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpoint_CarNotFound(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(carTestColumns))

	w := postJSON(router, "/booking", createBookingBody())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpoint_DuplicateStay(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id = \$1`).
		WillReturnRows(availableCarRow(true))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := postJSON(router, "/booking", createBookingBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpoint_DuplicateKeyOnInsert(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	// Concurrent submission slips past the existence check and collides on
	// the booking key instead
	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id = \$1`).
		WillReturnRows(availableCarRow(true))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := postJSON(router, "/booking", createBookingBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpoint_InvalidDates(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	body := createBookingBody()
	body["start_date"] = "2026-09-12"
	body["end_date"] = "2026-09-10"
	w := postJSON(router, "/booking", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "end date must not be before start date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpoint_MissingFields(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	w := postJSON(router, "/booking", map[string]interface{}{"car_id": "car-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMyBookings(t *testing.T) {
	router, mock := setupBookingTest(t, true)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE user_id = \$1`).
		WithArgs(testUserID.String()).
		WillReturnRows(pendingBookingRow(true, "pending"))

	req := httptest.NewRequest("GET", "/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMyBookings_Unauthenticated(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	req := httptest.NewRequest("GET", "/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookings(t *testing.T) {
	router, mock := setupBookingTest(t, true)

	now := time.Now()
	rows := sqlmock.NewRows(bookingTestColumns).
		AddRow("booking-1", "key-1", "ey-1", "car-1", "user-1",
			now, now, nil, nil, "Los Angeles",
			2400.0, 1500.0, "rental", nil, true, "pending", now, now).
		AddRow("booking-2", "key-2", "ey-2", "car-2", "user-2",
			now, now, "10:00", "14:00", "Miami",
			2000.0, 500.0, "photoshoot", int64(4), true, "confirmed", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM bookings ORDER BY created_at DESC`).
		WillReturnRows(rows)

	req := httptest.NewRequest("GET", "/admin/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking-1")
	assert.Contains(t, w.Body.String(), "booking-2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByKey(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_key = \$1`).
		WithArgs("user-1-car-1-2026-09-10-2026-09-12").
		WillReturnRows(pendingBookingRow(true, "pending"))

	req := httptest.NewRequest("GET", "/bookings/key/user-1-car-1-2026-09-10-2026-09-12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByKey_NotFound(t *testing.T) {
	router, mock := setupBookingTest(t, false)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_key = \$1`).
		WillReturnRows(sqlmock.NewRows(bookingTestColumns))

	req := httptest.NewRequest("GET", "/bookings/key/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
