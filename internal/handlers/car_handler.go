package handlers

import (
	"database/sql"
	"net/http"

	"github.com/apexdrive/rental-backend/internal/database"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/gin-gonic/gin"
)

type CarHandler struct {
	carRepo *database.CarRepository
}

func NewCarHandler(carRepo *database.CarRepository) *CarHandler {
	return &CarHandler{
		carRepo: carRepo,
	}
}

// ListCars retrieves the public fleet listing
// GET /api/v1/cars
func (h *CarHandler) ListCars(c *gin.Context) {
	// Public listing only shows cars open for booking; admins pass all=true
	onlyAvailable := c.Query("all") != "true"

	cars, err := h.carRepo.List(onlyAvailable)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cars"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cars,
	})
}

// GetCarByID retrieves a specific car by ID
// GET /api/v1/cars/:id
func (h *CarHandler) GetCarByID(c *gin.Context) {
	carID := c.Param("id")

	car, err := h.carRepo.GetByID(carID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch car"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    car,
	})
}

// CreateCar adds a new car to the fleet
// POST /api/v1/admin/cars
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req models.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// New listings default to available unless the request says otherwise
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	car := &models.Car{
		Make:         req.Make,
		Model:        req.Model,
		PricePerDay:  req.PricePerDay,
		PricePerHour: req.PricePerHour,
		Location:     req.Location,
		ImageURLs:    models.StringArray(req.ImageURLs),
		Available:    available,
		Color:        req.Color,
		Horsepower:   req.Horsepower,
		TopSpeed:     req.TopSpeed,
		Acceleration: req.Acceleration,
	}

	if err := h.carRepo.Create(car); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create car"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    car,
	})
}

// UpdateCar updates an existing car listing
// PUT /api/v1/admin/cars/:id
func (h *CarHandler) UpdateCar(c *gin.Context) {
	carID := c.Param("id")

	var req models.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	car, err := h.carRepo.GetByID(carID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch car"})
		return
	}

	// Apply only the fields present in the request
	if req.Make != nil {
		car.Make = *req.Make
	}
	if req.Model != nil {
		car.Model = *req.Model
	}
	if req.PricePerDay != nil {
		car.PricePerDay = *req.PricePerDay
	}
	if req.PricePerHour != nil {
		car.PricePerHour = req.PricePerHour
	}
	if req.Location != nil {
		car.Location = *req.Location
	}
	if req.ImageURLs != nil {
		car.ImageURLs = models.StringArray(req.ImageURLs)
	}
	if req.Available != nil {
		car.Available = *req.Available
	}
	if req.Color != nil {
		car.Color = req.Color
	}
	if req.Horsepower != nil {
		car.Horsepower = req.Horsepower
	}
	if req.TopSpeed != nil {
		car.TopSpeed = req.TopSpeed
	}
	if req.Acceleration != nil {
		car.Acceleration = req.Acceleration
	}

	if err := h.carRepo.Update(car); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    car,
	})
}

// DeleteCar removes a car from the fleet
// DELETE /api/v1/admin/cars/:id
func (h *CarHandler) DeleteCar(c *gin.Context) {
	carID := c.Param("id")

	if err := h.carRepo.Delete(carID); err != nil {
		if err.Error() == "car not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete car"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Car deleted",
	})
}
