package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vlasovdm/resell-tracker/internal/api/middleware"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/service"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

type RentalHandler struct {
	rentalService service.RentalService
}

func NewRentalHandler(rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

func (h *RentalHandler) CreateCar(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input models.CarCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	car, err := h.rentalService.CreateCar(c.Request.Context(), userID, &input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, car)
}

func (h *RentalHandler) ListCars(c *gin.Context) {
	userID := middleware.GetUserID(c)

	cars, err := h.rentalService.ListCars(c.Request.Context(), userID, timeutil.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cars": cars})
}

func (h *RentalHandler) DeleteCar(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car ID"})
		return
	}

	err = h.rentalService.DeleteCar(c.Request.Context(), userID, id)
	switch {
	case errors.Is(err, service.ErrCarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "машина удалена"})
}

func (h *RentalHandler) CreateRental(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input models.RentalCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rental, err := h.rentalService.CreateRental(c.Request.Context(), userID, &input, timeutil.Now())
	switch {
	case errors.Is(err, service.ErrCarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrBadEndTime):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"rental": rental,
		"income": rental.Income(),
	})
}

// ListActive аренды, которые еще не закончились
func (h *RentalHandler) ListActive(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rentals, err := h.rentalService.ListActive(c.Request.Context(), userID, timeutil.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rentals": rentals})
}

func (h *RentalHandler) UpdateRental(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rental ID"})
		return
	}

	var input models.RentalUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rental, err := h.rentalService.UpdateRental(c.Request.Context(), userID, id, &input)
	switch {
	case errors.Is(err, service.ErrRentalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rental)
}
