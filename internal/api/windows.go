package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
	"concessions/internal/stock"
)

type windowRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (s *Server) listWindows(c *gin.Context) {
	standID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, standID).Error; err != nil {
		writeError(c, standNotFoundOr(err, standID))
		return
	}

	var windows []models.Window
	if err := s.db.Where("stand_id = ?", standID).Find(&windows).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}

func (s *Server) createWindow(c *gin.Context) {
	standID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, standID).Error; err != nil {
		writeError(c, standNotFoundOr(err, standID))
		return
	}

	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window := models.Window{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		StandID:     standID,
	}
	if req.IsActive != nil {
		window.IsActive = *req.IsActive
	}

	if err := s.db.Create(&window).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, window)
}

func (s *Server) updateWindow(c *gin.Context) {
	window, ok := s.standWindow(c)
	if !ok {
		return
	}

	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window.Name = req.Name
	window.Description = req.Description
	if req.IsActive != nil {
		window.IsActive = *req.IsActive
	}

	if err := s.db.Save(window).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, window)
}

func (s *Server) deleteWindow(c *gin.Context) {
	window, ok := s.standWindow(c)
	if !ok {
		return
	}
	if err := s.db.Delete(window).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// standWindow loads the addressed window and verifies it belongs to the
// stand in the path.
func (s *Server) standWindow(c *gin.Context) (*models.Window, bool) {
	standID, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	windowID, ok := paramID(c, "window_id")
	if !ok {
		return nil, false
	}

	var window models.Window
	if err := s.db.First(&window, windowID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			writeError(c, &stock.NotFoundError{Resource: "window", ID: windowID})
		} else {
			writeError(c, err)
		}
		return nil, false
	}
	if window.StandID != standID {
		writeError(c, &stock.OwnershipMismatchError{Resource: "window", StandID: standID})
		return nil, false
	}
	return &window, true
}
