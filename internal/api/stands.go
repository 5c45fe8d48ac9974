package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
	"concessions/internal/stock"
)

type standRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type transferRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

func (s *Server) listStands(c *gin.Context) {
	skip, limit := pagination(c)
	query := s.db.Model(&models.ConcessionStand{})
	if c.Query("active_only") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var stands []models.ConcessionStand
	if err := query.Offset(skip).Limit(limit).Find(&stands).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stands)
}

func (s *Server) getStand(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, id).Error; err != nil {
		writeError(c, standNotFoundOr(err, id))
		return
	}
	c.JSON(http.StatusOK, stand)
}

func (s *Server) createStand(c *gin.Context) {
	var req standRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stand := models.ConcessionStand{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		stand.IsActive = *req.IsActive
	}

	if err := s.db.Create(&stand).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stand)
}

func (s *Server) updateStand(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, id).Error; err != nil {
		writeError(c, standNotFoundOr(err, id))
		return
	}

	var req standRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stand.Name = req.Name
	stand.Location = req.Location
	stand.Description = req.Description
	if req.IsActive != nil {
		stand.IsActive = *req.IsActive
	}

	if err := s.db.Save(&stand).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stand)
}

func (s *Server) deleteStand(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, id).Error; err != nil {
		writeError(c, standNotFoundOr(err, id))
		return
	}

	// Refuse to orphan children; operators must move or remove them first.
	for _, check := range []struct {
		model interface{}
		what  string
	}{
		{&models.InventoryItem{}, "inventory items"},
		{&models.MenuItem{}, "menu items"},
		{&models.Window{}, "windows"},
	} {
		var n int64
		if err := s.db.Model(check.model).Where("stand_id = ?", id).Count(&n).Error; err != nil {
			writeError(c, err)
			return
		}
		if n > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "stand still has " + check.what + "; remove or transfer them first",
			})
			return
		}
	}

	if err := s.db.Delete(&stand).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listStandInventory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, id).Error; err != nil {
		writeError(c, standNotFoundOr(err, id))
		return
	}

	var items []models.InventoryItem
	if err := s.db.Where("stand_id = ?", id).Find(&items).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) listStandMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, id).Error; err != nil {
		writeError(c, standNotFoundOr(err, id))
		return
	}

	var items []models.MenuItem
	if err := s.db.Where("stand_id = ?", id).Find(&items).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) transferInventory(c *gin.Context) {
	fromID, ok := paramID(c, "id")
	if !ok {
		return
	}
	destID, ok := paramID(c, "dest_id")
	if !ok {
		return
	}

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.stock.Transfer(fromID, destID, req.ItemID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordTransfer()
	}
	s.refreshLowStock()
	c.JSON(http.StatusOK, result)
}

func standNotFoundOr(err error, id uint) error {
	if gorm.IsRecordNotFoundError(err) {
		return &stock.NotFoundError{Resource: "concession stand", ID: id}
	}
	return err
}
