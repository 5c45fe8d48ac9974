package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
	"concessions/internal/stock"
)

type menuCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImagePath   string  `json:"image_path"`
	IsAvailable *bool   `json:"is_available"`
	IsFeatured  bool    `json:"is_featured"`
	StandID     *uint   `json:"stand_id"`
}

type menuUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	ImagePath   *string  `json:"image_path"`
	IsAvailable *bool    `json:"is_available"`
	IsFeatured  *bool    `json:"is_featured"`
	StandID     *uint    `json:"stand_id"`
}

type linkRequest struct {
	QuantityRequired int `json:"quantity_required" binding:"omitempty,gt=0"`
}

func (s *Server) listMenuItems(c *gin.Context) {
	skip, limit := pagination(c)
	query := s.db.Model(&models.MenuItem{})

	if v := c.Query("stand_id"); v != "" {
		query = query.Where("stand_id = ?", v)
	}
	if c.Query("available_only") == "true" {
		query = query.Where("is_available = ?", true)
	}
	if c.Query("featured_only") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	var items []models.MenuItem
	if err := query.Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		writeError(c, menuNotFoundOr(err, id))
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) createMenuItem(c *gin.Context) {
	var req menuCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.StandID != nil {
		var stand models.ConcessionStand
		if err := s.db.First(&stand, *req.StandID).Error; err != nil {
			writeError(c, standNotFoundOr(err, *req.StandID))
			return
		}
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImagePath:   req.ImagePath,
		IsAvailable: true,
		IsFeatured:  req.IsFeatured,
		StandID:     req.StandID,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.db.Create(&item).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) updateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		writeError(c, menuNotFoundOr(err, id))
		return
	}

	var req menuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.StandID != nil && (item.StandID == nil || *req.StandID != *item.StandID) {
		var stand models.ConcessionStand
		if err := s.db.First(&stand, *req.StandID).Error; err != nil {
			writeError(c, standNotFoundOr(err, *req.StandID))
			return
		}
		item.StandID = req.StandID
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.ImagePath != nil {
		item.ImagePath = *req.ImagePath
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsFeatured != nil {
		item.IsFeatured = *req.IsFeatured
	}

	if err := s.db.Save(&item).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		writeError(c, menuNotFoundOr(err, id))
		return
	}

	if err := s.db.Where("menu_item_id = ?", id).Delete(&models.MenuItemInventory{}).Error; err != nil {
		writeError(c, err)
		return
	}
	if err := s.db.Delete(&item).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) linkMenuItem(c *gin.Context) {
	menuID, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	req := linkRequest{QuantityRequired: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.QuantityRequired == 0 {
			req.QuantityRequired = 1
		}
	}

	item, err := s.stock.Link(menuID, itemID, req.QuantityRequired)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) unlinkMenuItem(c *gin.Context) {
	menuID, ok := paramID(c, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	item, err := s.stock.Unlink(menuID, itemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func menuNotFoundOr(err error, id uint) error {
	if gorm.IsRecordNotFoundError(err) {
		return &stock.NotFoundError{Resource: "menu item", ID: id}
	}
	return err
}
