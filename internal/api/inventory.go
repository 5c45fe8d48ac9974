package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
	"concessions/internal/stock"
)

type inventoryCreateRequest struct {
	Name             string          `json:"name" binding:"required"`
	Description      string          `json:"description"`
	ItemType         models.ItemType `json:"item_type" binding:"required"`
	Unit             models.ItemUnit `json:"unit" binding:"required"`
	Quantity         int             `json:"quantity" binding:"gte=0"`
	MinimumThreshold *int            `json:"minimum_threshold" binding:"omitempty,gte=0"`
	UnitCost         float64         `json:"unit_cost" binding:"gte=0"`
	StandID          *uint           `json:"stand_id"`
}

type inventoryUpdateRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	ItemType         *models.ItemType `json:"item_type"`
	Unit             *models.ItemUnit `json:"unit"`
	Quantity         *int             `json:"quantity" binding:"omitempty,gte=0"`
	MinimumThreshold *int             `json:"minimum_threshold" binding:"omitempty,gte=0"`
	UnitCost         *float64         `json:"unit_cost" binding:"omitempty,gte=0"`
	StandID          *uint            `json:"stand_id"`
}

func (s *Server) listInventory(c *gin.Context) {
	skip, limit := pagination(c)
	query := s.db.Model(&models.InventoryItem{})

	if v := c.Query("stand_id"); v != "" {
		query = query.Where("stand_id = ?", v)
	}
	if v := c.Query("item_type"); v != "" {
		query = query.Where("item_type = ?", v)
	}
	if c.Query("available_only") == "true" {
		query = query.Where("quantity > minimum_threshold")
	}

	var items []models.InventoryItem
	if err := query.Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getInventoryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var item models.InventoryItem
	if err := s.db.First(&item, id).Error; err != nil {
		writeError(c, itemNotFoundOr(err, id))
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) createInventoryItem(c *gin.Context) {
	var req inventoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.ItemType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_type"})
		return
	}
	if !req.Unit.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit"})
		return
	}

	if req.StandID != nil {
		var stand models.ConcessionStand
		if err := s.db.First(&stand, *req.StandID).Error; err != nil {
			writeError(c, standNotFoundOr(err, *req.StandID))
			return
		}
	}

	item := models.InventoryItem{
		Name:             req.Name,
		Description:      req.Description,
		ItemType:         req.ItemType,
		Unit:             req.Unit,
		Quantity:         req.Quantity,
		MinimumThreshold: 5,
		UnitCost:         req.UnitCost,
		StandID:          req.StandID,
	}
	if req.MinimumThreshold != nil {
		item.MinimumThreshold = *req.MinimumThreshold
	}

	if err := s.db.Create(&item).Error; err != nil {
		writeError(c, err)
		return
	}
	item.Refresh()
	s.refreshLowStock()
	c.JSON(http.StatusCreated, item)
}

func (s *Server) updateInventoryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req inventoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ItemType != nil && !req.ItemType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_type"})
		return
	}
	if req.Unit != nil && !req.Unit.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit"})
		return
	}

	item, err := s.stock.UpdateInventory(id, stock.InventoryUpdate{
		Name:             req.Name,
		Description:      req.Description,
		ItemType:         req.ItemType,
		Unit:             req.Unit,
		Quantity:         req.Quantity,
		MinimumThreshold: req.MinimumThreshold,
		UnitCost:         req.UnitCost,
		StandID:          req.StandID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	s.refreshLowStock()
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteInventoryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.stock.DeleteInventoryItem(id); err != nil {
		writeError(c, err)
		return
	}
	s.refreshLowStock()
	c.Status(http.StatusNoContent)
}

func (s *Server) adjustInventory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	change, err := strconv.Atoi(c.Query("change"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "change query parameter required"})
		return
	}

	item, err := s.stock.Adjust(id, change)
	if err != nil {
		writeError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordAdjustment()
	}
	s.refreshLowStock()
	c.JSON(http.StatusOK, item)
}

func itemNotFoundOr(err error, id uint) error {
	if gorm.IsRecordNotFoundError(err) {
		return &stock.NotFoundError{Resource: "inventory item", ID: id}
	}
	return err
}
