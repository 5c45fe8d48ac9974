package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
)

// DisplayItem is one priced entry on a stand's screen.
type DisplayItem struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
}

// MenuDisplay is the payload a stand display renders.
type MenuDisplay struct {
	StandName     string        `json:"stand_name"`
	StandLocation string        `json:"stand_location"`
	Items         []DisplayItem `json:"items"`
	FeaturedItems []DisplayItem `json:"featured_items"`
}

func (s *Server) displayMenu(c *gin.Context) {
	standID, ok := paramID(c, "stand_id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, standID).Error; err != nil {
		writeError(c, standNotFoundOr(err, standID))
		return
	}

	items, err := s.displayableItems(standID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := MenuDisplay{
		StandName:     stand.Name,
		StandLocation: stand.Location,
		Items:         []DisplayItem{},
		FeaturedItems: []DisplayItem{},
	}
	for i := range items {
		entry := DisplayItem{
			ID:          items[i].ID,
			Name:        items[i].Name,
			Price:       fmt.Sprintf("$%.2f", items[i].Price),
			Description: items[i].Description,
			ImagePath:   items[i].ImagePath,
		}
		if items[i].IsFeatured {
			out.FeaturedItems = append(out.FeaturedItems, entry)
		} else {
			out.Items = append(out.Items, entry)
		}
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) displayStands(c *gin.Context) {
	var stands []models.ConcessionStand
	if err := s.db.Where("is_active = ?", true).Find(&stands).Error; err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(stands))
	for i := range stands {
		items, err := s.displayableItems(stands[i].ID)
		if err != nil {
			writeError(c, err)
			return
		}
		out = append(out, gin.H{
			"id":                stands[i].ID,
			"name":              stands[i].Name,
			"location":          stands[i].Location,
			"displayable_items": len(items),
		})
	}

	c.JSON(http.StatusOK, out)
}

// displayableItems loads a stand's menu and filters it down to the entries
// whose linked inventory is fully available.
func (s *Server) displayableItems(standID uint) ([]models.MenuItem, error) {
	var menuItems []models.MenuItem
	if err := s.db.Where("stand_id = ? AND is_available = ?", standID, true).
		Find(&menuItems).Error; err != nil {
		return nil, err
	}

	displayable := menuItems[:0]
	for i := range menuItems {
		linked, err := s.linkedInventory(menuItems[i].ID)
		if err != nil {
			return nil, err
		}
		if menuItems[i].DisplayableWith(linked) {
			displayable = append(displayable, menuItems[i])
		}
	}
	return displayable, nil
}

// linkedInventory loads every inventory item linked to a menu item. Links
// whose inventory row has vanished surface as a zero-quantity placeholder so
// displayability fails closed.
func (s *Server) linkedInventory(menuItemID uint) ([]models.InventoryItem, error) {
	var links []models.MenuItemInventory
	if err := s.db.Where("menu_item_id = ?", menuItemID).Find(&links).Error; err != nil {
		return nil, err
	}

	items := make([]models.InventoryItem, 0, len(links))
	for _, link := range links {
		var item models.InventoryItem
		if err := s.db.First(&item, link.InventoryItemID).Error; err != nil {
			if !gorm.IsRecordNotFoundError(err) {
				return nil, err
			}
			item = models.InventoryItem{Quantity: 0, MinimumThreshold: 0}
		}
		items = append(items, item)
	}
	return items, nil
}
