package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concessions/internal/models"
)

func TestMenuItemCRUD(t *testing.T) {
	s, db := testServer(t, Options{})
	stand := seedStand(t, db, "Stand A")

	w := doJSON(t, s, http.MethodPost, "/api/v1/menu", gin.H{
		"name":     "Soft Pretzel",
		"price":    3.00,
		"stand_id": stand.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.MenuItem
	decode(t, w, &item)
	assert.True(t, item.IsAvailable, "defaults to available")

	w = doJSON(t, s, http.MethodPost, "/api/v1/menu", gin.H{
		"name": "Nowhere Dog", "price": 4.00, "stand_id": 99,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/menu", gin.H{"name": "Free Sample"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "price is required")

	w = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/v1/menu/%d", item.ID), gin.H{
		"price":       3.50,
		"is_featured": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &item)
	assert.Equal(t, 3.50, item.Price)
	assert.True(t, item.IsFeatured)
	assert.Equal(t, "Soft Pretzel", item.Name, "partial update keeps other fields")

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/menu/%d", item.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMenuLinkEndpoints(t *testing.T) {
	s, db := testServer(t, Options{})
	stand := seedStand(t, db, "Stand A")
	depleted := seedItem(t, db, &stand.ID, "Syrup", 2, 5)
	menuItem := seedMenuItem(t, db, &stand.ID, "Snow Cone", 3.50)

	w := doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/api/v1/menu/%d/inventory/%d", menuItem.ID, depleted.ID),
		gin.H{"quantity_required": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.MenuItem
	decode(t, w, &item)
	assert.False(t, item.IsAvailable, "linking a depleted ingredient hides the item")

	var link models.MenuItemInventory
	require.NoError(t, db.Where("menu_item_id = ? AND inventory_item_id = ?", menuItem.ID, depleted.ID).
		First(&link).Error)
	assert.Equal(t, 2, link.QuantityRequired)

	w = doJSON(t, s, http.MethodDelete,
		fmt.Sprintf("/api/v1/menu/%d/inventory/%d", menuItem.ID, depleted.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &item)
	assert.True(t, item.IsAvailable, "no links means available")

	w = doJSON(t, s, http.MethodDelete,
		fmt.Sprintf("/api/v1/menu/%d/inventory/%d", menuItem.ID, depleted.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDisplayMenuPayload(t *testing.T) {
	s, db := testServer(t, Options{})
	stand := seedStand(t, db, "Stand A")

	stocked := seedItem(t, db, &stand.ID, "Hot Dog", 50, 5)
	depleted := seedItem(t, db, &stand.ID, "Pretzel", 2, 5)

	dog := seedMenuItem(t, db, &stand.ID, "Hot Dog", 4.00)
	require.NoError(t, db.Model(dog).Update("is_featured", true).Error)
	pretzel := seedMenuItem(t, db, &stand.ID, "Soft Pretzel", 3.00)
	seedMenuItem(t, db, &stand.ID, "Candy", 2.00)

	seedLink(t, db, dog.ID, stocked.ID)
	seedLink(t, db, pretzel.ID, depleted.ID)

	w := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/display/menu/%d", stand.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload MenuDisplay
	decode(t, w, &payload)

	assert.Equal(t, "Stand A", payload.StandName)
	require.Len(t, payload.FeaturedItems, 1)
	assert.Equal(t, "Hot Dog", payload.FeaturedItems[0].Name)
	assert.Equal(t, "$4.00", payload.FeaturedItems[0].Price)

	// The pretzel's ingredient sits below threshold, so only candy remains.
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Candy", payload.Items[0].Name)

	w = doJSON(t, s, http.MethodGet, "/api/v1/display/menu/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDisplayStandsDirectory(t *testing.T) {
	s, db := testServer(t, Options{})
	standA := seedStand(t, db, "Stand A")
	inactive := models.ConcessionStand{Name: "Closed Stand", IsActive: false}
	require.NoError(t, db.Create(&inactive).Error)

	seedMenuItem(t, db, &standA.ID, "Soda", 2.50)

	w := doJSON(t, s, http.MethodGet, "/api/v1/display/stands", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []struct {
		Name             string `json:"name"`
		DisplayableItems int    `json:"displayable_items"`
	}
	decode(t, w, &out)
	require.Len(t, out, 1, "inactive stands are not listed")
	assert.Equal(t, "Stand A", out[0].Name)
	assert.Equal(t, 1, out[0].DisplayableItems)
}

func TestMenuListFilters(t *testing.T) {
	s, db := testServer(t, Options{})
	stand := seedStand(t, db, "Stand A")
	first := seedMenuItem(t, db, &stand.ID, "Soda", 2.50)
	require.NoError(t, db.Model(first).Update("is_featured", true).Error)
	second := seedMenuItem(t, db, &stand.ID, "Candy", 2.00)
	require.NoError(t, db.Model(second).Update("is_available", false).Error)

	var items []models.MenuItem

	w := doJSON(t, s, http.MethodGet, "/api/v1/menu?available_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Soda", items[0].Name)

	w = doJSON(t, s, http.MethodGet, "/api/v1/menu?featured_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Soda", items[0].Name)
}
