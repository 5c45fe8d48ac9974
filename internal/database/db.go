package database

import (
	"fmt"

	"concessions/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect (lib/pq)
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite dialect (mattn/go-sqlite3)
)

// Open connects to the configured database. The handle is passed explicitly
// to every collaborator; there is no package-level instance.
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate creates and updates all required tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ConcessionStand{},
		&models.InventoryItem{},
		&models.MenuItem{},
		&models.MenuItemInventory{},
		&models.Transaction{},
		&models.Window{},
	).Error
}

// Seed ensures a starter stand with a window, inventory and a linked menu
// exists so a fresh install has something to serve.
func Seed(db *gorm.DB) error {
	var standCount int64
	if err := db.Model(&models.ConcessionStand{}).Count(&standCount).Error; err != nil {
		return err
	}
	if standCount > 0 {
		return nil
	}

	stand := models.ConcessionStand{
		Name:     "Main Stand",
		Location: "North entrance",
		IsActive: true,
	}
	if err := db.Create(&stand).Error; err != nil {
		return err
	}

	window := models.Window{Name: "Window 1", IsActive: true, StandID: stand.ID}
	if err := db.Create(&window).Error; err != nil {
		return err
	}

	inventory := []models.InventoryItem{
		{Name: "Hot Dog", ItemType: models.ItemTypeFood, Unit: models.ItemUnitEach, Quantity: 80, MinimumThreshold: 10, UnitCost: 0.75, StandID: &stand.ID},
		{Name: "Hot Dog Bun", ItemType: models.ItemTypeFood, Unit: models.ItemUnitEach, Quantity: 80, MinimumThreshold: 10, UnitCost: 0.25, StandID: &stand.ID},
		{Name: "Soda", ItemType: models.ItemTypeDrink, Unit: models.ItemUnitEach, Quantity: 120, MinimumThreshold: 24, UnitCost: 0.40, StandID: &stand.ID},
		{Name: "Napkins", ItemType: models.ItemTypeSupply, Unit: models.ItemUnitCase, Quantity: 6, MinimumThreshold: 1, UnitCost: 12.00, StandID: &stand.ID},
	}
	for i := range inventory {
		if err := db.Create(&inventory[i]).Error; err != nil {
			return err
		}
	}

	menu := []models.MenuItem{
		{Name: "Hot Dog", Price: 4.00, IsAvailable: true, IsFeatured: true, StandID: &stand.ID},
		{Name: "Soda", Price: 2.50, IsAvailable: true, StandID: &stand.ID},
	}
	for i := range menu {
		if err := db.Create(&menu[i]).Error; err != nil {
			return err
		}
	}

	links := []models.MenuItemInventory{
		{MenuItemID: menu[0].ID, InventoryItemID: inventory[0].ID, QuantityRequired: 1},
		{MenuItemID: menu[0].ID, InventoryItemID: inventory[1].ID, QuantityRequired: 1},
		{MenuItemID: menu[1].ID, InventoryItemID: inventory[2].ID, QuantityRequired: 1},
	}
	for i := range links {
		if err := db.Create(&links[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
