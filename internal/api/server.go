// Package api is the REST layer over the stock rules: thin gin handlers
// that translate HTTP requests into service calls and typed failures into
// status codes.
package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"concessions/internal/display"
	"concessions/internal/models"
	"concessions/internal/monitoring"
	"concessions/internal/stock"
)

// Options configures the server.
type Options struct {
	AuthEnabled bool
	AuthSecret  string
	Metrics     *monitoring.Metrics
}

// Server wires the router, database handle, stock service and display hub.
type Server struct {
	Router  *gin.Engine
	db      *gorm.DB
	stock   *stock.Service
	hub     *display.Hub
	metrics *monitoring.Metrics
}

// NewServer creates the API server and registers all routes.
func NewServer(db *gorm.DB, opts Options) *Server {
	router := gin.Default()
	hub := display.NewHub()

	s := &Server{
		Router:  router,
		db:      db,
		stock:   stock.NewService(db, hub),
		hub:     hub,
		metrics: opts.Metrics,
	}

	router.Use(RequestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws/display/:stand_id", s.serveDisplaySocket)

	v1 := router.Group("/api/v1")
	if opts.AuthEnabled {
		v1.Use(AuthRequired(opts.AuthSecret))
	}
	{
		v1.GET("/stands", s.listStands)
		v1.POST("/stands", s.createStand)
		v1.GET("/stands/:id", s.getStand)
		v1.PUT("/stands/:id", s.updateStand)
		v1.DELETE("/stands/:id", s.deleteStand)
		v1.GET("/stands/:id/inventory", s.listStandInventory)
		v1.GET("/stands/:id/menu", s.listStandMenu)
		v1.POST("/stands/:id/transfer/:dest_id", s.transferInventory)
		v1.GET("/stands/:id/windows", s.listWindows)
		v1.POST("/stands/:id/windows", s.createWindow)
		v1.PUT("/stands/:id/windows/:window_id", s.updateWindow)
		v1.DELETE("/stands/:id/windows/:window_id", s.deleteWindow)

		v1.GET("/inventory", s.listInventory)
		v1.POST("/inventory", s.createInventoryItem)
		v1.GET("/inventory/:id", s.getInventoryItem)
		v1.PUT("/inventory/:id", s.updateInventoryItem)
		v1.DELETE("/inventory/:id", s.deleteInventoryItem)
		v1.PUT("/inventory/:id/adjust", s.adjustInventory)

		v1.GET("/menu", s.listMenuItems)
		v1.POST("/menu", s.createMenuItem)
		v1.GET("/menu/:id", s.getMenuItem)
		v1.PUT("/menu/:id", s.updateMenuItem)
		v1.DELETE("/menu/:id", s.deleteMenuItem)
		v1.POST("/menu/:id/inventory/:item_id", s.linkMenuItem)
		v1.DELETE("/menu/:id/inventory/:item_id", s.unlinkMenuItem)

		v1.GET("/transactions", s.listTransactions)
		v1.POST("/transactions", s.createTransaction)
		v1.GET("/transactions/summary/daily", s.dailySummary)
		v1.GET("/transactions/:id", s.getTransaction)

		v1.GET("/display/menu/:stand_id", s.displayMenu)
		v1.GET("/display/stands", s.displayStands)
	}

	return s
}

// writeError maps a failure onto the HTTP status contract: 404 for missing
// references, 400 for business-rule rejections, 500 for storage faults.
func writeError(c *gin.Context, err error) {
	switch {
	case stock.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stock.IsRejected(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("api: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// paramID parses a numeric path parameter, answering 400 on garbage.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// pagination reads skip/limit query parameters with the defaults the
// listing endpoints share.
func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return skip, limit
}

// refreshLowStock recounts items at or below threshold for the gauge.
func (s *Server) refreshLowStock() {
	if s.metrics == nil {
		return
	}
	var n int64
	if err := s.db.Model(&models.InventoryItem{}).
		Where("quantity <= minimum_threshold").Count(&n).Error; err != nil {
		return
	}
	s.metrics.SetLowStock(int(n))
}

func (s *Server) serveDisplaySocket(c *gin.Context) {
	standID, ok := paramID(c, "stand_id")
	if !ok {
		return
	}
	var stand models.ConcessionStand
	if err := s.db.First(&stand, standID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "concession stand not found"})
			return
		}
		writeError(c, err)
		return
	}
	s.hub.Serve(c, standID)
}
