package api

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
	"concessions/internal/stock"
)

type saleRequest struct {
	MenuItemID    uint                 `json:"menu_item_id" binding:"required"`
	Quantity      int                  `json:"quantity" binding:"required,gt=0"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
	ProcessorRef  string               `json:"processor_ref"`
	Notes         string               `json:"notes"`
	WindowID      *uint                `json:"window_id"`
}

func (s *Server) listTransactions(c *gin.Context) {
	skip, limit := pagination(c)
	query, ok := s.transactionFilter(c)
	if !ok {
		return
	}

	var transactions []models.Transaction
	if err := query.Offset(skip).Limit(limit).Find(&transactions).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (s *Server) getTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var transaction models.Transaction
	if err := s.db.First(&transaction, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			writeError(c, &stock.NotFoundError{Resource: "transaction", ID: id})
		} else {
			writeError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (s *Server) createTransaction(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.PaymentMethod.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_method"})
		return
	}

	sale, err := s.stock.Sell(stock.SaleRequest{
		MenuItemID:    req.MenuItemID,
		Quantity:      req.Quantity,
		PaymentMethod: req.PaymentMethod,
		ProcessorRef:  req.ProcessorRef,
		Notes:         req.Notes,
		WindowID:      req.WindowID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSale(sale.StandID, string(sale.PaymentMethod), sale.TotalAmount)
	}
	s.refreshLowStock()
	c.JSON(http.StatusCreated, sale)
}

func (s *Server) dailySummary(c *gin.Context) {
	query, ok := s.transactionFilter(c)
	if !ok {
		return
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		writeError(c, err)
		return
	}

	var total, cash, card float64
	dailyTotals := make(map[string]float64)
	for _, t := range transactions {
		total += t.TotalAmount
		switch t.PaymentMethod {
		case models.PaymentCash:
			cash += t.TotalAmount
		case models.PaymentCard:
			card += t.TotalAmount
		}
		day := t.CreatedAt.Format("2006-01-02")
		dailyTotals[day] += t.TotalAmount
	}

	c.JSON(http.StatusOK, gin.H{
		"total_sales":       round2(total),
		"cash_sales":        round2(cash),
		"card_sales":        round2(card),
		"transaction_count": len(transactions),
		"daily_totals":      dailyTotals,
	})
}

// transactionFilter applies the shared stand/method/date filters from query
// parameters, answering 400 on malformed dates.
func (s *Server) transactionFilter(c *gin.Context) (*gorm.DB, bool) {
	query := s.db.Model(&models.Transaction{})

	if v := c.Query("stand_id"); v != "" {
		query = query.Where("stand_id = ?", v)
	}
	if v := c.Query("payment_method"); v != "" {
		query = query.Where("payment_method = ?", v)
	}
	if v := c.Query("date_from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from"})
			return nil, false
		}
		query = query.Where("created_at >= ?", from)
	}
	if v := c.Query("date_to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to"})
			return nil, false
		}
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
	return query, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
