// Package monitoring exposes Prometheus collectors for the sales and
// inventory operations, served on a dedicated metrics port.
package monitoring

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service records into.
type Metrics struct {
	registry *prometheus.Registry

	transactionsTotal *prometheus.CounterVec
	salesAmountTotal  *prometheus.CounterVec
	adjustmentsTotal  prometheus.Counter
	transfersTotal    prometheus.Counter
	lowStockItems     prometheus.Gauge
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "concessions_transactions_total",
			Help: "Number of completed sale transactions.",
		}, []string{"stand", "method"}),
		salesAmountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "concessions_sales_amount_total",
			Help: "Total sale amount in dollars.",
		}, []string{"stand", "method"}),
		adjustmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "concessions_inventory_adjustments_total",
			Help: "Number of manual inventory adjustments.",
		}),
		transfersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "concessions_inventory_transfers_total",
			Help: "Number of inter-stand inventory transfers.",
		}),
		lowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concessions_low_stock_items",
			Help: "Number of inventory items at or below their minimum threshold.",
		}),
	}

	m.registry.MustRegister(
		m.transactionsTotal,
		m.salesAmountTotal,
		m.adjustmentsTotal,
		m.transfersTotal,
		m.lowStockItems,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSale counts a completed transaction.
func (m *Metrics) RecordSale(standID *uint, method string, amount float64) {
	stand := "none"
	if standID != nil {
		stand = strconv.FormatUint(uint64(*standID), 10)
	}
	m.transactionsTotal.WithLabelValues(stand, method).Inc()
	m.salesAmountTotal.WithLabelValues(stand, method).Add(amount)
}

// RecordAdjustment counts a manual inventory adjustment.
func (m *Metrics) RecordAdjustment() {
	m.adjustmentsTotal.Inc()
}

// RecordTransfer counts an inter-stand transfer.
func (m *Metrics) RecordTransfer() {
	m.transfersTotal.Inc()
}

// SetLowStock updates the low-stock gauge.
func (m *Metrics) SetLowStock(n int) {
	m.lowStockItems.Set(float64(n))
}
