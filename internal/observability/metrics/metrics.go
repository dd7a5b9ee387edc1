package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Config carries the const labels attached to every collector
type Config struct {
	ServiceName string
	Environment string
}

// Metrics groups the invoice lifecycle and HTTP collectors.
// All methods are no-ops on a nil receiver.
type Metrics struct {
	invoicesCreated   prometheus.Counter
	lineItemsAdded    prometheus.Counter
	paymentsApplied   *prometheus.CounterVec
	paymentAmount     prometheus.Counter
	operationFailures *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New registers the collectors against registerer
func New(registerer prometheus.Registerer, cfg Config) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "invoicing-api"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "invoices_created_total",
			Help:        "Invoices created.",
			ConstLabels: constLabels,
		}),
		lineItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "invoice_line_items_added_total",
			Help:        "Line items attached to invoices, at creation or appended later.",
			ConstLabels: constLabels,
		}),
		paymentsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoice_payments_applied_total",
			Help:        "Payments applied, labelled by the resulting invoice status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "invoice_payment_amount_total",
			Help:        "Sum of applied payment amounts. Approximate; reporting only.",
			ConstLabels: constLabels,
		}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoice_operation_failures_total",
			Help:        "Rejected lifecycle operations by operation and error kind.",
			ConstLabels: constLabels,
		}, []string{"operation", "kind"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_server_request_duration_seconds",
			Help:        "HTTP request latency by route and status code.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
	}

	collectors := []prometheus.Collector{
		m.invoicesCreated,
		m.lineItemsAdded,
		m.paymentsApplied,
		m.paymentAmount,
		m.operationFailures,
		m.requestDuration,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) InvoiceCreated(lineItems int) {
	if m == nil {
		return
	}
	m.invoicesCreated.Inc()
	m.lineItemsAdded.Add(float64(lineItems))
}

func (m *Metrics) LineItemsAppended(n int) {
	if m == nil {
		return
	}
	m.lineItemsAdded.Add(float64(n))
}

func (m *Metrics) PaymentApplied(status string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.paymentsApplied.WithLabelValues(status).Inc()
	m.paymentAmount.Add(amount.InexactFloat64())
}

func (m *Metrics) OperationFailed(operation, kind string) {
	if m == nil {
		return
	}
	m.operationFailures.WithLabelValues(operation, kind).Inc()
}

// GinMiddleware records request latency per matched route
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
