package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giovaniif/cart/domain/cart"
	"github.com/giovaniif/cart/domain/errs"
	protocols "github.com/giovaniif/cart/protocols"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	CartEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_events_total",
			Help: "Cart lifecycle events by type",
		},
		[]string{"type"},
	)
	OutOfStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_out_of_stock_rejections_total",
			Help: "Cart lines rejected because the catalog stock could not cover them",
		},
	)
)

// RoutePath labels requests by their route template so cart ids do not
// explode the label cardinality.
func RoutePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func Middleware(c *gin.Context) {
	if c.Request.URL.Path == "/metrics" {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	duration := time.Since(start).Seconds()
	path := RoutePath(c)
	status := strconv.Itoa(c.Writer.Status())
	RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
}

// ObserveError counts the errors that carry a metric of their own.
func ObserveError(err error) {
	if errors.Is(err, errs.ErrOutOfStock) {
		OutOfStockTotal.Inc()
	}
}

// RegisterActiveCarts exposes count as the cart_active gauge on reg.
func RegisterActiveCarts(reg prometheus.Registerer, count func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "cart_active",
			Help: "Carts currently held in memory",
		},
		func() float64 { return float64(count()) },
	))
}

// EventPublisher counts every event before handing it to the next publisher.
type EventPublisher struct {
	next protocols.EventPublisher
}

func NewEventPublisher(next protocols.EventPublisher) *EventPublisher {
	return &EventPublisher{next: next}
}

func (p *EventPublisher) Publish(ctx context.Context, event cart.Event) error {
	CartEventsTotal.WithLabelValues(string(event.Type)).Inc()
	return p.next.Publish(ctx, event)
}
