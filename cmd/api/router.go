package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giovaniif/cart/domain/cart"
	"github.com/giovaniif/cart/domain/errs"
	"github.com/giovaniif/cart/infra/metrics"
	"github.com/giovaniif/cart/infra/requestid"
	"github.com/giovaniif/cart/infra/tracing"
	protocols "github.com/giovaniif/cart/protocols"
	"github.com/giovaniif/cart/use_cases/createcart"
	"github.com/giovaniif/cart/use_cases/deletecart"
	"github.com/giovaniif/cart/use_cases/getcart"
	"github.com/giovaniif/cart/use_cases/listitems"
	"github.com/giovaniif/cart/use_cases/updatecart"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const idempotencyKeyHeader = "Idempotency-Key"

type UpdateLineRequest struct {
	Id     *int64 `json:"id" binding:"required"`
	Amount *int32 `json:"amount" binding:"required,min=0"`
}

type LineResponse struct {
	Id          int64  `json:"id"`
	Description string `json:"description"`
	Amount      int32  `json:"amount"`
}

type CartResponse struct {
	Id          int64                  `json:"id"`
	Lines       map[int64]LineResponse `json:"lines"`
	LastUpdated time.Time              `json:"lastUpdated"`
}

// HealthCheck reports the state of one dependency: "up", "down" or "n/a".
type HealthCheck func(ctx context.Context) string

type Handlers struct {
	CreateCart   *createcart.CreateCart
	GetCart      *getcart.GetCart
	UpdateCart   *updatecart.UpdateCart
	DeleteCart   *deletecart.DeleteCart
	ListItems    *listitems.ListItems
	HealthChecks map[string]HealthCheck
	Logger       *zap.Logger
}

func toCartResponse(c *cart.Cart) CartResponse {
	lines := make(map[int64]LineResponse, len(c.Lines))
	for id, line := range c.Lines {
		lines[id] = LineResponse{Id: line.ItemId, Description: line.Description, Amount: line.Amount}
	}
	return CartResponse{Id: c.Id, Lines: lines, LastUpdated: c.LastUpdated}
}

func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestid.Middleware(h.Logger), tracing.Middleware(), metrics.Middleware, gin.Logger())

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/products", h.listProducts)

	r.POST("/cart", h.createCart)
	r.GET("/cart/:cartId", h.getCart)
	r.PUT("/cart/:cartId", h.updateCart)
	r.DELETE("/cart/:cartId", h.deleteCart)
	return r
}

func (h *Handlers) health(c *gin.Context) {
	status := "healthy"
	checks := gin.H{}
	for name, check := range h.HealthChecks {
		result := check(c.Request.Context())
		if result == "down" {
			status = "degraded"
		}
		checks[name] = result
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "checks": checks})
}

func (h *Handlers) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.ListItems.ListItems())
}

func (h *Handlers) createCart(c *gin.Context) {
	created, err := h.CreateCart.CreateCart(c.Request.Context(), createcart.Input{
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartResponse(created))
}

func (h *Handlers) getCart(c *gin.Context) {
	cartId, err := cartIdParam(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	found, err := h.GetCart.GetCart(c.Request.Context(), cartId)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(found))
}

func (h *Handlers) updateCart(c *gin.Context) {
	cartId, err := cartIdParam(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var request []UpdateLineRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.writeError(c, errs.NewInvalidInputError(err.Error()))
		return
	}

	input := updatecart.Input{CartId: cartId, Lines: make([]updatecart.LineInput, 0, len(request))}
	for _, line := range request {
		input.Lines = append(input.Lines, updatecart.LineInput{ItemId: *line.Id, Amount: *line.Amount})
	}
	updated, err := h.UpdateCart.UpdateCart(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(updated))
}

func (h *Handlers) deleteCart(c *gin.Context) {
	cartId, err := cartIdParam(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.DeleteCart.DeleteCart(c.Request.Context(), cartId); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func cartIdParam(c *gin.Context) (int64, error) {
	raw := c.Param("cartId")
	cartId, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.NewInvalidInputError(fmt.Sprintf("Invalid cart id: %s", raw))
	}
	return cartId, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrOutOfStock), errors.Is(err, protocols.ErrIdempotencyKeyInFlight):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(c *gin.Context, err error) {
	metrics.ObserveError(err)
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		requestid.Logger(c.Request.Context(), h.Logger).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": errs.Detail(err)})
}
