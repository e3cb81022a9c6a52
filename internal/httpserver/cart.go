package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmdsweets/storefront/internal/cart"
	"github.com/kmdsweets/storefront/internal/catalog"
	"github.com/kmdsweets/storefront/internal/logging"
	clientmw "github.com/kmdsweets/storefront/internal/middleware/client"
	"github.com/kmdsweets/storefront/internal/pricing"
)

type CartHTTP struct {
	Carts   *cart.Registry
	Catalog catalog.Source
}

type cartResponse struct {
	Items   []cart.LineItem `json:"items"`
	Summary pricing.Summary `json:"summary"`
}

type addProductRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type addSnapshotRequest struct {
	cart.Snapshot
	Quantity int `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHTTP) store(c echo.Context) *cart.Store {
	return h.Carts.For(clientmw.ID(c))
}

func view(ctx context.Context, s *cart.Store) cartResponse {
	items := s.GetAll(ctx)
	return cartResponse{Items: items, Summary: pricing.Summarize(cart.Lines(items))}
}

// exceedsStock reports whether adding want units of id would hold more than stock.
// A stock of zero or less is unknown and not enforced.
func exceedsStock(ctx context.Context, s *cart.Store, id string, want, stock int) bool {
	if stock <= 0 {
		return false
	}
	held := 0
	for _, it := range s.GetAll(ctx) {
		if it.ID == id {
			held = it.Quantity
			break
		}
	}
	return want > stock-held
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, view(ctx, h.store(c)))
}

func (h *CartHTTP) Count(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, map[string]int{"count": h.store(c).Count(ctx)})
}

// AddProduct resolves the product from the remote catalog and adds it, so the
// snapshot is built from the catalog's own record.
func (h *CartHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_product")

	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_add_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		l.Warn("cart_add_failed", "status", 400, "reason", "product_id is empty")
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	p, err := h.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		l.Error("cart_add_failed", "status", 502, "reason", "catalog unavailable", "product_id", req.ProductID, "error", err)
		return remoteFailure(c, "Failed to load product")
	}
	if p.ID == "" {
		l.Warn("cart_add_failed", "status", 404, "reason", "product not found", "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if p.OutOfStock() {
		l.Warn("cart_add_failed", "status", 409, "reason", "out of stock", "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusConflict, "product is out of stock")
	}

	snap, err := p.Snapshot()
	if err != nil {
		l.Error("cart_add_failed", "status", 502, "reason", "incomplete catalog record", "product_id", req.ProductID, "error", err)
		return remoteFailure(c, "Catalog returned an incomplete product")
	}

	s := h.store(c)
	if exceedsStock(ctx, s, snap.ID, atLeastOne(req.Quantity), snap.MaxStock) {
		l.Warn("cart_add_failed", "status", 409, "reason", "not enough stock", "product_id", snap.ID, "stock", snap.MaxStock)
		return echo.NewHTTPError(http.StatusConflict, "not enough stock")
	}
	if err := s.Add(ctx, snap, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrQuantityLimit) {
			l.Warn("cart_add_failed", "status", 400, "reason", "quantity too large", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "quantity too large")
		}
		l.Error("cart_add_failed", "status", 500, "reason", "cannot save cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save cart")
	}

	l.Info("cart_add_success", "product_id", snap.ID, "quantity", req.Quantity)
	return c.JSON(http.StatusCreated, view(ctx, s))
}

func (h *CartHTTP) AddSnapshot(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_snapshot")

	var req addSnapshotRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_add_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s := h.store(c)
	if exceedsStock(ctx, s, req.ID, atLeastOne(req.Quantity), req.MaxStock) {
		l.Warn("cart_add_failed", "status", 409, "reason", "not enough stock", "product_id", req.ID, "stock", req.MaxStock)
		return echo.NewHTTPError(http.StatusConflict, "not enough stock")
	}
	if err := s.Add(ctx, req.Snapshot, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidSnapshot) {
			l.Warn("cart_add_failed", "status", 400, "reason", "invalid snapshot", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product snapshot")
		}
		if errors.Is(err, cart.ErrQuantityLimit) {
			l.Warn("cart_add_failed", "status", 400, "reason", "quantity too large", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "quantity too large")
		}
		l.Error("cart_add_failed", "status", 500, "reason", "cannot save cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save cart")
	}

	l.Info("cart_add_success", "product_id", req.ID, "quantity", req.Quantity)
	return c.JSON(http.StatusCreated, view(ctx, s))
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id := c.Param("id")
	s := h.store(c)
	if req.Quantity >= 1 {
		for _, it := range s.GetAll(ctx) {
			if it.ID == id && it.MaxStock > 0 && req.Quantity > it.MaxStock {
				l.Warn("cart_update_failed", "status", 409, "reason", "not enough stock", "product_id", id, "stock", it.MaxStock)
				return echo.NewHTTPError(http.StatusConflict, "not enough stock")
			}
		}
	}
	if err := s.UpdateQuantity(ctx, id, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrQuantityLimit) {
			l.Warn("cart_update_failed", "status", 400, "reason", "quantity too large", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "quantity too large")
		}
		l.Error("cart_update_failed", "status", 500, "reason", "cannot save cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save cart")
	}
	return c.JSON(http.StatusOK, view(ctx, s))
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	s := h.store(c)
	if err := s.Remove(ctx, c.Param("id")); err != nil {
		l.Error("cart_remove_failed", "status", 500, "reason", "cannot save cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save cart")
	}
	return c.JSON(http.StatusOK, view(ctx, s))
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.store(c).Clear(ctx); err != nil {
		l.Error("cart_clear_failed", "status", 500, "reason", "cannot clear cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear cart")
	}
	l.Info("cart_clear_success")
	return c.NoContent(http.StatusNoContent)
}
