package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmdsweets/storefront/internal/catalog"
	"github.com/kmdsweets/storefront/internal/logging"
	"github.com/kmdsweets/storefront/internal/pricing"
	"github.com/kmdsweets/storefront/internal/util"
)

type CatalogHTTP struct {
	Source       catalog.Source
	AssetBaseURL string
}

// productView adds the values every product card computes on its own.
type productView struct {
	catalog.Product
	EffectivePrice float64 `json:"effective_price"`
	Savings        float64 `json:"savings"`
	OutOfStock     bool    `json:"out_of_stock"`
	ImageSrc       string  `json:"image_src"`
}

func (h *CatalogHTTP) asset(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(h.AssetBaseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}

func (h *CatalogHTTP) view(p catalog.Product) productView {
	price := p.EffectivePrice()
	return productView{
		Product:        p,
		EffectivePrice: price,
		Savings:        pricing.DiscountSavings(p.SellPrice.Value, price),
		OutOfStock:     p.OutOfStock(),
		ImageSrc:       h.asset(p.ImageURL),
	}
}

func (h *CatalogHTTP) views(ps []catalog.Product) []productView {
	out := make([]productView, len(ps))
	for i, p := range ps {
		out[i] = h.view(p)
	}
	return out
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	q := catalog.ProductQuery{
		Type:  c.QueryParam("type"),
		Limit: util.ParseIntDefault(c.QueryParam("limit"), 0),
	}
	products, err := h.Source.Products(ctx, q)
	if err != nil {
		l.Error("get_products_failed", "status", 502, "reason", "catalog unavailable", "error", err)
		return remoteFailure(c, "Failed to load products")
	}

	filtered := catalog.Filter(products, catalog.ListOptions{
		SupplierID: c.QueryParam("supplier"),
		Search:     c.QueryParam("search"),
		SortBy:     c.QueryParam("sort"),
	})

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	items, meta := util.Paginate(filtered, page, size)

	l.Info("get_products_success", "total", meta.Total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": h.views(items),
		"meta": meta,
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id := strings.TrimSpace(c.Param("id"))
	p, err := h.Source.Product(ctx, id)
	if err != nil {
		l.Error("get_product_failed", "status", 502, "reason", "catalog unavailable", "product_id", id, "error", err)
		return remoteFailure(c, "Failed to load product")
	}
	if p.ID == "" {
		l.Warn("get_product_failed", "status", 404, "reason", "product not found", "product_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, h.view(*p))
}

func (h *CatalogHTTP) GetSlides(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_slides")

	slides, err := h.Source.Slides(ctx)
	if err != nil {
		l.Error("get_slides_failed", "status", 502, "error", err)
		return remoteFailure(c, "Failed to load slides")
	}
	for i := range slides {
		slides[i].ImageURL = h.asset(slides[i].ImageURL)
	}
	return c.JSON(http.StatusOK, slides)
}

func (h *CatalogHTTP) GetSuppliers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_suppliers")

	suppliers, err := h.Source.Suppliers(ctx)
	if err != nil {
		l.Error("get_suppliers_failed", "status", 502, "error", err)
		return remoteFailure(c, "Failed to load suppliers")
	}
	return c.JSON(http.StatusOK, suppliers)
}
