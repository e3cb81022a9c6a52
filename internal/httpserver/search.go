package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmdsweets/storefront/internal/catalog"
	"github.com/kmdsweets/storefront/internal/logging"
	"github.com/kmdsweets/storefront/internal/util"
)

type ProductSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []catalog.Product, error)
}

// SearchHTTP uses the Elasticsearch index when one is configured and filters a
// fresh catalog listing otherwise.
type SearchHTTP struct {
	Index   ProductSearcher
	Catalog *CatalogHTTP
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	if h.Index != nil {
		from, limit := util.Calculate(page, size)
		total, products, err := h.Index.Search(ctx, q, from, limit)
		if err == nil {
			page = util.ClampPage(page)
			return c.JSON(http.StatusOK, map[string]any{
				"data": h.Catalog.views(products),
				"meta": util.PageMeta{
					Page:       page,
					Size:       limit,
					Total:      int(total),
					TotalPages: (int(total) + limit - 1) / limit,
					HasPrev:    page > 1,
					HasNext:    int64(from+limit) < total,
				},
			})
		}
		l.Warn("search_index_failed", "reason", "falling back to catalog filter", "error", err)
	}

	products, err := h.Catalog.Source.Products(ctx, catalog.ProductQuery{})
	if err != nil {
		l.Error("search_failed", "status", 502, "reason", "catalog unavailable", "error", err)
		return remoteFailure(c, "Failed to load products")
	}
	matched := catalog.Filter(products, catalog.ListOptions{Search: q, SortBy: c.QueryParam("sort")})
	items, meta := util.Paginate(matched, page, size)

	return c.JSON(http.StatusOK, map[string]any{
		"data": h.Catalog.views(items),
		"meta": meta,
	})
}
