package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kmdsweets/storefront/internal/catalog"
)

type listResponse struct {
	Data []struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		EffectivePrice float64 `json:"effective_price"`
		Savings        float64 `json:"savings"`
		OutOfStock     bool    `json:"out_of_stock"`
		ImageSrc       string  `json:"image_src"`
	} `json:"data"`
	Meta struct {
		Page    int  `json:"page"`
		Total   int  `json:"total"`
		HasNext bool `json:"has_next"`
	} `json:"meta"`
}

func shelf() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Name: "Rasgulla", SellPrice: num(300), StockQuantity: num(3), SupplierID: "1", ImageURL: "uploads/r.jpg"},
		{ID: "2", Name: "Barfi", Description: "milk", SellPrice: num(500), DiscountedPrice: num(400), StockQuantity: num(0), SupplierID: "2"},
		{ID: "3", Name: "Jalebi", SellPrice: num(250), StockQuantity: num(9), SupplierID: "1", ImageURL: "https://img.test/j.jpg"},
	}
}

func TestCatalog_GetProductsFiltersSortsPages(t *testing.T) {
	env := newTestEnv(t)
	env.src.On("Products", catalog.ProductQuery{Type: "best_seller", Limit: 8}).Return(shelf(), nil).Once()

	rec := env.do(t, http.MethodGet, "/api/products?type=best_seller&limit=8&supplier=1&sort=price-low&size=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[listResponse](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Jalebi", resp.Data[0].Name)
	assert.Equal(t, "https://img.test/j.jpg", resp.Data[0].ImageSrc)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.True(t, resp.Meta.HasNext)
}

func TestCatalog_GetProductsDecoratesCards(t *testing.T) {
	env := newTestEnv(t)
	env.src.On("Products", catalog.ProductQuery{}).Return(shelf(), nil).Once()

	rec := env.do(t, http.MethodGet, "/api/products?search=MILK", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[listResponse](t, rec)
	require.Len(t, resp.Data, 1)
	card := resp.Data[0]
	assert.Equal(t, 400.0, card.EffectivePrice)
	assert.Equal(t, 100.0, card.Savings)
	assert.True(t, card.OutOfStock)
	assert.Empty(t, card.ImageSrc)
}

func TestCatalog_RemoteFailureIs502(t *testing.T) {
	env := newTestEnv(t)
	env.src.On("Products", mock.Anything).Return(nil, &catalog.APIError{Endpoint: "get_products.php", StatusCode: 500}).Once()
	env.src.On("Slides").Return(nil, errors.New("timeout")).Once()

	rec := env.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to load products", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/api/slides", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCatalog_GetProduct(t *testing.T) {
	env := newTestEnv(t)
	env.src.On("Product", "1").Return(&shelf()[0], nil).Once()
	env.src.On("Product", "99").Return(&catalog.Product{}, nil).Once()

	rec := env.do(t, http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Rasgulla", body["name"])
	assert.Equal(t, "https://cdn.test/uploads/r.jpg", body["image_src"])
	assert.Equal(t, 300.0, body["sell_price"])

	rec = env.do(t, http.MethodGet, "/api/products/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalog_SlidesAndSuppliers(t *testing.T) {
	env := newTestEnv(t)
	env.src.On("Slides").Return([]catalog.Slide{{ID: "1", Title: "Diwali", ImageURL: "slides/1.jpg"}}, nil).Once()
	env.src.On("Suppliers").Return([]catalog.Supplier{{ID: "2", Name: "Haldiram"}}, nil).Once()

	rec := env.do(t, http.MethodGet, "/api/slides", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slides := decode[[]catalog.Slide](t, rec)
	require.Len(t, slides, 1)
	assert.Equal(t, "https://cdn.test/slides/1.jpg", slides[0].ImageURL)

	rec = env.do(t, http.MethodGet, "/api/suppliers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Haldiram", decode[[]catalog.Supplier](t, rec)[0].Name)
}

type searcherMock struct {
	mock.Mock
}

func (m *searcherMock) Search(_ context.Context, q string, from, size int) (int64, []catalog.Product, error) {
	args := m.Called(q, from, size)
	ps, _ := args.Get(1).([]catalog.Product)
	return args.Get(0).(int64), ps, args.Error(2)
}

func TestSearch_UsesIndex(t *testing.T) {
	env := newTestEnv(t)
	idx := &searcherMock{}
	idx.On("Search", "barfy", 2, 2).Return(int64(5), []catalog.Product{shelf()[1]}, nil).Once()
	env.search.Index = idx

	rec := env.do(t, http.MethodGet, "/api/search?q=barfy&page=2&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[listResponse](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Barfi", resp.Data[0].Name)
	assert.Equal(t, 5, resp.Meta.Total)
	assert.True(t, resp.Meta.HasNext)
	idx.AssertExpectations(t)
}

func TestSearch_FallsBackToCatalogFilter(t *testing.T) {
	env := newTestEnv(t)
	idx := &searcherMock{}
	idx.On("Search", "jal", 0, 12).Return(int64(0), nil, errors.New("es down")).Once()
	env.search.Index = idx
	env.src.On("Products", catalog.ProductQuery{}).Return(shelf(), nil).Once()

	rec := env.do(t, http.MethodGet, "/api/search?q=jal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[listResponse](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Jalebi", resp.Data[0].Name)
}

func TestSearch_EmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/search?q=%20", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
