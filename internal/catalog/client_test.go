package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Products(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get_products.php", r.URL.Path)
		assert.Equal(t, "best_seller", r.URL.Query().Get("type"))
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[` + productJSON + `]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/api/")
	ps, err := c.Products(context.Background(), ProductQuery{Type: "best_seller", Limit: 4})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, ID("12"), ps[0].ID)
	assert.Equal(t, 500.0, ps[0].SellPrice.Value)
}

func TestClient_ProductSlidesSuppliers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_product.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(productJSON))
	})
	mux.HandleFunc("/get_slides.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"Diwali","description":"Festive","image_url":"s.jpg"}]`))
	})
	mux.HandleFunc("/get_suppliers.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"2","name":"Haldiram","contact":"123","address":"Delhi"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	p, err := c.Product(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, "Kaju Katli", p.Name)

	slides, err := c.Slides(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, ID("1"), slides[0].ID)

	sups, err := c.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, sups, 1)
	assert.Equal(t, "Haldiram", sups[0].Name)
}

func TestClient_NonOKIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Slides(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "get_slides.php", apiErr.Endpoint)
}
