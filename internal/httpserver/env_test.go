package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kmdsweets/storefront/internal/cart"
	"github.com/kmdsweets/storefront/internal/catalog"
	"github.com/kmdsweets/storefront/internal/contact"
	clientmw "github.com/kmdsweets/storefront/internal/middleware/client"
	"github.com/kmdsweets/storefront/internal/session"
	"github.com/kmdsweets/storefront/internal/storage"
	"github.com/kmdsweets/storefront/internal/tokens"
)

const (
	testSecret = "test-client-secret"
	testCSRF   = "csrf-test-token"
)

type sourceMock struct {
	mock.Mock
}

func (m *sourceMock) Products(_ context.Context, q catalog.ProductQuery) ([]catalog.Product, error) {
	args := m.Called(q)
	ps, _ := args.Get(0).([]catalog.Product)
	return ps, args.Error(1)
}

func (m *sourceMock) Product(_ context.Context, id string) (*catalog.Product, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *sourceMock) Slides(_ context.Context) ([]catalog.Slide, error) {
	args := m.Called()
	s, _ := args.Get(0).([]catalog.Slide)
	return s, args.Error(1)
}

func (m *sourceMock) Suppliers(_ context.Context) ([]catalog.Supplier, error) {
	args := m.Called()
	s, _ := args.Get(0).([]catalog.Supplier)
	return s, args.Error(1)
}

type senderMock struct {
	mock.Mock
}

func (m *senderMock) Send(_ context.Context, msg contact.Message) error {
	return m.Called(msg).Error(0)
}

type testEnv struct {
	e      *echo.Echo
	reg    *cart.Registry
	src    *sourceMock
	sender *senderMock
	search *SearchHTTP
}

func num(v float64) catalog.Number { return catalog.Number{Value: v, Valid: true} }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv := storage.NewMemoryKV()
	reg := cart.NewRegistry(kv)
	src := &sourceMock{}
	sender := &senderMock{}
	catalogH := &CatalogHTTP{Source: src, AssetBaseURL: "https://cdn.test/"}
	searchH := &SearchHTTP{Catalog: catalogH}

	e := echo.New()
	Register(e, &Deps{
		CartHandler:    &CartHTTP{Carts: reg, Catalog: src},
		CatalogHandler: catalogH,
		SearchHandler:  searchH,
		ContactHandler: &ContactHTTP{Sender: sender},
		SessionHandler: &SessionHTTP{Svc: session.NewService(kv)},
		Events:         NewEventsHub(reg),
		Client:         clientmw.Config{Secret: []byte(testSecret)},
	})

	t.Cleanup(func() {
		src.AssertExpectations(t)
		sender.AssertExpectations(t)
	})
	return &testEnv{e: e, reg: reg, src: src, sender: sender, search: searchH}
}

func clientCookie(t *testing.T, id string) *http.Cookie {
	t.Helper()
	tok, err := tokens.NewClientToken(id, time.Now().Add(time.Hour), []byte(testSecret))
	require.NoError(t, err)
	return &http.Cookie{Name: clientmw.CookieName, Value: tok}
}

func newRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: testCSRF})
	req.Header.Set("X-CSRF-Token", testCSRF)
	req.Header.Set("Origin", "http://example.com")
	return req
}

// doAs sends a request as the given client, with a valid CSRF pair.
func (env *testEnv) doAs(t *testing.T, client, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body)
	req.AddCookie(clientCookie(t, client))
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return env.doAs(t, "client-1", method, path, body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
