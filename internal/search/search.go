package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/kmdsweets/storefront/internal/catalog"
)

const DefaultIndex = "products"

type Config struct {
	URL      string
	User     string
	Password string
}

// Index keeps a copy of the remote catalog in Elasticsearch for fuzzy search.
type Index struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg Config, l *slog.Logger) (*elasticsearch.Client, error) {
	l.Info("es_connecting", "url", cfg.URL)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es info: %s: %s", res.Status(), body)
	}

	l.Info("es_connected")
	return client, nil
}

func NewIndex(es *elasticsearch.Client, index string) *Index {
	if index == "" {
		index = DefaultIndex
	}
	return &Index{es: es, index: index}
}

// IndexProducts writes one document per product, keyed by the product id.
func (i *Index) IndexProducts(ctx context.Context, products []catalog.Product) error {
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		body, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode product %s: %w", p.ID, err)
		}

		req := esapi.IndexRequest{
			Index:      i.index,
			DocumentID: string(p.ID),
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, i.es)
		if err != nil {
			return fmt.Errorf("index product %s: %w", p.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index product %s: %s", p.ID, res.Status())
		}
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []catalog.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source catalog.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	prods := make([]catalog.Product, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		prods[n] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

type productLister interface {
	Products(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, error)
}

// Sync copies the full remote product list into the index and returns how many
// products were read.
func (i *Index) Sync(ctx context.Context, src productLister) (int, error) {
	products, err := src.Products(ctx, catalog.ProductQuery{})
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	if err := i.IndexProducts(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}
