// file: client/catalog.go

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-shop-api/logger"
	"go-shop-api/model"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrUpstream signals that the external catalog could not be reached or
	// answered with a non-success status. Handlers map it to 502.
	ErrUpstream = errors.New("failed to fetch products from catalog")
	// ErrProductNotFound signals that no catalog product matched the query.
	ErrProductNotFound = errors.New("product not found")
)

// ICatalogCache is the subset of the Redis API the catalog client relies on.
// Declaring the contract here keeps the client mockable in tests.
type ICatalogCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ICatalogClient is the contract the order service consumes. The catalog is
// an external collaborator; orders only need product resolution.
type ICatalogClient interface {
	ListProducts(ctx context.Context, skip, limit int) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int) (*model.Product, error)
	GetProductByName(ctx context.Context, name string) (*model.Product, error)
}

// CatalogClient is a cached pass-through to the dummyjson product catalog.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	cache      ICatalogCache
	cacheTTL   time.Duration
}

func NewCatalogClient(baseURL string, cache ICatalogCache, cacheTTL time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// listResponse mirrors the dummyjson /products payload.
type listResponse struct {
	Products []model.Product `json:"products"`
}

// ListProducts fetches a page of products, serving from the cache when a
// previous request populated it.
func (c *CatalogClient) ListProducts(ctx context.Context, skip, limit int) ([]model.Product, error) {
	cacheKey := fmt.Sprintf("products_skip_%d_limit_%d", skip, limit)

	if cached, err := c.cacheGet(ctx, cacheKey); err == nil {
		var products []model.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			return products, nil
		}
	}

	url := fmt.Sprintf("%s/products?skip=%d&limit=%d", c.baseURL, skip, limit)
	var payload listResponse
	if err := c.fetch(ctx, url, &payload); err != nil {
		return nil, err
	}

	c.cachePut(ctx, cacheKey, payload.Products)
	return payload.Products, nil
}

// GetProductByID fetches a single product by its catalog ID.
func (c *CatalogClient) GetProductByID(ctx context.Context, id int) (*model.Product, error) {
	cacheKey := fmt.Sprintf("product_id_%d", id)

	if cached, err := c.cacheGet(ctx, cacheKey); err == nil {
		var product model.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
	}

	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	var product model.Product
	if err := c.fetch(ctx, url, &product); err != nil {
		return nil, err
	}

	c.cachePut(ctx, cacheKey, product)
	return &product, nil
}

// GetProductByName resolves a product by its exact title. The catalog has no
// title lookup endpoint, so the client scans the first page of products the
// same way the upstream search would.
func (c *CatalogClient) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	cacheKey := "product_name_" + name

	if cached, err := c.cacheGet(ctx, cacheKey); err == nil {
		var product model.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
	}

	products, err := c.ListProducts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].Title == name {
			c.cachePut(ctx, cacheKey, products[i])
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (c *CatalogClient) fetch(ctx context.Context, url string, payload interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).WithField("url", url).Error("Catalog request failed")
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithField("status_code", resp.StatusCode).Error("Catalog responded with an error status")
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

// cacheGet returns the raw cached bytes for key, or an error on miss or when
// no cache is configured.
func (c *CatalogClient) cacheGet(ctx context.Context, key string) ([]byte, error) {
	if c.cache == nil {
		return nil, redis.Nil
	}
	val, err := c.cache.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// cachePut stores value under key. Cache failures only degrade performance,
// so they are logged and swallowed.
func (c *CatalogClient) cachePut(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).WithField("cache_key", key).Warn("Failed to cache catalog response")
	}
}
