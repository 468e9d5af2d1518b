// ABOUTME: Product catalog client wrapping the /products/ endpoints
// ABOUTME: Tolerates bare-array and envelope list responses, caches categories

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

const categoriesCacheKey = "catalog:categories"

// CatalogClient wraps the backend's product endpoints.
type CatalogClient struct {
	api      *Client
	cache    *cache.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewCatalogClient creates a catalog client. The cache is optional; without
// it every Categories call hits the backend.
func NewCatalogClient(api *Client, c *cache.Cache, cacheTTL time.Duration) *CatalogClient {
	return &CatalogClient{api: api, cache: c, cacheTTL: cacheTTL}
}

// Products lists products matching the filters. The backend has returned
// both a bare array and a paginated envelope across versions; either way
// the caller gets a flat, order-preserved slice.
func (c *CatalogClient) Products(ctx context.Context, filters models.SearchFilters) ([]models.Product, error) {
	path := "/products/"
	if query := filters.Values().Encode(); query != "" {
		path += "?" + query
	}

	var raw json.RawMessage
	if err := c.api.JSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, c.wrap(err, "failed to fetch products")
	}
	return flattenProductList(raw)
}

// Search queries the dedicated search endpoint, returning the paginated
// envelope as-is.
func (c *CatalogClient) Search(ctx context.Context, filters models.SearchFilters) (*models.SearchResponse, error) {
	path := "/products/search/"
	if query := filters.Values().Encode(); query != "" {
		path += "?" + query
	}

	var resp models.SearchResponse
	if err := c.api.JSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, c.wrap(err, "failed to search products")
	}
	return &resp, nil
}

// Product fetches a single listing by ID.
func (c *CatalogClient) Product(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := c.api.JSON(ctx, http.MethodGet, productPath(id), nil, &product); err != nil {
		return nil, c.wrap(err, "failed to fetch product")
	}
	return &product, nil
}

// Create posts a new listing as a multipart form.
func (c *CatalogClient) Create(ctx context.Context, input models.CreateProductInput) (*models.Product, error) {
	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"price":       input.Price,
	}
	if input.IsAvailable != nil {
		fields["is_available"] = strconv.FormatBool(*input.IsAvailable)
	}

	var product models.Product
	if err := c.api.Multipart(ctx, http.MethodPost, "/products/", fields, "image", input.ImageName, input.Image, &product); err != nil {
		return nil, c.wrap(err, "failed to create product")
	}
	return &product, nil
}

// Update patches a listing with only the provided fields.
func (c *CatalogClient) Update(ctx context.Context, id int, input models.UpdateProductInput) (*models.Product, error) {
	fields := map[string]string{}
	if input.Title != "" {
		fields["title"] = input.Title
	}
	if input.Description != "" {
		fields["description"] = input.Description
	}
	if input.Category != "" {
		fields["category"] = input.Category
	}
	if input.Price != "" {
		fields["price"] = input.Price
	}
	if input.IsAvailable != nil {
		fields["is_available"] = strconv.FormatBool(*input.IsAvailable)
	}

	var product models.Product
	if err := c.api.Multipart(ctx, http.MethodPatch, productPath(id), fields, "image", input.ImageName, input.Image, &product); err != nil {
		return nil, c.wrap(err, "failed to update product")
	}
	return &product, nil
}

// Delete removes a listing.
func (c *CatalogClient) Delete(ctx context.Context, id int) error {
	if err := c.api.JSON(ctx, http.MethodDelete, productPath(id), nil, nil); err != nil {
		return c.wrap(err, "failed to delete product")
	}
	return nil
}

// ToggleAvailability flips a listing's availability flag.
func (c *CatalogClient) ToggleAvailability(ctx context.Context, id int) (*models.ToggleAvailabilityResponse, error) {
	var resp models.ToggleAvailabilityResponse
	if err := c.api.JSON(ctx, http.MethodPost, productPath(id)+"toggle-availability/", nil, &resp); err != nil {
		return nil, c.wrap(err, "failed to toggle product availability")
	}
	return &resp, nil
}

// UserProducts lists the current user's own listings.
func (c *CatalogClient) UserProducts(ctx context.Context) ([]models.Product, error) {
	var raw json.RawMessage
	if err := c.api.JSON(ctx, http.MethodGet, "/products/my-products/", nil, &raw); err != nil {
		return nil, c.wrap(err, "failed to fetch user products")
	}
	return flattenProductList(raw)
}

// Categories fetches the category reference list. Results are cached and
// concurrent fetches are collapsed into one backend call.
func (c *CatalogClient) Categories(ctx context.Context) ([]models.Category, error) {
	if c.cache != nil {
		if cached, found := c.cache.Get(categoriesCacheKey); found {
			return cached.([]models.Category), nil
		}
	}

	result, err, _ := c.group.Do(categoriesCacheKey, func() (interface{}, error) {
		var categories []models.Category
		if err := c.api.JSON(ctx, http.MethodGet, "/products/categories/list/", nil, &categories); err != nil {
			return nil, c.wrap(err, "failed to fetch categories")
		}
		if c.cache != nil {
			c.cache.SetWithTTL(categoriesCacheKey, categories, c.cacheTTL)
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Category), nil
}

// ImageURL resolves a product image reference to an absolute URL. Empty
// input stays empty and absolute URLs pass through unchanged; anything
// else is prefixed with the backend origin. No network call.
func (c *CatalogClient) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.api.Origin() + path
}

func productPath(id int) string {
	return fmt.Sprintf("/products/%d/", id)
}

// flattenProductList accepts either a bare JSON array or an envelope with
// a results array and always returns the flat list.
func flattenProductList(raw json.RawMessage) ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err == nil {
		return products, nil
	}

	var envelope struct {
		Results []models.Product `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("invalid product list response: %w", err)
	}
	if envelope.Results == nil {
		return []models.Product{}, nil
	}
	return envelope.Results, nil
}

// wrap surfaces the backend's detail/message if present, else a fixed
// fallback. Unlike the auth path, catalog errors stay plain errors.
func (c *CatalogClient) wrap(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		var body struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		if json.Unmarshal(apiErr.Body, &body) == nil {
			if body.Detail != "" {
				return fmt.Errorf("%s: %w", body.Detail, err)
			}
			if body.Message != "" {
				return fmt.Errorf("%s: %w", body.Message, err)
			}
		}
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
