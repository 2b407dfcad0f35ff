package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	domproduct "example.com/loja/internal/domain/product"
	cataloguc "example.com/loja/internal/usecase/catalog"
)

type productsResponse struct {
	Products []*domproduct.Product `json:"products"`
}

// Search implements catalog.Client. Any transport error, non-2xx status or
// undecodable body is reported as ErrCatalogUnavailable.
func (c *Client) Search(ctx context.Context, q cataloguc.Query) ([]*domproduct.Product, error) {
	params := url.Values{}
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	endpoint := c.baseURL + ProductsPath
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domproduct.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domproduct.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domproduct.ErrCatalogUnavailable, resp.StatusCode)
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode products: %w", domproduct.ErrCatalogUnavailable, err)
	}
	if body.Products == nil {
		return nil, fmt.Errorf("%w: response has no products field", domproduct.ErrCatalogUnavailable)
	}
	return body.Products, nil
}
