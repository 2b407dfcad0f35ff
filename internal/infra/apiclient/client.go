package apiclient

import (
	"net/http"
	"strings"
	"time"
)

const (
	ProductsPath = "/api/products"
	OrdersPath   = "/api/orders"
)

// Client talks to the catalog and order endpoints of the storefront API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}
