// Package catalogclient is a typed HTTP client for the catalog API.
package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ProductCatalog/internal/catalog"
)

var (
	ErrNotFound    = errors.New("catalog product not found")
	ErrBadStatus   = errors.New("catalog bad status")
	ErrUnavailable = errors.New("catalog unavailable")
)

type ProductList struct {
	Count    int               `json:"count"`
	Category *string           `json:"category,omitempty"`
	Products []catalog.Product `json:"products"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *Client) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	err := c.getJSON(ctx, "/products/"+strconv.FormatInt(id, 10), &p)
	return p, err
}

// ListProducts lists the catalog; a non-empty category applies the filter.
func (c *Client) ListProducts(ctx context.Context, category string) (ProductList, error) {
	path := "/products"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}

	var out ProductList
	err := c.getJSON(ctx, path, &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
