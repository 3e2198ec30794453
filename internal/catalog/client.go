// Package catalog talks to the remote catalog API. All traffic goes
// through the transport pipeline, so requests carry the session's bearer
// token and a 401 ends the session before the error reaches the caller.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/sync/errgroup"

	"github.com/NicolasArtemio/frontend-basv1/internal/model"
)

type Config struct {
	BaseURL string
}

type Client struct {
	client *http.Client
	config Config
}

// NewClient builds a catalog client over the given round tripper
// (normally a transport.Pipeline).
func NewClient(cfg Config, rt http.RoundTripper) *Client {
	return &Client{
		client: &http.Client{
			Transport: rt,
			Timeout:   10 * time.Second,
		},
		config: cfg,
	}
}

// GetCategories fetches the product category list.
func (c *Client) GetCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// GetProducts fetches the full product list.
func (c *Client) GetProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// Load fetches categories and products in parallel, the initial page
// data in one call.
func (c *Client) Load(ctx context.Context) ([]model.Category, []model.Product, error) {
	g, ctx := errgroup.WithContext(ctx)
	var categories []model.Category
	var products []model.Product

	g.Go(func() error {
		var err error
		categories, err = c.GetCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = c.GetProducts(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, products, nil
}

// CreateProduct registers a new catalog entry and returns the created
// record.
func (c *Client) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	payload, err := json.Marshal(product)
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to encode product: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/products", bytes.NewReader(payload))
	if err != nil {
		return model.Product{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created model.Product
	if err := c.do(req, &created); err != nil {
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// BulkUpload streams a product file to the import endpoint and returns
// the import summary.
func (c *Client) BulkUpload(ctx context.Context, filename string, file io.Reader) (model.ImportSummary, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return model.ImportSummary{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return model.ImportSummary{}, fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return model.ImportSummary{}, fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/products/bulk-upload", &body)
	if err != nil {
		return model.ImportSummary{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var summary model.ImportSummary
	if err := c.do(req, &summary); err != nil {
		return model.ImportSummary{}, fmt.Errorf("failed to bulk upload products: %w", err)
	}
	return summary, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			if apiErr.StatusCode == 0 {
				apiErr.StatusCode = resp.StatusCode
			}
			return &apiErr
		}
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
