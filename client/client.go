// Package client is the API gateway the mobile views talk through: one HTTP
// call per catalog operation against a fixed base address, with failures
// mapped to stable user-facing errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"catalog-service/models"
)

// ImageFile is an image selected for upload.
type ImageFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// ProductForm carries the create form fields. Price stays a string: the form
// collects text input and the server owns numeric validation.
type ProductForm struct {
	Name        string
	Price       string
	Category    string
	Description string
	InStock     bool
	Image       *ImageFile
}

// ProductUpdate carries a partial update; nil fields are not sent.
type ProductUpdate struct {
	Name        *string
	Price       *string
	Category    *string
	Description *string
	InStock     *bool
	Image       *ImageFile
}

// Client issues catalog API requests. No retries, no caching.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client for the given base address, e.g. "http://10.0.2.2:5000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var products []models.Product
	if err := c.do(req, &products, "failed to fetch products"); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var product models.Product
	if err := c.do(req, &product, "failed to fetch product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct submits the create form as multipart, attaching the image
// under the "image" field when one is selected.
func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (*models.Product, error) {
	fields := map[string]string{
		"name":        form.Name,
		"price":       form.Price,
		"category":    form.Category,
		"description": form.Description,
		"inStock":     fmt.Sprintf("%t", form.InStock),
	}
	body, contentType, err := buildMultipart(fields, form.Image)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var product models.Product
	if err := c.do(req, &product, "failed to create product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct submits only the supplied fields as multipart.
func (c *Client) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*models.Product, error) {
	fields := map[string]string{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.InStock != nil {
		fields["inStock"] = fmt.Sprintf("%t", *update.InStock)
	}
	body, contentType, err := buildMultipart(fields, update.Image)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/products/"+id, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var product models.Product
	if err := c.do(req, &product, "failed to update product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/products/"+id, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, nil, "failed to delete product")
}

// do runs the request and decodes a 2xx response into out. A non-success
// status becomes an error carrying the fixed user-facing message, wrapping
// whatever detail the server returned.
func (c *Client) do(req *http.Request, out interface{}, failMsg string) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: status %d: %s", failMsg, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	return nil
}

func buildMultipart(fields map[string]string, image *ImageFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write form field: %w", err)
		}
	}

	if image != nil {
		// CreateFormFile would declare application/octet-stream; the server
		// checks the declared image content type, so set it explicitly.
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename="%s"`, image.Name))
		h.Set("Content-Type", image.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, image.Reader); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
