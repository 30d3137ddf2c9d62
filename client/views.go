package client

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"catalog-service/models"
)

// ViewState tracks where a screen is in its loading lifecycle.
type ViewState int

const (
	StateLoading ViewState = iota
	StateLoaded
	StateError
)

// ErrFormInvalid blocks submission while local validation fails.
var ErrFormInvalid = errors.New("form has validation errors")

// ListView holds the browse screen state: loading → loaded/error, with
// manual retry on failure. All state is in-memory per session.
type ListView struct {
	api      *Client
	State    ViewState
	Products []models.Product
	Err      error
}

func NewListView(api *Client) *ListView {
	return &ListView{api: api, State: StateLoading}
}

// Load fetches the catalog and settles into loaded or error state.
func (v *ListView) Load(ctx context.Context) {
	v.State = StateLoading
	v.Err = nil

	products, err := v.api.ListProducts(ctx)
	if err != nil {
		v.State = StateError
		v.Err = err
		return
	}
	v.Products = products
	v.State = StateLoaded
}

// Retry re-runs the fetch after an error.
func (v *ListView) Retry(ctx context.Context) {
	v.Load(ctx)
}

// DetailView holds a single product screen.
type DetailView struct {
	api     *Client
	State   ViewState
	Product *models.Product
	Err     error
}

func NewDetailView(api *Client) *DetailView {
	return &DetailView{api: api, State: StateLoading}
}

func (v *DetailView) Load(ctx context.Context, id string) {
	v.State = StateLoading
	v.Err = nil

	product, err := v.api.GetProduct(ctx, id)
	if err != nil {
		v.State = StateError
		v.Err = err
		return
	}
	v.Product = product
	v.State = StateLoaded
}

// Delete removes the loaded product. The caller navigates back on success.
func (v *DetailView) Delete(ctx context.Context) error {
	if v.Product == nil {
		return errors.New("no product loaded")
	}
	return v.api.DeleteProduct(ctx, v.Product.ID.String())
}

// FormData mirrors the product form fields. Price is text until submission.
type FormData struct {
	Name        string
	Description string
	Price       string
	Category    string
	InStock     bool
	Image       *ImageFile
}

// FormView drives the create/edit screen: local validation gates submission,
// then the gateway call either succeeds or surfaces its error.
type FormView struct {
	api      *Client
	Data     FormData
	Errors   map[string]string
	existing *models.Product
}

// NewFormView prepares a form, prefilled from an existing product when
// editing.
func NewFormView(api *Client, existing *models.Product) *FormView {
	v := &FormView{
		api:      api,
		Data:     FormData{InStock: true},
		Errors:   map[string]string{},
		existing: existing,
	}
	if existing != nil {
		v.Data = FormData{
			Name:        existing.Name,
			Description: existing.Description,
			Price:       strconv.FormatFloat(existing.Price, 'f', -1, 64),
			Category:    existing.Category,
			InStock:     existing.InStock,
		}
	}
	return v
}

// Editing reports whether the form updates an existing product.
func (v *FormView) Editing() bool {
	return v.existing != nil
}

// Validate runs the local field checks and records per-field messages.
func (v *FormView) Validate() bool {
	v.Errors = map[string]string{}

	if strings.TrimSpace(v.Data.Name) == "" {
		v.Errors["name"] = "Name is required"
	}
	if price, err := strconv.ParseFloat(v.Data.Price, 64); err != nil || price <= 0 {
		v.Errors["price"] = "Valid price is required"
	}
	if strings.TrimSpace(v.Data.Category) == "" {
		v.Errors["category"] = "Category is required"
	}

	return len(v.Errors) == 0
}

// Submit validates locally, then creates or updates through the gateway.
// Submission is blocked while validation fails.
func (v *FormView) Submit(ctx context.Context) (*models.Product, error) {
	if !v.Validate() {
		return nil, ErrFormInvalid
	}

	if v.existing == nil {
		return v.api.CreateProduct(ctx, ProductForm{
			Name:        v.Data.Name,
			Price:       v.Data.Price,
			Category:    v.Data.Category,
			Description: v.Data.Description,
			InStock:     v.Data.InStock,
			Image:       v.Data.Image,
		})
	}

	return v.api.UpdateProduct(ctx, v.existing.ID.String(), ProductUpdate{
		Name:        &v.Data.Name,
		Price:       &v.Data.Price,
		Category:    &v.Data.Category,
		Description: &v.Data.Description,
		InStock:     &v.Data.InStock,
		Image:       v.Data.Image,
	})
}
