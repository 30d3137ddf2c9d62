package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-service/client"
	"catalog-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	want := []models.Product{
		{ID: uuid.New(), Name: "Widget", Price: 5, Category: "Tools", InStock: true},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	api := client.New(srv.URL)
	got, err := api.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, "Widget", got[0].Name)
}

func TestListProductsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	api := client.New(srv.URL)
	_, err := api.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch products")
	assert.Contains(t, err.Error(), "boom", "server detail must be carried in the error")
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Product not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	api := client.New(srv.URL)
	_, err := api.GetProduct(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch product")
}

func TestCreateProductSendsMultipart(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "Widget", r.FormValue("name"))
		assert.Equal(t, "5", r.FormValue("price"))
		assert.Equal(t, "Tools", r.FormValue("category"))
		assert.Equal(t, "true", r.FormValue("inStock"))

		_, fh, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "widget.jpg", fh.Filename)
		assert.Equal(t, "image/jpeg", fh.Header.Get("Content-Type"),
			"declared content type must survive the multipart encoding")

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Product{ID: id, Name: "Widget", Price: 5, Category: "Tools", InStock: true})
	}))
	defer srv.Close()

	api := client.New(srv.URL)
	product, err := api.CreateProduct(context.Background(), client.ProductForm{
		Name:     "Widget",
		Price:    "5",
		Category: "Tools",
		InStock:  true,
		Image: &client.ImageFile{
			Name:        "widget.jpg",
			ContentType: "image/jpeg",
			Reader:      bytes.NewReader([]byte("jpeg bytes")),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, id, product.ID)
}

func TestUpdateProductSendsOnlySuppliedFields(t *testing.T) {
	id := uuid.NewString()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/"+id, r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "9.99", r.FormValue("price"))
		_, hasName := r.MultipartForm.Value["name"]
		assert.False(t, hasName, "unsupplied fields must not be sent")

		json.NewEncoder(w).Encode(models.Product{Name: "Widget", Price: 9.99})
	}))
	defer srv.Close()

	api := client.New(srv.URL)
	price := "9.99"
	product, err := api.UpdateProduct(context.Background(), id, client.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 9.99, product.Price)
}

func TestDeleteProduct(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"message": "Product deleted successfully"})
	}))
	defer srv.Close()

	api := client.New(srv.URL)
	require.NoError(t, api.DeleteProduct(context.Background(), uuid.NewString()))
	assert.True(t, called)
}

func TestDeleteProductFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Product not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	api := client.New(srv.URL)
	err := api.DeleteProduct(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete product")
}
