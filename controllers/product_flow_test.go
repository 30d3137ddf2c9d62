package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"catalog-service/controllers"
	"catalog-service/models"
	"catalog-service/repository"
	"catalog-service/routes"
	"catalog-service/services"
	"catalog-service/uploads"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupApp wires the real service against the in-memory adapter and a real
// upload store, the same composition main.go performs.
func setupApp(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := uploads.NewStore(dir, "/uploads")
	require.NoError(t, err)

	svc := services.NewProductService(repository.NewMemoryAdapter(), store)
	ctrl := controllers.NewProductController(svc, nil)

	r := gin.New()
	routes.RegisterRoutes(r, ctrl)
	return r, dir
}

func multipartWithImage(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func doRequest(r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProductLifecycle(t *testing.T) {
	r, dir := setupApp(t)

	// Create with a valid jpeg attached.
	body, contentType := multipartWithImage(t,
		map[string]string{"name": "Widget", "price": "5", "category": "Tools"},
		"widget.jpg", "image/jpeg", []byte("jpeg bytes"))
	w := doRequest(r, http.MethodPost, "/products", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.Image)
	assert.Regexp(t, regexp.MustCompile(`^/uploads/image-\d+\.jpg$`), *created.Image)
	assert.True(t, created.InStock)

	// The file was actually written to the content directory.
	_, err := os.Stat(filepath.Join(dir, filepath.Base(*created.Image)))
	require.NoError(t, err)

	// Fetching by id returns the identical record.
	w = doRequest(r, http.MethodGet, "/products/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)

	// Partial update: only price and updatedAt change.
	body, contentType = multipartWithImage(t, map[string]string{"price": "9.99"}, "", "", nil)
	w = doRequest(r, http.MethodPut, "/products/"+created.ID.String(), body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 9.99, updated.Price)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, *created.Image, *updated.Image)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	// Delete, then a fetch must 404.
	w = doRequest(r, http.MethodDelete, "/products/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/products/"+created.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The image file is not cleaned up on delete.
	_, err = os.Stat(filepath.Join(dir, filepath.Base(*created.Image)))
	assert.NoError(t, err)
}

func TestCreateRejectsNonImageUpload(t *testing.T) {
	r, dir := setupApp(t)

	body, contentType := multipartWithImage(t,
		map[string]string{"name": "Widget", "price": "5", "category": "Tools"},
		"notes.txt", "image/png", []byte("not an image"))
	w := doRequest(r, http.MethodPost, "/products", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The whole request is rejected: nothing persisted, nothing written.
	w = doRequest(r, http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateWithoutImageHasNullImage(t *testing.T) {
	r, _ := setupApp(t)

	body, contentType := multipartWithImage(t,
		map[string]string{"name": "Widget", "price": "5", "category": "Tools"},
		"", "", nil)
	w := doRequest(r, http.MethodPost, "/products", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "null", string(raw["image"]), "image must serialize as JSON null")
}

func TestUpdateReplacesImageReference(t *testing.T) {
	r, _ := setupApp(t)

	body, contentType := multipartWithImage(t,
		map[string]string{"name": "Widget", "price": "5", "category": "Tools"},
		"first.png", "image/png", []byte("first"))
	w := doRequest(r, http.MethodPost, "/products", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body, contentType = multipartWithImage(t, map[string]string{},
		"second.jpeg", "image/jpeg", []byte("second"))
	w = doRequest(r, http.MethodPut, "/products/"+created.ID.String(), body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.Image)
	assert.NotEqual(t, *created.Image, *updated.Image)
	assert.Regexp(t, regexp.MustCompile(`^/uploads/image-\d+\.jpeg$`), *updated.Image)
}
