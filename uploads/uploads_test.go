package uploads_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"catalog-service/uploads"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/products", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	_, fh, err := req.FormFile("image")
	require.NoError(t, err)
	return fh
}

func TestSaveValidPNG(t *testing.T) {
	dir := t.TempDir()
	store, err := uploads.NewStore(dir, "/uploads")
	require.NoError(t, err)

	content := []byte("fake png bytes")
	fh := makeFileHeader(t, "photo.png", "image/png", content)

	path, err := store.Save(fh)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^/uploads/image-\d+\.png$`), path)

	written, err := os.ReadFile(filepath.Join(dir, filepath.Base(path)))
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestSaveRejectsBadExtension(t *testing.T) {
	dir := t.TempDir()
	store, err := uploads.NewStore(dir, "/uploads")
	require.NoError(t, err)

	// Spoofed content type: declared as an image, but the extension gives it away.
	fh := makeFileHeader(t, "notes.txt", "image/png", []byte("not an image"))

	_, err = store.Save(fh)
	assert.ErrorIs(t, err, uploads.ErrInvalidFileType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected upload must not leave files behind")
}

func TestSaveRejectsBadContentType(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	// Correct extension but the declared type fails the allow-list.
	fh := makeFileHeader(t, "photo.png", "text/plain", []byte("not an image"))

	_, err = store.Save(fh)
	assert.ErrorIs(t, err, uploads.ErrInvalidFileType)
}

func TestSaveUppercaseExtensionAllowed(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	fh := makeFileHeader(t, "PHOTO.JPG", "image/jpeg", []byte("jpeg bytes"))

	path, err := store.Save(fh)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^/uploads/image-\d+\.jpg$`), path)
}

func TestConcurrentSavesGetUniqueNames(t *testing.T) {
	dir := t.TempDir()
	store, err := uploads.NewStore(dir, "/uploads")
	require.NoError(t, err)

	const n = 20
	var (
		mu    sync.Mutex
		paths = make(map[string]bool, n)
		wg    sync.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		fh := makeFileHeader(t, "same.jpg", "image/jpeg", []byte{byte(i)})
		go func() {
			defer wg.Done()
			path, err := store.Save(fh)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			paths[path] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, paths, n, "every concurrent upload must get its own file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}
