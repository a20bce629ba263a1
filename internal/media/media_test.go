package media

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dom/videotube/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	base := "http://localhost:9000/videotube"

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "url from this gateway", ref: base + "/abc.mp4", want: "abc.mp4"},
		{name: "foreign url", ref: "https://cdn.example.com/x/y/z.png", want: "z.png"},
		{name: "bare object name", ref: "abc.jpg", want: "abc.jpg"},
		{name: "empty", ref: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(base, tt.ref))
		})
	}
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "http://minio:9000/media",
		PublicBaseURL(config.MediaConfig{Endpoint: "minio:9000", Bucket: "media"}))
	assert.Equal(t, "https://minio:9000/media",
		PublicBaseURL(config.MediaConfig{Endpoint: "minio:9000", Bucket: "media", UseSSL: true}))
	assert.Equal(t, "https://cdn.example.com/media",
		PublicBaseURL(config.MediaConfig{Endpoint: "minio:9000", Bucket: "media", PublicBaseURL: "https://cdn.example.com/"}))
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{ext: ".mp4", want: "video/mp4"},
		{ext: ".mov", want: "video/quicktime"},
		{ext: ".webm", want: "video/webm"},
		{ext: ".mkv", want: "video/x-matroska"},
		{ext: ".png", want: "image/png"},
		{ext: ".jpg", want: "image/jpeg"},
		{ext: "", want: "application/octet-stream"},
		{ext: ".nope", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, contentTypeFor(tt.ext))
		})
	}
}

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration([]byte(`{"streams":[],"format":{"filename":"a.mp4","duration":"12.480000"}}`))
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 0.0001)

	_, err = parseProbeDuration([]byte(`{"format":{}}`))
	assert.Error(t, err)

	_, err = parseProbeDuration([]byte(`not json`))
	assert.Error(t, err)
}

func TestSaveTemp(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("avatar", "Me.PNG")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	dir := t.TempDir()
	p, err := SaveTemp(filepath.Join(dir, "uploads"), req.MultipartForm.File["avatar"][0])
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(p))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	removeLocal(p)
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))
}
