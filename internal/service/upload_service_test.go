package service

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
	"github.com/jeboro/jeboro-api/pkg/storage"
)

func multipartFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func newUploadService(t *testing.T, config UploadServiceConfig) *UploadService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("upload-secret", time.Hour)
	return NewUploadService(store, signer, nil, config)
}

func TestUploadServiceStoreAndResolve(t *testing.T) {
	svc := newUploadService(t, UploadServiceConfig{MaxFileSizeBytes: 1 << 20})

	header := multipartFileHeader(t, "evidence.pdf", "pdf bytes go here")
	res, err := svc.Store(header, "user-1")
	require.NoError(t, err)
	assert.Contains(t, res.Key, "evidence.pdf")
	require.True(t, strings.HasPrefix(res.URL, "/api/v1/uploads/"))

	token := strings.TrimPrefix(res.URL, "/api/v1/uploads/")
	file, err := svc.Resolve(token)
	require.NoError(t, err)
	defer file.Close()

	saved, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes go here", string(saved))
}

func TestUploadServiceStoreRejectsOversizedFile(t *testing.T) {
	svc := newUploadService(t, UploadServiceConfig{MaxFileSizeBytes: 4})

	header := multipartFileHeader(t, "big.bin", "more than four bytes")
	_, err := svc.Store(header, "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestUploadServiceStoreRejectsDisallowedMIME(t *testing.T) {
	svc := newUploadService(t, UploadServiceConfig{AllowedMIMEs: []string{"image/png"}})

	// CreateFormFile marks parts as application/octet-stream.
	header := multipartFileHeader(t, "evidence.bin", "binary")
	_, err := svc.Store(header, "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestUploadServiceResolveRejectsTamperedToken(t *testing.T) {
	svc := newUploadService(t, UploadServiceConfig{})

	_, err := svc.Resolve("forged-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Status, appErrors.FromError(err).Status)
}
