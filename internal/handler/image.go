package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jcabrera-io/wayfarer/internal/domain"
)

// maxImageSize caps uploaded image files at 500 KB.
const maxImageSize = 500000

// mimeExtensions maps accepted upload MIME types to file extensions.
var mimeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpg":  "jpg",
	"image/jpeg": "jpeg",
}

// ImageHandler serves stored image blobs.
type ImageHandler struct {
	files domain.FileStore
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(files domain.FileStore) *ImageHandler {
	return &ImageHandler{files: files}
}

// HandleGetImage serves an uploaded image by storage key.
// GET /uploads/images/{key}
func (h *ImageHandler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, err := h.files.Get(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// saveUploadedImage reads the optional "image" field from an already-parsed
// multipart form, validates type and size, and stores the bytes under a
// fresh storage key. Returns "" when the field is absent.
func saveUploadedImage(r *http.Request, files domain.FileStore) (string, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read image field: %w", domain.ErrInvalidInput, err)
	}
	defer file.Close()

	ext, ok := mimeExtensions[header.Header.Get("Content-Type")]
	if !ok {
		return "", fmt.Errorf("%w: invalid mime type %q", domain.ErrInvalidInput, header.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d byte limit", domain.ErrInvalidInput, maxImageSize)
	}

	key := uuid.NewString() + "." + ext
	if err := files.Save(r.Context(), key, data); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}

// discardUploadedImage removes an image saved earlier in a request whose
// main operation failed. Best-effort; a failure here only logs.
func discardUploadedImage(r *http.Request, files domain.FileStore, key string) {
	if key == "" {
		return
	}
	if err := files.Delete(r.Context(), key); err != nil {
		slog.Warn("discard uploaded image", "key", key, "error", err)
	}
}
