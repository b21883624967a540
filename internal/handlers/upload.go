package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/convitapp/convite-api/internal/storage"
)

// maxUploadSize bounds uploaded source images.
const maxUploadSize = 10 << 20 // 10MB

type UploadHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

func NewUploadHandler(store storage.Store, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logger}
}

// Upload accepts a multipart image file, stores it and returns its URL for
// use as an element source or background.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart payload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Sniff the type rather than trusting the client header.
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "Arquivo deve ser uma imagem", http.StatusBadRequest)
		return
	}

	url, err := h.store.Put(data, contentType)
	if err != nil {
		http.Error(w, "Failed to store file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"filename":     header.Filename,
		"content_type": contentType,
		"size":         len(data),
		"url":          url,
	})
}
