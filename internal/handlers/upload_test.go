package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func multipartUpload(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUpload(t *testing.T) {
	store := newMemStore()
	h := NewUploadHandler(store, zerolog.Nop())

	data := pngBytes(t)
	w := httptest.NewRecorder()
	h.Upload(w, multipartUpload(t, "foto.png", data))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
		Size        int    `json:"size"`
		URL         string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Filename != "foto.png" || resp.ContentType != "image/png" || resp.Size != len(data) {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if _, ok := store.objects[resp.URL]; !ok {
		t.Fatalf("uploaded file not stored at %q", resp.URL)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	store := newMemStore()
	h := NewUploadHandler(store, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Upload(w, multipartUpload(t, "notas.txt", []byte("apenas texto")))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Arquivo deve ser uma imagem") {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
	if len(store.objects) != 0 {
		t.Fatal("expected nothing stored")
	}
}

func TestUploadRequiresFileField(t *testing.T) {
	h := NewUploadHandler(newMemStore(), zerolog.Nop())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "value")
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Upload(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
