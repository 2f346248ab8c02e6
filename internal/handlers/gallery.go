package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahanr/community-backend/internal/service"
	"github.com/sahanr/community-backend/internal/tempstore"
)

// Request bodies are capped at the per-file limit plus headroom for the text
// fields; the byte-exact per-file limit is enforced in tempstore.
const (
	galleryBodyLimit = tempstore.MaxUploadSize + 1<<20
	projectBodyLimit = 2*tempstore.MaxUploadSize + 1<<20

	// multipart parts above this spill to disk instead of memory
	multipartMemory = 8 << 20
)

func ListGalleryItems(w http.ResponseWriter, r *http.Request, svc *service.GalleryService) {
	items, err := svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]galleryItemResponse, 0, len(items))
	for i := range items {
		out = append(out, galleryResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func GetGalleryItem(w http.ResponseWriter, r *http.Request, svc *service.GalleryService) {
	item, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, galleryResponse(item))
}

func CreateGalleryItem(w http.ResponseWriter, r *http.Request, svc *service.GalleryService) {
	r.Body = http.MaxBytesReader(w, r.Body, galleryBodyLimit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	upload, done := formUpload(r, "image")
	if done != nil {
		defer done()
	}

	item, err := svc.Create(r.Context(), service.CreateGalleryInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Image:       upload,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, galleryResponse(item))
}

func UpdateGalleryItem(w http.ResponseWriter, r *http.Request, svc *service.GalleryService) {
	r.Body = http.MaxBytesReader(w, r.Body, galleryBodyLimit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	upload, done := formUpload(r, "image")
	if done != nil {
		defer done()
	}

	item, err := svc.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateGalleryInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Image:       upload,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, galleryResponse(item))
}

func DeleteGalleryItem(w http.ResponseWriter, r *http.Request, svc *service.GalleryService) {
	if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Item removed")
}

// formUpload pulls one named file out of the parsed multipart form. A
// missing file is not an error here; each pipeline decides whether the slot
// is required. The second return closes the file and must be deferred when
// non-nil.
func formUpload(r *http.Request, field string) (*service.Upload, func()) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil
	}
	u := &service.Upload{
		Field:       field,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	}
	return u, func() {
		if err := file.Close(); err != nil {
			slog.Warn("failed to close uploaded file", "field", field, "error", err)
		}
	}
}
