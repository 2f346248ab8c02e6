package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sahanr/community-backend/internal/apperr"
	"github.com/sahanr/community-backend/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError translates a pipeline or store error into a status code and
// message. Anything not in the taxonomy is a server error and gets logged
// with its cause; the client only sees a generic message.
func writeError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	var terr *apperr.TranscodeError

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, apperr.ErrInvalidCollection):
		writeMessage(w, http.StatusBadRequest, "Invalid collection/tab")
	case errors.Is(err, apperr.ErrMissingFile):
		writeMessage(w, http.StatusBadRequest, "Image is required!")
	case errors.Is(err, apperr.ErrUnsupportedFileType):
		writeMessage(w, http.StatusBadRequest, "Invalid file type. Only JPEG, JPG, PNG, and GIF are allowed.")
	case errors.Is(err, apperr.ErrFileTooLarge):
		writeMessage(w, http.StatusBadRequest, "Uploaded file is too large")
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Reason)
	case errors.As(err, &terr):
		slog.Error("image processing failed", "path", terr.Path, "error", terr.Err)
		writeMessage(w, http.StatusInternalServerError, "Failed to process image")
	default:
		slog.Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// dataURI renders an asset as a self-describing inline string, or nil when
// the record holds no image, so clients can drop it straight into an img tag.
func dataURI(a models.ImageAsset) *string {
	if !a.Present() {
		return nil
	}
	s := fmt.Sprintf("data:%s;base64,%s", a.ContentType, base64.StdEncoding.EncodeToString(a.Data))
	return &s
}

type galleryItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func galleryResponse(item *models.GalleryItem) galleryItemResponse {
	return galleryItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Image:       dataURI(item.Image),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

type projectItemResponse struct {
	ID          string    `json:"id"`
	NationalID  string    `json:"nationalId"`
	Name        string    `json:"name"`
	Project     string    `json:"project"`
	GSDivision  string    `json:"gsDivision"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	BeforePhoto *string   `json:"beforePhoto"`
	AfterPhoto  *string   `json:"afterPhoto"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func projectResponse(item *models.ProjectItem) projectItemResponse {
	return projectItemResponse{
		ID:          item.ID,
		NationalID:  item.NationalID,
		Name:        item.Name,
		Project:     item.Project,
		GSDivision:  item.GSDivision,
		Address:     item.Address,
		Description: item.Description,
		Lat:         item.Lat,
		Lng:         item.Lng,
		BeforePhoto: dataURI(item.BeforePhoto),
		AfterPhoto:  dataURI(item.AfterPhoto),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
