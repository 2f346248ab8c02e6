package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/sahanr/community-backend/internal/apperr"
	"github.com/sahanr/community-backend/internal/store"
	"github.com/sahanr/community-backend/internal/tempstore"
	"github.com/sahanr/community-backend/internal/transcode"
	"github.com/sahanr/community-backend/models"
)

type ProjectService struct {
	store      *store.Store
	tmp        *tempstore.Store
	transcoder transcode.Transcoder
	logger     *slog.Logger
}

func NewProjectService(st *store.Store, tmp *tempstore.Store, tr transcode.Transcoder, logger *slog.Logger) *ProjectService {
	return &ProjectService{store: st, tmp: tmp, transcoder: tr, logger: logger}
}

// CreateProjectInput carries the text fields as submitted; Lat and Lng stay
// raw strings so a missing or malformed coordinate surfaces as a validation
// error rather than a silent zero.
type CreateProjectInput struct {
	NationalID  string
	Name        string
	Project     string
	GSDivision  string
	Address     string
	Description string
	Lat         string
	Lng         string
	Before      *Upload
	After       *Upload
}

// UpdateProjectInput is a partial update: only keys present in Fields are
// applied, and only photo slots with a new upload are replaced.
type UpdateProjectInput struct {
	Fields url.Values
	Before *Upload
	After  *Upload
}

// Create inserts a new record into the tab's collection. Either, both, or
// neither photo may be present; each one is staged and transcoded
// independently and its staged file disposed before this returns.
func (s *ProjectService) Create(ctx context.Context, tab string, in CreateProjectInput) (*models.ProjectItem, error) {
	col, err := store.ResolveCollection(tab)
	if err != nil {
		return nil, err
	}

	lat, err := parseCoordinate("lat", in.Lat)
	if err != nil {
		return nil, err
	}
	lng, err := parseCoordinate("lng", in.Lng)
	if err != nil {
		return nil, err
	}

	item := &models.ProjectItem{
		NationalID:  in.NationalID,
		Name:        in.Name,
		Project:     in.Project,
		GSDivision:  in.GSDivision,
		Address:     in.Address,
		Description: in.Description,
		Lat:         lat,
		Lng:         lng,
	}

	if in.Before != nil {
		asset, err := s.transcodeUpload(in.Before)
		if err != nil {
			return nil, err
		}
		item.BeforePhoto = asset
	}
	if in.After != nil {
		asset, err := s.transcodeUpload(in.After)
		if err != nil {
			return nil, err
		}
		item.AfterPhoto = asset
	}

	if err := s.store.CreateProjectItem(ctx, col, item); err != nil {
		return nil, err
	}

	s.logger.Info("project item created", "tab", col.Tab(), "id", item.ID)
	return item, nil
}

// Update merges the supplied fields into the existing record. A field
// present in the form is set verbatim, an absent field keeps its previous
// value, and the store validates the merged record, so blanking a required
// field is rejected. Photo slots without a new upload keep their stored
// bytes unchanged.
func (s *ProjectService) Update(ctx context.Context, tab, id string, in UpdateProjectInput) (*models.ProjectItem, error) {
	col, err := store.ResolveCollection(tab)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetProjectItem(ctx, col, id)
	if err != nil {
		return nil, err
	}

	if err := applyProjectFields(item, in.Fields); err != nil {
		return nil, err
	}

	if in.Before != nil {
		asset, err := s.transcodeUpload(in.Before)
		if err != nil {
			return nil, err
		}
		item.BeforePhoto = asset
	}
	if in.After != nil {
		asset, err := s.transcodeUpload(in.After)
		if err != nil {
			return nil, err
		}
		item.AfterPhoto = asset
	}

	if err := s.store.SaveProjectItem(ctx, col, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ProjectService) List(ctx context.Context, tab string) ([]models.ProjectItem, error) {
	col, err := store.ResolveCollection(tab)
	if err != nil {
		return nil, err
	}
	return s.store.ListProjectItems(ctx, col)
}

func (s *ProjectService) Get(ctx context.Context, tab, id string) (*models.ProjectItem, error) {
	col, err := store.ResolveCollection(tab)
	if err != nil {
		return nil, err
	}
	return s.store.GetProjectItem(ctx, col, id)
}

func (s *ProjectService) Delete(ctx context.Context, tab, id string) error {
	col, err := store.ResolveCollection(tab)
	if err != nil {
		return err
	}
	return s.store.DeleteProjectItem(ctx, col, id)
}

// transcodeUpload stages one upload, transcodes it, and disposes of the
// staged file before returning, whether or not the transcode succeeded.
// Project uploads are not filtered by the gallery allow-list; see the note
// in upload.go.
func (s *ProjectService) transcodeUpload(u *Upload) (models.ImageAsset, error) {
	path, _, err := s.tmp.Materialize(u.Field, u.Filename, u.Reader)
	if err != nil {
		return models.ImageAsset{}, err
	}
	defer s.tmp.Dispose(path)

	return s.transcoder.Transcode(path)
}

func applyProjectFields(item *models.ProjectItem, fields url.Values) error {
	set := func(key string, dst *string) {
		if fields.Has(key) {
			*dst = fields.Get(key)
		}
	}
	set("nationalId", &item.NationalID)
	set("name", &item.Name)
	set("project", &item.Project)
	set("gsDivision", &item.GSDivision)
	set("address", &item.Address)
	set("description", &item.Description)

	if fields.Has("lat") {
		lat, err := parseCoordinate("lat", fields.Get("lat"))
		if err != nil {
			return err
		}
		item.Lat = lat
	}
	if fields.Has("lng") {
		lng, err := parseCoordinate("lng", fields.Get("lng"))
		if err != nil {
			return err
		}
		item.Lng = lng
	}
	return nil
}

func parseCoordinate(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &apperr.ValidationError{Reason: name + " is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &apperr.ValidationError{Reason: fmt.Sprintf("%s must be a number", name)}
	}
	return v, nil
}
