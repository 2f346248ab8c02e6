package service

import (
	"context"
	"log/slog"

	"github.com/sahanr/community-backend/internal/apperr"
	"github.com/sahanr/community-backend/internal/store"
	"github.com/sahanr/community-backend/internal/tempstore"
	"github.com/sahanr/community-backend/internal/transcode"
	"github.com/sahanr/community-backend/models"
)

type GalleryService struct {
	store      *store.Store
	tmp        *tempstore.Store
	transcoder transcode.Transcoder
	logger     *slog.Logger
}

func NewGalleryService(st *store.Store, tmp *tempstore.Store, tr transcode.Transcoder, logger *slog.Logger) *GalleryService {
	return &GalleryService{store: st, tmp: tmp, transcoder: tr, logger: logger}
}

type CreateGalleryInput struct {
	Title       string
	Description string
	Image       *Upload
}

type UpdateGalleryInput struct {
	Title       string
	Description string
	Image       *Upload
}

// Create requires an image. The upload is checked against the allow-list
// before anything touches disk, staged, transcoded, and persisted; the
// staged file is disposed no matter which exit is taken.
func (s *GalleryService) Create(ctx context.Context, in CreateGalleryInput) (*models.GalleryItem, error) {
	if in.Image == nil {
		return nil, apperr.ErrMissingFile
	}
	if !extensionAllowed(in.Image.Filename) || !mimeAllowed(in.Image.ContentType) {
		return nil, apperr.ErrUnsupportedFileType
	}

	path, sniffed, err := s.tmp.Materialize(in.Image.Field, in.Image.Filename, in.Image.Reader)
	if err != nil {
		return nil, err
	}
	defer s.tmp.Dispose(path)

	if !mimeAllowed(sniffed) {
		return nil, apperr.ErrUnsupportedFileType
	}

	asset, err := s.transcoder.Transcode(path)
	if err != nil {
		return nil, err
	}

	item := &models.GalleryItem{
		Title:       in.Title,
		Description: in.Description,
		Image:       asset,
	}
	if err := s.store.CreateGalleryItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("gallery item created", "id", item.ID)
	return item, nil
}

// Update applies a partial update. An empty title or description keeps the
// previous value; a new image replaces the stored asset wholesale, and no
// image leaves it untouched.
func (s *GalleryService) Update(ctx context.Context, id string, in UpdateGalleryInput) (*models.GalleryItem, error) {
	item, err := s.store.GetGalleryItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		item.Title = in.Title
	}
	if in.Description != "" {
		item.Description = in.Description
	}

	if in.Image != nil {
		if !extensionAllowed(in.Image.Filename) || !mimeAllowed(in.Image.ContentType) {
			return nil, apperr.ErrUnsupportedFileType
		}
		path, sniffed, err := s.tmp.Materialize(in.Image.Field, in.Image.Filename, in.Image.Reader)
		if err != nil {
			return nil, err
		}
		defer s.tmp.Dispose(path)

		if !mimeAllowed(sniffed) {
			return nil, apperr.ErrUnsupportedFileType
		}
		asset, err := s.transcoder.Transcode(path)
		if err != nil {
			return nil, err
		}
		item.Image = asset
	}

	if err := s.store.SaveGalleryItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *GalleryService) List(ctx context.Context) ([]models.GalleryItem, error) {
	return s.store.ListGalleryItems(ctx)
}

func (s *GalleryService) Get(ctx context.Context, id string) (*models.GalleryItem, error) {
	return s.store.GetGalleryItem(ctx, id)
}

func (s *GalleryService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteGalleryItem(ctx, id)
}
