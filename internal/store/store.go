// Package store is the record store: a gorm facade over the gallery table
// and the four parallel project tables. Schema enforcement lives here —
// required fields are trimmed and checked and coordinate bounds validated at
// write time, on insert and update alike.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahanr/community-backend/internal/apperr"
	"github.com/sahanr/community-backend/models"
)

type Store struct {
	db       *gorm.DB
	validate *validator.Validate
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, validate: validator.New()}
}

// AutoMigrate creates the gallery table and one project table per
// collection.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&models.GalleryItem{}); err != nil {
		return fmt.Errorf("failed to migrate gallery table: %w", err)
	}
	for _, c := range Collections() {
		if err := s.db.Table(c.Table()).AutoMigrate(&models.ProjectItem{}); err != nil {
			return fmt.Errorf("failed to migrate %s table: %w", c.Table(), err)
		}
	}
	return nil
}

// ------------------------ Gallery ------------------------

func (s *Store) CreateGalleryItem(ctx context.Context, item *models.GalleryItem) error {
	normalizeGalleryItem(item)
	if err := s.check(item); err != nil {
		return err
	}
	item.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}
	return nil
}

func (s *Store) ListGalleryItems(ctx context.Context) ([]models.GalleryItem, error) {
	var items []models.GalleryItem
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", err)
	}
	return items, nil
}

func (s *Store) GetGalleryItem(ctx context.Context, id string) (*models.GalleryItem, error) {
	var item models.GalleryItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gallery item: %w", err)
	}
	return &item, nil
}

func (s *Store) SaveGalleryItem(ctx context.Context, item *models.GalleryItem) error {
	normalizeGalleryItem(item)
	if err := s.check(item); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save gallery item: %w", err)
	}
	return nil
}

func (s *Store) DeleteGalleryItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.GalleryItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete gallery item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ------------------------ Projects ------------------------

func (s *Store) CreateProjectItem(ctx context.Context, col Collection, item *models.ProjectItem) error {
	normalizeProjectItem(item)
	if err := s.check(item); err != nil {
		return err
	}
	item.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Table(col.Table()).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item in %s: %w", col.Tab(), err)
	}
	return nil
}

func (s *Store) ListProjectItems(ctx context.Context, col Collection) ([]models.ProjectItem, error) {
	var items []models.ProjectItem
	if err := s.db.WithContext(ctx).Table(col.Table()).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items in %s: %w", col.Tab(), err)
	}
	return items, nil
}

func (s *Store) GetProjectItem(ctx context.Context, col Collection, id string) (*models.ProjectItem, error) {
	var item models.ProjectItem
	err := s.db.WithContext(ctx).Table(col.Table()).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item from %s: %w", col.Tab(), err)
	}
	return &item, nil
}

func (s *Store) SaveProjectItem(ctx context.Context, col Collection, item *models.ProjectItem) error {
	normalizeProjectItem(item)
	if err := s.check(item); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Table(col.Table()).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save item in %s: %w", col.Tab(), err)
	}
	return nil
}

func (s *Store) DeleteProjectItem(ctx context.Context, col Collection, id string) error {
	res := s.db.WithContext(ctx).Table(col.Table()).Where("id = ?", id).Delete(&models.ProjectItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete item from %s: %w", col.Tab(), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ------------------------ Validation ------------------------

func (s *Store) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &apperr.ValidationError{
			Reason: fmt.Sprintf("%s failed on the %s constraint", fe.Field(), fe.Tag()),
		}
	}
	return fmt.Errorf("failed to validate record: %w", err)
}

func normalizeGalleryItem(item *models.GalleryItem) {
	item.Title = strings.TrimSpace(item.Title)
	item.Description = strings.TrimSpace(item.Description)
}

func normalizeProjectItem(item *models.ProjectItem) {
	item.NationalID = strings.TrimSpace(item.NationalID)
	item.Name = strings.TrimSpace(item.Name)
	item.Project = strings.TrimSpace(item.Project)
	item.GSDivision = strings.TrimSpace(item.GSDivision)
	item.Address = strings.TrimSpace(item.Address)
	item.Description = strings.TrimSpace(item.Description)
}
