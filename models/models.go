package models

import (
	"time"
)

// ImageAsset is a stored image: the transcoded JPEG bytes plus their MIME
// type. It has no lifecycle of its own; it is embedded in the record that
// owns it and replaced wholesale on update.
type ImageAsset struct {
	Data        []byte `json:"-"`
	ContentType string `gorm:"size:64" json:"-"`
}

// Present reports whether the asset holds an image. Data and ContentType are
// written together, so either both are set or neither is.
func (a ImageAsset) Present() bool {
	return len(a.Data) > 0 && a.ContentType != ""
}

type GalleryItem struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string     `json:"description"`
	Image       ImageAsset `gorm:"embedded;embeddedPrefix:image_" json:"-"`
}

// ProjectItem is one community-development project record. The same shape is
// stored in four parallel tables, one per tab; the tab is a partition key
// chosen per request, never a column.
type ProjectItem struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	NationalID  string     `gorm:"size:64;not null" json:"nationalId" validate:"required"`
	Name        string     `gorm:"size:255;not null" json:"name" validate:"required"`
	Project     string     `gorm:"size:255;not null" json:"project" validate:"required"`
	GSDivision  string     `gorm:"size:255;not null" json:"gsDivision" validate:"required"`
	Address     string     `gorm:"not null" json:"address" validate:"required"`
	Description string     `gorm:"not null" json:"description" validate:"required"`
	Lat         float64    `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64    `json:"lng" validate:"gte=-180,lte=180"`
	BeforePhoto ImageAsset `gorm:"embedded;embeddedPrefix:before_photo_" json:"-"`
	AfterPhoto  ImageAsset `gorm:"embedded;embeddedPrefix:after_photo_" json:"-"`
}
