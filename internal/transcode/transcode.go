// Package transcode turns an uploaded image file into the bounded-size JPEG
// that gets embedded in records.
package transcode

import (
	"github.com/h2non/bimg"

	"github.com/sahanr/community-backend/internal/apperr"
	"github.com/sahanr/community-backend/models"
)

const (
	targetWidth = 800
	jpegQuality = 70
)

// Transcoder produces a stored ImageAsset from a file on disk. A failure is
// specific to that input and must not leave a partial asset behind.
type Transcoder interface {
	Transcode(path string) (models.ImageAsset, error)
}

// VipsTranscoder resizes to a fixed width (height follows the aspect ratio)
// and re-encodes as JPEG through libvips.
type VipsTranscoder struct {
	width   int
	quality int
}

func NewVipsTranscoder() *VipsTranscoder {
	return &VipsTranscoder{width: targetWidth, quality: jpegQuality}
}

func (t *VipsTranscoder) Transcode(path string) (models.ImageAsset, error) {
	buf, err := bimg.Read(path)
	if err != nil {
		return models.ImageAsset{}, &apperr.TranscodeError{Path: path, Err: err}
	}

	out, err := bimg.NewImage(buf).Process(bimg.Options{
		Width:   t.width,
		Quality: t.quality,
		Type:    bimg.JPEG,
	})
	if err != nil {
		return models.ImageAsset{}, &apperr.TranscodeError{Path: path, Err: err}
	}

	return models.ImageAsset{Data: out, ContentType: "image/jpeg"}, nil
}
