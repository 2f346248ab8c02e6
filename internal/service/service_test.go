package service

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahanr/community-backend/internal/store"
	"github.com/sahanr/community-backend/internal/tempstore"
	"github.com/sahanr/community-backend/models"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

// fakeTranscoder records the paths it was asked to process and returns a
// canned asset, standing in for the libvips transcoder.
type fakeTranscoder struct {
	asset models.ImageAsset
	err   error
	calls []string
}

func (f *fakeTranscoder) Transcode(path string) (models.ImageAsset, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return models.ImageAsset{}, f.err
	}
	return f.asset, nil
}

type testEnv struct {
	store      *store.Store
	fs         afero.Fs
	tmp        *tempstore.Store
	transcoder *fakeTranscoder
	gallery    *GalleryService
	projects   *ProjectService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st := store.New(db)
	require.NoError(t, st.AutoMigrate())

	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tmp, err := tempstore.New(fs, "uploads", log)
	require.NoError(t, err)

	tr := &fakeTranscoder{
		asset: models.ImageAsset{Data: []byte("transcoded-jpeg"), ContentType: "image/jpeg"},
	}

	return &testEnv{
		store:      st,
		fs:         fs,
		tmp:        tmp,
		transcoder: tr,
		gallery:    NewGalleryService(st, tmp, tr, log),
		projects:   NewProjectService(st, tmp, tr, log),
	}
}

// tempFileCount counts files left in the staging directory; it must be zero
// after any pipeline call returns.
func (e *testEnv) tempFileCount(t *testing.T) int {
	t.Helper()
	entries, err := afero.ReadDir(e.fs, "uploads")
	require.NoError(t, err)
	return len(entries)
}

var errBadImage = errors.New("decode failed")
