package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahanr/community-backend/internal/service"
	"github.com/sahanr/community-backend/internal/store"
	"github.com/sahanr/community-backend/internal/tempstore"
	"github.com/sahanr/community-backend/internal/transcode"
	"github.com/sahanr/community-backend/models"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

type stubTranscoder struct{}

func (stubTranscoder) Transcode(string) (models.ImageAsset, error) {
	return models.ImageAsset{Data: []byte("transcoded-jpeg"), ContentType: "image/jpeg"}, nil
}

var _ transcode.Transcoder = stubTranscoder{}

type testServer struct {
	router *chi.Mux
	fs     afero.Fs
}

func newTestServer(t *testing.T) *testServer {
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

	gallerySvc := service.NewGalleryService(st, tmp, stubTranscoder{}, log)
	projectSvc := service.NewProjectService(st, tmp, stubTranscoder{}, log)

	r := chi.NewRouter()
	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) { ListGalleryItems(w, req, gallerySvc) })
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) { GetGalleryItem(w, req, gallerySvc) })
		r.Post("/", func(w http.ResponseWriter, req *http.Request) { CreateGalleryItem(w, req, gallerySvc) })
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) { UpdateGalleryItem(w, req, gallerySvc) })
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) { DeleteGalleryItem(w, req, gallerySvc) })
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/{tab}", func(w http.ResponseWriter, req *http.Request) { ListProjectItems(w, req, projectSvc) })
		r.Get("/{tab}/{id}", func(w http.ResponseWriter, req *http.Request) { GetProjectItem(w, req, projectSvc) })
		r.Post("/{tab}", func(w http.ResponseWriter, req *http.Request) { CreateProjectItem(w, req, projectSvc) })
		r.Put("/{tab}/{id}", func(w http.ResponseWriter, req *http.Request) { UpdateProjectItem(w, req, projectSvc) })
		r.Delete("/{tab}/{id}", func(w http.ResponseWriter, req *http.Request) { DeleteProjectItem(w, req, projectSvc) })
	})

	return &testServer{router: r, fs: fs}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) tempFileCount(t *testing.T) int {
	t.Helper()
	entries, err := afero.ReadDir(s.fs, "uploads")
	require.NoError(t, err)
	return len(entries)
}

type multipartBody struct {
	buf *bytes.Buffer
	w   *multipart.Writer
}

func newMultipartBody() *multipartBody {
	buf := &bytes.Buffer{}
	return &multipartBody{buf: buf, w: multipart.NewWriter(buf)}
}

func (m *multipartBody) field(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, m.w.WriteField(name, value))
}

func (m *multipartBody) file(t *testing.T, field, filename, contentType string, data []byte) {
	t.Helper()
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := m.w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
}

func (m *multipartBody) done(t *testing.T) (io.Reader, string) {
	t.Helper()
	require.NoError(t, m.w.Close())
	return m.buf, m.w.FormDataContentType()
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func jpegPayload() []byte {
	return append(append([]byte{}, jpegHeader...), []byte("image body")...)
}

func TestGalleryCreateAndReadBack(t *testing.T) {
	srv := newTestServer(t)

	body := newMultipartBody()
	body.field(t, "title", "A")
	body.field(t, "description", "B")
	body.file(t, "image", "photo.jpg", "image/jpeg", jpegPayload())
	r, ct := body.done(t)

	rec := srv.do(t, http.MethodPost, "/gallery", r, ct)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeJSON[map[string]any](t, rec)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = srv.do(t, http.MethodGet, "/gallery/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "A", got["title"])
	assert.Equal(t, "B", got["description"])

	image, _ := got["image"].(string)
	assert.True(t, strings.HasPrefix(image, "data:image/jpeg;base64,"))
	assert.Greater(t, len(image), len("data:image/jpeg;base64,"))

	assert.Equal(t, 0, srv.tempFileCount(t))
}

func TestGalleryCreateWithoutFile(t *testing.T) {
	srv := newTestServer(t)

	body := newMultipartBody()
	body.field(t, "title", "A")
	r, ct := body.done(t)

	rec := srv.do(t, http.MethodPost, "/gallery", r, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no record created, no temporary file left behind
	list := srv.do(t, http.MethodGet, "/gallery", nil, "")
	items := decodeJSON[[]map[string]any](t, list)
	assert.Empty(t, items)
	assert.Equal(t, 0, srv.tempFileCount(t))
}

func TestGalleryGetNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/gallery/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGalleryUpdateNotFound(t *testing.T) {
	srv := newTestServer(t)

	body := newMultipartBody()
	body.field(t, "title", "X")
	r, ct := body.done(t)

	rec := srv.do(t, http.MethodPut, "/gallery/missing", r, ct)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGalleryDelete(t *testing.T) {
	srv := newTestServer(t)

	body := newMultipartBody()
	body.field(t, "title", "A")
	body.file(t, "image", "photo.jpg", "image/jpeg", jpegPayload())
	r, ct := body.done(t)
	rec := srv.do(t, http.MethodPost, "/gallery", r, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeJSON[map[string]any](t, rec)
	id := created["id"].(string)

	rec = srv.do(t, http.MethodDelete, "/gallery/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Item removed", msg["message"])

	rec = srv.do(t, http.MethodGet, "/gallery/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func projectForm(t *testing.T) *multipartBody {
	body := newMultipartBody()
	body.field(t, "nationalId", "902541230V")
	body.field(t, "name", "W. Perera")
	body.field(t, "project", "Well renovation")
	body.field(t, "gsDivision", "Kalutara North")
	body.field(t, "address", "12 Temple Rd")
	body.field(t, "description", "Renovation of the community well")
	body.field(t, "lat", "6.5854")
	body.field(t, "lng", "79.9607")
	return body
}

func TestProjectInvalidTab(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/foo", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/foo/some-id", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectCreateWithPhotos(t *testing.T) {
	srv := newTestServer(t)

	body := projectForm(t)
	body.file(t, "beforePhoto", "before.jpg", "image/jpeg", jpegPayload())
	body.file(t, "afterPhoto", "after.jpg", "image/jpeg", jpegPayload())
	r, ct := body.done(t)

	rec := srv.do(t, http.MethodPost, "/api/cesp", r, ct)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeJSON[map[string]any](t, rec)
	before, _ := created["beforePhoto"].(string)
	assert.True(t, strings.HasPrefix(before, "data:image/jpeg;base64,"))
	assert.Equal(t, 0, srv.tempFileCount(t))

	// the record lives only in the cesp collection
	rec = srv.do(t, http.MethodGet, "/api/cp/"+created["id"].(string), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectCreateOutOfRangeLat(t *testing.T) {
	srv := newTestServer(t)

	body := newMultipartBody()
	body.field(t, "nationalId", "902541230V")
	body.field(t, "name", "W. Perera")
	body.field(t, "project", "Well renovation")
	body.field(t, "gsDivision", "Kalutara North")
	body.field(t, "address", "12 Temple Rd")
	body.field(t, "description", "Renovation of the community well")
	body.field(t, "lat", "95")
	body.field(t, "lng", "79.9607")
	r, ct := body.done(t)

	rec := srv.do(t, http.MethodPost, "/api/cesp", r, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	list := srv.do(t, http.MethodGet, "/api/cesp", nil, "")
	items := decodeJSON[[]map[string]any](t, list)
	assert.Empty(t, items)
}

func TestProjectCreateWithoutPhotos(t *testing.T) {
	srv := newTestServer(t)

	r, ct := projectForm(t).done(t)
	rec := srv.do(t, http.MethodPost, "/api/led", r, ct)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeJSON[map[string]any](t, rec)
	assert.Nil(t, created["beforePhoto"])
	assert.Nil(t, created["afterPhoto"])
}

func TestProjectUpdatePartial(t *testing.T) {
	srv := newTestServer(t)

	r, ct := projectForm(t).done(t)
	rec := srv.do(t, http.MethodPost, "/api/in", r, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeJSON[map[string]any](t, rec)
	id := created["id"].(string)

	body := newMultipartBody()
	body.field(t, "name", "K. Silva")
	r, ct = body.done(t)
	rec = srv.do(t, http.MethodPut, "/api/in/"+id, r, ct)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "K. Silva", updated["name"])
	assert.Equal(t, "Well renovation", updated["project"])
}

func TestProjectDeleteNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodDelete, "/api/led/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	msg := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Item not found", msg["message"])
}

func TestProjectDelete(t *testing.T) {
	srv := newTestServer(t)

	r, ct := projectForm(t).done(t)
	rec := srv.do(t, http.MethodPost, "/api/led", r, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeJSON[map[string]any](t, rec)["id"].(string)

	rec = srv.do(t, http.MethodDelete, "/api/led/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Item deleted successfully!", msg["message"])
}
