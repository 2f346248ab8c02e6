package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/spf13/afero"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sahanr/community-backend/internal/config"
	"github.com/sahanr/community-backend/internal/handlers"
	"github.com/sahanr/community-backend/internal/logging"
	"github.com/sahanr/community-backend/internal/service"
	"github.com/sahanr/community-backend/internal/store"
	"github.com/sahanr/community-backend/internal/tempstore"
	"github.com/sahanr/community-backend/internal/transcode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	// Database connection
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	st := store.New(db)
	if err := st.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	tmp, err := tempstore.New(afero.NewOsFs(), cfg.UploadDir, logger)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	transcoder := transcode.NewVipsTranscoder()
	gallerySvc := service.NewGalleryService(st, tmp, transcoder, logger)
	projectSvc := service.NewProjectService(st, tmp, transcoder, logger)

	// Chi
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	writeLimit := httprate.Limit(
		30,
		1*time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
	)

	// Frontend contact-form configuration, served so the key never ships in
	// the bundle.
	r.Get("/emailjs-config", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"serviceId":  cfg.EmailJSServiceID,
			"templateId": cfg.EmailJSTemplateID,
			"publicKey":  cfg.EmailJSPublicKey,
		})
	})

	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			handlers.ListGalleryItems(w, req, gallerySvc)
		})
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlers.GetGalleryItem(w, req, gallerySvc)
		})
		r.With(writeLimit).Post("/", func(w http.ResponseWriter, req *http.Request) {
			handlers.CreateGalleryItem(w, req, gallerySvc)
		})
		r.With(writeLimit).Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlers.UpdateGalleryItem(w, req, gallerySvc)
		})
		r.With(writeLimit).Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlers.DeleteGalleryItem(w, req, gallerySvc)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/{tab}", func(w http.ResponseWriter, req *http.Request) {
			handlers.ListProjectItems(w, req, projectSvc)
		})
		r.Get("/{tab}/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlers.GetProjectItem(w, req, projectSvc)
		})
		r.With(writeLimit).Post("/{tab}", func(w http.ResponseWriter, req *http.Request) {
			handlers.CreateProjectItem(w, req, projectSvc)
		})
		r.With(writeLimit).Put("/{tab}/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlers.UpdateProjectItem(w, req, projectSvc)
		})
		r.With(writeLimit).Delete("/{tab}/{id}", func(w http.ResponseWriter, req *http.Request) {
			handlers.DeleteProjectItem(w, req, projectSvc)
		})
	})

	logger.Info("starting API server", "port", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
