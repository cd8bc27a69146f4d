package server

import (
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rostersync/rostersync/common/logger"
)

type AdminAPIServerConfig struct {
	HTTPServerConfig
}

type AdminAPIServer struct {
	APIServer
}

func NewAdminAPIServer(adminAPI *AdminAPIRouter, config AdminAPIServerConfig, httpServerFactory HTTPServerFactory, logFactory logger.LogFactory) (*AdminAPIServer, error) {
	httpServer, err := httpServerFactory(adminAPI, config.HTTPServerConfig, logFactory("AdminAPIServer"))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP server: %w", err)
	}
	return &AdminAPIServer{
		APIServer: httpServer,
	}, nil
}

type AdminAPIRouter struct {
	chi.Router
}

func NewAdminAPIRouter(
	root *RootAPI,
	sync *SyncAPI,
	logFactory logger.LogFactory) *AdminAPIRouter {

	logger := logFactory("AdminAPIRouter").
		WithField("version", "v1")

	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true})
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Compress(6))
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Route("/api", func(r chi.Router) {

		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link", "Id", "Location"},
			AllowCredentials: true,
			MaxAge:           300, // Maximum value not ignored by any of major browsers
		}))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/", root.GetRootDocument)
			r.Get("/health", root.GetHealth)
			r.Route("/sync", func(r chi.Router) {
				r.Get("/", sync.GetStatus)
				r.Post("/", sync.Trigger)
			})
		})
	})
	return &AdminAPIRouter{Router: r}
}
