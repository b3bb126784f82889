// Package web exposes the HTTP API consumed by the field device and the
// dashboard frontend.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tirta-iot/tirta/internal/core"
	"github.com/tirta-iot/tirta/internal/pump"
)

// Cache keys for dashboard-hot state. The device polls every few seconds,
// so the status endpoint is served from here rather than the database
// whenever possible.
const (
	statusCacheKey   = "pump_status"
	lastSeenCacheKey = "device_last_seen"
)

const statusCacheTTL = 2 * time.Second

// Server hosts the telemetry and dashboard endpoints.
type Server struct {
	config     *core.Config
	db         *gorm.DB
	logger     *logrus.Logger
	cache      *cache.Cache
	controller pump.Controller
}

func NewServer(config *core.Config, db *gorm.DB, logger *logrus.Logger) *Server {
	return &Server{
		config: config,
		db:     db,
		logger: logger,
		cache:  cache.New(statusCacheTTL, time.Minute),
		controller: pump.Controller{
			TankHeightCM: config.Device.TankHeightCM,
			OnThreshold:  config.Device.AutoOnThreshold,
			OffThreshold: config.Device.AutoOffThreshold,
		},
	}
}

// Router builds the route table. Device routes authenticate with the
// pre-shared API key; dashboard routes (other than login) require a
// session token.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestLogger)

	api := router.PathPrefix("/api").Subrouter()

	device := api.NewRoute().Subrouter()
	device.Use(s.requireAPIKey)
	device.HandleFunc("/data", s.handleData).Methods(http.MethodPost)
	device.HandleFunc("/encrypted-data", s.handleEncryptedData).Methods(http.MethodPost)
	device.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	dashboard := api.NewRoute().Subrouter()
	dashboard.Use(s.requireSession)
	dashboard.HandleFunc("/readings", s.handleReadings).Methods(http.MethodGet)
	dashboard.HandleFunc("/pump", s.handlePump).Methods(http.MethodPost)
	dashboard.HandleFunc("/mode", s.handleMode).Methods(http.MethodPost)
	dashboard.HandleFunc("/decrypt", s.handleDecrypt).Methods(http.MethodPost)

	return router
}

// Start runs the HTTP server until ctx is canceled, then drains in-flight
// requests before returning.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.config.WebAddress(),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Infof("[web] waiting for requests on %s", httpServer.Addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}
