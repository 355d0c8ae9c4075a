package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"nycleads/internal/annotations"
	"nycleads/internal/log"
	"nycleads/internal/neighborhoods"
	"nycleads/internal/types"
)

// Server answers search and annotation requests over one ingested record
// set. The set is never modified after NewServer.
type Server struct {
	records    []types.Record
	byKey      map[string]types.Record
	index      *neighborhoods.Index
	notes      *annotations.Store
	log        *log.Logger
	router     *mux.Router
	httpServer *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, records []types.Record, idx *neighborhoods.Index, notes *annotations.Store, lg *log.Logger) *Server {
	if idx == nil {
		idx = neighborhoods.Build(records)
	}
	s := &Server{
		records: records,
		byKey:   make(map[string]types.Record, len(records)),
		index:   idx,
		notes:   notes,
		log:     lg,
	}
	for _, r := range records {
		s.byKey[r.Key()] = r
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/records", s.listRecords).Methods("GET")
	api.HandleFunc("/boroughs", s.listBoroughs).Methods("GET")
	api.HandleFunc("/neighborhoods", s.listNeighborhoods).Methods("GET")
	api.HandleFunc("/neighborhoods/{borough}", s.boroughNeighborhoods).Methods("GET")

	if s.notes != nil {
		api.HandleFunc("/annotations/{key:.+}", s.getAnnotation).Methods("GET")
		api.HandleFunc("/annotations/{key:.+}", s.putAnnotation).Methods("PUT")
	}

	s.router.HandleFunc("/healthz", s.healthz).Methods("GET")

	s.router.Use(requestLogging(s.log))
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", s.httpServer.Addr, "records", len(s.records))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
