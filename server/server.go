package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"diceroyale/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Deps are the services behind the HTTP API. Catalog and Bag may be nil when
// no database is configured; their routes then answer 503.
type Deps struct {
	Table   service.TableService
	Catalog service.CatalogService
	Bag     service.BagService
}

// Server is the table's HTTP API
type Server struct {
	router chi.Router
	server *http.Server
}

// New builds the router and an http.Server listening on addr
func New(addr string, deps Deps) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(compress)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	table := &tableHandler{table: deps.Table}
	r.Route("/api/table", func(r chi.Router) {
		r.Get("/", table.snapshot)
		r.Get("/history", table.history)
		r.Get("/notifications", table.notifications)
		r.Post("/bets", table.placeBet)
		r.Post("/start", table.start)
		r.Post("/roll", table.roll)
		r.Post("/reset", table.reset)
		r.Post("/boost", table.boost)
	})

	catalog := &catalogHandler{catalog: deps.Catalog, bag: deps.Bag}
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", catalog.listProducts)
		r.Post("/", catalog.createProduct)
		r.Get("/{id}", catalog.getProduct)
	})
	r.Route("/api/bag", func(r chi.Router) {
		r.Get("/", catalog.getBag)
		r.Post("/items/{productID}", catalog.addToBag)
		r.Delete("/items/{productID}", catalog.removeFromBag)
	})

	return &Server{
		router: r,
		server: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until Shutdown is called
func (s *Server) Run() error {
	log.WithField("addr", s.server.Addr).Info("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
