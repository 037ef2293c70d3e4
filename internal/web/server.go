// Package web exposes the HTTP API over the address, state, and municipality
// services.
package web

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/config"
	"github.com/lightspun/lightspun/internal/service"
)

// Server wires the HTTP layer: router, timeouts, graceful shutdown.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	log        *zap.Logger
}

// NewServer builds the server around the given services.
func NewServer(cfg config.ServerConfig, addresses *service.AddressService, states *service.StateService, municipalities *service.MunicipalityService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{log: log}
	h := &Handlers{
		Addresses:      addresses,
		States:         states,
		Municipalities: municipalities,
		Log:            log,
	}
	s.router = NewRouter(h)
	s.router.Use(requestLogging(log))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// NewRouter registers all API routes on a fresh router.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/states", h.ListStates).Methods("GET")
	r.HandleFunc("/states", h.CreateState).Methods("POST")
	r.HandleFunc("/states/{code:[A-Za-z]{2}}/municipalities", h.ListMunicipalities).Methods("GET")
	r.HandleFunc("/municipalities", h.CreateMunicipality).Methods("POST")

	r.HandleFunc("/addresses", h.ListAddresses).Methods("GET")
	r.HandleFunc("/addresses", h.CreateAddress).Methods("POST")
	r.HandleFunc("/addresses/autocomplete", h.Autocomplete).Methods("GET")
	r.HandleFunc("/addresses/street-names", h.SearchStreetNames).Methods("GET")
	r.HandleFunc("/addresses/statistics", h.Statistics).Methods("GET")
	r.HandleFunc("/addresses/{id:[0-9]+}", h.GetAddress).Methods("GET")
	r.HandleFunc("/addresses/{id:[0-9]+}", h.UpdateAddress).Methods("PUT")
	r.HandleFunc("/addresses/{id:[0-9]+}", h.DeleteAddress).Methods("DELETE")

	return r
}

// Start runs the server until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.Info("server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func requestLogging(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(start)))
		})
	}
}
