// Package api exposes the dashboard over HTTP: fixture reads, the chat
// assistant, weekly report generation and payment registration.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ledgerops/daicho/internal/chat"
	"github.com/ledgerops/daicho/internal/events"
	"github.com/ledgerops/daicho/internal/fixtures"
	"github.com/ledgerops/daicho/internal/payments"
	"github.com/ledgerops/daicho/internal/report"
)

type Server struct {
	router   *chi.Mux
	port     int
	fixtures *fixtures.Loader
	chat     *chat.Service
	report   *report.Service
	payments *payments.Registrar
	events   *events.Publisher
	logger   *slog.Logger
}

func NewServer(
	port int,
	fx *fixtures.Loader,
	chatSvc *chat.Service,
	reportSvc *report.Service,
	registrar *payments.Registrar,
	publisher *events.Publisher,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		fixtures: fx,
		chat:     chatSvc,
		report:   reportSvc,
		payments: registrar,
		events:   publisher,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/orders", s.listOrders)
		r.Get("/orders/{id}", s.getOrder)
		r.Get("/invoices", s.listInvoices)
		r.Get("/payments", s.listPayments)
		r.Get("/exceptions", s.listExceptions)
		r.Get("/kpis", s.getKPIs)
		r.Post("/chat", s.postChat)
		r.Post("/reports/weekly", s.postReport)
		r.Post("/payments", s.postPayment)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestID tags every request with a UUID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
