package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerops/daicho/internal/events"
	"github.com/ledgerops/daicho/internal/fixtures"
	"github.com/ledgerops/daicho/internal/openai"
	"github.com/ledgerops/daicho/internal/payments"
)

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orDefault(s.fixtures.Orders(), []fixtures.OrderRow{}))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, ok := s.fixtures.OrderByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":    order,
		"invoices": orDefault(s.fixtures.InvoicesByOrderID(id), []fixtures.InvoiceRow{}),
	})
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	if orderID := r.URL.Query().Get("order_id"); orderID != "" {
		writeJSON(w, http.StatusOK, orDefault(s.fixtures.InvoicesByOrderID(orderID), []fixtures.InvoiceRow{}))
		return
	}
	writeJSON(w, http.StatusOK, orDefault(s.fixtures.Invoices(), []fixtures.InvoiceRow{}))
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orDefault(s.fixtures.Payments(), []fixtures.PaymentRow{}))
}

func (s *Server) listExceptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orDefault(s.fixtures.ExceptionsBySeverity(), []fixtures.ExceptionRow{}))
}

func (s *Server) getKPIs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.fixtures.KPIs())
}

type chatRequest struct {
	Messages []openai.Message `json:"messages"`
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages must not be empty"})
		return
	}

	result := s.chat.Answer(r.Context(), req.Messages)

	if result.Error == "" {
		if err := s.events.Publish(events.SubjectChatAnswered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"sources":   len(result.Sources),
		}); err != nil {
			s.logger.Warn("failed to publish chat event", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) postReport(w http.ResponseWriter, r *http.Request) {
	result := s.report.Generate(r.Context())

	if result.Error == "" {
		if err := s.events.Publish(events.SubjectReportGenerated, map[string]any{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"highlights": len(result.KeyHighlights),
			"actions":    len(result.NextActions),
		}); err != nil {
			s.logger.Warn("failed to publish report event", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

type paymentResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (s *Server) postPayment(w http.ResponseWriter, r *http.Request) {
	var reg payments.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, paymentResponse{Message: "invalid JSON body", Success: false})
		return
	}

	receipt, err := s.payments.Register(reg)
	if err != nil {
		if errors.Is(err, payments.ErrMissingFields) {
			writeJSON(w, http.StatusBadRequest, paymentResponse{Message: "Missing required fields", Success: false})
			return
		}
		s.logger.Error("payment registration failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, paymentResponse{Message: "Failed to record payment", Success: false})
		return
	}

	if err := s.events.Publish(events.SubjectPaymentRegistered, map[string]any{
		"payment_id":     receipt.PaymentID,
		"invoice_number": reg.InvoiceNumber,
		"timestamp":      receipt.CreatedAt,
	}); err != nil {
		s.logger.Warn("failed to publish payment event", "error", err)
	}

	writeJSON(w, http.StatusOK, paymentResponse{Message: "Payment registered successfully", Success: true})
}

// orDefault swaps nil slices for empty ones so JSON lists render as [].
func orDefault[T any](s, fallback []T) []T {
	if s == nil {
		return fallback
	}
	return s
}
