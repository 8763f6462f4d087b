package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledgerops/daicho/internal/chat"
	"github.com/ledgerops/daicho/internal/fixtures"
	"github.com/ledgerops/daicho/internal/openai"
	"github.com/ledgerops/daicho/internal/payments"
	"github.com/ledgerops/daicho/internal/rag"
	"github.com/ledgerops/daicho/internal/report"
	"github.com/ledgerops/daicho/internal/store"
)

type fakeSearcher struct {
	docs []rag.Document
}

func (f *fakeSearcher) SearchDocuments(_ context.Context, _ []string) ([]rag.Document, error) {
	return f.docs, nil
}

type fakeLedger struct{}

func (fakeLedger) AttentionRows(_ context.Context) ([]store.AttentionRow, error) {
	return nil, errors.New("not wired in this test")
}

type fakeLLM struct {
	response string
}

func (f *fakeLLM) Complete(_ context.Context, _ string, _ []openai.Message, _ openai.ResponseFormat) (string, error) {
	if f.response == "" {
		return "", errors.New("model unavailable")
	}
	return f.response, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFixtures(t *testing.T) *fixtures.Loader {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"orders.json":     `[{"sequence_no":"ORD-1","organization_name":"A省","procurement_name":"p","contract_date":"2025-11-01","contractor_name":"甲社","contract_amount":1,"corporate_number":"1","corporate_name":null,"address_prefecture":null,"address_city":null,"billing_status":"OVERDUE","amount":100000,"order_date":"2025-11-01"}]`,
		"exceptions.json": `[{"order_id":"ORD-1","organization_name":"A省","procurement_name":"p","contractor_name":"甲社","amount":100000,"order_date":"2025-11-01","exception_type":"OVERDUE","exception_description":"d","days_since_order":1,"due_date":null,"days_overdue":5,"severity":"HIGH","detected_date":"2025-12-01"}]`,
		"invoices.json":   `[]`,
		"payments.json":   `[]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	l := fixtures.NewLoader(dir, testLogger())
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	return l
}

func testServer(t *testing.T, chatOpts chat.Options, llm *fakeLLM, docs *fakeSearcher) *Server {
	t.Helper()
	logger := testLogger()
	chatSvc := chat.New(docs, llm, chatOpts, logger)
	reportSvc := report.New(fakeLedger{}, llm, report.Options{APIKeySet: true, Model: "m", FallbackModel: "f"}, logger)
	registrar := payments.NewRegistrar(filepath.Join(t.TempDir(), "payments.csv"), logger)
	return NewServer(0, testFixtures(t), chatSvc, reportSvc, registrar, nil, logger)
}

func TestHealth(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestListOrders(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"sequence_no":"ORD-1"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetKPIs(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpis", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"overdueAmount":100000`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestPostChat_DemoMode(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true, Model: "m", FallbackModel: "f"}, &fakeLLM{}, &fakeSearcher{})

	body := strings.NewReader(`{"messages":[{"role":"user","content":"支払条件を教えて"}]}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Net 30") {
		t.Errorf("expected canned answer, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "DOC-202512-C-0002-JP") {
		t.Errorf("expected demo citation, got %s", rec.Body.String())
	}
}

func TestPostChat_EmptyMessages(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"messages":[]}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostChat_LivePipelineErrorStays200(t *testing.T) {
	// Pipeline failures surface in the result's error field, never as 5xx.
	docs := &fakeSearcher{docs: []rag.Document{{DocID: "D", Filename: "f", Content: "c"}}}
	srv := testServer(t, chat.Options{APIKeySet: true, Model: "m", FallbackModel: "f"}, &fakeLLM{}, docs)

	body := strings.NewReader(`{"messages":[{"role":"user","content":"anything goes here"}]}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected error field in body: %s", rec.Body.String())
	}
}

func TestPostPayment(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	body := strings.NewReader(`{"invoice_number":"INV-1","payment_date":"2025-12-20","amount":"100000","note":"ok"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Payment registered successfully") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestPostPayment_MissingFields(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"invoice_number":"INV-1"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing required fields") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer(t, chat.Options{DemoMode: true}, &fakeLLM{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}
