package payments

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegister_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments_app.csv")
	r := NewRegistrar(path, testLogger())

	receipt, err := r.Register(Registration{
		InvoiceNumber: "INV-1",
		PaymentDate:   "2025-12-20",
		Amount:        "100000",
		Note:          "bank transfer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(receipt.PaymentID, "PAY-") {
		t.Errorf("unexpected payment id: %q", receipt.PaymentID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "payment_id,invoice_number,payment_date,amount,note,created_at" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "INV-1,2025-12-20,100000,bank transfer,") {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestRegister_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments_app.csv")
	r := NewRegistrar(path, testLogger())

	for i := 0; i < 3; i++ {
		if _, err := r.Register(Registration{InvoiceNumber: "INV-1", PaymentDate: "2025-12-20", Amount: "1"}); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("expected header + 3 rows, got %d lines", len(lines))
	}
}

func TestRegister_ScrubsCommasInNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments_app.csv")
	r := NewRegistrar(path, testLogger())

	if _, err := r.Register(Registration{
		InvoiceNumber: "INV-1",
		PaymentDate:   "2025-12-20",
		Amount:        "1",
		Note:          "partial, remainder next month",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	data, _ := os.ReadFile(path)
	row := strings.Split(strings.TrimSpace(string(data)), "\n")[1]
	if got := strings.Count(row, ","); got != 5 {
		t.Errorf("expected 5 field separators, got %d in %q", got, row)
	}
	if !strings.Contains(row, "partial  remainder next month") {
		t.Errorf("note commas not scrubbed: %q", row)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	r := NewRegistrar(filepath.Join(t.TempDir(), "p.csv"), testLogger())

	_, err := r.Register(Registration{InvoiceNumber: "INV-1"})
	if !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
}
