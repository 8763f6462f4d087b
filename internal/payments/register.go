// Package payments appends manually registered payments to the raw CSV the
// upstream pipeline ingests on its next run. Single writer, append only.
package payments

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const csvHeader = "payment_id,invoice_number,payment_date,amount,note,created_at\n"

// ErrMissingFields is returned when a required field is absent.
var ErrMissingFields = errors.New("missing required fields")

type Registration struct {
	InvoiceNumber string `json:"invoice_number"`
	PaymentDate   string `json:"payment_date"`
	Amount        string `json:"amount"`
	Note          string `json:"note"`
}

type Receipt struct {
	PaymentID string `json:"payment_id"`
	CreatedAt string `json:"created_at"`
}

type Registrar struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

func NewRegistrar(path string, logger *slog.Logger) *Registrar {
	return &Registrar{path: path, logger: logger}
}

// Register appends one payment row, creating the file with a header row on
// first use. Commas in the note are replaced with spaces so the row stays a
// single record.
func (r *Registrar) Register(reg Registration) (*Receipt, error) {
	if reg.InvoiceNumber == "" || reg.PaymentDate == "" || reg.Amount == "" {
		return nil, ErrMissingFields
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		if err := os.WriteFile(r.path, []byte(csvHeader), 0o644); err != nil {
			return nil, fmt.Errorf("create payments file: %w", err)
		}
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open payments file: %w", err)
	}
	defer f.Close()

	receipt := &Receipt{
		PaymentID: "PAY-" + uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	note := strings.ReplaceAll(reg.Note, ",", " ")
	line := fmt.Sprintf("%s,%s,%s,%s,%s,%s\n",
		receipt.PaymentID, reg.InvoiceNumber, reg.PaymentDate, reg.Amount, note, receipt.CreatedAt)

	if _, err := f.WriteString(line); err != nil {
		return nil, fmt.Errorf("append payment: %w", err)
	}

	r.logger.Info("payment registered",
		"payment_id", receipt.PaymentID,
		"invoice_number", reg.InvoiceNumber,
	)
	return receipt, nil
}
