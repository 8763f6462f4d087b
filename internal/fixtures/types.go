package fixtures

import (
	"encoding/json"
	"fmt"
)

// FlexString decodes JSON values that appear as either strings or numbers
// in the exported fixtures (corporate_number is the usual offender).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("corporate identifier is neither string nor number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

type OrderRow struct {
	SequenceNo        string     `json:"sequence_no"`
	OrganizationName  string     `json:"organization_name"`
	ProcurementName   string     `json:"procurement_name"`
	ContractDate      string     `json:"contract_date"`
	ContractorName    string     `json:"contractor_name"`
	ContractAmount    float64    `json:"contract_amount"`
	CorporateNumber   FlexString `json:"corporate_number"`
	CorporateName     *string    `json:"corporate_name"`
	AddressPrefecture *string    `json:"address_prefecture"`
	AddressCity       *string    `json:"address_city"`
	BillingStatus     string     `json:"billing_status"`
	Amount            float64    `json:"amount"`
	OrderDate         string     `json:"order_date"`
}

type ExceptionRow struct {
	OrderID              string  `json:"order_id"`
	OrganizationName     string  `json:"organization_name"`
	ProcurementName      string  `json:"procurement_name"`
	ContractorName       string  `json:"contractor_name"`
	Amount               float64 `json:"amount"`
	OrderDate            string  `json:"order_date"`
	ExceptionType        string  `json:"exception_type"` // UNBILLED | OVERDUE | AMOUNT_MISMATCH
	ExceptionDescription string  `json:"exception_description"`
	DaysSinceOrder       *int    `json:"days_since_order"`
	DueDate              *string `json:"due_date"`
	DaysOverdue          *int    `json:"days_overdue"`
	Severity             string  `json:"severity"` // LOW | MEDIUM | HIGH | CRITICAL
	DetectedDate         string  `json:"detected_date"`
}

type InvoiceRow struct {
	OrderID           string  `json:"order_id"`
	InvoiceNumber     string  `json:"invoice_number"`
	OrganizationName  string  `json:"organization_name"`
	ContractorName    string  `json:"contractor_name"`
	InvoiceAmount     float64 `json:"invoice_amount"`
	InvoiceDate       string  `json:"invoice_date"`
	PaymentDueDate    string  `json:"payment_due_date"`
	ActualInvoiceDate *string `json:"actual_invoice_date"`
	Currency          string  `json:"currency"`
}

type PaymentRow struct {
	InvoiceNumber  string  `json:"invoice_number"`
	OrderID        string  `json:"order_id"`
	InvoiceAmount  float64 `json:"invoice_amount"`
	PaymentDueDate string  `json:"payment_due_date"`
	PaymentDate    *string `json:"payment_date"`
	PaymentAmount  float64 `json:"payment_amount"`
	PaymentStatus  string  `json:"payment_status"` // PAID | PAID_LATE | UNPAID
	ItemID         string  `json:"item_id,omitempty"`
}

// KPIs are the dashboard headline numbers, derived from orders and
// exceptions on every call so they track reloads.
type KPIs struct {
	TotalOrders    int     `json:"totalOrders"`
	TotalAmount    float64 `json:"totalAmount"`
	UnbilledAmount float64 `json:"unbilledAmount"`
	OverdueAmount  float64 `json:"overdueAmount"`
	ExceptionCount int     `json:"exceptionCount"`
}
