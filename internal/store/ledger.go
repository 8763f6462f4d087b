package store

import (
	"context"
	"fmt"
)

// AttentionRow is one overdue or unbilled ledger entry enriched with a
// derived attention level, serialized as the report generation context.
type AttentionRow struct {
	OrderID        string  `json:"order_id"`
	CompanyName    string  `json:"company_name"`
	OrderDate      string  `json:"order_date"`
	TotalAmount    float64 `json:"total_amount"`
	BilledAmount   float64 `json:"billed_amount"`
	PaidAmount     float64 `json:"paid_amount"`
	PaymentStatus  string  `json:"payment_status"`
	AttentionLevel string  `json:"attention_level"`
}

// AttentionRows returns the ledger rows needing follow-up: OVERDUE and
// UNBILLED entries, capped at 20. Billed and paid amounts are constant
// zeros; the gold view does not carry them yet.
func (s *Store) AttentionRows(ctx context.Context) ([]AttentionRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			sequence_no AS order_id,
			organization_name AS company_name,
			order_date,
			amount AS total_amount,
			0 AS billed_amount,
			0 AS paid_amount,
			billing_status AS payment_status,
			CASE
				WHEN billing_status = 'OVERDUE' THEN 'Urgent Attention'
				WHEN billing_status = 'UNBILLED' THEN 'Action Required'
				ELSE 'OK'
			END AS attention_level
		FROM main_gold.gold_ledger
		WHERE billing_status IN ('OVERDUE', 'UNBILLED')
		LIMIT 20`,
	)
	if err != nil {
		return nil, fmt.Errorf("query attention rows: %w", err)
	}
	defer rows.Close()

	var out []AttentionRow
	for rows.Next() {
		var r AttentionRow
		if err := rows.Scan(
			&r.OrderID, &r.CompanyName, &r.OrderDate, &r.TotalAmount,
			&r.BilledAmount, &r.PaidAmount, &r.PaymentStatus, &r.AttentionLevel,
		); err != nil {
			return nil, fmt.Errorf("scan attention row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read attention rows: %w", err)
	}
	return out, nil
}
