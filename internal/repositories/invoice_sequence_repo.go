package repositories

import "context"

const invoiceSequenceID = "INVOICE"

// InvoiceSequenceRepository hands out invoice numbers from a single counter row.
type InvoiceSequenceRepository interface {
	Next(ctx context.Context) (int64, error)
}

type invoiceSequenceRepo struct {
	db DBTX
}

func NewInvoiceSequenceRepo(db DBTX) InvoiceSequenceRepository {
	return &invoiceSequenceRepo{db: db}
}

// Next increments and returns the counter in one statement, creating the row on first use.
func (r *invoiceSequenceRepo) Next(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO invoice_sequence (id, last_invoice_no)
		VALUES ($1, 1)
		ON CONFLICT (id) DO UPDATE SET last_invoice_no = invoice_sequence.last_invoice_no + 1
		RETURNING last_invoice_no
	`
	var next int64
	err := r.db.QueryRow(ctx, query, invoiceSequenceID).Scan(&next)
	return next, err
}
