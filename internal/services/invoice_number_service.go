package services

import (
	"context"
	"fmt"
	"strconv"

	"sgspadmin/internal/repositories"
)

// InvoiceNumberService hands out invoice numbers from the persisted sequence.
type InvoiceNumberService interface {
	Next(ctx context.Context) (string, error)
}

type invoiceNumberService struct {
	repo repositories.InvoiceSequenceRepository
}

func NewInvoiceNumberService(repo repositories.InvoiceSequenceRepository) InvoiceNumberService {
	return &invoiceNumberService{repo: repo}
}

func (s *invoiceNumberService) Next(ctx context.Context) (string, error) {
	n, err := s.repo.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return strconv.FormatInt(n, 10), nil
}
