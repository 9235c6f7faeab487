package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvoiceNumberService_Next(t *testing.T) {
	repo := new(MockInvoiceSequenceRepository)
	repo.On("Next", mock.Anything).Return(int64(41), nil).Once()
	repo.On("Next", mock.Anything).Return(int64(42), nil).Once()

	svc := NewInvoiceNumberService(repo)

	first, err := svc.Next(context.Background())
	require.NoError(t, err)
	second, err := svc.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "41", first)
	assert.Equal(t, "42", second)
	repo.AssertExpectations(t)
}

func TestInvoiceNumberService_StoreFailure(t *testing.T) {
	repo := new(MockInvoiceSequenceRepository)
	repo.On("Next", mock.Anything).Return(int64(0), errors.New("deadlock detected"))

	_, err := NewInvoiceNumberService(repo).Next(context.Background())

	assert.ErrorContains(t, err, "failed to allocate invoice number")
}
