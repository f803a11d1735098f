package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type mockMailClient struct {
	mock.Mock
}

func (m *mockMailClient) DialAndSend(msgs ...*mail.Msg) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func decidedApplication(status domain.ApplicationStatus) *models.LoanApplication {
	return &models.LoanApplication{
		ID:         12,
		FullName:   "Amina Yusuf",
		Email:      "amina@example.com",
		Product:    models.ProductSnapshot{ProductName: "Micro Business Loan"},
		LoanAmount: 2_000_000,
		Tenure:     12,
		Status:     status,
	}
}

func TestNotificationService_NotifyDecision(t *testing.T) {
	client := new(mockMailClient)
	client.On("DialAndSend", mock.MatchedBy(func(msgs []*mail.Msg) bool {
		return len(msgs) == 1
	})).Return(nil).Once()

	svc := NewNotificationService(client, "loans@example.com", time.Millisecond)
	require.NoError(t, svc.NotifyDecision(context.Background(), decidedApplication(domain.StatusApproved)))
	client.AssertExpectations(t)
}

func TestNotificationService_RetriesThenFails(t *testing.T) {
	client := new(mockMailClient)
	client.On("DialAndSend", mock.Anything).Return(errors.New("connection refused")).Times(sendAttempts)

	svc := NewNotificationService(client, "loans@example.com", time.Millisecond)
	err := svc.NotifyDecision(context.Background(), decidedApplication(domain.StatusRejected))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	client.AssertNumberOfCalls(t, "DialAndSend", sendAttempts)
}

func TestNotificationService_RetrySucceeds(t *testing.T) {
	client := new(mockMailClient)
	client.On("DialAndSend", mock.Anything).Return(errors.New("temporary failure")).Once()
	client.On("DialAndSend", mock.Anything).Return(nil).Once()

	svc := NewNotificationService(client, "loans@example.com", time.Millisecond)
	require.NoError(t, svc.NotifyDecision(context.Background(), decidedApplication(domain.StatusApproved)))
	client.AssertNumberOfCalls(t, "DialAndSend", 2)
}

func TestNotificationService_InvalidRecipient(t *testing.T) {
	client := new(mockMailClient)
	svc := NewNotificationService(client, "loans@example.com", time.Millisecond)

	app := decidedApplication(domain.StatusApproved)
	app.Email = "not an address"
	assert.Error(t, svc.NotifyDecision(context.Background(), app))
	client.AssertNotCalled(t, "DialAndSend", mock.Anything)
}
