package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
)

// Mocks

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, claim *entities.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) GetByID(ctx context.Context, id string) (*entities.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) List(ctx context.Context) ([]*entities.Claim, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) Update(ctx context.Context, id string, mutate repositories.ClaimMutation) (*entities.Claim, error) {
	args := m.Called(ctx, id, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Claim), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, notification entities.Notification) entities.DeliveryReport {
	args := m.Called(ctx, notification)
	return args.Get(0).(entities.DeliveryReport)
}

type MockForwarder struct {
	mock.Mock
}

func (m *MockForwarder) Forward(ctx context.Context, claim entities.WebhookClaim) entities.DeliveryReport {
	args := m.Called(ctx, claim)
	return args.Get(0).(entities.DeliveryReport)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, event *entities.ClaimEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

type MockPolicyLookup struct {
	mock.Mock
}

func (m *MockPolicyLookup) GetPolicy(ctx context.Context, policyID string) (*entities.PolicySummary, error) {
	args := m.Called(ctx, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PolicySummary), args.Error(1)
}
