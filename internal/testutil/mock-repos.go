package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"curumim-backend/internal/core/domain"
	"curumim-backend/internal/core/ports/output"
)

// MockConversationRepo is a mock of ConversationRepository.
type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) Get(ctx context.Context, senderID string) (*domain.Conversation, error) {
	args := m.Called(ctx, senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepo) Save(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *MockConversationRepo) Delete(ctx context.Context, senderID string) error {
	args := m.Called(ctx, senderID)
	return args.Error(0)
}

func (m *MockConversationRepo) Complete(ctx context.Context, conv *domain.Conversation, contrib *domain.Contribution) error {
	args := m.Called(ctx, conv, contrib)
	return args.Error(0)
}

// MockContributionRepo is a mock of ContributionRepository.
type MockContributionRepo struct {
	mock.Mock
}

func (m *MockContributionRepo) Create(ctx context.Context, c *domain.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContributionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}

func (m *MockContributionRepo) List(ctx context.Context, filter ports.ContributionFilter) ([]*domain.Contribution, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Contribution), args.Int(1), args.Error(2)
}

// MockPinger is a mock of Pinger.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMediaFetcher is a mock of MediaFetcher.
type MockMediaFetcher struct {
	mock.Mock
}

func (m *MockMediaFetcher) Fetch(ctx context.Context, url, contentType string) (*ports.Media, error) {
	args := m.Called(ctx, url, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Media), args.Error(1)
}

func (m *MockMediaFetcher) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockAudioStore is a mock of AudioStore.
type MockAudioStore struct {
	mock.Mock
}

func (m *MockAudioStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockAudioStore) Available() bool {
	args := m.Called()
	return args.Bool(0)
}
