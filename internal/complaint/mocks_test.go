package complaint_test

import (
	"context"
	"time"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.ComplaintStore and storage.EventPublisher.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintView(ctx context.Context, id uint) (*models.ComplaintView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplaintView), args.Error(1)
}

func (m *MockStorage) ListComplaintViews(ctx context.Context, q storage.ComplaintQuery) ([]models.ComplaintView, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ComplaintView), args.Error(1)
}

func (m *MockStorage) UpdateComplaintIfStatus(ctx context.Context, id uint, from models.Status, values map[string]any) (bool, error) {
	args := m.Called(ctx, id, from, values)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) DeleteComplaint(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) MarkSeen(ctx context.Context, complaintID, userID uint, at time.Time) (*models.ComplaintSeen, error) {
	args := m.Called(ctx, complaintID, userID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplaintSeen), args.Error(1)
}

func (m *MockStorage) GetSeen(ctx context.Context, id uint) (*models.ComplaintSeen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplaintSeen), args.Error(1)
}

func (m *MockStorage) DeleteSeen(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) PublishComplaintEvent(ctx context.Context, ev models.ComplaintEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockNotifier records notification calls.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySubmitted(view models.ComplaintView) {
	m.Called(view)
}
