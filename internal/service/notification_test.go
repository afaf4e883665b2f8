package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// MockNotificationRepository is a mock implementation of domain.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.AdminNotification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, adminID int64, filter domain.NotificationFilter) (*domain.NotificationListResult, error) {
	args := m.Called(ctx, adminID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationListResult), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, adminID int64) (bool, error) {
	args := m.Called(ctx, id, adminID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, adminID int64) (int64, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id, adminID int64) (bool, error) {
	args := m.Called(ctx, id, adminID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, adminID int64) (int64, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) PriorityUnreadCount(ctx context.Context, adminID int64) (int64, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBadgeCache is a mock implementation of domain.BadgeCache
type MockBadgeCache struct {
	mock.Mock
}

func (m *MockBadgeCache) GetCounts(ctx context.Context, adminID int64) (*domain.UnreadCounts, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnreadCounts), args.Error(1)
}

func (m *MockBadgeCache) SetCounts(ctx context.Context, adminID int64, counts domain.UnreadCounts) error {
	args := m.Called(ctx, adminID, counts)
	return args.Error(0)
}

func (m *MockBadgeCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestService(repo *MockNotificationRepository, cache *MockBadgeCache) *AdminNotificationService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewAdminNotificationService(repo, cache, logger, "http://localhost:3000")
}

func TestAdminNotificationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates broadcast notification", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockCache := new(MockBadgeCache)
		svc := newTestService(mockRepo, mockCache)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AdminNotification")).Return(int64(7), nil).Once()
		mockCache.On("Invalidate", mock.Anything).Return(nil).Once()

		n, err := svc.Create(ctx, CreateParams{
			Type:    "system",
			Title:   "Maintenance",
			Message: "Scheduled maintenance tonight",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), n.ID)
		assert.Nil(t, n.AdminID)
		assert.Equal(t, domain.SeverityInfo, n.Severity)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("rejects invalid severity", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockCache := new(MockBadgeCache)
		svc := newTestService(mockRepo, mockCache)

		n, err := svc.Create(ctx, CreateParams{
			Type:     "system",
			Title:    "Maintenance",
			Severity: domain.Severity("fatal"),
		})

		assert.Error(t, err)
		assert.Nil(t, n)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("invokes created hook", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockCache := new(MockBadgeCache)
		svc := newTestService(mockRepo, mockCache)

		mockRepo.On("Create", ctx, mock.Anything).Return(int64(3), nil).Once()
		mockCache.On("Invalidate", mock.Anything).Return(nil).Once()

		var hooked *domain.AdminNotification
		svc.SetCreatedHook(func(n *domain.AdminNotification) { hooked = n })

		n, err := svc.Create(ctx, CreateParams{Type: "system", Title: "Hello"})

		assert.NoError(t, err)
		assert.Equal(t, n, hooked)
	})
}

func TestAdminNotificationService_CreateIncidentNotification(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		incidentPriority string
		wantSeverity     domain.Severity
		wantPriority     domain.PriorityLevel
	}{
		{"critical", domain.SeverityCritical, domain.PriorityCritical},
		{"high", domain.SeverityCritical, domain.PriorityHigh},
		{"moderate", domain.SeverityWarning, domain.PriorityMedium},
		{"low", domain.SeverityInfo, domain.PriorityLow},
		{"unknown", domain.SeverityInfo, domain.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.incidentPriority, func(t *testing.T) {
			mockRepo := new(MockNotificationRepository)
			mockCache := new(MockBadgeCache)
			svc := newTestService(mockRepo, mockCache)

			mockRepo.On("Create", ctx, mock.Anything).Return(int64(1), nil).Once()
			mockCache.On("Invalidate", mock.Anything).Return(nil).Once()

			n, err := svc.CreateIncidentNotification(ctx, IncidentEvent{
				IncidentID:   42,
				IncidentType: "fire",
				Priority:     tt.incidentPriority,
				Location:     "Building A",
				ReporterName: "Jordan Reyes",
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.wantSeverity, n.Severity)
			assert.Equal(t, tt.wantPriority, n.PriorityLevel)
			assert.Equal(t, "incident_reported", n.Type)
			assert.Equal(t, int64(42), *n.RelatedID)
			assert.Contains(t, *n.ActionURL, "/admin/incidents/42")
		})
	}
}

func TestAdminNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("affected row invalidates badge cache", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockCache := new(MockBadgeCache)
		svc := newTestService(mockRepo, mockCache)

		mockRepo.On("MarkRead", ctx, int64(5), int64(1)).Return(true, nil).Once()
		mockCache.On("Invalidate", mock.Anything).Return(nil).Once()

		affected, err := svc.MarkRead(ctx, 5, 1)

		assert.NoError(t, err)
		assert.True(t, affected)
		mockCache.AssertExpectations(t)
	})

	t.Run("not found or not visible skips invalidation", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockCache := new(MockBadgeCache)
		svc := newTestService(mockRepo, mockCache)

		mockRepo.On("MarkRead", ctx, int64(999), int64(1)).Return(false, nil).Once()

		affected, err := svc.MarkRead(ctx, 999, 1)

		assert.NoError(t, err)
		assert.False(t, affected)
		mockCache.AssertNotCalled(t, "Invalidate")
	})
}

func TestAdminNotificationService_UnreadCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockCache := new(MockBadgeCache)
		svc := newTestService(mockRepo, mockCache)

		cached := &domain.UnreadCounts{Unread: 4, PriorityUnread: 2}
		mockCache.On("GetCounts", ctx, int64(1)).Return(cached, nil).Once()

		counts, err := svc.UnreadCounts(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, cached, counts)
		mockRepo.AssertNotCalled(t, "UnreadCount")
	})

	t.Run("cache miss queries and backfills", func(t *testing.T) {
		mockRepo := new(MockNotificationRepository)
		mockCache := new(MockBadgeCache)
		svc := newTestService(mockRepo, mockCache)

		mockCache.On("GetCounts", ctx, int64(1)).Return(nil, nil).Once()
		mockRepo.On("UnreadCount", ctx, int64(1)).Return(int64(9), nil).Once()
		mockRepo.On("PriorityUnreadCount", ctx, int64(1)).Return(int64(3), nil).Once()
		mockCache.On("SetCounts", ctx, int64(1), domain.UnreadCounts{Unread: 9, PriorityUnread: 3}).Return(nil).Once()

		counts, err := svc.UnreadCounts(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(9), counts.Unread)
		assert.Equal(t, int64(3), counts.PriorityUnread)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})
}
