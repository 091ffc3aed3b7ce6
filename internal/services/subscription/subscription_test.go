package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

type SubsRepoMock struct{ mock.Mock }

func (m *SubsRepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}
func (m *SubsRepoMock) FindActiveByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *SubsRepoMock) UpdateSubscriptionStatus(ctx context.Context, id int, status string) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}
func (m *SubsRepoMock) ListAllSubscriptions(ctx context.Context) ([]*models.SubscriptionInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionInfo), args.Error(1)
}
func (m *SubsRepoMock) CountSubscriptionStatistics(ctx context.Context) (*models.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statistics), args.Error(1)
}

type PlansRepoMock struct{ mock.Mock }

func (m *PlansRepoMock) FindPlanByID(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(subs *SubsRepoMock, plans *PlansRepoMock, now time.Time) *SubscriptionService {
	svc := NewSubscriptionService(subs, plans, newNoopLogger())
	svc.now = func() time.Time { return now }
	return svc
}

var basicPlan = &models.Plan{
	ID:           1,
	Name:         "Basic",
	Price:        9.99,
	DurationDays: 30,
	IsActive:     true,
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const userUID = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name       string
		setupMocks func(subs *SubsRepoMock, plans *PlansRepoMock)
		wantErr    error
		check      func(t *testing.T, info *models.SubscriptionInfo)
	}{
		{
			name: "first subscription",
			setupMocks: func(subs *SubsRepoMock, plans *PlansRepoMock) {
				plans.On("FindPlanByID", mock.Anything, 1).Return(basicPlan, nil).Once()
				subs.On("FindActiveByUser", mock.Anything, userUID).
					Return(nil, apperrors.ErrNotFound).Once()
				subs.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.UserUID == userUID &&
						s.PlanID == 1 &&
						s.Status == models.StatusActive &&
						s.StartDate.Equal(now) &&
						s.EndDate.Equal(now.AddDate(0, 0, 30))
				})).Return(42, nil).Once()
			},
			check: func(t *testing.T, info *models.SubscriptionInfo) {
				assert.Equal(t, 42, info.ID)
				assert.Equal(t, "Basic", info.PlanName)
				assert.Equal(t, 30, info.DaysRemaining)
			},
		},
		{
			name: "existing active subscription is replaced",
			setupMocks: func(subs *SubsRepoMock, plans *PlansRepoMock) {
				plans.On("FindPlanByID", mock.Anything, 1).Return(basicPlan, nil).Once()
				subs.On("FindActiveByUser", mock.Anything, userUID).Return(&models.Subscription{
					ID:      7,
					UserUID: userUID,
					PlanID:  2,
					Status:  models.StatusActive,
				}, nil).Once()
				subs.On("UpdateSubscriptionStatus", mock.Anything, 7, models.StatusCancelled).
					Return(1, nil).Once()
				subs.On("CreateSubscription", mock.Anything, mock.Anything).Return(8, nil).Once()
			},
			check: func(t *testing.T, info *models.SubscriptionInfo) {
				assert.Equal(t, 8, info.ID)
				assert.Equal(t, models.StatusActive, info.Status)
			},
		},
		{
			name: "unknown plan",
			setupMocks: func(subs *SubsRepoMock, plans *PlansRepoMock) {
				plans.On("FindPlanByID", mock.Anything, 1).
					Return(nil, apperrors.ErrNotFound).Once()
			},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name: "create failure",
			setupMocks: func(subs *SubsRepoMock, plans *PlansRepoMock) {
				plans.On("FindPlanByID", mock.Anything, 1).Return(basicPlan, nil).Once()
				subs.On("FindActiveByUser", mock.Anything, userUID).
					Return(nil, apperrors.ErrNotFound).Once()
				subs.On("CreateSubscription", mock.Anything, mock.Anything).
					Return(0, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := new(SubsRepoMock)
			plans := new(PlansRepoMock)
			tt.setupMocks(subs, plans)

			svc := newTestService(subs, plans, now)
			info, err := svc.Subscribe(context.Background(), userUID, 1)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, info)
			} else {
				require.NoError(t, err)
				require.NotNil(t, info)
				tt.check(t, info)
			}
			subs.AssertExpectations(t)
			plans.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_GetActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const userUID = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("no subscription returns nil", func(t *testing.T) {
		subs := new(SubsRepoMock)
		plans := new(PlansRepoMock)
		subs.On("FindActiveByUser", mock.Anything, userUID).
			Return(nil, apperrors.ErrNotFound).Once()

		svc := newTestService(subs, plans, now)
		info, err := svc.GetActive(context.Background(), userUID)
		require.NoError(t, err)
		assert.Nil(t, info)
		subs.AssertExpectations(t)
	})

	t.Run("active subscription enriched with days remaining", func(t *testing.T) {
		subs := new(SubsRepoMock)
		plans := new(PlansRepoMock)
		subs.On("FindActiveByUser", mock.Anything, userUID).Return(&models.Subscription{
			ID:      3,
			UserUID: userUID,
			PlanID:  1,
			EndDate: now.AddDate(0, 0, 5),
			Status:  models.StatusActive,
		}, nil).Once()
		plans.On("FindPlanByID", mock.Anything, 1).Return(basicPlan, nil).Once()

		svc := newTestService(subs, plans, now)
		info, err := svc.GetActive(context.Background(), userUID)
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, 5, info.DaysRemaining)
		assert.Equal(t, "Basic", info.PlanName)
		subs.AssertExpectations(t)
		plans.AssertExpectations(t)
	})

	t.Run("past due subscription expires and returns nil", func(t *testing.T) {
		subs := new(SubsRepoMock)
		plans := new(PlansRepoMock)
		subs.On("FindActiveByUser", mock.Anything, userUID).Return(&models.Subscription{
			ID:      4,
			UserUID: userUID,
			PlanID:  1,
			EndDate: now.AddDate(0, 0, -1),
			Status:  models.StatusActive,
		}, nil).Once()
		subs.On("UpdateSubscriptionStatus", mock.Anything, 4, models.StatusExpired).
			Return(1, nil).Once()

		svc := newTestService(subs, plans, now)
		info, err := svc.GetActive(context.Background(), userUID)
		require.NoError(t, err)
		assert.Nil(t, info)
		subs.AssertExpectations(t)
	})

	t.Run("second read after expiry does not mutate again", func(t *testing.T) {
		// после перехода строка больше не active, хранилище её не находит
		subs := new(SubsRepoMock)
		plans := new(PlansRepoMock)
		subs.On("FindActiveByUser", mock.Anything, userUID).
			Return(nil, apperrors.ErrNotFound).Once()

		svc := newTestService(subs, plans, now)
		info, err := svc.GetActive(context.Background(), userUID)
		require.NoError(t, err)
		assert.Nil(t, info)
		subs.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const userUID = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("cancels active subscription", func(t *testing.T) {
		subs := new(SubsRepoMock)
		plans := new(PlansRepoMock)
		subs.On("FindActiveByUser", mock.Anything, userUID).Return(&models.Subscription{
			ID:      5,
			UserUID: userUID,
			Status:  models.StatusActive,
		}, nil).Once()
		subs.On("UpdateSubscriptionStatus", mock.Anything, 5, models.StatusCancelled).
			Return(1, nil).Once()

		svc := newTestService(subs, plans, now)
		sub, err := svc.Cancel(context.Background(), userUID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, sub.Status)
		subs.AssertExpectations(t)
	})

	t.Run("no active subscription", func(t *testing.T) {
		subs := new(SubsRepoMock)
		plans := new(PlansRepoMock)
		subs.On("FindActiveByUser", mock.Anything, userUID).
			Return(nil, apperrors.ErrNotFound).Once()

		svc := newTestService(subs, plans, now)
		sub, err := svc.Cancel(context.Background(), userUID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, sub)
	})
}

func TestSubscriptionService_ListAll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	subs := new(SubsRepoMock)
	plans := new(PlansRepoMock)
	subs.On("ListAllSubscriptions", mock.Anything).Return([]*models.SubscriptionInfo{
		{
			Subscription: models.Subscription{
				ID:      1,
				EndDate: now.AddDate(0, 0, 10),
				Status:  models.StatusActive,
			},
		},
		{
			Subscription: models.Subscription{
				ID:      2,
				EndDate: now.AddDate(0, 0, -2),
				Status:  models.StatusActive,
			},
		},
		{
			Subscription: models.Subscription{
				ID:      3,
				EndDate: now.AddDate(0, 0, -5),
				Status:  models.StatusCancelled,
			},
		},
	}, nil).Once()
	subs.On("UpdateSubscriptionStatus", mock.Anything, 2, models.StatusExpired).
		Return(1, nil).Once()

	svc := newTestService(subs, plans, now)
	infos, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, models.StatusActive, infos[0].Status)
	assert.Equal(t, 10, infos[0].DaysRemaining)
	assert.Equal(t, models.StatusExpired, infos[1].Status)
	assert.Equal(t, 0, infos[1].DaysRemaining)
	assert.Equal(t, models.StatusCancelled, infos[2].Status)
	subs.AssertExpectations(t)
}

func TestSubscriptionService_Statistics(t *testing.T) {
	subs := new(SubsRepoMock)
	plans := new(PlansRepoMock)
	want := &models.Statistics{
		TotalUsers:             10,
		TotalPlans:             4,
		TotalSubscriptions:     20,
		ActiveSubscriptions:    8,
		ExpiredSubscriptions:   7,
		CancelledSubscriptions: 5,
	}
	subs.On("CountSubscriptionStatistics", mock.Anything).Return(want, nil).Once()

	svc := newTestService(subs, plans, time.Now())
	got, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
