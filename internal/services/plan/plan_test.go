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

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}
func (m *RepoMock) FindPlanByID(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var testPlans = []*models.Plan{
	{ID: 1, Name: "Basic", Price: 9.99, DurationDays: 30, IsActive: true},
	{ID: 2, Name: "Standard", Price: 19.99, DurationDays: 30, IsActive: true},
}

func TestPlanService_List(t *testing.T) {
	t.Run("cache miss falls through to repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "plans:active", mock.Anything).Return(false, nil).Once()
		repo.On("ListActivePlans", mock.Anything).Return(testPlans, nil).Once()
		cache.On("Set", "plans:active", testPlans, 5*time.Minute).Return(nil).Once()

		svc := NewPlanService(repo, cache, newNoopLogger())
		plans, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testPlans, plans)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error is tolerated", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "plans:active", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("ListActivePlans", mock.Anything).Return(testPlans, nil).Once()
		cache.On("Set", "plans:active", testPlans, 5*time.Minute).Return(errors.New("redis down")).Once()

		svc := NewPlanService(repo, cache, newNoopLogger())
		plans, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testPlans, plans)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "plans:active", mock.Anything).Return(false, nil).Once()
		repo.On("ListActivePlans", mock.Anything).Return(nil, errors.New("db error")).Once()

		svc := NewPlanService(repo, cache, newNoopLogger())
		plans, err := svc.List(context.Background())
		assert.Error(t, err)
		assert.Nil(t, plans)
	})
}

func TestPlanService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("FindPlanByID", mock.Anything, 1).Return(testPlans[0], nil).Once()

		svc := NewPlanService(repo, cache, newNoopLogger())
		plan, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Basic", plan.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("FindPlanByID", mock.Anything, 99).Return(nil, apperrors.ErrNotFound).Once()

		svc := NewPlanService(repo, cache, newNoopLogger())
		plan, err := svc.Get(context.Background(), 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, plan)
	})
}
