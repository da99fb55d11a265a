package mocks

import (
	"context"

	"github.com/screenpass/screenpass/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowRepo struct {
	mock.Mock
	domain.ShowRepository
}

func (m *MockShowRepo) GetById(ctx context.Context, id int) (*domain.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}

func (m *MockShowRepo) GetAllByMovieId(ctx context.Context, movieID int) ([]domain.Show, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Show), args.Error(1)
}
