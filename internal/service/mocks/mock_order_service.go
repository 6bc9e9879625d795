package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stoneapi/internal/model"
	"stoneapi/internal/service"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Ingest(ctx context.Context, content []byte, filename string) (*service.IngestResult, error) {
	args := m.Called(ctx, content, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *MockOrderService) Search(ctx context.Context, query model.SearchQuery) (*service.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
