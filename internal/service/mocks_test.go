package service

import (
	"context"
	"errors"

	"feteer-storefront/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockSource is a mock implementation of catalog.Source.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Products(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockOrderClient is a mock implementation of OrderSubmitter.
type MockOrderClient struct {
	mock.Mock
}

func (m *MockOrderClient) SubmitOrder(ctx context.Context, order *model.OrderRequest) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockContactClient is a mock implementation of ContactSubmitter.
type MockContactClient struct {
	mock.Mock
}

func (m *MockContactClient) SubmitContact(ctx context.Context, contact *model.ContactRequest) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var errStoreDown = errors.New("session store unavailable")

func product(id int64, name string, price string, category string) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Description: name + " from the oven",
		Price:       decimal.RequireFromString(price),
		Category:    model.Category{Name: category},
	}
}

func testCatalogue() []model.Product {
	return []model.Product{
		product(1, "Plain feteer", "35", "Feteer"),
		product(2, "Cheese feteer", "45", "Feteer"),
		product(5, "Honey qurs", "20", "Qurs"),
		product(6, "Sesame qurs", "15", "Qurs"),
	}
}
