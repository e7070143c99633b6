package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/middleware"
	"feteer-storefront/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSessionID = "6f1c2f8e-5a7b-4d43-9a0e-2c1d3b4a5f60"

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Browse(ctx context.Context, query catalog.Query) (*model.CatalogPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CatalogPage), args.Error(1)
}

func (m *MockCatalogService) Product(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, sessionID string) (*model.CartView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, sessionID string, productID int64) (*model.Product, error) {
	args := m.Called(ctx, sessionID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, sessionID string, productID int64) error {
	return m.Called(ctx, sessionID, productID).Error(0)
}

func (m *MockCartService) Delete(ctx context.Context, sessionID string, productID int64) error {
	return m.Called(ctx, sessionID, productID).Error(0)
}

func (m *MockCartService) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	return m.Called(ctx, sessionID, productID, quantity).Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockCartService) Notify(ctx context.Context, sessionID string, notice model.Notice) error {
	return m.Called(ctx, sessionID, notice).Error(0)
}

func (m *MockCartService) TakeNotices(ctx context.Context, sessionID string) ([]model.Notice, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notice), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Prepare(ctx context.Context, sessionID string, navItems []int64) (*model.CartView, error) {
	args := m.Called(ctx, sessionID, navItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCheckoutService) Submit(ctx context.Context, sessionID string, form *model.CheckoutForm) error {
	return m.Called(ctx, sessionID, form).Error(0)
}

// MockInquiryService is a mock implementation of InquiryService.
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) Submit(ctx context.Context, form *model.InquiryForm) error {
	return m.Called(ctx, form).Error(0)
}

func testViews(t *testing.T) *Views {
	t.Helper()
	views, err := NewViews()
	require.NoError(t, err)
	return views
}

func product(id int64, name, price, category string) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Description: name + " طازج",
		Price:       decimal.RequireFromString(price),
		Category:    model.Category{Name: category},
	}
}

func testCart() *model.CartView {
	p := product(1, "فطير بالسمنة البلدي", "35", "فطير")
	return &model.CartView{
		Lines: []model.CartLine{{Product: p, Quantity: 2}},
		Units: 2,
		Total: decimal.NewFromInt(70),
	}
}

// expectChrome stubs the layout lookups every rendered page performs.
func expectChrome(carts *MockCartService, view *model.CartView, notices []model.Notice) {
	if view == nil {
		view = &model.CartView{}
	}
	carts.On("Get", mock.Anything, testSessionID).Return(view, nil).Maybe()
	carts.On("TakeNotices", mock.Anything, testSessionID).Return(notices, nil).Maybe()
}

// sessionRequest builds a request carrying the test session id. Non-nil
// form values are sent url-encoded.
func sessionRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), testSessionID))
}
