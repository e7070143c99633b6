package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"feteer-storefront/internal/model"
	"feteer-storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	checkout CheckoutService
	cart     CartService
	repo     repository.SessionRepository
	client   *MockOrderClient
	source   *MockSource
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	source := new(MockSource)
	source.On("Products", mock.Anything).Return(testCatalogue(), nil)

	repo := repository.NewMemorySessionRepository(time.Hour, zerolog.Nop())
	catalogService := NewCatalogService(source, zerolog.Nop())
	client := new(MockOrderClient)

	return &checkoutFixture{
		checkout: NewCheckoutService(repo, catalogService, client, zerolog.Nop()),
		cart:     NewCartService(repo, catalogService, zerolog.Nop()),
		repo:     repo,
		client:   client,
		source:   source,
	}
}

func validForm() *model.CheckoutForm {
	return &model.CheckoutForm{
		Name:        "Mona Adel",
		PhoneNumber: "01001234567",
		Address:     "12 Tahrir St, Cairo",
		Notes:       "Ring twice",
	}
}

func TestCheckoutService_Prepare_NavigationItems(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	view, err := f.checkout.Prepare(ctx, "s1", []int64{1, 1, 5})
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(1), view.Lines[0].Product.ID)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, int64(5), view.Lines[1].Product.ID)
	assert.Equal(t, 1, view.Lines[1].Quantity)
	assert.Equal(t, "90", view.Total.String())
	assert.Equal(t, 3, view.Units)

	// The reconciled lines become the session cart.
	stored, err := f.cart.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, view.Lines, stored.Lines)
}

func TestCheckoutService_Prepare_NavigationReplacesCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "s1", 6)
	require.NoError(t, err)

	view, err := f.checkout.Prepare(ctx, "s1", []int64{2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{2: 1}, quantities(view))
}

func TestCheckoutService_Prepare_SessionCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	for _, id := range []int64{6, 6, 1} {
		_, err := f.cart.Add(ctx, "s1", id)
		require.NoError(t, err)
	}

	view, err := f.checkout.Prepare(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{6: 2, 1: 1}, quantities(view))
	assert.Equal(t, "65", view.Total.String())

	// Only the three adds fetched the catalogue.
	f.source.AssertNumberOfCalls(t, "Products", 3)
}

func TestCheckoutService_Prepare_UnknownNavigationItems(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "s1", 5)
	require.NoError(t, err)

	view, err := f.checkout.Prepare(ctx, "s1", []int64{404, 405})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{5: 1}, quantities(view))
}

func TestCheckoutService_Prepare_Empty(t *testing.T) {
	f := newCheckoutFixture(t)

	view, err := f.checkout.Prepare(context.Background(), "s1", nil)
	assert.Nil(t, view)
	assert.Equal(t, model.ErrEmptyCart, err)
}

func TestCheckoutService_Prepare_CatalogueError(t *testing.T) {
	source := new(MockSource)
	source.On("Products", mock.Anything).Return(nil, errors.New("connection refused"))

	repo := repository.NewMemorySessionRepository(time.Hour, zerolog.Nop())
	svc := NewCheckoutService(repo, NewCatalogService(source, zerolog.Nop()), new(MockOrderClient), zerolog.Nop())

	view, err := svc.Prepare(context.Background(), "s1", []int64{1})
	assert.Nil(t, view)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCheckoutService_Submit_Success(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.checkout.Prepare(ctx, "s1", []int64{1, 1, 5})
	require.NoError(t, err)

	f.client.On("SubmitOrder", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).Return(nil)

	require.NoError(t, f.checkout.Submit(ctx, "s1", validForm()))

	f.client.AssertNumberOfCalls(t, "SubmitOrder", 1)
	sent := f.client.Calls[0].Arguments.Get(1).(*model.OrderRequest)
	assert.Equal(t, &model.OrderRequest{
		Name:        "Mona Adel",
		PhoneNumber: "01001234567",
		Address:     "12 Tahrir St, Cairo",
		Notes:       "Ring twice",
		Products: []model.OrderItem{
			{ID: 1, Quantity: 2},
			{ID: 5, Quantity: 1},
		},
	}, sent)

	view, err := f.cart.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, view.IsEmpty(), "cart is cleared after a successful order")
}

func TestCheckoutService_Submit_KeepsNoticesQueuedDuringPost(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.checkout.Prepare(ctx, "s1", []int64{1})
	require.NoError(t, err)

	queued := model.Notice{Kind: "success", Title: "تمت الإضافة", Description: "تم إضافة Honey qurs إلى سلة التسوق"}
	f.client.On("SubmitOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			require.NoError(t, f.cart.Notify(ctx, "s1", queued))
		}).
		Return(nil)

	require.NoError(t, f.checkout.Submit(ctx, "s1", validForm()))

	notices, err := f.cart.TakeNotices(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.Notice{queued}, notices)

	view, err := f.cart.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, view.IsEmpty())
}

func TestCheckoutService_Submit_ClearFailureDropsSession(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
	}{
		{name: "Session dropped"},
		{name: "Drop also fails", deleteErr: errStoreDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockSessionRepository)
			client := new(MockOrderClient)
			source := new(MockSource)
			catalogService := NewCatalogService(source, zerolog.Nop())
			checkout := NewCheckoutService(repo, catalogService, client, zerolog.Nop())

			stored := &model.Session{
				ID:    "s1",
				Lines: []model.CartLine{{Product: testCatalogue()[0], Quantity: 2}},
			}
			repo.On("Get", mock.Anything, "s1").Return(stored, nil)
			repo.On("Save", mock.Anything, mock.Anything).Return(errStoreDown)
			repo.On("Delete", mock.Anything, "s1").Return(tt.deleteErr)
			client.On("SubmitOrder", mock.Anything, mock.Anything).Return(nil)

			// The order was placed, so the caller still sees success.
			require.NoError(t, checkout.Submit(ctx, "s1", validForm()))

			client.AssertNumberOfCalls(t, "SubmitOrder", 1)
			repo.AssertCalled(t, "Delete", mock.Anything, "s1")
		})
	}
}

func TestCheckoutService_Submit_ValidationError(t *testing.T) {
	tests := []struct {
		name           string
		form           *model.CheckoutForm
		expectedFields []string
	}{
		{
			name:           "All required fields missing",
			form:           &model.CheckoutForm{Notes: "only notes"},
			expectedFields: []string{"name", "phoneNumber", "address"},
		},
		{
			name:           "Whitespace counts as empty",
			form:           &model.CheckoutForm{Name: "  ", PhoneNumber: "0100", Address: "\t"},
			expectedFields: []string{"name", "address"},
		},
		{
			name:           "Markup only counts as empty",
			form:           &model.CheckoutForm{Name: "<b></b>", PhoneNumber: "0100", Address: "Cairo"},
			expectedFields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newCheckoutFixture(t)

			_, err := f.cart.Add(ctx, "s1", 1)
			require.NoError(t, err)

			err = f.checkout.Submit(ctx, "s1", tt.form)

			var validationErr *model.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.expectedFields, validationErr.Fields)

			f.client.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything)

			view, err := f.cart.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, map[int64]int{1: 1}, quantities(view))
		})
	}
}

func TestCheckoutService_Submit_SanitizesFields(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.cart.Add(ctx, "s1", 2)
	require.NoError(t, err)

	f.client.On("SubmitOrder", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).Return(nil)

	form := &model.CheckoutForm{
		Name:        "  <script>alert(1)</script>Mona  ",
		PhoneNumber: "0100",
		Address:     "Building 4 & 5, <i>Nasr City</i>",
	}
	require.NoError(t, f.checkout.Submit(ctx, "s1", form))

	sent := f.client.Calls[0].Arguments.Get(1).(*model.OrderRequest)
	assert.Equal(t, "Mona", sent.Name)
	assert.Equal(t, "Building 4 & 5, Nasr City", sent.Address)
	assert.Equal(t, "", sent.Notes)
}

func TestCheckoutService_Submit_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	err := f.checkout.Submit(context.Background(), "s1", validForm())
	assert.Equal(t, model.ErrEmptyCart, err)
	f.client.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything)
}

func TestCheckoutService_Submit_UpstreamFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.checkout.Prepare(ctx, "s1", []int64{1, 5})
	require.NoError(t, err)

	upstream := &model.UpstreamError{Endpoint: "POST /orders", StatusCode: 500, Status: "Internal Server Error"}
	f.client.On("SubmitOrder", mock.Anything, mock.Anything).Return(upstream)

	err = f.checkout.Submit(ctx, "s1", validForm())

	var target *model.UpstreamError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 500, target.StatusCode)

	view, err := f.cart.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 1, 5: 1}, quantities(view))
}

func TestCheckoutService_Submit_ConcurrentDuplicatesPostOnce(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.checkout.Prepare(ctx, "s1", []int64{1})
	require.NoError(t, err)

	release := make(chan struct{})
	f.client.On("SubmitOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-release }).
		Return(nil)

	const submitters = 5
	errs := make([]error, submitters)

	var started, done sync.WaitGroup
	started.Add(submitters)
	done.Add(submitters)
	for i := 0; i < submitters; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			errs[i] = f.checkout.Submit(ctx, "s1", validForm())
		}(i)
	}

	started.Wait()
	// Give every goroutine time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	f.client.AssertNumberOfCalls(t, "SubmitOrder", 1)
	for _, err := range errs {
		assert.NoError(t, err)
	}

	// A later, sequential resubmit finds the cart already cleared.
	assert.Equal(t, model.ErrEmptyCart, f.checkout.Submit(ctx, "s1", validForm()))
}

func TestCheckoutService_Submit_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	_, err := f.checkout.Prepare(ctx, "alice", []int64{1})
	require.NoError(t, err)
	_, err = f.checkout.Prepare(ctx, "bob", []int64{5})
	require.NoError(t, err)

	f.client.On("SubmitOrder", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.checkout.Submit(ctx, "alice", validForm()))
	require.NoError(t, f.checkout.Submit(ctx, "bob", validForm()))

	f.client.AssertNumberOfCalls(t, "SubmitOrder", 2)
}

func TestCheckoutService_Submit_NilForm(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.Error(t, f.checkout.Submit(context.Background(), "s1", nil))
}
