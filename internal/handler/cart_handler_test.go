package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"feteer-storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Add(t *testing.T) {
	plain := product(1, "فطير بالسمنة البلدي", "35", "فطير")

	tests := []struct {
		name             string
		form             url.Values
		productID        int64
		addResult        *model.Product
		addErr           error
		expectAdd        bool
		expectedNotice   model.Notice
		expectedLocation string
	}{
		{
			name:             "Adds and returns to the catalogue page",
			form:             url.Values{"product_id": {"1"}, "return_to": {"/products?category=%D9%81%D8%B7%D9%8A%D8%B1"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products?category=%D9%81%D8%B7%D9%8A%D8%B1",
		},
		{
			name:             "Defaults to the products page",
			form:             url.Values{"product_id": {"1"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products",
		},
		{
			name:             "Refuses off-site return targets",
			form:             url.Values{"product_id": {"1"}, "return_to": {"//evil.example.com/"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products",
		},
		{
			name:             "Refuses return targets with a tab",
			form:             url.Values{"product_id": {"1"}, "return_to": {"/\t/evil.example.com/"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products",
		},
		{
			name:             "Refuses return targets with a newline",
			form:             url.Values{"product_id": {"1"}, "return_to": {"/\n/evil.example.com/"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products",
		},
		{
			name:             "Refuses return targets with CRLF",
			form:             url.Values{"product_id": {"1"}, "return_to": {"/\r\n/evil.example.com/"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products",
		},
		{
			name:             "Refuses backslash return targets",
			form:             url.Values{"product_id": {"1"}, "return_to": {"/\\evil.example.com/"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products",
		},
		{
			name:             "Refuses absolute return targets",
			form:             url.Values{"product_id": {"1"}, "return_to": {"https://evil.example.com/"}},
			productID:        1,
			addResult:        &plain,
			expectAdd:        true,
			expectedNotice:   noticeAdded(&plain),
			expectedLocation: "/products",
		},
		{
			name:             "Unknown product",
			form:             url.Values{"product_id": {"99"}},
			productID:        99,
			addErr:           model.ErrProductNotFound,
			expectAdd:        true,
			expectedNotice:   noticeProductNotFound,
			expectedLocation: "/products",
		},
		{
			name:             "Malformed product id",
			form:             url.Values{"product_id": {"abc"}},
			expectedNotice:   noticeProductNotFound,
			expectedLocation: "/products",
		},
		{
			name:             "Store failure",
			form:             url.Values{"product_id": {"1"}},
			productID:        1,
			addErr:           errors.New("session store unavailable"),
			expectAdd:        true,
			expectedNotice:   noticeCartUnavailable,
			expectedLocation: "/products",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := new(MockCartService)
			h := NewCartHandler(carts, testViews(t), zerolog.Nop())

			if tt.expectAdd {
				if tt.addErr != nil {
					carts.On("Add", mock.Anything, testSessionID, tt.productID).Return(nil, tt.addErr)
				} else {
					carts.On("Add", mock.Anything, testSessionID, tt.productID).Return(tt.addResult, nil)
				}
			}
			carts.On("Notify", mock.Anything, testSessionID, tt.expectedNotice).Return(nil)

			w := httptest.NewRecorder()
			h.Add(w, sessionRequest(http.MethodPost, "/cart/items", tt.form))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			carts.AssertExpectations(t)
		})
	}
}

func TestCartHandler_Remove(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		removeErr  error
		expectCall bool
		notice     bool
		status     int
	}{
		{name: "Removes one unit", id: "1", expectCall: true, status: http.StatusSeeOther},
		{name: "Line already gone", id: "1", removeErr: model.ErrLineNotFound, expectCall: true, status: http.StatusSeeOther},
		{name: "Store failure", id: "1", removeErr: errors.New("store down"), expectCall: true, notice: true, status: http.StatusSeeOther},
		{name: "Malformed id", id: "x", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := new(MockCartService)
			h := NewCartHandler(carts, testViews(t), zerolog.Nop())
			if tt.expectCall {
				carts.On("Remove", mock.Anything, testSessionID, int64(1)).Return(tt.removeErr)
			}
			if tt.notice {
				carts.On("Notify", mock.Anything, testSessionID, noticeCartUnavailable).Return(nil)
			}

			req := sessionRequest(http.MethodPost, "/cart/items/"+tt.id+"/remove", url.Values{"return_to": {"/checkout"}})
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			h.Remove(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusSeeOther {
				assert.Equal(t, "/checkout", w.Header().Get("Location"))
			}
			carts.AssertExpectations(t)
		})
	}
}

func TestCartHandler_Remove_RefusesOffSiteReturn(t *testing.T) {
	carts := new(MockCartService)
	h := NewCartHandler(carts, testViews(t), zerolog.Nop())
	carts.On("Remove", mock.Anything, testSessionID, int64(1)).Return(nil)

	req := sessionRequest(http.MethodPost, "/cart/items/1/remove", url.Values{"return_to": {"/\t/evil.example.com/"}})
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	h.Remove(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))
	carts.AssertExpectations(t)
}

func TestCartHandler_Snapshot(t *testing.T) {
	t.Run("Current cart", func(t *testing.T) {
		carts := new(MockCartService)
		carts.On("Get", mock.Anything, testSessionID).Return(testCart(), nil)
		h := NewCartHandler(carts, testViews(t), zerolog.Nop())

		w := httptest.NewRecorder()
		h.Snapshot(w, sessionRequest(http.MethodGet, "/cart.json", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body struct {
			Lines []struct {
				Product  struct{ ID int64 } `json:"product"`
				Quantity int                `json:"quantity"`
			} `json:"lines"`
			Units int    `json:"units"`
			Total string `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Lines, 1)
		assert.Equal(t, int64(1), body.Lines[0].Product.ID)
		assert.Equal(t, 2, body.Lines[0].Quantity)
		assert.Equal(t, 2, body.Units)
		assert.Equal(t, "70", body.Total)
	})

	t.Run("Empty cart encodes an empty list", func(t *testing.T) {
		carts := new(MockCartService)
		carts.On("Get", mock.Anything, testSessionID).Return(&model.CartView{}, nil)
		h := NewCartHandler(carts, testViews(t), zerolog.Nop())

		w := httptest.NewRecorder()
		h.Snapshot(w, sessionRequest(http.MethodGet, "/cart.json", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"lines":[],"units":0,"total":"0"}`, w.Body.String())
	})

	t.Run("Store failure", func(t *testing.T) {
		carts := new(MockCartService)
		carts.On("Get", mock.Anything, testSessionID).Return(nil, errors.New("store down"))
		h := NewCartHandler(carts, testViews(t), zerolog.Nop())

		w := httptest.NewRecorder()
		h.Snapshot(w, sessionRequest(http.MethodGet, "/cart.json", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"failed to load cart"}`, w.Body.String())
	})
}
