package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"feteer-storefront/internal/middleware"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler serves the checkout page and its forms.
type CheckoutHandler struct {
	base
	checkout service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, carts service.CartService, views *Views, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		base: base{
			views:  views,
			carts:  carts,
			logger: logger.With().Str("handler", "checkout").Logger(),
		},
		checkout: checkout,
	}
}

type checkoutPage struct {
	Chrome
	Order   *model.CartView
	Form    model.CheckoutForm
	Invalid map[string]bool
}

// Show handles GET /checkout requests. Repeated ?item=<id> parameters carry
// products picked elsewhere and take precedence over the session cart.
func (h *CheckoutHandler) Show(w http.ResponseWriter, r *http.Request) {
	var items []int64
	for _, raw := range r.URL.Query()["item"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Debug().Str("item", raw).Msg("ignoring malformed checkout item")
			continue
		}
		items = append(items, id)
	}

	h.show(w, r, http.StatusOK, items, model.CheckoutForm{}, nil)
}

func (h *CheckoutHandler) show(w http.ResponseWriter, r *http.Request, status int, items []int64, form model.CheckoutForm, invalid map[string]bool, extra ...model.Notice) {
	sid := middleware.GetSessionID(r.Context())

	order, err := h.checkout.Prepare(r.Context(), sid, items)
	if errors.Is(err, model.ErrEmptyCart) {
		h.notify(r, noticeEmptyCart)
		redirect(w, r, "/products")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sid).Msg("failed to prepare checkout")
		h.renderError(w, r, http.StatusBadGateway, noticeCatalogUnavailable)
		return
	}

	page := checkoutPage{
		Chrome:  h.chrome(r, "إتمام الطلب"),
		Order:   order,
		Form:    form,
		Invalid: invalid,
	}
	page.Notices = append(page.Notices, extra...)
	h.render(w, status, pageCheckout, page)
}

// SetQuantity handles POST /checkout/lines/{id} requests. Values below one
// are clamped to one.
func (h *CheckoutHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body", h.logger)
		return
	}

	productID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id", h.logger)
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		h.notify(r, noticeInvalidQuantity)
		redirect(w, r, "/checkout")
		return
	}

	sid := middleware.GetSessionID(r.Context())
	if err := h.carts.SetQuantity(r.Context(), sid, productID, quantity); err != nil && !errors.Is(err, model.ErrLineNotFound) {
		h.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to set quantity")
		h.notify(r, noticeCartUnavailable)
	}
	redirect(w, r, "/checkout")
}

// DeleteLine handles POST /checkout/lines/{id}/delete requests.
func (h *CheckoutHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id", h.logger)
		return
	}

	sid := middleware.GetSessionID(r.Context())
	if err := h.carts.Delete(r.Context(), sid, productID); err != nil && !errors.Is(err, model.ErrLineNotFound) {
		h.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to delete line")
		h.notify(r, noticeCartUnavailable)
	}
	redirect(w, r, "/checkout")
}

// Submit handles POST /checkout requests.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body", h.logger)
		return
	}

	form := model.CheckoutForm{
		Name:        r.PostFormValue("name"),
		PhoneNumber: r.PostFormValue("phoneNumber"),
		Address:     r.PostFormValue("address"),
		Notes:       r.PostFormValue("notes"),
	}

	sid := middleware.GetSessionID(r.Context())
	err := h.checkout.Submit(r.Context(), sid, &form)
	if err == nil {
		h.notify(r, noticeOrderSent)
		redirect(w, r, "/")
		return
	}

	var invalid *model.ValidationError
	switch {
	case errors.As(err, &invalid):
		h.show(w, r, http.StatusUnprocessableEntity, nil, form, invalidFields(invalid), noticeCheckoutIncomplete)
	case errors.Is(err, model.ErrEmptyCart):
		h.notify(r, noticeEmptyCart)
		redirect(w, r, "/products")
	default:
		h.logger.Error().Err(err).Str("session_id", sid).Msg("failed to submit order")
		h.show(w, r, http.StatusBadGateway, nil, form, nil, noticeOrderFailed)
	}
}
