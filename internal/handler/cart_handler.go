package handler

import (
	"errors"
	"net/http"
	"strconv"

	"feteer-storefront/internal/middleware"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles the add/remove buttons of the cart dropdown and
// product cards.
type CartHandler struct {
	base
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, views *Views, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		base: base{
			views:  views,
			carts:  carts,
			logger: logger.With().Str("handler", "cart").Logger(),
		},
	}
}

// Add handles POST /cart/items requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body", h.logger)
		return
	}
	target := returnTarget(r, "/products")

	productID, err := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	if err != nil {
		h.logger.Warn().Str("product_id", r.PostFormValue("product_id")).Msg("invalid product id")
		h.notify(r, noticeProductNotFound)
		redirect(w, r, target)
		return
	}

	sid := middleware.GetSessionID(r.Context())
	product, err := h.carts.Add(r.Context(), sid, productID)
	switch {
	case err == nil:
		h.notify(r, noticeAdded(product))
	case errors.Is(err, model.ErrProductNotFound):
		h.notify(r, noticeProductNotFound)
	default:
		h.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to add to cart")
		h.notify(r, noticeCartUnavailable)
	}
	redirect(w, r, target)
}

// Remove handles POST /cart/items/{id}/remove requests. One unit is taken
// out; the line disappears when its quantity reaches zero.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body", h.logger)
		return
	}
	target := returnTarget(r, "/products")

	productID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id", h.logger)
		return
	}

	sid := middleware.GetSessionID(r.Context())
	if err := h.carts.Remove(r.Context(), sid, productID); err != nil && !errors.Is(err, model.ErrLineNotFound) {
		h.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to remove from cart")
		h.notify(r, noticeCartUnavailable)
	}
	redirect(w, r, target)
}

// Snapshot handles GET /cart.json requests.
func (h *CartHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart", h.logger)
		return
	}
	if view.Lines == nil {
		view.Lines = []model.CartLine{}
	}
	writeJSON(w, http.StatusOK, view)
}
