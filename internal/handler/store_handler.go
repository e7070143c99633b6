package handler

import (
	"errors"
	"net/http"

	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/service"

	"github.com/rs/zerolog"
)

// StoreHandler serves the landing page, the catalogue and the inquiry form.
type StoreHandler struct {
	base
	catalog service.CatalogService
	inquiry service.InquiryService
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(
	catalogService service.CatalogService,
	carts service.CartService,
	inquiry service.InquiryService,
	views *Views,
	logger zerolog.Logger,
) *StoreHandler {
	return &StoreHandler{
		base: base{
			views:  views,
			carts:  carts,
			logger: logger.With().Str("handler", "store").Logger(),
		},
		catalog: catalogService,
		inquiry: inquiry,
	}
}

type landingPage struct {
	Chrome
	Menu      *model.CatalogPage
	MenuError bool
	Inquiry   model.InquiryForm
	Invalid   map[string]bool
}

type productsPage struct {
	Chrome
	Catalog *model.CatalogPage
}

type notFoundPage struct {
	Chrome
	Path string
}

// Landing handles GET / requests. The menu section filters by the
// category tab in ?category=.
func (h *StoreHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.renderLanding(w, r, http.StatusOK, model.InquiryForm{}, nil)
}

func (h *StoreHandler) renderLanding(w http.ResponseWriter, r *http.Request, status int, form model.InquiryForm, invalid map[string]bool, extra ...model.Notice) {
	page := landingPage{
		Chrome:  h.chrome(r, "فطير ام كريم"),
		Inquiry: form,
		Invalid: invalid,
	}
	page.Notices = append(page.Notices, extra...)

	menu, err := h.catalog.Browse(r.Context(), catalog.Query{Category: r.URL.Query().Get("category")})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load menu")
		page.MenuError = true
	} else {
		page.Menu = menu
	}

	h.render(w, status, pageLanding, page)
}

// Products handles GET /products?q=&category=&sort= requests.
func (h *StoreHandler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.Query{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}

	page, err := h.catalog.Browse(r.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load catalogue")
		h.renderError(w, r, http.StatusBadGateway, noticeCatalogUnavailable)
		return
	}

	h.render(w, http.StatusOK, pageProducts, productsPage{
		Chrome:  h.chrome(r, "قائمة منتجاتنا"),
		Catalog: page,
	})
}

// Contact handles POST /contact requests from the landing page form.
func (h *StoreHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body", h.logger)
		return
	}

	form := model.InquiryForm{
		Name:    r.PostFormValue("name"),
		Phone:   r.PostFormValue("phone"),
		Address: r.PostFormValue("address"),
		Inquiry: r.PostFormValue("inquiry"),
	}

	err := h.inquiry.Submit(r.Context(), &form)
	if err == nil {
		h.notify(r, noticeInquirySent)
		redirect(w, r, "/#contact")
		return
	}

	var invalid *model.ValidationError
	if errors.As(err, &invalid) {
		h.renderLanding(w, r, http.StatusUnprocessableEntity, form, invalidFields(invalid), noticeInquiryIncomplete)
		return
	}

	h.logger.Error().Err(err).Msg("failed to submit inquiry")
	h.renderLanding(w, r, http.StatusBadGateway, form, nil, noticeOrderFailed)
}

// NotFound renders the 404 page for any unknown path.
func (h *StoreHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn().Str("path", r.URL.Path).Msg("404: user attempted to access non-existent route")
	h.render(w, http.StatusNotFound, pageNotFound, notFoundPage{
		Chrome: h.chrome(r, "404"),
		Path:   r.URL.Path,
	})
}

func invalidFields(err *model.ValidationError) map[string]bool {
	if err == nil {
		return nil
	}
	fields := make(map[string]bool, len(err.Fields))
	for _, f := range err.Fields {
		fields[f] = true
	}
	return fields
}
