package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/middleware"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	pageLanding  = "landing.html"
	pageProducts = "products.html"
	pageCheckout = "checkout.html"
	pageNotFound = "notfound.html"
	pageError    = "error.html"
)

// Currency is appended to every rendered price.
const Currency = "جنيه"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Views holds the parsed page templates. Each page is parsed together
// with the shared layout so it can define its own content block.
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	funcs := template.FuncMap{
		"price":         formatPrice,
		"lineTotal":     lineTotal,
		"categoryLabel": categoryLabel,
		"addButton":     newAddButton,
	}

	v := &Views{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageLanding, pageProducts, pageCheckout, pageNotFound, pageError} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

// Chrome is the data every page layout needs: the cart dropdown, the
// queued notices and the current location for return links.
type Chrome struct {
	Title   string
	Path    string
	Cart    *model.CartView
	Notices []model.Notice
}

// base is embedded by the page handlers.
type base struct {
	views  *Views
	carts  service.CartService
	logger zerolog.Logger
}

// chrome loads the cart and takes the pending notices of the visitor.
// Failures degrade to an empty cart so the page still renders.
func (b *base) chrome(r *http.Request, title string) Chrome {
	ctx := r.Context()
	sid := middleware.GetSessionID(ctx)

	c := Chrome{Title: title, Path: r.URL.RequestURI(), Cart: &model.CartView{}}

	view, err := b.carts.Get(ctx, sid)
	if err != nil {
		b.logger.Error().Err(err).Str("session_id", sid).Msg("failed to load cart for page")
	} else {
		c.Cart = view
	}

	notices, err := b.carts.TakeNotices(ctx, sid)
	if err != nil {
		b.logger.Error().Err(err).Str("session_id", sid).Msg("failed to load notices")
	} else {
		c.Notices = notices
	}
	return c
}

// notify queues a notice for the next page of the visitor.
func (b *base) notify(r *http.Request, notice model.Notice) {
	sid := middleware.GetSessionID(r.Context())
	if err := b.carts.Notify(r.Context(), sid, notice); err != nil {
		b.logger.Error().Err(err).Str("session_id", sid).Msg("failed to queue notice")
	}
}

// render executes a page into a buffer first so template failures never
// leave a half-written response behind.
func (b *base) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := b.views.pages[page]
	if !ok {
		b.logger.Error().Str("page", page).Msg("unknown page template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		b.logger.Error().Err(err).Str("page", page).Msg("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows the generic error page.
func (b *base) renderError(w http.ResponseWriter, r *http.Request, status int, notice model.Notice) {
	b.render(w, status, pageError, errorPage{
		Chrome:  b.chrome(r, notice.Title),
		Message: notice,
	})
}

type errorPage struct {
	Chrome
	Message model.Notice
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// redirect answers a form post with 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// returnTarget reads a local return path from the form, falling back to def.
// Absolute and protocol-relative URLs are ignored, as is anything holding
// control characters, which browsers strip before resolving the URL.
func returnTarget(r *http.Request, def string) string {
	target := r.PostFormValue("return_to")
	if !isLocalPath(target) {
		return def
	}
	return target
}

func isLocalPath(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	for i := 0; i < len(target); i++ {
		if target[i] < 0x20 || target[i] == 0x7f {
			return false
		}
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	return true
}

// pathID parses the {id} wildcard of the route.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q: %w", r.PathValue("id"), err)
	}
	return id, nil
}

// Static serves the embedded stylesheet under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static directory missing: %v", err))
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// addButton is the data of the add-to-cart partial.
type addButton struct {
	ID     int64
	Return string
}

func newAddButton(id int64, returnTo string) addButton {
	return addButton{ID: id, Return: returnTo}
}

func formatPrice(d decimal.Decimal) string {
	return d.Round(2).String() + " " + Currency
}

func lineTotal(line model.CartLine) decimal.Decimal {
	return line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

func categoryLabel(name string) string {
	if name == catalog.AllCategories {
		return "الكل"
	}
	return name
}
