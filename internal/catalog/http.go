package catalog

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductCatalog/pkg/kit"
)

const (
	welcomeMessage  = "Welcome to the Product Catalog API"
	productNotFound = "Product not found"
)

type Server struct {
	Catalog *Catalog
	Log     *zap.Logger

	// Limiter, when set, throttles the catalog routes per client IP.
	Limiter *kit.IPRateLimiter
}

type endpoints struct {
	Home             string `json:"home"`
	AllProducts      string `json:"all_products"`
	SingleProduct    string `json:"single_product"`
	FilterByCategory string `json:"filter_by_category"`
}

type indexResp struct {
	Message   string    `json:"message"`
	Endpoints endpoints `json:"endpoints"`
}

var indexBody = indexResp{
	Message: welcomeMessage,
	Endpoints: endpoints{
		Home:             "/",
		AllProducts:      "/products",
		SingleProduct:    "/products/<id>",
		FilterByCategory: "/products?category=<category_name>",
	},
}

// listResp is the list envelope. Category is present only when a filter
// was applied.
type listResp struct {
	Count    int       `json:"count"`
	Category *string   `json:"category,omitempty"`
	Products []Product `json:"products"`
}

type statusResp struct {
	Status   string `json:"status"`
	Products int    `json:"products,omitempty"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(kit.NotFound)
	r.MethodNotAllowed(kit.MethodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteJSON(w, http.StatusOK, statusResp{Status: "ok"})
	})
	r.Get("/readyz", s.ready)

	r.Group(func(pr chi.Router) {
		if s.Limiter != nil {
			pr.Use(s.Limiter.Middleware)
		}
		pr.Get("/", s.index)
		pr.Get("/products", s.list)
		pr.Get("/products/{id:[0-9]+}", s.get)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, _ *http.Request) {
	if s.Catalog == nil {
		kit.WriteError(w, http.StatusServiceUnavailable, "not ready", "", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, statusResp{Status: "ready", Products: s.Catalog.Len()})
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, indexBody)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(r)
	if !ok {
		products := s.Catalog.All()
		kit.WriteJSON(w, http.StatusOK, listResp{Count: len(products), Products: products})
		return
	}

	products := s.Catalog.FilterByCategory(category)
	kit.WriteJSON(w, http.StatusOK, listResp{
		Count:    len(products),
		Category: &category,
		Products: products,
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Only digits reach here, so this is an overflow: no product can match.
		s.notFound(w, canonicalDigits(raw))
		return
	}

	p, ok := s.Catalog.FindByID(id)
	if !ok {
		s.notFound(w, strconv.FormatInt(id, 10))
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) notFound(w http.ResponseWriter, id string) {
	if s.Log != nil {
		s.Log.Debug("product lookup missed", zap.String("id", id))
	}
	kit.WriteError(w, http.StatusNotFound, productNotFound,
		fmt.Sprintf("No product exists with ID %s", id), nil)
}

// categoryParam reports the category filter. An absent or empty parameter
// means no filter; when repeated, the first value wins.
func categoryParam(r *http.Request) (string, bool) {
	vals, present := r.URL.Query()["category"]
	if !present || len(vals) == 0 || vals[0] == "" {
		return "", false
	}
	return vals[0], true
}

func canonicalDigits(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}
