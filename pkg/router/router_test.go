package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/pdm/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutes(t *testing.T) {
	r := router.New()
	r.Get("/products", "products.index", ok)
	r.Get("/products/{code}", "products.show", ok)

	path, found := r.Path("products.index")
	require.True(t, found)
	assert.Equal(t, "/products", path)

	url, err := r.URL("products.show", map[string]string{"code": "SKU-1"})
	require.NoError(t, err)
	assert.Equal(t, "/products/SKU-1", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "unfilled placeholders must fail")

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestGroupPrefixes(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	v1 := api.Group("/v1")
	v1.Get("/products", "v1.products", ok)

	path, found := r.Path("v1.products")
	require.True(t, found)
	assert.Equal(t, "/api/v1/products", path)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGroupMiddlewareApplies(t *testing.T) {
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Tagged", "yes")
			next.ServeHTTP(w, r)
		})
	}

	r := router.New()
	api := r.Group("/api", tag)
	api.Get("/products", "products.index", ok)
	r.Get("/health", "health", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, "yes", rec.Header().Get("X-Tagged"))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, rec.Header().Get("X-Tagged"), "group middleware must not leak out of the group")
}

func TestURLParamReachesHandler(t *testing.T) {
	r := router.New()
	r.Get("/products/{code}", "products.show", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(chi.URLParam(req, "code")))
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/SKU-1", nil))
	assert.Equal(t, "SKU-1", rec.Body.String())
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)
	r.Get("/internal", "", ok) // unnamed routes stay out of the listing

	infos := r.Routes()
	assert.Len(t, infos, 2)
}
