package restrictip

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestHandler(t *testing.T, opts *Options, httpOpts HTTPOptions) (http.Handler, *int) {
	t.Helper()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "passed")
	})
	return Middleware(mustNewGate(t, opts), httpOpts)(next), &calls
}

func TestMiddleware_WhitelistPassesThenRejects(t *testing.T) {
	h, calls := newTestHandler(t, &Options{Whitelist: []string{"5.5.5.5", "6.6.6.6"}}, HTTPOptions{})

	// 1) x-forwarded-for com cadeia: o primeiro endereço é o cliente
	r1 := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r1.RemoteAddr = "10.0.0.1:1234"
	r1.Header.Set("X-Forwarded-For", "5.5.5.5, 10.0.0.1")
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}
	assert.Equal(t, "passed", w1.Body.String())

	// 2) x-real-ip fora da lista
	r2 := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r2.RemoteAddr = "10.0.0.1:1234"
	r2.Header.Set("X-Real-IP", "2.2.2.2")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w2.Code)
	}
	assert.Empty(t, w2.Header().Get(RestrictedAddressHeader))

	if *calls != 1 {
		t.Fatalf("expected next handler to be called once, got %d", *calls)
	}
}

func TestMiddleware_FallsBackToRemoteAddrHost(t *testing.T) {
	h, calls := newTestHandler(t, &Options{Whitelist: []string{"5.5.5.5"}}, HTTPOptions{})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "5.5.5.5:4321"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
}

func TestMiddleware_CustomStatusAndExposedAddress(t *testing.T) {
	h, _ := newTestHandler(t,
		&Options{Blacklist: []string{"4.4.4.4"}},
		HTTPOptions{RejectStatus: http.StatusUnauthorized, ExposeAddress: true},
	)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Forwarded-For", "4.4.4.4")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "4.4.4.4", w.Header().Get(RestrictedAddressHeader))
}

func TestMiddleware_HandlerErrorBecomes500(t *testing.T) {
	handler := func(context.Context, Request, Next, string) error { return errors.New("boom") }
	h, calls := newTestHandler(t, &Options{Blacklist: []string{"4.4.4.4"}, OnRestrict: handler}, HTTPOptions{})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "4.4.4.4:1"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, *calls)
}

func TestMiddleware_HandlerMayWriteResponse(t *testing.T) {
	handler := func(ctx context.Context, req Request, next Next, address string) error {
		w := ctx.Value(testWriterKey{}).(http.ResponseWriter)
		w.WriteHeader(http.StatusTeapot)
		return nil
	}
	g := mustNewGate(t, &Options{Blacklist: []string{"4.4.4.4"}, OnRestrict: handler})
	h := Middleware(g, HTTPOptions{})(http.NotFoundHandler())

	// injeta o writer no contexto para o handler responder por conta própria
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), testWriterKey{}, w)))
	})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "4.4.4.4:1"
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTeapot, w.Code)
}

type testWriterKey struct{}

func TestMiddleware_TokenOverride(t *testing.T) {
	h, calls := newTestHandler(t, &Options{
		Whitelist:  []string{"5.5.5.5"},
		OnRestrict: TokenOverride("X-Admin-Token", "s3cret"),
	}, HTTPOptions{})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "2.2.2.2:1"
	r.Header.Set("X-Admin-Token", "s3cret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
}
