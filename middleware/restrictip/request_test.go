package restrictip

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderMap_GetIsCaseInsensitive(t *testing.T) {
	m := HeaderMap{"x-real-ip": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}

	assert.Equal(t, "1.1.1.1", m.Get("X-Real-IP"))
	assert.Equal(t, "2.2.2.2", m.Get("x-forwarded-for"))
	assert.Equal(t, "", m.Get("cf-connecting-ip"))
	assert.Equal(t, "", HeaderMap(nil).Get("x-real-ip"))
}

func TestTransportAddress(t *testing.T) {
	testCases := map[string]string{
		"10.0.0.9:5555": "10.0.0.9",
		"[::1]:443":     "::1",
		"10.0.0.9":      "10.0.0.9",
		" 10.0.0.9 ":    "10.0.0.9",
		"":              "",
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, TransportAddress(in), in)
	}
}

func TestRequestFromHTTP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/login?x=1", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Real-IP", "3.3.3.3")

	req := RequestFromHTTP(r)
	assert.Equal(t, "10.0.0.9", req.TransportAddress)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/login", req.Path)
	assert.Equal(t, "3.3.3.3", req.Headers.Get("x-real-ip"))
}
