package restrictip

import (
	"net"
	"net/http"
	"strings"

	"restrictip-gateway/middleware/restrictip/application"
)

// Headers dá acesso aos headers por nome, sem diferenciar maiúsculas/minúsculas.
// http.Header satisfaz a interface.
type Headers = application.HeaderGetter

// HeaderMap é um Headers simples para quem não usa net/http.
type HeaderMap map[string]string

func (m HeaderMap) Get(name string) string {
	if v, ok := m[strings.ToLower(name)]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Request é a visão do gate sobre um request. Method e Path servem só para
// estatísticas e logs.
type Request struct {
	Headers          Headers
	TransportAddress string

	Method string
	Path   string
}

// RequestFromHTTP monta o Request a partir de um *http.Request.
func RequestFromHTTP(r *http.Request) Request {
	req := Request{
		Headers:          r.Header,
		TransportAddress: TransportAddress(r.RemoteAddr),
		Method:           r.Method,
	}
	if r.URL != nil {
		req.Path = r.URL.Path
	}
	return req
}

// TransportAddress extrai o host de um RemoteAddr ("ip:porta").
// Sem porta, devolve o valor como veio.
func TransportAddress(remoteAddr string) string {
	remoteAddr = strings.TrimSpace(remoteAddr)
	host, _, err := net.SplitHostPort(remoteAddr)
	if err == nil && host != "" {
		return host
	}
	return remoteAddr
}
