package application

import "strings"

// chainSeparator é o separador literal entre endereços de uma cadeia de proxies.
const chainSeparator = ", "

// HeaderGetter é o mínimo necessário para ler headers. A busca deve ignorar
// maiúsculas/minúsculas (http.Header.Get já faz isso).
type HeaderGetter interface {
	Get(name string) string
}

// ResolveAddress percorre trusted na ordem e usa o primeiro header com valor
// não vazio. O endereço mais à esquerda da cadeia é tratado como o cliente original.
// Sem header utilizável, devolve transport.
func ResolveAddress(headers HeaderGetter, trusted []string, transport string) string {
	if headers == nil {
		return transport
	}
	for _, name := range trusted {
		v := headers.Get(name)
		if v == "" {
			continue
		}
		first, _, _ := strings.Cut(v, chainSeparator)
		return first
	}
	return transport
}
