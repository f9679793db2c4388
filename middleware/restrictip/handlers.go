package restrictip

import (
	"context"
	"crypto/subtle"

	"restrictip-gateway/middleware/restrictip/domain"
)

// TokenOverride libera um endereço negado quando o header informado carrega o
// token esperado (credencial secundária). Caso contrário, sinaliza a negação.
func TokenOverride(header, token string) RestrictionHandler {
	return func(ctx context.Context, req Request, next Next, address string) error {
		if token != "" && req.Headers != nil {
			got := req.Headers.Get(header)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1 {
				return next(ctx)
			}
		}
		return &domain.AddressRestrictedError{Address: address}
	}
}

// RejectWith troca o erro padrão por um erro próprio do chamador.
func RejectWith(fn func(address string) error) RestrictionHandler {
	return func(_ context.Context, _ Request, _ Next, address string) error {
		return fn(address)
	}
}
