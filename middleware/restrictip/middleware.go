package restrictip

import (
	"context"
	"errors"
	"net/http"

	"restrictip-gateway/middleware/restrictip/domain"
)

// RestrictedAddressHeader é enviado na resposta de negação quando ExposeAddress está ligado.
const RestrictedAddressHeader = "X-Restricted-Address"

type HTTPOptions struct {
	// RejectStatus padrão: 403.
	RejectStatus int
	// ExposeAddress devolve o endereço avaliado no header X-Restricted-Address.
	ExposeAddress bool
}

// Middleware adapta o Gate para net/http.
//
// *domain.AddressRestrictedError vira RejectStatus; qualquer outro erro
// devolvido pelo RestrictionHandler vira 500.
func Middleware(g *Gate, opts HTTPOptions) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusForbidden
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cont := func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			}

			err := g.Handle(r.Context(), RequestFromHTTP(r), cont)
			if err == nil {
				return
			}

			var restricted *domain.AddressRestrictedError
			if errors.As(err, &restricted) {
				if opts.ExposeAddress {
					w.Header().Set(RestrictedAddressHeader, restricted.Address)
				}
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}

			g.log.WithError(err).Error("restriction handler failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		})
	}
}
