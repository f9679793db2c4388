package domain

import "strings"

// Kind é a política ativa. Allow e Deny são mutuamente exclusivas.
type Kind int

const (
	// Começa em 1 para que o valor zero seja inválido.
	KindAllow Kind = iota + 1
	KindDeny
)

func (k Kind) String() string {
	switch k {
	case KindAllow:
		return "allow"
	case KindDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// DefaultTrustedHeaders é a ordem padrão de headers de proxy consultados.
var DefaultTrustedHeaders = []string{"x-forwarded-for", "x-real-ip"}

// AddressSet é um conjunto de endereços opacos (comparados como string).
type AddressSet map[string]struct{}

// NewAddressSet monta o conjunto a partir de uma lista.
// Retorna ok=false se houver duplicatas.
func NewAddressSet(addrs []string) (AddressSet, bool) {
	set := make(AddressSet, len(addrs))
	for _, a := range addrs {
		if _, dup := set[a]; dup {
			return nil, false
		}
		set[a] = struct{}{}
	}
	return set, true
}

func (s AddressSet) Has(addr string) bool {
	_, ok := s[addr]
	return ok
}

func (s AddressSet) Len() int { return len(s) }

// Policy é o descritor resolvido, imutável após a construção.
type Policy struct {
	Kind      Kind
	Addresses AddressSet
	// AllowPrivate só tem efeito com KindAllow.
	AllowPrivate bool
	// TrustedHeaders em minúsculas, na ordem de prioridade.
	// Slice vazio: nunca confiar em headers.
	TrustedHeaders []string
}

// NormalizeHeaders devolve uma cópia com os nomes em minúsculas.
func NormalizeHeaders(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(strings.TrimSpace(n))
	}
	return out
}

// Decision é o resultado derivado da avaliação de um endereço. Não é armazenado.
type Decision struct {
	Allowed bool
	Address string
	// Reason descreve a regra que decidiu (para logs/depuração).
	Reason string
}

// AddressClassifier é a capacidade externa de classificar endereços privados/reservados.
type AddressClassifier interface {
	IsPrivate(addr string) bool
}

// ClassifierFunc adapta uma função ao AddressClassifier.
type ClassifierFunc func(addr string) bool

func (f ClassifierFunc) IsPrivate(addr string) bool { return f(addr) }
