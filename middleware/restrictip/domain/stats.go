package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão de admissão.
//
// Method/Path são strings genéricas (HTTP, gRPC, etc.). Cuidado com
// cardinalidade ao persistir Address/Path.
type StatsEvent struct {
	Address string
	Policy  Kind
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência das estatísticas.
// O gate trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
