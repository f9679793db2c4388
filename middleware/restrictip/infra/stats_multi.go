package infra

import (
	"context"
	"errors"

	"restrictip-gateway/middleware/restrictip/domain"
)

// MultiStatsStore repassa o evento para todos os stores, na ordem.
// Um erro em um store não impede os demais.
type MultiStatsStore []domain.StatsStore

func NewMultiStatsStore(stores ...domain.StatsStore) MultiStatsStore {
	out := make(MultiStatsStore, 0, len(stores))
	for _, s := range stores {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m MultiStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
