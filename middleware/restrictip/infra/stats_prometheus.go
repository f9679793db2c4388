package infra

import (
	"context"
	"errors"
	"fmt"

	"restrictip-gateway/middleware/restrictip/domain"

	prom "github.com/prometheus/client_golang/prometheus"
)

const decisionsMetricName = "restrictip_decisions_total"

// PrometheusStatsStore exporta as decisões como contador
// restrictip_decisions_total{policy,result}.
//
// O endereço não vira label (cardinalidade).
type PrometheusStatsStore struct {
	decisions *prom.CounterVec
}

// NewPrometheusStatsStore registra o coletor no registerer informado
// (prom.DefaultRegisterer se nil). Se já registrado, reutiliza o existente.
func NewPrometheusStatsStore(registerer prom.Registerer) (*PrometheusStatsStore, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	collector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: decisionsMetricName,
			Help: "Total number of address admission decisions by policy (allow, deny) and result (allowed, denied).",
		},
		[]string{"policy", "result"},
	)

	if err := registerer.Register(collector); err != nil {
		var already prom.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("register metric %q: %w", decisionsMetricName, err)
		}
		existing, ok := already.ExistingCollector.(*prom.CounterVec)
		if !ok {
			return nil, fmt.Errorf("metric %q already registered with incompatible collector type %T", decisionsMetricName, already.ExistingCollector)
		}
		collector = existing
	}

	return &PrometheusStatsStore{decisions: collector}, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	result := "denied"
	if ev.Allowed {
		result = "allowed"
	}
	s.decisions.WithLabelValues(ev.Policy.String(), result).Inc()
	return nil
}
