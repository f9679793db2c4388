// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - PrivateClassifier: classificação de endereços privados/reservados (net/netip)
//   - LimiterStore: token bucket por endereço usando golang.org/x/time/rate
//   - RedisStatsStore / PrometheusStatsStore / MemoryStatsStore: estatísticas de decisão
//   - LoadPolicyFile: leitura da política a partir de YAML
package infra
