// Package restrictip fornece um gate de admissão por endereço de origem
// (allow-list ou deny-list) e o adapter HTTP (net/http) correspondente.
//
// Visão geral (camadas):
//
//   - domain: política, decisão, erros e contratos (sem dependência de net/http)
//   - application: resolução do endereço e avaliação da política
//   - infra: classificação de endereços privados, throttle de logs, estatísticas, arquivo YAML
//   - restrictip (este pacote): validação das opções, Gate e middleware HTTP
//
// Fluxo por request:
//
//  1. Resolve o endereço: primeiro header confiável presente (em ordem), senão o endereço de transporte
//  2. Avalia contra a política (allow-list, com exceção opcional para privados, ou deny-list)
//  3. Se permitido, chama o próximo estágio (ex: reverse proxy)
//  4. Se negado, chama o RestrictionHandler configurado ou retorna *domain.AddressRestrictedError
//
// O middleware HTTP traduz *domain.AddressRestrictedError em 403 (configurável).
// Variáveis de ambiente do binário gateway (cmd/gateway) controlam o comportamento,
// como RESTRICT_WHITELIST, RESTRICT_BLACKLIST e RESTRICT_TRUSTED_HEADERS.
package restrictip
