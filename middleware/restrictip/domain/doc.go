// Package domain define contratos e tipos de domínio para a restrição por endereço
// (allow-list / deny-list).
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar a política
// de detalhes de infraestrutura (classificação de endereço, estatísticas, logs).
package domain
