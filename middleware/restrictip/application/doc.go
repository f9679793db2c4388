// Package application contém os casos de uso da restrição por endereço:
// resolução do endereço do cliente e avaliação da política.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Evaluator.Decide(addr) retorna uma Decision (allow/deny + motivo).
package application
