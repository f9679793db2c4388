package application

import "restrictip-gateway/middleware/restrictip/domain"

// Evaluator concentra a regra da política.
//
// Ele não sabe nada sobre HTTP, apenas retorna uma decisão.
type Evaluator struct {
	Policy     domain.Policy
	Classifier domain.AddressClassifier
}

func (e Evaluator) Decide(addr string) domain.Decision {
	switch e.Policy.Kind {
	case domain.KindAllow:
		if e.Policy.Addresses.Has(addr) {
			return domain.Decision{Allowed: true, Address: addr, Reason: "whitelisted"}
		}
		if e.Policy.AllowPrivate && e.Classifier != nil && e.Classifier.IsPrivate(addr) {
			return domain.Decision{Allowed: true, Address: addr, Reason: "private address"}
		}
		return domain.Decision{Allowed: false, Address: addr, Reason: "not in whitelist"}
	case domain.KindDeny:
		if e.Policy.Addresses.Has(addr) {
			return domain.Decision{Allowed: false, Address: addr, Reason: "blacklisted"}
		}
		return domain.Decision{Allowed: true, Address: addr, Reason: "not in blacklist"}
	default:
		// política não validada: falha fechada
		return domain.Decision{Allowed: false, Address: addr, Reason: "unknown policy"}
	}
}
