package restrictip

import (
	"context"

	"restrictip-gateway/middleware/restrictip/domain"
	"restrictip-gateway/middleware/restrictip/infra"

	"github.com/sirupsen/logrus"
)

// Next é a continuação: segue para o próximo estágio do pipeline.
// O resultado (inclusive erro) é propagado sem alteração pelo gate.
type Next func(ctx context.Context) error

// RestrictionHandler é chamado no lugar do erro padrão quando o endereço é negado.
// Tem total liberdade: pode chamar next (ex.: credencial secundária) ou encerrar o request.
type RestrictionHandler func(ctx context.Context, req Request, next Next, address string) error

// Options é a configuração bruta do gate, validada uma única vez em New.
type Options struct {
	// Whitelist seleciona a política allow. nil = não informada; lista vazia nega tudo.
	Whitelist []string
	// Blacklist seleciona a política deny. Exclusiva com Whitelist.
	Blacklist []string
	// AllowPrivate também libera endereços privados/reservados (só com Whitelist).
	AllowPrivate bool
	OnRestrict   RestrictionHandler
	// TrustedHeaderSequence substitui a ordem padrão (x-forwarded-for, x-real-ip).
	// nil mantém o padrão; slice vazio desliga a leitura de headers.
	TrustedHeaderSequence []string

	// Classifier padrão: infra.PrivateClassifier.
	Classifier domain.AddressClassifier
	// Logger padrão: logrus.StandardLogger().
	Logger logrus.FieldLogger
	// Stats recebe um evento por decisão (best-effort). Opcional.
	Stats domain.StatsStore
	// DenyLogThrottle limita os logs de negação por endereço. nil loga todas.
	DenyLogThrottle domain.LimiterStore
}

// policy aplica as regras de validação na ordem e devolve a política resolvida.
func (o *Options) policy(log logrus.FieldLogger) (domain.Policy, error) {
	var p domain.Policy

	if o.Whitelist != nil {
		set, ok := domain.NewAddressSet(o.Whitelist)
		if !ok {
			return domain.Policy{}, domain.ErrWhitelistNotSet
		}
		p.Kind = domain.KindAllow
		p.Addresses = set
		p.AllowPrivate = o.AllowPrivate
	}

	switch {
	case p.Kind == domain.KindAllow:
		if o.Blacklist != nil {
			return domain.Policy{}, domain.ErrListsExclusive
		}
	case o.Blacklist != nil:
		set, ok := domain.NewAddressSet(o.Blacklist)
		if !ok {
			return domain.Policy{}, domain.ErrBlacklistNotSet
		}
		p.Kind = domain.KindDeny
		p.Addresses = set
		if o.AllowPrivate {
			log.WithField("policy", domain.KindDeny.String()).Warn("allowPrivate only works with an allow-list")
		}
	default:
		return domain.Policy{}, domain.ErrNoList
	}

	p.TrustedHeaders = domain.NormalizeHeaders(domain.DefaultTrustedHeaders)
	if o.TrustedHeaderSequence != nil {
		p.TrustedHeaders = domain.NormalizeHeaders(o.TrustedHeaderSequence)
		for _, h := range p.TrustedHeaders {
			if h == "" {
				return domain.Policy{}, domain.ErrEmptyHeaderName
			}
		}
	}

	return p, nil
}

func (o *Options) classifier() domain.AddressClassifier {
	if o.Classifier != nil {
		return o.Classifier
	}
	return infra.PrivateClassifier{}
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}
