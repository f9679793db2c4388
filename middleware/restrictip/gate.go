package restrictip

import (
	"context"
	"time"

	"restrictip-gateway/middleware/restrictip/application"
	"restrictip-gateway/middleware/restrictip/domain"

	"github.com/sirupsen/logrus"
)

// Gate avalia cada request contra a política e decide entre seguir
// (next), delegar ao RestrictionHandler ou sinalizar a negação.
//
// É seguro para uso concorrente; nada é alterado após New.
type Gate struct {
	policy    domain.Policy
	evaluator application.Evaluator
	deny      denyStrategy

	log      logrus.FieldLogger
	stats    domain.StatsStore
	throttle domain.LimiterStore
}

// denyStrategy é escolhida na construção: sinalizar erro ou chamar o handler.
type denyStrategy interface {
	deny(ctx context.Context, req Request, next Next, address string) error
}

type signalFailure struct{}

func (signalFailure) deny(_ context.Context, _ Request, _ Next, address string) error {
	return &domain.AddressRestrictedError{Address: address}
}

type invokeHandler struct {
	handler RestrictionHandler
}

func (s invokeHandler) deny(ctx context.Context, req Request, next Next, address string) error {
	return s.handler(ctx, req, next, address)
}

// New valida as opções e monta o Gate. Falhas são sempre *domain.ConfigError.
func New(opts *Options) (*Gate, error) {
	if opts == nil {
		return nil, domain.ErrOptionsNotObject
	}

	log := opts.logger()
	policy, err := opts.policy(log)
	if err != nil {
		return nil, err
	}

	var deny denyStrategy = signalFailure{}
	if opts.OnRestrict != nil {
		deny = invokeHandler{handler: opts.OnRestrict}
	}

	return &Gate{
		policy: policy,
		evaluator: application.Evaluator{
			Policy:     policy,
			Classifier: opts.classifier(),
		},
		deny:     deny,
		log:      log,
		stats:    opts.Stats,
		throttle: opts.DenyLogThrottle,
	}, nil
}

// Policy devolve o descritor resolvido. Não deve ser alterado.
func (g *Gate) Policy() domain.Policy { return g.policy }

// Resolve devolve o endereço candidato do request.
func (g *Gate) Resolve(req Request) string {
	return application.ResolveAddress(req.Headers, g.policy.TrustedHeaders, req.TransportAddress)
}

// Decide resolve e avalia, sem efeitos colaterais.
func (g *Gate) Decide(req Request) domain.Decision {
	return g.evaluator.Decide(g.Resolve(req))
}

// Handle executa exatamente uma ação: next, o RestrictionHandler ou o retorno
// de *domain.AddressRestrictedError.
func (g *Gate) Handle(ctx context.Context, req Request, next Next) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if next == nil {
		next = func(context.Context) error { return nil }
	}

	dec := g.Decide(req)
	g.record(ctx, req, dec)

	if dec.Allowed {
		return next(ctx)
	}

	g.logDenied(req, dec)
	return g.deny.deny(ctx, req, next, dec.Address)
}

func (g *Gate) record(ctx context.Context, req Request, dec domain.Decision) {
	if g.stats == nil {
		return
	}
	err := g.stats.Record(ctx, domain.StatsEvent{
		Address: dec.Address,
		Policy:  g.policy.Kind,
		Allowed: dec.Allowed,
		Method:  req.Method,
		Path:    req.Path,
		At:      time.Now(),
	})
	if err != nil {
		g.log.WithError(err).Debug("restrictip stats record failed")
	}
}

func (g *Gate) logDenied(req Request, dec domain.Decision) {
	if g.throttle != nil {
		if lim := g.throttle.Get(dec.Address); lim != nil && !lim.Allow() {
			return
		}
	}
	g.log.WithFields(logrus.Fields{
		"address": dec.Address,
		"policy":  g.policy.Kind.String(),
		"reason":  dec.Reason,
		"method":  req.Method,
		"path":    req.Path,
	}).Warn("request restricted")
}
