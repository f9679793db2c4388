package domain

// Limiter decide se uma ação é permitida agora (token bucket, etc.).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por endereço.
// Usado para limitar o volume de logs de negação por origem.
type LimiterStore interface {
	Get(addr string) Limiter
}
