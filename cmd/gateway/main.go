package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restrictip-gateway/middleware/restrictip"
	"restrictip-gateway/middleware/restrictip/domain"
	"restrictip-gateway/middleware/restrictip/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := readConfig(os.Args[1:])
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	log, err := newLogger(cfg.logLevel, cfg.logFormat)
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("gateway stopped")
	}
}

func run(cfg config, log *logrus.Logger) error {
	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		return fmt.Errorf("invalid UPSTREAM_URL: %w", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).WithField("path", r.URL.Path).Error("proxy error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	promStats, err := infra.NewPrometheusStatsStore(reg)
	if err != nil {
		return err
	}

	var redisStats domain.StatsStore
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			return fmt.Errorf("redis stats ping error: %w", err)
		}

		redisStats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackAddresses(cfg.statsTrackAddrs),
		)
	}

	throttle := infra.NewLimiterStore(cfg.logRPS, cfg.logBurst)

	opts := gateOptions(cfg, log)
	opts.Stats = infra.NewMultiStatsStore(promStats, redisStats)
	opts.DenyLogThrottle = throttle

	gate, err := restrictip.New(opts)
	if err != nil {
		return fmt.Errorf("restrictip: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	throttle.StartJanitor(ctx)

	h := restrictip.Middleware(gate, restrictip.HTTPOptions{
		RejectStatus:  cfg.rejectStatus,
		ExposeAddress: cfg.exposeAddress,
	})(proxy)

	servers := []*http.Server{newServer(cfg.listenAddr, h)}
	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		servers = append(servers, newServer(cfg.metricsAddr, mux))
	}

	p := gate.Policy()
	log.WithFields(logrus.Fields{
		"listen":         cfg.listenAddr,
		"upstream":       target.String(),
		"policy":         p.Kind.String(),
		"addresses":      p.Addresses.Len(),
		"allowPrivate":   p.AllowPrivate,
		"trustedHeaders": p.TrustedHeaders,
		"override":       cfg.overrideToken != "",
	}).Info("gateway listening")
	log.WithFields(logrus.Fields{
		"metrics":   cfg.metricsAddr,
		"redis":     cfg.statsEnabled,
		"redisAddr": cfg.statsRedisAddr,
		"bucket":    cfg.statsBucket,
		"ttl":       cfg.statsTTL,
	}).Info("restrictip stats")

	return serve(ctx, servers)
}

// gateOptions converte a config nas opções do gate (sem stats/throttle).
func gateOptions(cfg config, log logrus.FieldLogger) *restrictip.Options {
	opts := &restrictip.Options{
		Whitelist:             cfg.whitelist,
		Blacklist:             cfg.blacklist,
		AllowPrivate:          cfg.allowPrivate,
		TrustedHeaderSequence: cfg.trustedHeaders,
		Logger:                log,
	}
	if cfg.overrideToken != "" {
		opts.OnRestrict = restrictip.TokenOverride(cfg.overrideHeader, cfg.overrideToken)
	}
	return opts
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

// serve sobe os servidores e faz shutdown de todos quando ctx termina ou
// quando qualquer um falha.
func serve(ctx context.Context, servers []*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}
