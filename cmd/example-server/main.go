package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restrictip-gateway/middleware/restrictip"
	"restrictip-gateway/middleware/restrictip/infra"

	"github.com/sirupsen/logrus"
)

func main() {
	// Exemplo: injetando o middleware diretamente no seu webserver (sem proxy)
	log := logrus.New()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	throttle := infra.NewLimiterStore(1, 5)
	throttle.StartJanitor(ctx)
	stats := infra.NewMemoryStatsStore(infra.WithTrackAddresses(true))

	gate, err := restrictip.New(&restrictip.Options{
		Whitelist:    []string{"203.0.113.10"},
		AllowPrivate: true,
		// quem conhece o token passa mesmo fora da whitelist
		OnRestrict:      restrictip.TokenOverride("X-Api-Key", os.Getenv("OVERRIDE_TOKEN")),
		Logger:          log,
		Stats:           stats,
		DenyLogThrottle: throttle,
	})
	if err != nil {
		log.WithError(err).Fatal("restrictip config error")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	h := restrictip.Middleware(gate, restrictip.HTTPOptions{ExposeAddress: true})(mux)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("example server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server error")
	}

	t := stats.Total()
	log.WithFields(logrus.Fields{"allowed": t.Allowed, "denied": t.Denied}).Info("example server stopped")
}
