package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"restrictip-gateway/middleware/restrictip"

	"github.com/sirupsen/logrus"
)

// Upstream de validação: responde com o endereço que o gate resolveria para
// o request recebido. Suba o gateway com UPSTREAM_URL=http://localhost:8081 e
// compare com o que chegou aqui.
func main() {
	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	http.HandleFunc("/showTela", func(w http.ResponseWriter, r *http.Request) {
		req := restrictip.RequestFromHTTP(r)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "transport=%s\nx-forwarded-for=%q\nx-real-ip=%q\n",
			req.TransportAddress, r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP"))

		logrus.WithFields(logrus.Fields{
			"transport": req.TransportAddress,
			"xff":       r.Header.Get("X-Forwarded-For"),
		}).Info("upstream hit")
	})

	srv := &http.Server{Addr: addr, ReadHeaderTimeout: 10 * time.Second}
	logrus.WithField("addr", addr).Info("upstream eco listening")
	if err := srv.ListenAndServe(); err != nil {
		logrus.WithError(err).Fatal("upstream eco stopped")
	}
}
