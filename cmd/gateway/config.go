package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"restrictip-gateway/middleware/restrictip/infra"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// headersDisabled em RESTRICT_TRUSTED_HEADERS desliga a leitura de headers de proxy.
const headersDisabled = "none"

type config struct {
	listenAddr  string
	upstreamURL string
	metricsAddr string

	logLevel  string
	logFormat string

	whitelist      []string
	blacklist      []string
	allowPrivate   bool
	trustedHeaders []string
	policyFile     string
	rejectStatus   int
	exposeAddress  bool
	overrideHeader string
	overrideToken  string

	logRPS   float64
	logBurst int

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackAddrs    bool
}

// readConfig monta a config a partir das variáveis de ambiente, sobrescritas
// pelas flags em args. Listas ausentes ficam nil.
func readConfig(args []string) (config, error) {
	cfg := config{}
	fs := pflag.NewFlagSet("gateway", pflag.ContinueOnError)

	fs.StringVar(&cfg.listenAddr, "listen-addr", getenvDefault("LISTEN_ADDR", ":8080"), "address to listen on")
	fs.StringVar(&cfg.upstreamURL, "upstream-url", os.Getenv("UPSTREAM_URL"), "upstream URL (required)")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", os.Getenv("METRICS_ADDR"), "address for /metrics (empty disables)")
	fs.StringVar(&cfg.logLevel, "log-level", getenvDefault("LOG_LEVEL", "info"), "log level")
	fs.StringVar(&cfg.logFormat, "log-format", getenvDefault("LOG_FORMAT", "text"), "log format: text or json")

	whitelist := fs.String("whitelist", os.Getenv("RESTRICT_WHITELIST"), "comma separated allowed addresses")
	blacklist := fs.String("blacklist", os.Getenv("RESTRICT_BLACKLIST"), "comma separated denied addresses")
	trusted := fs.String("trusted-headers", os.Getenv("RESTRICT_TRUSTED_HEADERS"), `comma separated header sequence ("none" disables)`)
	fs.BoolVar(&cfg.allowPrivate, "allow-private", getenvBoolDefault("RESTRICT_ALLOW_PRIVATE", false), "also allow private addresses (whitelist only)")
	fs.StringVar(&cfg.policyFile, "policy-file", os.Getenv("RESTRICT_POLICY_FILE"), "YAML policy file")
	fs.IntVar(&cfg.rejectStatus, "reject-status", getenvIntDefault("RESTRICT_REJECT_STATUS", http.StatusForbidden), "status for restricted requests")
	fs.BoolVar(&cfg.exposeAddress, "expose-address", getenvBoolDefault("RESTRICT_EXPOSE_ADDRESS", false), "send X-Restricted-Address on rejection")
	fs.StringVar(&cfg.overrideHeader, "override-header", getenvDefault("RESTRICT_OVERRIDE_HEADER", "X-Restrict-Override"), "header carrying the override token")
	fs.StringVar(&cfg.overrideToken, "override-token", os.Getenv("RESTRICT_OVERRIDE_TOKEN"), "token that lets restricted addresses through")
	fs.Float64Var(&cfg.logRPS, "deny-log-rps", getenvFloatDefault("RESTRICT_LOG_RPS", 1), "denied request logs per second per address")
	fs.IntVar(&cfg.logBurst, "deny-log-burst", getenvIntDefault("RESTRICT_LOG_BURST", 5), "denied request log burst per address")

	fs.BoolVar(&cfg.statsEnabled, "stats-enabled", getenvBoolDefault("RESTRICT_STATS_ENABLED", false), "record decisions in redis")
	fs.StringVar(&cfg.statsRedisAddr, "stats-redis-addr", os.Getenv("RESTRICT_STATS_REDIS_ADDR"), "redis address for stats")
	fs.StringVar(&cfg.statsRedisPassword, "stats-redis-password", os.Getenv("RESTRICT_STATS_REDIS_PASSWORD"), "redis password for stats")
	fs.IntVar(&cfg.statsRedisDB, "stats-redis-db", getenvIntDefault("RESTRICT_STATS_REDIS_DB", 0), "redis db for stats")
	fs.StringVar(&cfg.statsPrefix, "stats-prefix", getenvDefault("RESTRICT_STATS_PREFIX", "restrictip:stats"), "redis key prefix")
	fs.DurationVar(&cfg.statsTTL, "stats-ttl", getenvDurationDefault("RESTRICT_STATS_TTL", 24*time.Hour), "ttl for bucketed stats keys")
	fs.StringVar(&cfg.statsBucket, "stats-bucket", getenvDefault("RESTRICT_STATS_BUCKET", "minute"), "stats time bucket")
	fs.BoolVar(&cfg.statsTrackAddrs, "stats-track-addresses", getenvBoolDefault("RESTRICT_STATS_TRACK_ADDRESSES", false), "count decisions per address")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if fs.Changed("whitelist") || getenvIsSet("RESTRICT_WHITELIST") {
		cfg.whitelist = splitList(*whitelist)
	}
	if fs.Changed("blacklist") || getenvIsSet("RESTRICT_BLACKLIST") {
		cfg.blacklist = splitList(*blacklist)
	}
	if fs.Changed("trusted-headers") || getenvIsSet("RESTRICT_TRUSTED_HEADERS") {
		cfg.trustedHeaders = []string{}
		if !strings.EqualFold(strings.TrimSpace(*trusted), headersDisabled) {
			cfg.trustedHeaders = splitList(*trusted)
		}
	}

	if cfg.policyFile != "" {
		pf, err := infra.LoadPolicyFile(cfg.policyFile)
		if err != nil {
			return config{}, err
		}
		cfg.mergePolicyFile(pf, fs.Changed("allow-private") || getenvIsSet("RESTRICT_ALLOW_PRIVATE"))
	}

	if cfg.upstreamURL == "" {
		return config{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.rejectStatus < 400 || cfg.rejectStatus > 599 {
		return config{}, fmt.Errorf("RESTRICT_REJECT_STATUS must be a 4xx or 5xx status, got %d", cfg.rejectStatus)
	}
	if cfg.logRPS <= 0 {
		return config{}, errors.New("RESTRICT_LOG_RPS must be > 0")
	}
	if cfg.logBurst <= 0 {
		return config{}, errors.New("RESTRICT_LOG_BURST must be > 0")
	}
	if cfg.statsEnabled && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, errors.New("RESTRICT_STATS_REDIS_ADDR is required when RESTRICT_STATS_ENABLED=true")
	}
	return cfg, nil
}

// mergePolicyFile completa o que não veio por flag/env com os valores do arquivo.
func (c *config) mergePolicyFile(pf infra.PolicyFile, allowPrivateSet bool) {
	// Uma lista explícita substitui as duas do arquivo, senão a exclusividade
	// entre whitelist e blacklist falharia por causa do arquivo.
	if c.whitelist == nil && c.blacklist == nil {
		c.whitelist = pf.Whitelist
		c.blacklist = pf.Blacklist
	}
	if !allowPrivateSet {
		c.allowPrivate = pf.AllowPrivate
	}
	if c.trustedHeaders == nil {
		c.trustedHeaders = pf.TrustedHeaders
	}
}

func newLogger(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	log := logrus.New()
	log.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", format)
	}
	return log, nil
}

func splitList(v string) []string {
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIsSet(k string) bool {
	v, ok := os.LookupEnv(k)
	return ok && v != ""
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
