// Command lrubench runs a synthetic workload against the cache and exposes
// optional pprof/Prometheus endpoints.
//
// The engine is single-owner, so the workers serialize every operation
// through one mutex; this is the documented way to share an instance.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/spore-gg/node-lru-cache/cache"
	pmet "github.com/spore-gg/node-lru-cache/metrics/prom"
)

// config mirrors the flags; a TOML file (-config) fills it first and
// explicit flags override.
type config struct {
	MaxWeight  int64  `toml:"max_weight"`
	TTL        string `toml:"ttl"` // Go duration string, "" = no TTL
	ByteWeight bool   `toml:"byte_weight"`

	Workers  int    `toml:"workers"`
	Duration string `toml:"duration"`
	Reads    int    `toml:"reads"`

	Keys  int     `toml:"keys"`
	ZipfS float64 `toml:"zipf_s"`
	ZipfV float64 `toml:"zipf_v"`
	Seed  int64   `toml:"seed"`

	PprofAddr   string `toml:"pprof"`
	MetricsAddr string `toml:"http"`
}

// guarded wraps the single-owner cache with a mutex for the workers.
type guarded struct {
	mu sync.Mutex
	c  cache.Cache[string, string]
}

func (g *guarded) set(k, v string) {
	g.mu.Lock()
	g.c.Set(k, v)
	g.mu.Unlock()
}

func (g *guarded) get(k string) (string, bool) {
	g.mu.Lock()
	v, ok := g.c.Get(k)
	g.mu.Unlock()
	return v, ok
}

func (g *guarded) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.c.Len()
}

func main() {
	logger := log.Logger{
		Level: log.InfoLevel,
		Writer: &log.ConsoleWriter{
			ColorOutput:    false,
			EndWithMessage: true,
		},
	}

	// ---- Flags ----
	var (
		cfgPath = flag.String("config", "", "optional TOML config file")

		maxWeight  = flag.Int64("max_weight", 100_000, "cache weight bound (entries with -byte_weight=false)")
		ttl        = flag.Duration("ttl", 0, "default TTL (0 = disabled)")
		byteWeight = flag.Bool("byte_weight", false, "charge entries by value byte length")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys  = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	)
	flag.Parse()

	// ---- Optional TOML config; flags keep their values unless the file sets a field ----
	if *cfgPath != "" {
		var cfg config
		content, err := os.ReadFile(*cfgPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *cfgPath).Msg("reading config")
		}
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			logger.Fatal().Err(err).Str("path", *cfgPath).Msg("decoding config")
		}
		applyConfig(&logger, &cfg,
			maxWeight, ttl, byteWeight, workers, duration, readPct,
			keys, zipfS, zipfV, seed, pprofAddr, metricsAddr)
	}

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		addr := *pprofAddr
		go func() {
			logger.Info().Str("addr", addr).Msg("pprof: serving")
			logger.Error().Err(http.ListenAndServe(addr, nil)).Msg("pprof server stopped")
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "lru", "bench", nil)
	if *metricsAddr != "" {
		addr := *metricsAddr
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info().Str("addr", addr).Msg("metrics: serving")
			logger.Error().Err(http.ListenAndServe(addr, nil)).Msg("metrics server stopped")
		}()
	}

	// ---- Build cache ----
	opt := cache.Options[string, string]{
		MaxWeight:  *maxWeight,
		DefaultTTL: *ttl,
		Metrics:    metrics,
	}
	if *byteWeight {
		opt.WeightFn = func(v string, k string) int64 { return int64(len(k) + len(v)) }
	}
	c, err := cache.New(opt)
	if err != nil {
		logger.Fatal().Err(err).Msg("building cache")
	}
	g := &guarded{c: c}

	// ---- Preload half the weight budget for a realistic hit-rate ----
	preload := int(*maxWeight / 2)
	if *byteWeight {
		preload = int(*maxWeight / 32) // rough per-entry byte cost
	}
	for i := 0; i < preload; i++ {
		g.set("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	logger.Info().
		Int64("max_weight", *maxWeight).
		Bool("byte_weight", *byteWeight).
		Dur("ttl", *ttl).
		Int("workers", workersN).
		Int("keys", *keys).
		Int("reads", readPctVal).
		Int64("seed", seedBase).
		Msg("starting workload")

	// ---- Load generation ----
	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var eg errgroup.Group
	for w := 0; w < workersN; w++ {
		id := w
		eg.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if _, ok := g.get(keyByZipf()); ok {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					g.set(keyByZipf(), "v"+strconv.Itoa(localR.Int()))
				}
			}
		})
	}
	_ = eg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	logger.Info().
		Uint64("ops", ops).
		Float64("ops_per_sec", float64(ops)/elapsed.Seconds()).
		Uint64("reads", readsN).
		Uint64("writes", writesN).
		Uint64("hits", hitsN).
		Uint64("misses", missesN).
		Float64("hit_rate_pct", hitRate).
		Int("len", g.len()).
		Dur("elapsed", elapsed).
		Msg("workload done")
}

// applyConfig copies the set fields of a TOML config over the flag values.
// Zero values in the file are treated as "not set" so flags keep their
// defaults or explicit overrides.
func applyConfig(logger *log.Logger, cfg *config,
	maxWeight *int64, ttl *time.Duration, byteWeight *bool,
	workers *int, duration *time.Duration, readPct *int,
	keys *int, zipfS *float64, zipfV *float64, seed *int64,
	pprofAddr, metricsAddr *string,
) {
	if cfg.MaxWeight > 0 {
		*maxWeight = cfg.MaxWeight
	}
	if cfg.TTL != "" {
		d, err := time.ParseDuration(cfg.TTL)
		if err != nil {
			logger.Fatal().Err(err).Str("ttl", cfg.TTL).Msg("invalid ttl in config")
		}
		*ttl = d
	}
	if cfg.ByteWeight {
		*byteWeight = true
	}
	if cfg.Workers > 0 {
		*workers = cfg.Workers
	}
	if cfg.Duration != "" {
		d, err := time.ParseDuration(cfg.Duration)
		if err != nil {
			logger.Fatal().Err(err).Str("duration", cfg.Duration).Msg("invalid duration in config")
		}
		*duration = d
	}
	if cfg.Reads > 0 {
		*readPct = cfg.Reads
	}
	if cfg.Keys > 0 {
		*keys = cfg.Keys
	}
	if cfg.ZipfS > 0 {
		*zipfS = cfg.ZipfS
	}
	if cfg.ZipfV > 0 {
		*zipfV = cfg.ZipfV
	}
	if cfg.Seed != 0 {
		*seed = cfg.Seed
	}
	if cfg.PprofAddr != "" {
		*pprofAddr = cfg.PprofAddr
	}
	if cfg.MetricsAddr != "" {
		*metricsAddr = cfg.MetricsAddr
	}
}
