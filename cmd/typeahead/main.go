// Command typeahead answers prefix queries the way a search box does while a
// user types: every prefix of every term becomes a task, each term's prefixes
// run as one bounded batch, and answers are memoized in a fixed-size cache.
//
// Usage:
//
//	typeahead [flags] term...
//
// Terms are read from stdin, one per line, when none are given.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/on-the-ground/boundrun/effects"
	"github.com/on-the-ground/boundrun/effects/binding"
	"github.com/on-the-ground/boundrun/effects/cache"
	"github.com/on-the-ground/boundrun/effects/configkeys"
	"github.com/on-the-ground/boundrun/effects/lease"
	"github.com/on-the-ground/boundrun/effects/log"
	"github.com/on-the-ground/boundrun/effects/task"
	"github.com/on-the-ground/boundrun/shared/lru"
	"github.com/on-the-ground/boundrun/shared/metrics"
)

const metricsNamespace = "typeahead"

var defaultWords = []string{
	"go", "golang", "gopher", "goroutine", "gofmt",
	"channel", "chan", "context", "closure", "cache",
	"select", "slice", "struct", "sync", "semaphore",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cliOptions struct {
	configPath string
	wordsPath  string
	limit      int
	capacity   int
	store      string
	out        string
	verbose    bool
}

func parseFlags(errOut io.Writer, args []string) (cliOptions, Config, []string, int) {
	var opts cliOptions
	fs := flag.NewFlagSet("typeahead", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVarP(&opts.configPath, "config", "c", "", "HuJSON config file")
	fs.StringVarP(&opts.wordsPath, "words", "w", "", "word list, one word per line")
	fs.IntVarP(&opts.limit, "limit", "l", 0, "max prefix lookups in flight per term")
	fs.IntVar(&opts.capacity, "capacity", 0, "max cached prefixes")
	fs.StringVar(&opts.store, "store", "", "cache backend: lru or ristretto")
	fs.StringVarP(&opts.out, "out", "o", "", "write a JSON report to this path")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, Config{}, nil, -1
		}
		return opts, Config{}, nil, 2
	}

	cfg, err := loadConfigFile(opts.configPath)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return opts, Config{}, nil, 2
	}
	if fs.Changed("words") {
		cfg.WordsFile = opts.wordsPath
	}
	if fs.Changed("limit") {
		cfg.Limit = opts.limit
	}
	if fs.Changed("capacity") {
		cfg.Capacity = opts.capacity
	}
	if fs.Changed("store") {
		cfg.Store = opts.store
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return opts, Config{}, nil, 2
	}
	return opts, cfg, fs.Args(), 0
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	opts, cfg, terms, code := parseFlags(errOut, args)
	switch {
	case code < 0:
		return 0
	case code > 0:
		return code
	}

	logger := newLogger(errOut, opts.verbose)
	defer zap.ReplaceGlobals(logger)()

	if len(terms) == 0 {
		var err error
		if terms, err = readTerms(in); err != nil {
			logger.Error("cannot read terms", zap.Error(err))
			return 1
		}
	}
	terms = uniqueTerms(terms)

	words, err := cfg.loadWords()
	if err != nil {
		logger.Error("cannot load words", zap.Error(err))
		return 1
	}
	if len(words) == 0 {
		words = defaultWords
	}
	idx, err := newIndex(words)
	if err != nil {
		logger.Error("cannot build index", zap.Error(err))
		return 1
	}
	indexed, err := idx.Len()
	if err != nil {
		logger.Error("cannot count index", zap.Error(err))
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, endOfBinding := binding.WithEffectHandler(ctx, effects.NewEffectScopeConfig(1, 1), cfg.bindings())
	defer endOfBinding()

	logBuffer, err := binding.GetOr(ctx, configkeys.ConfigEffectLogHandlerBufferSize, 64)
	if err != nil {
		logger.Error("invalid log handler config", zap.Error(err))
		return 1
	}
	ctx, endOfLog := log.WithZapEffectHandler(ctx, logBuffer, logger)
	defer endOfLog()

	ctx, endOfLease := lease.WithInMemoryEffectHandler(ctx, effects.NewEffectScopeConfig(cfg.IndexReaders, 1))
	defer endOfLease()
	if err := lease.Register(ctx, indexLease, cfg.IndexReaders); err != nil {
		logger.Error("cannot register index lease", zap.Error(err))
		return 1
	}

	reg := prometheus.NewRegistry()
	store, lruCache, closeStore, err := newStore(ctx, cfg.Store, reg)
	if err != nil {
		logger.Error("cannot create cache store", zap.Error(err))
		return 1
	}
	defer closeStore()

	cacheConfig, err := cacheScopeConfig(ctx)
	if err != nil {
		logger.Error("invalid cache handler config", zap.Error(err))
		return 1
	}
	ctx, endOfCache := cache.WithEffectHandler(ctx, cacheConfig, store)
	defer endOfCache()

	ctx, endOfTask, err := task.WithConfiguredEffectHandler[[]string](ctx,
		task.WithLogger(logger),
		task.WithMetrics(metrics.NewExecutorMetrics(reg, metricsNamespace)),
	)
	if err != nil {
		logger.Error("cannot create executor", zap.Error(err))
		return 1
	}
	defer endOfTask()

	results, err := suggest(ctx, idx, terms, cfg.MaxSuggestions)
	if err != nil {
		logger.Error("suggest failed", zap.Error(err))
		return 1
	}
	printResults(out, results)
	logMetrics(logger, reg)

	if opts.out != "" {
		report := Report{Limit: cfg.Limit, Store: cfg.Store, Words: indexed, Terms: results}
		if lruCache != nil {
			stats := lruCache.Stats()
			report.LRUStats = &stats
		}
		if err := writeReport(opts.out, report); err != nil {
			logger.Error("cannot write report", zap.String("path", opts.out), zap.Error(err))
			return 1
		}
	}
	return 0
}

func newLogger(errOut io.Writer, verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(errOut),
		level,
	)
	return zap.New(core)
}

// newStore builds the cache backend. lruCache is nil unless kind is lru.
func newStore(
	ctx context.Context,
	kind string,
	reg prometheus.Registerer,
) (store cache.Store[string, []string], lruCache *lru.Cache[string, []string], closeFn func(), err error) {
	capacity, err := binding.GetTyped[int](ctx, configkeys.ConfigEffectCacheCapacity)
	if err != nil {
		return nil, nil, nil, err
	}

	switch kind {
	case storeRistretto:
		r, err := cache.NewRistrettoStore[string, []string](int64(capacity))
		if err != nil {
			return nil, nil, nil, err
		}
		return r, nil, r.Close, nil
	default:
		c, err := lru.New(capacity, lru.WithOnEvict(func(prefix string, _ []string) {
			log.TryLogEff(ctx, log.LogDebug, "prefix evicted", map[string]interface{}{"prefix": prefix})
		}))
		if err != nil {
			return nil, nil, nil, err
		}
		if err := reg.Register(metrics.NewCacheCollector(metricsNamespace, "prefixes", c)); err != nil {
			return nil, nil, nil, err
		}
		return cache.NewLRUStore(c), c, func() {}, nil
	}
}

func cacheScopeConfig(ctx context.Context) (effects.EffectScopeConfig, error) {
	bufferSize, err := binding.GetOr(ctx, configkeys.ConfigEffectCacheHandlerBufferSize, 1)
	if err != nil {
		return effects.EffectScopeConfig{}, err
	}
	numWorkers, err := binding.GetOr(ctx, configkeys.ConfigEffectCacheHandlerNumWorkers, 1)
	if err != nil {
		return effects.EffectScopeConfig{}, err
	}
	return effects.NewEffectScopeConfig(bufferSize, numWorkers), nil
}

func readTerms(in io.Reader) ([]string, error) {
	var terms []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if term := strings.TrimSpace(scanner.Text()); term != "" {
			terms = append(terms, term)
		}
	}
	return terms, scanner.Err()
}

// uniqueTerms drops repeated terms, keeping first occurrences in order.
func uniqueTerms(terms []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	unique := make([]string, 0, len(terms))
	for _, t := range terms {
		if seen.Add(t) {
			unique = append(unique, t)
		}
	}
	return unique
}

func logMetrics(logger *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		logger.Warn("cannot gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			logger.Debug("metric", zap.String("name", mf.GetName()), zap.Float64("value", value))
		}
	}
}
