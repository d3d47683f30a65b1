package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/on-the-ground/boundrun/effects/configkeys"
)

const (
	storeLRU       = "lru"
	storeRistretto = "ristretto"
)

var (
	errConfigFileRead = errors.New("cannot read config file")
	errConfigInvalid  = errors.New("invalid config")
)

// Config is the typeahead configuration. The file form is HuJSON, so comments
// and trailing commas are allowed.
type Config struct {
	Limit          int      `json:"limit"`
	Capacity       int      `json:"capacity"`
	MaxSuggestions int      `json:"max_suggestions"`
	CacheWorkers   int      `json:"cache_workers"`
	IndexReaders   int      `json:"index_readers"`
	LogBuffer      int      `json:"log_buffer"`
	Store          string   `json:"store"`
	Words          []string `json:"words"`
	WordsFile      string   `json:"words_file"`
}

func defaultConfig() Config {
	return Config{
		Limit:          4,
		Capacity:       256,
		MaxSuggestions: 5,
		CacheWorkers:   4,
		IndexReaders:   2,
		LogBuffer:      64,
		Store:          storeLRU,
	}
}

// loadConfigFile overlays the file at path on the defaults.
func loadConfigFile(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", errConfigFileRead, path, err)
	}
	if err := parseConfig(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte, cfg *Config) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid HuJSON: %w", err)
	}
	if err := json.Unmarshal(standardized, cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func (c Config) validate() error {
	switch {
	case c.Limit < 1:
		return fmt.Errorf("%w: limit must be at least 1, got %d", errConfigInvalid, c.Limit)
	case c.Capacity < 1:
		return fmt.Errorf("%w: capacity must be at least 1, got %d", errConfigInvalid, c.Capacity)
	case c.MaxSuggestions < 1:
		return fmt.Errorf("%w: max_suggestions must be at least 1, got %d", errConfigInvalid, c.MaxSuggestions)
	case c.CacheWorkers < 1:
		return fmt.Errorf("%w: cache_workers must be at least 1, got %d", errConfigInvalid, c.CacheWorkers)
	case c.LogBuffer < 0:
		return fmt.Errorf("%w: log_buffer must not be negative, got %d", errConfigInvalid, c.LogBuffer)
	case c.IndexReaders < 1:
		return fmt.Errorf("%w: index_readers must be at least 1, got %d", errConfigInvalid, c.IndexReaders)
	case c.Store != storeLRU && c.Store != storeRistretto:
		return fmt.Errorf("%w: store must be %q or %q, got %q", errConfigInvalid, storeLRU, storeRistretto, c.Store)
	}
	return nil
}

// bindings is what the binding effect serves to the handlers. Terms are
// suggested one batch at a time, so the task handler needs a single worker.
func (c Config) bindings() map[string]any {
	return map[string]any{
		configkeys.ConfigEffectLogHandlerBufferSize:         c.LogBuffer,
		configkeys.ConfigEffectTaskLimit:                    c.Limit,
		configkeys.ConfigEffectTaskHandlerBufferSize:        1,
		configkeys.ConfigEffectTaskHandlerNumWorkers:        1,
		configkeys.ConfigEffectConcurrencyHandlerBufferSize: 1,
		configkeys.ConfigEffectCacheCapacity:                c.Capacity,
		configkeys.ConfigEffectCacheHandlerBufferSize:       c.CacheWorkers,
		configkeys.ConfigEffectCacheHandlerNumWorkers:       c.CacheWorkers,
	}
}

// loadWords returns the configured words: the inline list followed by the
// lines of WordsFile. Blank lines and lines starting with # are skipped.
func (c Config) loadWords() ([]string, error) {
	words := append([]string(nil), c.Words...)
	if c.WordsFile == "" {
		return words, nil
	}

	f, err := os.Open(c.WordsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
