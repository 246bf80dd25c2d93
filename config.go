package typedi

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment keys read by LoadConfig.
const (
	EnvConstructionLock = "TYPEDI_CONSTRUCTION_LOCK"
	EnvMarkerPolicy     = "TYPEDI_MARKER_POLICY"
	EnvStrictParameters = "TYPEDI_STRICT_PARAMETERS"
)

// Config holds the behavior switches of a container.
type Config struct {
	// ConstructionLock serializes the first construction of each singleton
	// type so concurrent callers observe a single instance. When false, two
	// goroutines racing on an empty cache may each construct an instance and
	// the last store wins.
	//
	// The lock is reentrant only within one resolution chain. A factory whose
	// Create calls Get on its own service type starts a new chain and blocks
	// on the lock it is running under; so do two goroutines resolving the two
	// halves of a cycle. Neither is supported.
	ConstructionLock bool

	// MarkerPolicy selects how inject struct tags are read.
	MarkerPolicy MarkerPolicy

	// StrictParameters makes constructor parameters whose type is not a
	// registered service an error instead of a zero value.
	StrictParameters bool
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		ConstructionLock: true,
		MarkerPolicy:     MarkerFirst,
		StrictParameters: false,
	}
}

// LoadConfig reads .env files (if present) and builds a Config from the
// TYPEDI_* environment variables, falling back to DefaultConfig values.
// Variables already set in the process environment win over .env entries.
//
//	cfg, err := typedi.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry, err := typedi.NewRegistry(catalog, typedi.WithConfig(cfg))
func LoadConfig(envFiles ...string) (Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		// Non-fatal: .env may not exist in production
		_ = godotenv.Load(file)
	}

	cfg := DefaultConfig()

	var err error
	if cfg.ConstructionLock, err = envBool(EnvConstructionLock, cfg.ConstructionLock); err != nil {
		return Config{}, err
	}

	if cfg.StrictParameters, err = envBool(EnvStrictParameters, cfg.StrictParameters); err != nil {
		return Config{}, err
	}

	if raw, ok := os.LookupEnv(EnvMarkerPolicy); ok {
		if err := cfg.MarkerPolicy.UnmarshalText([]byte(raw)); err != nil {
			return Config{}, ConfigError{Key: EnvMarkerPolicy, Value: raw, Cause: err}
		}
	}

	return cfg, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultVal, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultVal, ConfigError{Key: key, Value: raw, Cause: err}
	}

	return v, nil
}
