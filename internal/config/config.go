// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Store driver names.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the boxer store backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the sqlite database file, used when StoreDriver is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// QueueSize bounds the in-memory bout log queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of bout log recorder workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the bout id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// HistorySize bounds the append-only bout log.
	HistorySize int `koanf:"history_size"`

	// MaxLeaderboardLimit caps GET /api/bout-log?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RandomSeed seeds the fight resolver; 0 means time-seeded.
	RandomSeed int64 `koanf:"random_seed"`

	// SkillWeights maps skill score terms (weight, reach, height, youth)
	// to their coefficients.
	SkillWeights map[string]float64 `koanf:"skill_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		StoreDriver:         StoreMemory,
		SQLitePath:          "ringside.db",
		QueueSize:           10_000,
		WorkerCount:         2,
		DedupeSize:          50_000,
		HistorySize:         1_000,
		MaxLeaderboardLimit: 100,
		RandomSeed:          0,
		SkillWeights: map[string]float64{
			"weight": 1.0,
			"reach":  10.0,
			"height": 0.25,
			"youth":  150.0,
		},
	}
}
