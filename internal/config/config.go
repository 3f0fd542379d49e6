package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Cron     CronConfig     `mapstructure:"cron"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Session  SessionConfig  `mapstructure:"session"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
	Spectrum SpectrumConfig `mapstructure:"spectrum"`
	Latest   LatestConfig   `mapstructure:"latest"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	// Dir receives per-run log files for batch commands. Empty keeps stdout only.
	Dir string `mapstructure:"dir"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
	MigrateExternal bool          `mapstructure:"migrate_external"`
}

type CronConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	CandidateSync string `mapstructure:"candidate_sync"`
}

type SyncConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type IngestConfig struct {
	TestDir             string `mapstructure:"test_dir"`
	MockCatalogue       string `mapstructure:"mock_catalogue"`
	MockSpectrumPattern string `mapstructure:"mock_spectrum_pattern"`
	SpectraDir          string `mapstructure:"spectra_dir"`
}

type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	MaxAge int    `mapstructure:"max_age"`
}

type AuthConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	JWTSecret            string        `mapstructure:"jwt_secret"`
	TokenTTL             time.Duration `mapstructure:"token_ttl"`
	AnonymousSubmitterID int64         `mapstructure:"anonymous_submitter_id"`
}

type TaxonomyConfig struct {
	Path string `mapstructure:"path"`
}

type SpectrumConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LatestConfig struct {
	DefaultDaysRange int `mapstructure:"default_days_range"`
	PageSize         int `mapstructure:"page_size"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.migrate_external", false)
	v.SetDefault("cron.enabled", false)
	v.SetDefault("cron.candidate_sync", "@every 10m")
	v.SetDefault("sync.page_size", 500)
	v.SetDefault("ingest.test_dir", "data/test")
	v.SetDefault("ingest.mock_catalogue", "")
	v.SetDefault("ingest.mock_spectrum_pattern", "sims/l1_obs_joined_%s.fits")
	v.SetDefault("ingest.spectra_dir", "data/spectra")
	v.SetDefault("session.name", "tidestom_session")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.max_age", 3600)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "720h")
	v.SetDefault("auth.anonymous_submitter_id", 0)
	v.SetDefault("taxonomy.path", "")
	v.SetDefault("spectrum.cache_ttl", "10m")
	v.SetDefault("latest.default_days_range", 30)
	v.SetDefault("latest.page_size", 200)

	if !envOnly && strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Ingest.MockCatalogue) == "" {
		cfg.Ingest.MockCatalogue = strings.TrimRight(cfg.Ingest.TestDir, "/") + "/mock_DB.csv"
	}
	return cfg, nil
}
