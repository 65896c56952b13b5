package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"db"`
	Cron    CronConfig    `mapstructure:"cron"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Stream  StreamConfig  `mapstructure:"stream"`
	History HistoryConfig `mapstructure:"history"`
	Alerts  AlertConfig   `mapstructure:"alerts"`
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
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	SnapshotHistory string `mapstructure:"snapshot_history"`
	SnapshotCleanup string `mapstructure:"snapshot_cleanup"`
}

type EngineConfig struct {
	// MemoMaxEntries bounds the evaluation memo cache; 0 keeps the default.
	MemoMaxEntries int `mapstructure:"memo_max_entries"`
}

type StreamConfig struct {
	// SubscriberBuffer is the per-subscriber channel depth before snapshots
	// are dropped for that subscriber.
	SubscriberBuffer int           `mapstructure:"subscriber_buffer"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
}

type HistoryConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
	MaxScenarios  int `mapstructure:"max_scenarios"`
}

type AlertConfig struct {
	MinLTVCACRatio     float64 `mapstructure:"min_ltv_cac_ratio"`
	MaxPaybackMonths   float64 `mapstructure:"max_payback_months"`
	MinEBITDAMarginPct float64 `mapstructure:"min_ebitda_margin_pct"`
	MaxBlendedCACUSD   float64 `mapstructure:"max_blended_cac_usd"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GTM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.snapshot_history", "@every 6h")
	v.SetDefault("cron.snapshot_cleanup", "@every 24h")
	v.SetDefault("engine.memo_max_entries", 256)
	v.SetDefault("stream.subscriber_buffer", 16)
	v.SetDefault("stream.write_timeout", "5s")
	v.SetDefault("history.retention_days", 90)
	v.SetDefault("history.max_scenarios", 500)
	v.SetDefault("alerts.min_ltv_cac_ratio", 3.0)
	v.SetDefault("alerts.max_payback_months", 12.0)
	v.SetDefault("alerts.min_ebitda_margin_pct", 0.0)
	v.SetDefault("alerts.max_blended_cac_usd", 0.0)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
