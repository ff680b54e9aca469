package config

import "time"

// Config holds runtime settings for the RecoveryLog CLI.
//
// Fields:
//   - UserID: owner of the local journal; every stored row is scoped to it.
//   - DatabaseDriver: "sqlite" (default) or "postgres".
//   - DatabaseDSN: file path (SQLite) or DSN (PostgreSQL, pgx).
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - ExportDir: subdirectory for local snapshot copies.
//   - BackupTimeout: upper bound for a single backup or restore operation.
type Config struct {
	UserID         string
	DatabaseDriver string
	DatabaseDSN    string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	ExportDir      string
	BackupTimeout  time.Duration
}

// LoadDefaults populates Config with local-first development defaults.
// NOTE: The S3 values match a local MinIO container and should be overridden.
func (c *Config) LoadDefaults() {
	c.UserID = "local"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "recoverylog.db"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "recoverylog"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ExportDir = "exports"
	c.BackupTimeout = 60 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
