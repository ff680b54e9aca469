// Package config loads runtime configuration for the RecoveryLog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   user id owning the journal
//	-r string   database driver ("sqlite" or "postgres")
//	-d string   database path or DSN
//	-k string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-x string   export directory
//	-t int      backup timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "60s" or integer nanoseconds:
//
//	{
//	  "user_id": "local",
//	  "database_driver": "sqlite",
//	  "database_dsn": "recoverylog.db",
//	  "s3_bucket": "recoverylog",
//	  "backup_timeout": "60s"
//	}
//
// Primary API
//
//   - type Config                     — runtime settings for the CLI
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets local-first defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
