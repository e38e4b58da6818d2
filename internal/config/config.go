// Package config loads gymledger settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"gymledger/internal/idgen"
	"gymledger/internal/kv"
)

// Defaults applied when a variable is unset.
const (
	DefaultFSRoot      = "./gymdata"
	DefaultSQLitePath  = "./gymledger.db"
	DefaultPostgresDSN = "postgres://localhost/gymledger?sslmode=disable"
	DefaultS3Region    = "us-east-1"
	DefaultKeyPrefix   = "gym_"
	DefaultLogLevel    = "info"
)

// Config holds the settings read once at startup. Treat it as immutable.
type Config struct {
	// Storage
	StorageDriver kv.Driver
	FSRoot        string
	SQLitePath    string
	PostgresDSN   string

	// S3
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3Prefix          string
	S3PathStyle       bool
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Store
	KeyPrefix  string
	IDStrategy idgen.Strategy
	SeedFile   string

	// Logging
	LogLevel string
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set in the environment win over the file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are skipped.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables without validating it.
func FromEnv() *Config {
	return &Config{
		StorageDriver:     kv.Driver(strings.ToLower(getEnvString("GYM_STORAGE_DRIVER", string(kv.DriverFilesystem)))),
		FSRoot:            getEnvString("GYM_FS_ROOT", DefaultFSRoot),
		SQLitePath:        getEnvString("GYM_SQLITE_PATH", DefaultSQLitePath),
		PostgresDSN:       getEnvString("GYM_POSTGRES_DSN", DefaultPostgresDSN),
		S3Bucket:          getEnvString("GYM_S3_BUCKET", ""),
		S3Region:          getEnvString("GYM_S3_REGION", DefaultS3Region),
		S3Endpoint:        getEnvString("GYM_S3_ENDPOINT", ""),
		S3Prefix:          getEnvString("GYM_S3_PREFIX", ""),
		S3PathStyle:       getEnvBool("GYM_S3_PATH_STYLE", false),
		S3AccessKeyID:     getEnvString("GYM_S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnvString("GYM_S3_SECRET_ACCESS_KEY", ""),
		KeyPrefix:         getEnvString("GYM_KEY_PREFIX", DefaultKeyPrefix),
		IDStrategy:        idgen.Strategy(strings.ToLower(getEnvString("GYM_ID_STRATEGY", string(idgen.StrategyTime)))),
		SeedFile:          getEnvString("GYM_SEED_FILE", ""),
		LogLevel:          getEnvString("GYM_LOG_LEVEL", DefaultLogLevel),
	}
}

// Validate rejects unknown drivers, an s3 driver without a bucket and unknown id strategies.
func (c *Config) Validate() error {
	var problems []string
	switch c.StorageDriver {
	case kv.DriverMemory, kv.DriverFilesystem, kv.DriverSQLite, kv.DriverPostgres:
	case kv.DriverS3:
		if c.S3Bucket == "" {
			problems = append(problems, "GYM_S3_BUCKET is required for the s3 driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown GYM_STORAGE_DRIVER %q", c.StorageDriver))
	}
	switch c.IDStrategy {
	case idgen.StrategyTime, idgen.StrategyUUID:
	default:
		problems = append(problems, fmt.Sprintf("unknown GYM_ID_STRATEGY %q", c.IDStrategy))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// StorageOptions maps the storage settings onto kv.Open options.
func (c *Config) StorageOptions() kv.Options {
	return kv.Options{
		Driver:      c.StorageDriver,
		FSRoot:      c.FSRoot,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
		S3: kv.S3Config{
			Bucket:          c.S3Bucket,
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			Prefix:          c.S3Prefix,
			PathStyle:       c.S3PathStyle,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
		},
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
