// Package config loads deployment configuration from the environment and
// constructs the service's dependencies. Which repository and which blob
// storage backend run is decided here, never inside pkg/cms.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpages/brightpages/pkg/cms"
	memoryrepo "github.com/brightpages/brightpages/pkg/cms/repo/memory"
	postgresrepo "github.com/brightpages/brightpages/pkg/cms/repo/postgres"
	fsstorage "github.com/brightpages/brightpages/pkg/cms/storage/fs"
	memorystorage "github.com/brightpages/brightpages/pkg/cms/storage/memory"
	"github.com/brightpages/brightpages/pkg/cms/storage/pglo"
	s3storage "github.com/brightpages/brightpages/pkg/cms/storage/s3"
	"github.com/brightpages/brightpages/pkg/cms/storage/tempfs"
)

// Config is the full server configuration, populated from the environment.
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// DATABASE_URL empty means the in-memory repository.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:8080,http://localhost:5173,http://127.0.0.1:8080"`

	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" env-default:"10485760"`

	Storage StorageConfig
	Auth    AuthConfig
}

// StorageConfig selects and parameterizes the blob storage backend.
type StorageConfig struct {
	// Backend is one of: fs, tempfs, pglo, s3, memory.
	Backend string `env:"STORAGE_BACKEND" env-default:"fs"`
	FSDir   string `env:"STORAGE_FS_DIR" env-default:"data/uploads"`
	TempDir string `env:"STORAGE_TEMP_DIR" env-default:""`
	S3      S3Config
}

// S3Config holds settings for the S3-compatible backend.
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	KeyPrefix       string `env:"AWS_S3_KEY_PREFIX" env-default:"uploads"`
}

// AuthConfig holds the admin credential and token settings.
type AuthConfig struct {
	AdminEmail    string        `env:"ADMIN_EMAIL" env-default:""`
	AdminPassword string        `env:"ADMIN_PASSWORD" env-default:""`
	TokenSecret   string        `env:"SECRET_KEY" env-default:"fallback_secret_key"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" env-default:"168h"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// App bundles the constructed service with the resources behind it.
type App struct {
	Service cms.Service
	Config  *Config

	pool *pgxpool.Pool
}

// Close releases the app's resources. Safe to call when no pool was opened.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Build constructs the repository, the blob storage backend, and the service
// from this configuration. The pool is opened once here and injected; nothing
// downstream reaches for ambient database state.
func (c *Config) Build(ctx context.Context) (*App, error) {
	var pool *pgxpool.Pool
	var repo cms.Repository

	if c.DatabaseURL != "" {
		p, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database pool: %w", err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		pool = p
		repo = postgresrepo.NewWithPool(pool)
	} else {
		repo = memoryrepo.New()
	}

	store, err := c.buildBlobStore(pool)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	svc, err := cms.New(
		cms.WithRepository(repo),
		cms.WithBlobStore(store),
	)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("build service: %w", err)
	}

	return &App{Service: svc, Config: c, pool: pool}, nil
}

func (c *Config) buildBlobStore(pool *pgxpool.Pool) (cms.BlobStore, error) {
	switch c.Storage.Backend {
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.Storage.FSDir})
	case "tempfs":
		return tempfs.New(tempfs.Config{Dir: c.Storage.TempDir})
	case "pglo":
		if pool == nil {
			return nil, fmt.Errorf("storage backend pglo requires DATABASE_URL")
		}
		return pglo.New(pool)
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.Storage.S3.Region,
			Bucket:          c.Storage.S3.Bucket,
			AccessKeyID:     c.Storage.S3.AccessKeyID,
			SecretAccessKey: c.Storage.S3.SecretAccessKey,
			Endpoint:        c.Storage.S3.Endpoint,
			UsePathStyle:    c.Storage.S3.UsePathStyle,
			KeyPrefix:       c.Storage.S3.KeyPrefix,
		})
	case "memory":
		return memorystorage.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use fs, tempfs, pglo, s3 or memory)", c.Storage.Backend)
	}
}
