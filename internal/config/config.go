package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Minio    MinioConfig
	Upload   UploadConfig
	Lock     LockConfig
	Cleanup  CleanupConfig
	NATS     NATSConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// StorageConfig selects the byte storage driver ("disk" or "minio")
type StorageConfig struct {
	Driver   string `envconfig:"STORAGE_DRIVER" default:"disk"`
	BasePath string `envconfig:"STORAGE_BASE_PATH" default:"./data/upload"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" default:""`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"upload"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY" default:""`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY" default:""`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	MaxChunkSize int64  `envconfig:"UPLOAD_MAX_CHUNK_SIZE" default:"10485760"` // 10MB
	Signature    string `envconfig:"UPLOAD_SIGNATURE" default:"md5"`
}

// LockConfig tunes the optimistic lock retry budget: one immediate attempt,
// then MaxRetry more, each after a random delay in [0, RetryBase).
type LockConfig struct {
	MaxRetry  int           `envconfig:"LOCK_MAX_RETRY" default:"3"`
	RetryBase time.Duration `envconfig:"LOCK_RETRY_BASE" default:"5s"`
}

type CleanupConfig struct {
	SessionRetention  time.Duration `envconfig:"CLEANUP_SESSION_RETENTION" default:"168h"` // 7 days
	ChunkRetention    time.Duration `envconfig:"CLEANUP_CHUNK_RETENTION" default:"720h"`   // 30 days
	SessionSweepEvery time.Duration `envconfig:"CLEANUP_SESSION_SWEEP_EVERY" default:"8m"`
	WindowLength      time.Duration `envconfig:"CLEANUP_WINDOW_LENGTH" default:"1h"`
}

type NATSConfig struct {
	URL        string `envconfig:"NATS_URL" default:""`
	StreamName string `envconfig:"NATS_STREAM_NAME" default:"UPLOAD"`
	Subject    string `envconfig:"NATS_SUBJECT" default:"upload.merged"`
	ClientName string `envconfig:"NATS_CLIENT_NAME" default:"upload-api"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
