package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP           HTTP
		Log            Log
		PG             PG
		S3             S3
		Kafka          Kafka
		OutboxRelay    OutboxRelay
		ReviewConsumer ReviewConsumer
		Moderation     Moderation
		Entitlement    Entitlement
		Auth           Auth
		Photo          Photo
		Swagger        Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT,required"`
		AccessKey      string        `env:"S3_ACCESS_KEY,required"`
		SecretKey      string        `env:"S3_SECRET_KEY,required"`
		Bucket         string        `env:"S3_BUCKET,required"`
		PublicBaseURL  string        `env:"S3_PUBLIC_BASE_URL,required"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Kafka struct {
		Brokers      []string `env:"KAFKA_BROKERS,required"`
		GroupID      string   `env:"KAFKA_GROUP_ID,required"`
		ReviewTopic  string   `env:"KAFKA_REVIEW_TOPIC,required"`
		VerdictTopic string   `env:"KAFKA_VERDICT_TOPIC,required"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"3"`
	}

	ReviewConsumer struct {
		CommitTimeout   time.Duration `env:"REVIEW_CONSUMER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"REVIEW_CONSUMER_PROCESS_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout time.Duration `env:"REVIEW_CONSUMER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		Workers         int           `env:"REVIEW_CONSUMER_WORKERS" envDefault:"4"`
	}

	Moderation struct {
		URL     string        `env:"MODERATION_URL,required"`
		Token   string        `env:"MODERATION_TOKEN,required"`
		Timeout time.Duration `env:"MODERATION_TIMEOUT" envDefault:"10s"`
	}

	Entitlement struct {
		URL     string        `env:"ENTITLEMENT_URL,required"`
		Token   string        `env:"ENTITLEMENT_TOKEN,required"`
		Timeout time.Duration `env:"ENTITLEMENT_TIMEOUT" envDefault:"5s"`
	}

	Auth struct {
		JWTSecret string `env:"AUTH_JWT_SECRET,required"`
	}

	Photo struct {
		MaxUploadBytes int64 `env:"PHOTO_MAX_UPLOAD_BYTES" envDefault:"10485760"`
		MaxOutputBytes int64 `env:"PHOTO_MAX_OUTPUT_BYTES" envDefault:"1048576"`
		MinDimension   int   `env:"PHOTO_MIN_DIMENSION" envDefault:"320"`
		MaxDimension   int   `env:"PHOTO_MAX_DIMENSION" envDefault:"8192"`
		OutputMaxSide  int   `env:"PHOTO_OUTPUT_MAX_SIDE" envDefault:"1600"`
		ThumbnailSize  int   `env:"PHOTO_THUMBNAIL_SIZE" envDefault:"300"`
		FreeLimit      int   `env:"PHOTO_FREE_LIMIT" envDefault:"6"`
		PremiumLimit   int   `env:"PHOTO_PREMIUM_LIMIT" envDefault:"12"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
