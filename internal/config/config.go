package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageProviderMinIO      = "minio"
	StorageProviderCloudinary = "cloudinary"
)

type Config struct {
	App struct {
		Port       string `mapstructure:"port"`
		Env        string `mapstructure:"env"`
		InstanceID string `mapstructure:"instance_id"`
		PublicURL  string `mapstructure:"public_url"`
		LogLevel   string `mapstructure:"log_level"`
		// TrustedProxies may set client IPs through X-Forwarded-For.
		TrustedProxies []string `mapstructure:"trusted_proxies"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers      []string `mapstructure:"brokers"`
		ContentTopic string   `mapstructure:"content_topic"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret            string        `mapstructure:"jwt_secret"`
		TokenLifespan        time.Duration `mapstructure:"token_lifespan"`
		LoginAttemptsPerHour int64         `mapstructure:"login_attempts_per_hour"`
	} `mapstructure:"auth"`
	Storage struct {
		Provider     string `mapstructure:"provider"`
		AssetBucket  string `mapstructure:"asset_bucket"`
		BackupBucket string `mapstructure:"backup_bucket"`
	} `mapstructure:"storage"`
	MinIO struct {
		Endpoint        string `mapstructure:"endpoint"`
		PublicEndpoint  string `mapstructure:"public_endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		UseSSL          bool   `mapstructure:"use_ssl"`
		Region          string `mapstructure:"region"`
	} `mapstructure:"minio"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Clamd struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"clamd"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
	Sync struct {
		RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	} `mapstructure:"sync"`
}

// LoadConfig reads .env and config.yaml from the given directories (the
// working directory when none is given), then applies environment overrides.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, p := range paths {
		if loadErr := godotenv.Load(filepath.Join(p, ".env")); loadErr == nil {
			break
		}
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config.yaml: %w", err)
		}
		log.Printf("note: config.yaml not found, read environment only.")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return cfg, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.App.TrustedProxies = splitList(cfg.App.TrustedProxies)
	if cfg.App.InstanceID == "" {
		cfg.App.InstanceID = defaultInstanceID()
	}

	err = cfg.validate()
	return
}

var envBindings = map[string]string{
	"app.port":                     "APP_PORT",
	"app.env":                      "APP_ENV",
	"app.instance_id":              "APP_INSTANCE_ID",
	"app.public_url":               "APP_PUBLIC_URL",
	"app.log_level":                "LOG_LEVEL",
	"app.trusted_proxies":          "APP_TRUSTED_PROXIES",
	"db.dsn":                       "DB_DSN",
	"redis.addr":                   "REDIS_ADDR",
	"redis.password":               "REDIS_PASSWORD",
	"kafka.brokers":                "KAFKA_BROKERS",
	"kafka.content_topic":          "KAFKA_CONTENT_TOPIC",
	"auth.jwt_secret":              "JWT_SECRET",
	"auth.token_lifespan":          "TOKEN_LIFESPAN",
	"auth.login_attempts_per_hour": "LOGIN_ATTEMPTS_PER_HOUR",
	"storage.provider":             "STORAGE_PROVIDER",
	"storage.asset_bucket":         "STORAGE_ASSET_BUCKET",
	"storage.backup_bucket":        "STORAGE_BACKUP_BUCKET",
	"minio.endpoint":               "MINIO_ENDPOINT",
	"minio.public_endpoint":        "MINIO_PUBLIC_ENDPOINT",
	"minio.access_key_id":          "MINIO_ACCESS_KEY_ID",
	"minio.secret_access_key":      "MINIO_SECRET_ACCESS_KEY",
	"minio.use_ssl":                "MINIO_USE_SSL",
	"minio.region":                 "MINIO_REGION",
	"cloudinary.cloud_name":        "CLOUDINARY_CLOUD_NAME",
	"cloudinary.api_key":           "CLOUDINARY_API_KEY",
	"cloudinary.api_secret":        "CLOUDINARY_API_SECRET",
	"clamd.addr":                   "CLAMD_ADDR",
	"jaeger.otlp_endpoint":         "OTEL_EXPORTER_OTLP_ENDPOINT",
	"sync.refresh_interval":        "SYNC_REFRESH_INTERVAL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.public_url", "http://localhost:3000")
	v.SetDefault("kafka.content_topic", "content.events")
	v.SetDefault("auth.token_lifespan", "24h")
	v.SetDefault("auth.login_attempts_per_hour", 10)
	v.SetDefault("storage.provider", StorageProviderMinIO)
	v.SetDefault("storage.asset_bucket", "portfolio-assets")
	v.SetDefault("storage.backup_bucket", "portfolio-backups")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("sync.refresh_interval", "30s")
}

func (c Config) validate() error {
	var errs []error
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenLifespan <= 0 {
		errs = append(errs, errors.New("auth.token_lifespan must be positive"))
	}
	if c.Sync.RefreshInterval <= 0 {
		errs = append(errs, errors.New("sync.refresh_interval must be positive"))
	}
	switch c.Storage.Provider {
	case StorageProviderMinIO:
		if c.MinIO.Endpoint == "" {
			errs = append(errs, errors.New("minio.endpoint is required for the minio storage provider"))
		}
	case StorageProviderCloudinary:
		if c.Cloudinary.CloudName == "" {
			errs = append(errs, errors.New("cloudinary.cloud_name is required for the cloudinary storage provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.provider %q", c.Storage.Provider))
	}
	return errors.Join(errs...)
}

// splitList accepts both YAML lists and a comma separated KAFKA_BROKERS value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func defaultInstanceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "portfolio"
	}
	return host + "-" + uuid.NewString()[:8]
}
