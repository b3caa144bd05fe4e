package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"database"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Archive is an S3-compatible bucket (R2 in production) that receives a
	// JSON copy of every saved session.
	Archive struct {
		Enabled   bool   `mapstructure:"enabled"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Prefix    string `mapstructure:"prefix"`
	} `mapstructure:"archive"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Reconcile struct {
		Timezone           string `mapstructure:"timezone"`
		SaveLockTTLSeconds int    `mapstructure:"save_lock_ttl_seconds"`
		DraftTTLHours      int    `mapstructure:"draft_ttl_hours"`
		StoreIdleMinutes   int    `mapstructure:"store_idle_minutes"`
	} `mapstructure:"reconcile"`
}

func (c *Config) SaveLockTTL() time.Duration {
	return time.Duration(c.Reconcile.SaveLockTTLSeconds) * time.Second
}

func (c *Config) DraftTTL() time.Duration {
	return time.Duration(c.Reconcile.DraftTTLHours) * time.Hour
}

// StoreIdle is how long an unused reference stays in memory.
func (c *Config) StoreIdle() time.Duration {
	return time.Duration(c.Reconcile.StoreIdleMinutes) * time.Minute
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "warehouse_db")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "warehouse-backend")
	v.SetDefault("archive.region", "auto")
	v.SetDefault("archive.prefix", "sessions")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("reconcile.timezone", "Asia/Kolkata")
	v.SetDefault("reconcile.save_lock_ttl_seconds", 30)
	v.SetDefault("reconcile.draft_ttl_hours", 48)
	v.SetDefault("reconcile.store_idle_minutes", 30)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnv(&cfg)

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not set")
		}
	}

	return &cfg
}

// applyEnv overrides file values with the deployment environment variables.
func applyEnv(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	if host := os.Getenv("REDIS_SERVICE_HOST"); host != "" {
		port := os.Getenv("REDIS_SERVICE_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.Redis.Addr = host + ":" + port
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if endpoint := os.Getenv("ARCHIVE_ENDPOINT"); endpoint != "" {
		cfg.Archive.Endpoint = endpoint
	}
	if bucket := os.Getenv("ARCHIVE_BUCKET"); bucket != "" {
		cfg.Archive.Bucket = bucket
	}
	if key := os.Getenv("ARCHIVE_ACCESS_KEY"); key != "" {
		cfg.Archive.AccessKey = key
	}
	if secret := os.Getenv("ARCHIVE_SECRET_KEY"); secret != "" {
		cfg.Archive.SecretKey = secret
	}
}
