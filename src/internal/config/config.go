package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "src/internal/config/cfg.yml"
	defaultEnvFile    = "config.env"
)

type Configuration struct {
	Logs      LogsSettings     `mapstructure:"logs"`
	App       Application      `mapstructure:"app"`
	Database  Database         `mapstructure:"database"`
	Queue     QueueConfig      `mapstructure:"queue"`
	Redis     Redis            `mapstructure:"redis"`
	Security  SecuritySettings `mapstructure:"security"`
	Server    ServerSettings   `mapstructure:"server"`
	Session   SessionSettings  `mapstructure:"session"`
	RateLimit RateLimitConfig  `mapstructure:"rate-limit"`
}

type LogsSettings struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"log-path"`
	EnableJSONOutput bool   `mapstructure:"enable-json-output"`
}

type Application struct {
	Name    string `mapstructure:"name"`
	Timeout int    `mapstructure:"timeout"`
	Version string `mapstructure:"version"`
}

// RequestTimeout bounds the store calls made on behalf of one request.
func (a Application) RequestTimeout() time.Duration {
	if a.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.Timeout) * time.Second
}

type Database struct {
	Url                   string `mapstructure:"url"`
	DbName                string `mapstructure:"dbname"`
	UserCollection        string `mapstructure:"user-collection"`
	TransactionCollection string `mapstructure:"transaction-collection"`
	SessionCollection     string `mapstructure:"session-collection"`
	Timeout               int    `mapstructure:"timeout"`
	MaxPoolSize           uint64 `mapstructure:"max-pool-size"`
}

type QueueConfig struct {
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type RabbitMQConfig struct {
	Url          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange-type"`
	RoutingKey   string `mapstructure:"routing-key"`
	Durable      bool   `mapstructure:"durable"`
	AutoDelete   bool   `mapstructure:"auto-delete"`
	Internal     bool   `mapstructure:"internal"`
	NoWait       bool   `mapstructure:"no-wait"`
}

type Redis struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type SecuritySettings struct {
	SessionSecret  string   `mapstructure:"session-secret"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

type ServerSettings struct {
	Port            string `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ReadTimeout     int    `mapstructure:"read-timeout"`
	WriteTimeout    int    `mapstructure:"write-timeout"`
	IdleTimeout     int    `mapstructure:"idle-timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown-timeout"`
	PublicDir       string `mapstructure:"public-dir"`
	TemplatesGlob   string `mapstructure:"templates-glob"`

	// TrustedProxies lists the proxies whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted-proxies"`
}

// SessionSettings holds the single expiry policy shared by the cookie and the
// stored session.
type SessionSettings struct {
	CookieName     string `mapstructure:"cookie-name"`
	TimeoutMinutes int    `mapstructure:"timeout-minutes"`
	SecureCookie   bool   `mapstructure:"secure-cookie"`
	CacheKeyPrefix string `mapstructure:"cache-key-prefix"`
}

type RateLimitConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	UseRedis      bool    `mapstructure:"use-redis"`
	RPS           float64 `mapstructure:"rps"`
	Burst         int     `mapstructure:"burst"`
	WindowSeconds int     `mapstructure:"window-seconds"`
}

func Load() *Configuration {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		logrus.Panicf("Error loading configuration: %s", err)
	}
	logrus.Info("Configuration loaded")

	return cfg
}

// LoadFrom reads the YAML file at path and applies environment overrides.
func LoadFrom(path string) (*Configuration, error) {
	if err := godotenv.Load(defaultEnvFile); err != nil {
		logrus.Debugf("No %s file found, relying on environment variables", defaultEnvFile)
	}

	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Configuration) {
	// MONGODB_CONN_URI is what existing deployments export; MONGODB_URL wins when both are set.
	if mongoUri := os.Getenv("MONGODB_CONN_URI"); mongoUri != "" {
		cfg.Database.Url = mongoUri
	}
	if mongoUri := os.Getenv("MONGODB_URL"); mongoUri != "" {
		cfg.Database.Url = mongoUri
	}

	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.DbName = dbName
	}

	if redisUrl := os.Getenv("REDIS_URL"); redisUrl != "" {
		cfg.Redis.Url = redisUrl
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.Db = db
		}
	}

	if rabbitmqUrl := os.Getenv("RABBITMQ_URL"); rabbitmqUrl != "" {
		cfg.Queue.RabbitMQ.Url = rabbitmqUrl
	}

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.Security.SessionSecret = secret
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logs.Level = level
	}
}

func read(path string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "customer-dashboard-svc")
	v.SetDefault("app.timeout", 10)
	v.SetDefault("logs.level", "info")
	v.SetDefault("database.dbname", "customer_data")
	v.SetDefault("database.user-collection", "user_records")
	v.SetDefault("database.transaction-collection", "transactions")
	v.SetDefault("database.session-collection", "sessions")
	v.SetDefault("database.timeout", 10)
	v.SetDefault("database.max-pool-size", 50)
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read-timeout", 5)
	v.SetDefault("server.write-timeout", 10)
	v.SetDefault("server.idle-timeout", 60)
	v.SetDefault("server.shutdown-timeout", 30)
	v.SetDefault("server.public-dir", "web/public")
	v.SetDefault("server.templates-glob", "web/templates/*.html")
	v.SetDefault("session.cookie-name", "user-sesh.sid")
	v.SetDefault("session.timeout-minutes", 15)
	v.SetDefault("session.cache-key-prefix", "session:")
	v.SetDefault("rate-limit.rps", 1)
	v.SetDefault("rate-limit.burst", 5)
	v.SetDefault("rate-limit.window-seconds", 60)
}
