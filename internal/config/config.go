package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	RateLimit   RateLimitConfig `mapstructure:"ratelimit"`
	S3          S3Config        `mapstructure:"s3"`
	RabbitMQ    RabbitMQConfig  `mapstructure:"rabbitmq"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For header is honoured. Empty means the socket address is
	// the client address.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig selects the repository driver: "mongo" or "memory".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

// JWTConfig carries one secret and lifetime per principal kind.
type JWTConfig struct {
	UserSecret      string        `mapstructure:"user_secret"`
	AdminSecret     string        `mapstructure:"admin_secret"`
	UserExpiration  time.Duration `mapstructure:"user_expiration"`
	AdminExpiration time.Duration `mapstructure:"admin_expiration"`
	Issuer          string        `mapstructure:"issuer"`
}

type RateLimitConfig struct {
	Requests  int           `mapstructure:"requests"`
	Window    time.Duration `mapstructure:"window"`
	RedisAddr string        `mapstructure:"redis_addr"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether course media storage is configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

var ErrMissingUserSecret = errors.New("jwt.user_secret (JWT_SECRET) is required")

var defaults = map[string]interface{}{
	"environment":             "development",
	"server.address":          ":3001",
	"server.allowed_origins":  []string{"http://localhost:5173"},
	"server.trusted_proxies":  []string{},
	"database.driver":         DriverMongo,
	"database.uri":            "mongodb://localhost:27017",
	"database.name":           "coursell",
	"jwt.user_secret":         "",
	"jwt.admin_secret":        "",
	"jwt.user_expiration":     "1h",
	"jwt.admin_expiration":    "2h",
	"jwt.issuer":              "coursell",
	"ratelimit.requests":      100,
	"ratelimit.window":        "15m",
	"ratelimit.redis_addr":    "",
	"s3.endpoint":             "",
	"s3.region":               "us-east-1",
	"s3.access_key_id":        "",
	"s3.secret_access_key":    "",
	"s3.bucket_name":          "",
	"s3.use_ssl":              true,
	"rabbitmq.url":            "",
	"rabbitmq.exchange":       "coursell.events",
}

// Environment names the deployment scripts already export.
var aliases = map[string]string{
	"environment":            "NODE_ENV",
	"server.address":         "PORT",
	"server.allowed_origins": "FRONTEND_URL",
	"database.uri":           "MONGO_URL",
	"jwt.user_secret":        "JWT_SECRET",
}

// LoadConfig reads configuration from path/config.yaml, a .env file and
// environment variables, in increasing order of precedence.
func LoadConfig(path string) (Config, error) {
	var config Config

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		envNames := []string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if alias, ok := aliases[key]; ok {
			envNames = append(envNames, alias)
		}
		if err := v.BindEnv(append([]string{key}, envNames...)...); err != nil {
			return config, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}

	config.normalize()
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c *Config) normalize() {
	// PORT carries a bare port number.
	if c.Server.Address != "" && !strings.Contains(c.Server.Address, ":") {
		c.Server.Address = ":" + c.Server.Address
	}
	if c.JWT.AdminSecret == "" {
		c.JWT.AdminSecret = c.JWT.UserSecret
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Server.AllowedOrigins = trimList(c.Server.AllowedOrigins)
	c.Server.TrustedProxies = trimList(c.Server.TrustedProxies)
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.JWT.UserSecret == "" {
		return ErrMissingUserSecret
	}
	if c.Database.Driver != DriverMongo && c.Database.Driver != DriverMemory {
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.JWT.UserExpiration <= 0 || c.JWT.AdminExpiration <= 0 {
		return errors.New("jwt expirations must be positive")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("ratelimit.requests and ratelimit.window must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
