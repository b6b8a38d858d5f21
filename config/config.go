package config

import (
	"errors"
	"knitcraft_server/structs"
	"sync"
	"time"
)

const (
	defaultAccessSecret  = "default_access_secret"
	defaultRefreshSecret = "default_refresh_secret"
)

var ErrDefaultSecrets = errors.New("config: AUTH_ACCESS_TOKEN_SECRET and AUTH_REFRESH_TOKEN_SECRET must be set in production")

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

// GetConfig loads the configuration once. It panics when Load refuses the
// environment, so a misconfigured server never starts serving.
func GetConfig() *structs.Config {
	configOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			panic(err)
		}
		configInstance = cfg
	})
	return configInstance
}

// Load reads the configuration from the environment without caching it.
func Load() (*structs.Config, error) {
	cfg := &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Knit & Craft"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			PublicURL:      getEnvAsString("APP_PUBLIC_URL", "http://localhost:3000"),
			CookieDomain:   getEnvAsString("COOKIE_DOMAIN", ""),
			LogLevel:       getEnvAsString("LOG_LEVEL", ""),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 30*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:   int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 1<<20)),
		},
		Cors: &structs.CorsConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-Request-Id"}),
		},
		Database: &structs.DatabaseConfig{
			Driver:       getEnvAsString("DB_DRIVER", "pgdriver"),
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "knitcraft_db"),
			SSLMode:      getEnvAsString("DB_SSLMODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			SlowQuery:    getEnvAsTimeDuration("DB_SLOW_QUERY", 200*time.Millisecond),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", defaultAccessSecret),
			AccessTokenExpiry:  getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenSecret: getEnvAsString("AUTH_REFRESH_TOKEN_SECRET", defaultRefreshSecret),
			RefreshTokenExpiry: getEnvAsTimeDuration("AUTH_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			AdminEmail:         getEnvAsString("ADMIN_EMAIL", ""),
			AdminPassword:      getEnvAsString("ADMIN_PASSWORD", ""),
		},
		Cache: &structs.CacheConfig{
			Addr:       getEnvAsString("REDIS_ADDR", "localhost:6379"),
			Password:   getEnvAsString("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			ProductTTL: getEnvAsTimeDuration("CACHE_PRODUCT_TTL", 10*time.Minute),
			CartTTL:    getEnvAsTimeDuration("CACHE_CART_TTL", 30*24*time.Hour),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:          getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Window:           getEnvAsTimeDuration("RATE_LIMIT_WINDOW", time.Minute),
			DefaultLimit:     getEnvAsInt("RATE_LIMIT_DEFAULT", 120),
			CheckoutLimit:    getEnvAsInt("RATE_LIMIT_CHECKOUT", 10),
			AuthLimit:        getEnvAsInt("RATE_LIMIT_AUTH", 10),
			SubmissionLimit:  getEnvAsInt("RATE_LIMIT_SUBMISSION", 5),
			TrustedProxyHops: getEnvAsInt("RATE_LIMIT_PROXY_HOPS", 1),
		},
		Email: &structs.EmailConfig{
			SMTPHost:        getEnvAsString("SMTP_HOST", ""),
			SMTPPort:        getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:        getEnvAsString("SMTP_USER", ""),
			SMTPPassword:    getEnvAsString("SMTP_PASSWORD", ""),
			ResendAPIKey:    getEnvAsString("RESEND_API_KEY", ""),
			WebmailUser:     getEnvAsString("WEBMAIL_USER", ""),
			WebmailPassword: getEnvAsString("WEBMAIL_PASSWORD", ""),
			From:            getEnvAsString("EMAIL_FROM", "Knit & Craft <orders@knitandcraft.shop>"),
			AdminAddress:    getEnvAsString("ADMIN_NOTIFICATION_EMAIL", ""),
			Timeout:         getEnvAsTimeDuration("EMAIL_TIMEOUT", 10*time.Second),
		},
		WhatsApp: &structs.WhatsAppConfig{
			MerchantPhone: getEnvAsString("WHATSAPP_MERCHANT_PHONE", ""),
		},
		Kafka: &structs.KafkaConfig{
			Brokers:      getEnvAsSlice("KAFKA_BROKERS", nil),
			ClientID:     getEnvAsString("KAFKA_CLIENT_ID", "knitcraft-server"),
			OrderTopic:   getEnvAsString("KAFKA_ORDER_TOPIC", "knitcraft.orders"),
			BespokeTopic: getEnvAsString("KAFKA_BESPOKE_TOPIC", "knitcraft.bespoke"),
		},
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *structs.Config) error {
	if cfg.Server.Environment != "production" {
		return nil
	}
	if cfg.Auth.AccessTokenSecret == defaultAccessSecret || cfg.Auth.RefreshTokenSecret == defaultRefreshSecret {
		return ErrDefaultSecrets
	}
	return nil
}

func GetLogLevel() string {
	if level := GetConfig().Server.LogLevel; level != "" {
		return level
	}
	if IsProduction() {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
