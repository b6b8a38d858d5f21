package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Auth      *AuthConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
	Email     *EmailConfig
	WhatsApp  *WhatsAppConfig
	Kafka     *KafkaConfig
}

type ServerConfig struct {
	AppName        string        // Knit & Craft
	Environment    string        // development, production
	Port           string        // :8082
	PublicURL      string        // https://knitandcraft.shop
	CookieDomain   string        // .knitandcraft.shop, empty outside production
	LogLevel       string        // debug, info, warn, error
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64         // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
}

type DatabaseConfig struct {
	Driver       string // pgdriver or pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SlowQuery    time.Duration
	AutoMigrate  bool
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	AdminEmail         string
	AdminPassword      string
}

type CacheConfig struct {
	Addr       string
	Password   string
	DB         int
	ProductTTL time.Duration
	CartTTL    time.Duration
}

type RateLimitConfig struct {
	Enabled          bool
	Window           time.Duration
	DefaultLimit     int
	CheckoutLimit    int
	AuthLimit        int
	SubmissionLimit  int
	TrustedProxyHops int
}

type EmailConfig struct {
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	ResendAPIKey    string
	WebmailUser     string
	WebmailPassword string
	From            string
	AdminAddress    string
	Timeout         time.Duration
}

type WhatsAppConfig struct {
	MerchantPhone string
}

type KafkaConfig struct {
	Brokers      []string
	ClientID     string
	OrderTopic   string
	BespokeTopic string
}
