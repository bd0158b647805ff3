package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port       string        `env:"PORT,        default=3001"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret  string        `env:"JWT_SECRET,  required"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
	// CORSOrigins is a comma-separated list of allowed frontend origins.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000"`
	// TrustedProxies lists CIDR ranges whose X-Forwarded-For is believed.
	// Empty means the peer address is the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Captcha   CaptchaConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=news_platform"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type CaptchaConfig struct {
	Enabled   bool          `env:"CAPTCHA_ENABLED,    default=true"`
	SecretKey string        `env:"CAPTCHA_SECRET_KEY"`
	VerifyURL string        `env:"CAPTCHA_VERIFY_URL, default=https://www.google.com/recaptcha/api/siteverify"`
	Timeout   time.Duration `env:"CAPTCHA_TIMEOUT,    default=5s"`
}

// RateLimitConfig holds per-client request budgets per minute. Zero disables
// the corresponding limit.
type RateLimitConfig struct {
	AuthPerMinute int `env:"RATE_LIMIT_AUTH_PER_MINUTE, default=20"`
	LikePerMinute int `env:"RATE_LIMIT_LIKE_PER_MINUTE, default=60"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// Validate checks the combinations that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Captcha.Enabled && c.Captcha.SecretKey == "" {
		errs = append(errs, errors.New("CAPTCHA_SECRET_KEY is required when CAPTCHA_ENABLED is true"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.RateLimit.AuthPerMinute < 0 || c.RateLimit.LikePerMinute < 0 {
		errs = append(errs, errors.New("rate limits must not be negative"))
	}
	if _, err := c.TrustedProxyRanges(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TrustedProxyRanges parses TrustedProxies. A bare IP is taken as a single host.
func (c *Config) TrustedProxyRanges() ([]*net.IPNet, error) {
	ranges := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", entry)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			entry = fmt.Sprintf("%s/%d", entry, bits)
		}
		_, r, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid range %q", raw)
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
