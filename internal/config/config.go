package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/rbac"
)

type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	SiteURL    string `env:"SITE_URL" envDefault:"http://localhost:8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"production"`

	DBHost     string `env:"DB_HOST,required,notEmpty"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER,required,notEmpty"`
	DBPassword string `env:"DB_PASSWORD,required,notEmpty"`
	DBName     string `env:"DB_NAME,required,notEmpty"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// RBAC fallback chain inputs
	RBACBypass       string `env:"RBAC_BYPASS"`
	RBACFallbackRole string `env:"RBAC_FALLBACK_ROLE" envDefault:"ADMIN"`
	JWTSecret        string `env:"JWT_SECRET"`

	SitemapLanguages []string `env:"SITEMAP_LANGUAGES" envSeparator:"," envDefault:"en,ar,zh,ru,de,fr,hi"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"newsletter@localhost"`

	UseS3         bool   `env:"USE_S3" envDefault:"false"`
	S3Bucket      string `env:"S3_BUCKET"`
	S3Region      string `env:"S3_REGION"`
	CloudFrontURL string `env:"CLOUDFRONT_URL"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Config loaded")
	return cfg, nil
}

func (c *Config) validate() error {
	if _, ok := rbac.ParseRole(c.RBACFallbackRole); !ok {
		return fmt.Errorf("RBAC_FALLBACK_ROLE %q is not a known role", c.RBACFallbackRole)
	}
	for _, l := range c.SitemapLanguages {
		if _, ok := locale.Parse(l); !ok {
			return fmt.Errorf("SITEMAP_LANGUAGES contains unsupported language %q", l)
		}
	}
	if err := rbac.ValidateSecret(c.JWTSecret); err != nil {
		return err
	}
	if c.UseS3 && (c.S3Bucket == "" || c.S3Region == "") {
		log.Println("⚠️  USE_S3=true but S3_BUCKET or S3_REGION not configured, falling back to local storage")
		c.UseS3 = false
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// RoleResolver builds the RBAC resolver from the environment-derived inputs.
func (c *Config) RoleResolver() *rbac.Resolver {
	fallback, _ := rbac.ParseRole(c.RBACFallbackRole)
	return &rbac.Resolver{
		TokenSecret: []byte(c.JWTSecret),
		Bypass:      rbac.IsAffirmative(c.RBACBypass),
		DevMode:     c.IsDevelopment(),
		Fallback:    fallback,
	}
}

// SitemapCodes returns the languages that get their own sitemap document.
func (c *Config) SitemapCodes() []locale.Code {
	codes := make([]locale.Code, 0, len(c.SitemapLanguages))
	for _, l := range c.SitemapLanguages {
		if code, ok := locale.Parse(l); ok {
			codes = append(codes, code)
		}
	}
	return codes
}
