package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config holds all application configuration values
type Config struct {
	Env            string   `env:"ENV" env-default:"local"`
	Port           string   `env:"PORT" env-default:"5002"`
	FrontendURL    string   `env:"FRONTENDURL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:"," env-default:"https://aryan-workshop-feedback-system.netlify.app"`

	SMSProvider string `env:"SMS_PROVIDER" env-default:"twilio"`
	Twilio      TwilioConfig
	TextMagic   TextMagicConfig
	Email       EmailConfig

	ImageHost   string `env:"IMAGE_HOST" env-default:"cloudinary"`
	Cloudinary  CloudinaryConfig
	ObjectStore ObjectStoreConfig
	ShortIO     ShortIOConfig

	Certificate CertificateConfig
	OTP         OTPConfig
	Database    DatabaseConfig
	Auth        AuthConfig
}

type TwilioConfig struct {
	AccountSID string `env:"Account_SID"`
	AuthToken  string `env:"AUTH_TOKEN"`
	FromPhone  string `env:"TWILLO_PHONE"`
}

type TextMagicConfig struct {
	Username string `env:"TEXTMAGIC_USERNAME"`
	APIKey   string `env:"TEXTMAGIC_API_KEY"`
}

type EmailConfig struct {
	SenderName string `env:"EMAIL_NAME" env-default:"Workshop Team"`
	Address    string `env:"EMAIL"`
	Password   string `env:"EMAIL_PASSWORD"`
	SMTPHost   string `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	SMTPPort   int    `env:"SMTP_PORT" env-default:"587"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"CLOUD_API_KEY"`
	APISecret string `env:"CLOUD_API_SECRET"`
}

type ObjectStoreConfig struct {
	Endpoint      string `env:"S3_ENDPOINT" env-default:"localhost:9000"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	Bucket        string `env:"S3_BUCKET" env-default:"workshop"`
	Region        string `env:"S3_REGION"`
	UseSSL        bool   `env:"S3_USE_SSL" env-default:"false"`
}

type ShortIOConfig struct {
	APIKey string `env:"SHORTIO_API_KEY"`
	Domain string `env:"SHORTIO_DOMAIN"`
}

type CertificateConfig struct {
	// TemplateURL overrides the default template hosted on Cloudinary.
	TemplateURL  string        `env:"CERTIFICATE_TEMPLATE_URL"`
	TemplatePath string        `env:"CERTIFICATE_TEMPLATE_PATH" env-default:"v1753565022/ef0capoijgn6ppqfffoo.png"`
	Folder       string        `env:"CERTIFICATE_FOLDER" env-default:"certificates"`
	FetchTimeout time.Duration `env:"CERTIFICATE_FETCH_TIMEOUT" env-default:"30s"`
}

type OTPConfig struct {
	TTL         time.Duration `env:"OTP_TTL" env-default:"5m"`
	VerifiedTTL time.Duration `env:"OTP_VERIFIED_TTL" env-default:"30m"`
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" env-default:"sqlite"`
	DSN    string `env:"DB_DSN" env-default:"workshop.db"`
}

type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if cfg.FrontendURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, cfg.FrontendURL)
	}
	return &cfg, nil
}

// MustLoad is LoadConfig for process start-up.
func MustLoad() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultTemplateURL is the shared certificate background every generated
// certificate uses unless a workshop supplies its own.
func (c *Config) DefaultTemplateURL() string {
	if c.Certificate.TemplateURL != "" {
		return c.Certificate.TemplateURL
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", c.Cloudinary.CloudName, c.Certificate.TemplatePath)
}
