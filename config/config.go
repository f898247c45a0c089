package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vibast-solutions/ms-go-boleto/app/render"
)

const defaultGatewayURL = "https://mpag.bb.com.br/site/mpag/"

type Config struct {
	App               AppConfig
	HTTP              ServerConfig
	GRPC              ServerConfig
	MySQL             MySQLConfig
	Log               LogConfig
	InternalEndpoints InternalEndpointsConfig
	Boleto            BoletoConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

// MySQLConfig is optional. An empty DSN disables the submission ledger.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c MySQLConfig) Enabled() bool {
	return c.DSN != ""
}

type LogConfig struct {
	Level string
}

type InternalEndpointsConfig struct {
	AuthGRPCAddr string
}

type BoletoConfig struct {
	GatewayURL           string
	MerchantID           int64
	BillingAgreementCode string
	ReturnURL            string
	ConfirmURL           string
	StrictValidation     bool
	FormCharset          string
	RedirectDelay        time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "boleto-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             os.Getenv("MYSQL_DSN"),
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		InternalEndpoints: InternalEndpointsConfig{
			AuthGRPCAddr: os.Getenv("AUTH_SERVICE_GRPC_ADDR"),
		},
		Boleto: BoletoConfig{
			GatewayURL:           getEnv("BOLETO_GATEWAY_URL", defaultGatewayURL),
			MerchantID:           int64(getIntEnv("BOLETO_MERCHANT_ID", 0)),
			BillingAgreementCode: strings.TrimSpace(os.Getenv("BOLETO_BILLING_AGREEMENT_CODE")),
			ReturnURL:            getEnv("BOLETO_RETURN_URL", "/"),
			ConfirmURL:           getEnv("BOLETO_CONFIRM_URL", "/"),
			StrictValidation:     getBoolEnv("BOLETO_STRICT_VALIDATION", false),
			FormCharset:          getEnv("BOLETO_FORM_CHARSET", render.CharsetISO88591),
			RedirectDelay:        getSecondsEnv("BOLETO_REDIRECT_DELAY_SECONDS", 5*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Boleto.GatewayURL) == "" {
		return errors.New("BOLETO_GATEWAY_URL must not be empty")
	}
	// Aliases such as LATIN1 or UTF8 are stored under their canonical name.
	encoder, err := render.EncoderFor(c.Boleto.FormCharset)
	if err != nil {
		return fmt.Errorf("BOLETO_FORM_CHARSET must be ISO-8859-1 or UTF-8: %w", err)
	}
	c.Boleto.FormCharset = encoder.Name()
	if code := c.Boleto.BillingAgreementCode; code != "" {
		if (len(code) != 6 && len(code) != 7) || strings.Trim(code, "0123456789") != "" {
			return fmt.Errorf("BOLETO_BILLING_AGREEMENT_CODE must have 6 or 7 digits, got %q", code)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
