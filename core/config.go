package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default) | TEST | QA | PROD
		AppName  string
		Build    string

		// SecretKey is shared with the external auth provider; it verifies
		// the JWTs the provider issues.
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Stripe   StripeConfig
		Progress ProgressConfig
	}

	ServerConfig struct {
		Host            string
		Addr            string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	RedisConfig struct {
		Addr       string
		Password   string
		DB         int
		CatalogTTL time.Duration
	}

	StripeConfig struct {
		SecretKey      string
		WebhookSecret  string
		PremiumPriceID string
		SuccessURL     string
		CancelURL      string
	}

	ProgressConfig struct {
		// AnonymousRevertDelay is how long an anonymous optimistic toggle
		// stays visible before it is reverted.
		AnonymousRevertDelay time.Duration
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Configured reports whether the external store credentials are present.
// When they are not, the app degrades to an empty read-only catalog.
func (c DatabaseConfig) Configured() bool {
	return c.Host != "" && c.Name != ""
}

func (c RedisConfig) Configured() bool { return c.Addr != "" }

func (c StripeConfig) Configured() bool { return c.SecretKey != "" }

// LoadConfig reads configuration from the environment, with defaults and an
// optional config/.env.<env> file.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "PrepaClassics")
	v.SetDefault("secretKey", "2y$-prepa(cl@ssics)-dev-only-k3y!-do-not-deploy")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("redisCatalogTtl", 5*time.Minute)
	v.SetDefault("anonymousRevertDelay", 300*time.Millisecond)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		Env:             env,
		AppName:         v.GetString("appName"),
		Build:           v.GetString("build"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseUrl"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("appName"),
			Address: v.GetString("defaultFromEmail"),
		},
		SendgridAPIKey: v.GetString("sendgridApiKey"),
		RollbarToken:   v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Addr:            v.GetString("serverAddr"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("databaseEngine"),
			Host:       v.GetString("databaseHost"),
			Port:       v.GetString("databasePort"),
			Name:       v.GetString("databaseName"),
			User:       v.GetString("databaseUser"),
			Password:   v.GetString("databasePassword"),
			DisableTLS: v.GetBool("databaseDisableTls"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("redisAddr"),
			Password:   v.GetString("redisPassword"),
			DB:         v.GetInt("redisDb"),
			CatalogTTL: v.GetDuration("redisCatalogTtl"),
		},
		Stripe: StripeConfig{
			SecretKey:      v.GetString("stripeSecretKey"),
			WebhookSecret:  v.GetString("stripeWebhookSecret"),
			PremiumPriceID: v.GetString("stripePremiumPriceId"),
			SuccessURL:     v.GetString("frontendBaseUrl") + "/premium-success",
			CancelURL:      v.GetString("frontendBaseUrl") + "/premium-cancel",
		},
		Progress: ProgressConfig{
			AnonymousRevertDelay: v.GetDuration("anonymousRevertDelay"),
		},
	}
	return conf, nil
}
