// Package config collects runtime settings from flags, environment variables and defaults.
//
// Keys are flag names; the matching environment variable is the key upper-cased
// with dashes replaced by underscores (arango-url -> ARANGO_URL). Precedence is
// flag > env > default.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/baristahub/baristahub-backend/internal/notify"
	"github.com/spf13/viper"
)

// Setting keys
const (
	PortKey             = "ms-port"
	StoreBackendKey     = "store-backend"
	ArangoURLKey        = "arango-url"
	ArangoUserKey       = "arango-user"
	ArangoPassKey       = "arango-pass"
	ArangoDBKey         = "arango-db"
	JWTSecretKey        = "jwt-secret"
	JWTExpirationKey    = "jwt-expiration"
	RedisURLKey         = "redis-url"
	LoginMaxAttemptsKey = "login-max-attempts"
	LoginCooldownKey    = "login-cooldown"
	KafkaBrokersKey     = "kafka-brokers"
	KafkaTopicKey       = "kafka-topic"
	KafkaGroupIDKey     = "kafka-group-id"
	KafkaAPIKeyKey      = "kafka-api-key"
	KafkaAPISecretKey   = "kafka-api-secret"
	SMTPHostKey         = "smtp-host"
	SMTPPortKey         = "smtp-port"
	SMTPUsernameKey     = "smtp-username"
	SMTPPasswordKey     = "smtp-password"
	SMTPFromEmailKey    = "smtp-from-email"
	SMTPFromNameKey     = "smtp-from-name"
	BaseURLKey          = "base-url"
	AdminSeedFileKey    = "admin-seed-file"
	AllowOriginsKey     = "allow-origins"
	APIURLKey           = "baristahub-api-url"
	RequestTimeoutKey   = "request-timeout"
)

// Store backends
const (
	BackendArango = "arango"
	BackendMemory = "memory"
)

// Config is the resolved server configuration
type Config struct {
	Port         string
	StoreBackend string

	ArangoURL  string
	ArangoUser string
	ArangoPass string
	ArangoDB   string

	JWTSecret     string
	JWTExpiration time.Duration

	RedisURL         string
	LoginMaxAttempts int
	LoginCooldown    time.Duration

	KafkaBrokers   []string
	KafkaTopic     string
	KafkaGroupID   string
	KafkaAPIKey    string
	KafkaAPISecret string

	Email notify.EmailConfig

	AdminSeedFile string
	AllowOrigins  string
}

// New returns a viper instance with defaults and environment lookup wired
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(PortKey, "8080")
	v.SetDefault(StoreBackendKey, BackendArango)
	v.SetDefault(ArangoURLKey, "http://localhost:8529")
	v.SetDefault(ArangoUserKey, "root")
	v.SetDefault(ArangoPassKey, "")
	v.SetDefault(ArangoDBKey, "baristahub")
	v.SetDefault(JWTSecretKey, "")
	v.SetDefault(JWTExpirationKey, 24*time.Hour)
	v.SetDefault(RedisURLKey, "")
	v.SetDefault(LoginMaxAttemptsKey, 5)
	v.SetDefault(LoginCooldownKey, 15*time.Minute)
	v.SetDefault(KafkaBrokersKey, "")
	v.SetDefault(KafkaTopicKey, "application-events")
	v.SetDefault(KafkaGroupIDKey, "baristahub-backend-worker")
	v.SetDefault(KafkaAPIKeyKey, "")
	v.SetDefault(KafkaAPISecretKey, "")
	v.SetDefault(SMTPHostKey, "smtp.gmail.com")
	v.SetDefault(SMTPPortKey, "587")
	v.SetDefault(SMTPUsernameKey, "")
	v.SetDefault(SMTPPasswordKey, "")
	v.SetDefault(SMTPFromEmailKey, "noreply@baristahub.local")
	v.SetDefault(SMTPFromNameKey, "BaristaHub")
	v.SetDefault(BaseURLKey, "http://localhost:3000")
	v.SetDefault(AdminSeedFileKey, "")
	v.SetDefault(AllowOriginsKey, "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault(APIURLKey, "http://localhost:8080")
	v.SetDefault(RequestTimeoutKey, 10*time.Second)
}

// Load resolves and validates the server configuration
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString(PortKey),
		StoreBackend:     strings.ToLower(v.GetString(StoreBackendKey)),
		ArangoURL:        v.GetString(ArangoURLKey),
		ArangoUser:       v.GetString(ArangoUserKey),
		ArangoPass:       v.GetString(ArangoPassKey),
		ArangoDB:         v.GetString(ArangoDBKey),
		JWTSecret:        v.GetString(JWTSecretKey),
		JWTExpiration:    v.GetDuration(JWTExpirationKey),
		RedisURL:         v.GetString(RedisURLKey),
		LoginMaxAttempts: v.GetInt(LoginMaxAttemptsKey),
		LoginCooldown:    v.GetDuration(LoginCooldownKey),
		KafkaBrokers:     SplitList(v.GetString(KafkaBrokersKey)),
		KafkaTopic:       v.GetString(KafkaTopicKey),
		KafkaGroupID:     v.GetString(KafkaGroupIDKey),
		KafkaAPIKey:      v.GetString(KafkaAPIKeyKey),
		KafkaAPISecret:   v.GetString(KafkaAPISecretKey),
		Email: notify.EmailConfig{
			SMTPHost:     v.GetString(SMTPHostKey),
			SMTPPort:     v.GetString(SMTPPortKey),
			SMTPUsername: v.GetString(SMTPUsernameKey),
			SMTPPassword: v.GetString(SMTPPasswordKey),
			FromEmail:    v.GetString(SMTPFromEmailKey),
			FromName:     v.GetString(SMTPFromNameKey),
			BaseURL:      strings.TrimRight(v.GetString(BaseURLKey), "/"),
		},
		AdminSeedFile: v.GetString(AdminSeedFileKey),
		AllowOrigins:  v.GetString(AllowOriginsKey),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%s must be set", envName(JWTSecretKey))
	}
	if cfg.StoreBackend != BackendArango && cfg.StoreBackend != BackendMemory {
		return nil, fmt.Errorf("%s must be %q or %q, got %q", envName(StoreBackendKey), BackendArango, BackendMemory, cfg.StoreBackend)
	}
	if cfg.LoginMaxAttempts < 1 {
		return nil, fmt.Errorf("%s must be at least 1", envName(LoginMaxAttemptsKey))
	}
	if cfg.LoginCooldown <= 0 || cfg.JWTExpiration <= 0 {
		return nil, fmt.Errorf("%s and %s must be positive durations", envName(LoginCooldownKey), envName(JWTExpirationKey))
	}
	return cfg, nil
}

// SplitList splits a comma separated setting, dropping blanks
func SplitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
