package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	JWT      JWTConfig
	Firebase FirebaseConfig
	Session  SessionConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type JWTConfig struct {
	Issuer         string        `env:"JWT_ISSUER" env-default:"tasknest"`
	SigningKey     string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID" env-required:"true"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

type SessionConfig struct {
	HintDBPath           string        `env:"SESSION_HINT_DB" env-default:"tasknest_hints.db"`
	HintTTL              time.Duration `env:"SESSION_HINT_TTL" env-default:"24h"`
	DefaultCategoryName  string        `env:"DEFAULT_CATEGORY_NAME" env-default:"My Tasks"`
	DefaultCategoryColor string        `env:"DEFAULT_CATEGORY_COLOR" env-default:"#6b7280"`
}
