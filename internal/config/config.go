package config

import (
	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string `env:"PORT,default=5000"`
	DSN            string `env:"DSN,default=postgres://localhost:5432/community?sslmode=disable"`
	UploadDir      string `env:"UPLOAD_DIR,default=uploads"`
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	LogFile        string `env:"LOG_FILE"`

	EmailJSServiceID  string `env:"EMAILJS_SERVICE_ID"`
	EmailJSTemplateID string `env:"EMAILJS_TEMPLATE_ID"`
	EmailJSPublicKey  string `env:"EMAILJS_PUBLIC_KEY"`
}

// Load reads an optional .env file and then unmarshals the environment into
// a Config. A missing .env file is not an error; deployments set real
// environment variables instead.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
