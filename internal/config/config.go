package config

import (
	"encoding/hex"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port           int    `env:"PORT" envDefault:"3000"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	RedisURL       string `env:"REDIS_URL,required"`
	CipherKey      string `env:"CIPHER_KEY,required"`
	CipherIV       string `env:"CIPHER_IV,required"`
	ChatAPIKey     string `env:"CHAT_API_KEY,required"`
	ChatAPIBaseURL string `env:"CHAT_API_BASE_URL" envDefault:"https://api.openai.com"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks the cipher material up front. A wrong-length key or IV
// must abort startup rather than surface as per-request failures.
func (c *Config) Validate() error {
	key, err := hex.DecodeString(c.CipherKey)
	if err != nil {
		return fmt.Errorf("CIPHER_KEY is not valid hex: %w", err)
	}
	if len(key) != CipherKeyBytes {
		return fmt.Errorf("CIPHER_KEY must be %d bytes (%d hex chars), got %d bytes",
			CipherKeyBytes, CipherKeyBytes*2, len(key))
	}

	iv, err := hex.DecodeString(c.CipherIV)
	if err != nil {
		return fmt.Errorf("CIPHER_IV is not valid hex: %w", err)
	}
	if len(iv) != CipherIVBytes {
		return fmt.Errorf("CIPHER_IV must be %d bytes (%d hex chars), got %d bytes",
			CipherIVBytes, CipherIVBytes*2, len(iv))
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
