package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	PostgresConn  string        `yaml:"postgres_conn"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// Load builds the config from environment variables and, if path is not
// empty, overrides from a yaml file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("SERVER_ADDRESS", "0.0.0.0:8080"),
		PostgresConn:  os.Getenv("POSTGRES_CONN"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenDuration: 24 * time.Hour,
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
