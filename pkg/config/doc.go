// Package config provides a type-safe, cached loader for application
// configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// values come from an optional .env file plus the process environment, are
// parsed into annotated structs, and each configuration type is parsed at
// most once per process lifetime.
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	config.MustLoad(&cfg)
//
// Use ResetCache between tests that change the environment.
package config
