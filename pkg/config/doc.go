// Package config loads configuration structs from environment variables.
//
// It combines github.com/joho/godotenv, which reads .env files into the
// process environment, with github.com/caarlos0/env/v11, which maps
// variables onto struct fields through `env` and `envDefault` tags.
//
// Load caches the parsed value per type, so packages can ask for their
// configuration wherever they need it without parsing twice:
//
//	var cfg verify.Config
//	config.MustLoad(&cfg)
//	reg := verify.NewRegistry(verify.WithConfig(cfg))
//
// Parse skips the cache, and ResetCache clears it in tests.
package config
