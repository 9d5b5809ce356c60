package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name in the Config env tags.
const EnvPrefix = "BOOKSTORE_"

// dotenvLoad is a seam for tests.
var dotenvLoad = godotenv.Load

// parseEnv overlays BOOKSTORE_* variables onto config. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment take precedence over it. Unset variables leave the
// current values untouched. Malformed values panic, like a broken JSON file.
func parseEnv(config *Config) {
	_ = dotenvLoad()

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
