// Package environment loads configuration from the process environment,
// optionally seeded from a .env file, using a shared key prefix.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Prefix namespaces every variable read by the repogen tooling.
const Prefix = "REPOGEN"

// LoadPath loads variables from the .env file at p, or from ./.env when p is
// empty. A missing file is not an error; variables already set in the
// process environment win.
func LoadPath(p string) error {
	var err error
	if p != "" {
		err = godotenv.Load(p)
	} else {
		err = godotenv.Load()
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// GetEnvOrDefault returns the value of key, or fallback when it is unset.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix joins prefix and key with an underscore.
//
//	GetEnvKeyPrefix("REPOGEN", "LOG_LEVEL") // "REPOGEN_LOG_LEVEL"
//	GetEnvKeyPrefix("", "LOG_LEVEL")        // "LOG_LEVEL"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetPrefixEnvOrDefault is GetEnvOrDefault for a prefixed key.
func GetPrefixEnvOrDefault(prefix, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(prefix, key), fallback)
}
