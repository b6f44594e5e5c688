package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lomoval/otus-golang/eventrsvp/internal/validator"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const EnvPrefix = "$env:"

const SecretEnv = "JWT_SECRET_KEY"

// DatabaseEnv maps storage keys to the process environment variables
// describing the database.
var DatabaseEnv = map[string]string{
	"storage.database.driver":   "DB_DRIVER",
	"storage.database.host":     "DB_HOST",
	"storage.database.port":     "DB_PORT",
	"storage.database.username": "DB_USER",
	"storage.database.password": "DB_PASSWORD",
	"storage.database.database": "DB_NAME",
}

// LoadDotEnv loads variables from the given files (".env" when none given)
// without overriding the ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %q: %w", f, err)
		}
	}
	return nil
}

// SetStorageDefaults sets the defaults shared by binaries working with storage.
func SetStorageDefaults(v *viper.Viper) {
	v.SetDefault("storage.storageType", "sql")
	v.SetDefault("storage.database.driver", "mysql")
	v.SetDefault("storage.database.host", "127.0.0.1")
	v.SetDefault("storage.database.database", "events")
	v.SetDefault("logger.level", "INFO")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")
}

// SetRabbitDefaults sets the notification queue defaults.
func SetRabbitDefaults(v *viper.Viper) {
	v.SetDefault("rabbit.enabled", false)
	v.SetDefault("rabbit.host", "127.0.0.1")
	v.SetDefault("rabbit.port", 5672)
	v.SetDefault("rabbit.user", "guest")
	v.SetDefault("rabbit.password", "guest")
	v.SetDefault("rabbit.queue", "rsvp.notify")
}

// Load fills out from the config file (skipped when empty or missing),
// "$env:NAME" references in it and the explicit env bindings, then
// validates the result.
func Load(v *viper.Viper, configFile string, env map[string]string, out interface{}) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read config %q: %w", configFile, err)
			}
			log.Warnf("config file %q is not found, using defaults and environment", configFile)
		}
	}

	refs := make(map[string]string)
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, EnvPrefix) {
			refs[key] = value[len(EnvPrefix):]
		}
	}
	for key, name := range refs {
		if err := v.BindEnv(key, name); err != nil {
			return fmt.Errorf("failed to prepare config: %w", err)
		}
	}
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return fmt.Errorf("failed to prepare config: %w", err)
		}
	}
	// Unset references must not leak into values.
	for key, name := range refs {
		if _, ok := os.LookupEnv(name); !ok && strings.HasPrefix(v.GetString(key), EnvPrefix) {
			v.Set(key, "")
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}
	if err := validator.Validate(out); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
