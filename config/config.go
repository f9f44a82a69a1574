// Package config reads the vaultd configuration file.
package config

import (
	"io/ioutil"
	"os"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events/amqp"
	"github.com/iov-one/vault/events/audit"
	"github.com/iov-one/vault/events/redis"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file inside the vault home.
const FileName = "config.yaml"

// Config is the content of config.yaml.
type Config struct {
	// LogLevel is one of debug, info, error or none.
	LogLevel string `yaml:"log_level"`
	Events   Events `yaml:"events"`
}

// Events selects the sinks committed events are published to. A nil
// section disables the sink.
type Events struct {
	Log   bool          `yaml:"log"`
	AMQP  *amqp.Config  `yaml:"amqp"`
	Redis *redis.Config `yaml:"redis"`
	Audit *audit.Config `yaml:"audit"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Events:   Events{Log: true},
	}
}

// Load reads the file at path. A missing file yields Default. Keys absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := ioutil.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return cfg, errors.Wrapf(errors.ErrInvalidConfiguration, "read %s: %s", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrInvalidConfiguration, "parse %s: %s", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Validate checks all values that can be checked without connecting.
func (c Config) Validate() error {
	var errs error
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.AppendField(errs, "LogLevel", errors.Wrap(errors.ErrInvalidInput, err.Error()))
	}
	if c.Events.AMQP != nil && c.Events.AMQP.URL == "" {
		errs = errors.AppendField(errs, "Events.AMQP.URL", errors.ErrEmpty)
	}
	if c.Events.Redis != nil && c.Events.Redis.Address == "" {
		errs = errors.AppendField(errs, "Events.Redis.Address", errors.ErrEmpty)
	}
	if a := c.Events.Audit; a != nil {
		if a.Driver != "sqlite3" && a.Driver != "mysql" {
			errs = errors.AppendField(errs, "Events.Audit.Driver", errors.ErrInvalidInput.Newf("unsupported driver %q", a.Driver))
		}
		if a.DSN == "" {
			errs = errors.AppendField(errs, "Events.Audit.DSN", errors.ErrEmpty)
		}
	}
	if errs != nil {
		return errors.Wrap(errors.ErrInvalidConfiguration, errs.Error())
	}
	return nil
}

// Write stores the configuration at path.
func Write(path string, c Config) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}
	if err := ioutil.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInvalidConfiguration, "write %s: %s", path, err)
	}
	return nil
}
