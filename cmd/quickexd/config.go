package main

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/quickex/errors"
	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Config is the node configuration stored in the home directory.
type Config struct {
	// DB is the path of the state database. Relative paths are resolved
	// against the home directory.
	DB string `yaml:"db"`
	// Journal is the path of the event journal. An empty value disables
	// the journal.
	Journal string `yaml:"journal"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{
		DB:       filepath.Join("data", "state.db"),
		Journal:  filepath.Join("data", "events.db"),
		LogLevel: "info",
	}
}

// LoadConfig reads the configuration from the home directory. Missing
// attributes are set to their default values.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	raw, err := ioutil.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return conf, errors.Wrapf(errors.ErrNotFound, "no configuration in %q, run init first", home)
		}
		return conf, errors.Wrap(err, "read configuration")
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "configuration: %s", err)
	}
	return conf, nil
}

// WriteConfig stores the configuration in the home directory.
func WriteConfig(home string, conf Config) error {
	raw, err := yaml.Marshal(&conf)
	if err != nil {
		return errors.Wrap(err, "serialize configuration")
	}
	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(err, "create home directory")
	}
	return ioutil.WriteFile(filepath.Join(home, configFile), raw, 0600)
}

// resolve returns path relative to home unless it is absolute.
func resolve(home, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}
