package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tcfw/ccgenesis/internal/utils/logging"
)

const (
	Cfg_verbose = "verbose"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose: false,
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("ccgenesis")
	viper.AddConfigPath("/etc/ccgenesis/")
	viper.AddConfigPath("$HOME/.ccgenesis")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("CCGENESIS")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logging.Entry().Debug("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if viper.GetBool(Cfg_verbose) {
		logging.SetLevel(logrus.DebugLevel)
		logging.Entry().WithField("level", "debug").Debug("setting log level")
	}

	return build()
}

func build() (*Config, error) {
	var err error
	c := &Config{}

	c.chain, err = buildChainConfig()
	if err != nil {
		return nil, errors.Wrap(err, "chain config")
	}

	c.storage, err = buildStorageConfig()
	if err != nil {
		return nil, errors.Wrap(err, "storage config")
	}

	c.api = buildAPIConfig()

	return c, nil
}

type Config struct {
	chain   *Chain
	storage *Storage
	api     *API
}

func (c *Config) Chain() *Chain {
	return c.chain
}

func (c *Config) Storage() *Storage {
	return c.storage
}

func (c *Config) API() *API {
	return c.api
}
