package main

import (
	"github.com/lomoval/otus-golang/eventrsvp/internal/config"
	"github.com/lomoval/otus-golang/eventrsvp/internal/logger"
	"github.com/lomoval/otus-golang/eventrsvp/internal/rabbit"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storagebuilder"
	"github.com/spf13/viper"
)

type Config struct {
	Logger  logger.Config         `validate:"nested"`
	Storage storagebuilder.Config `validate:"nested"`
	Rabbit  rabbit.Config         `validate:"nested"`
}

func NewConfig(configFile string) (Config, error) {
	c := Config{}
	v := viper.New()

	config.SetStorageDefaults(v)
	config.SetRabbitDefaults(v)
	v.SetDefault("logger.level", "WARN")
	v.SetDefault("logger.output", "stderr")

	err := config.Load(v, configFile, config.DatabaseEnv, &c)
	return c, err
}
