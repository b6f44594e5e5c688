package main

import (
	"github.com/lomoval/otus-golang/eventrsvp/internal/config"
	"github.com/lomoval/otus-golang/eventrsvp/internal/logger"
	"github.com/lomoval/otus-golang/eventrsvp/internal/rabbit"
	"github.com/spf13/viper"
)

type Config struct {
	Logger logger.Config `validate:"nested"`
	Rabbit rabbit.Config `validate:"nested"`
}

func NewConfig(configFile string) (Config, error) {
	c := Config{}
	v := viper.New()

	config.SetRabbitDefaults(v)
	v.SetDefault("logger.level", "INFO")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")

	err := config.Load(v, configFile, nil, &c)
	return c, err
}
