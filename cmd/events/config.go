package main

import (
	"github.com/lomoval/otus-golang/eventrsvp/internal/auth"
	"github.com/lomoval/otus-golang/eventrsvp/internal/config"
	"github.com/lomoval/otus-golang/eventrsvp/internal/logger"
	internalgrpc "github.com/lomoval/otus-golang/eventrsvp/internal/server/grpc"
	internalhttp "github.com/lomoval/otus-golang/eventrsvp/internal/server/http"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storagebuilder"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPServer internalhttp.Config   `validate:"nested"`
	GrpcServer internalgrpc.Config   `validate:"nested"`
	Logger     logger.Config         `validate:"nested"`
	Storage    storagebuilder.Config `validate:"nested"`
	Auth       auth.Config           `validate:"nested"`
}

func NewConfig(configFile string) (Config, error) {
	c := Config{}
	v := viper.New()

	v.SetDefault("httpServer.host", "127.0.0.1")
	v.SetDefault("httpServer.port", "5000")
	v.SetDefault("grpcServer.host", "127.0.0.1")
	v.SetDefault("grpcServer.port", "5001")
	v.SetDefault("grpcServer.pingInterval", "10s")
	v.SetDefault("auth.mode", auth.ModeStatic)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "admin")
	v.SetDefault("auth.tokenTTL", auth.DefaultTokenTTL.String())
	config.SetStorageDefaults(v)

	env := map[string]string{"auth.secret": config.SecretEnv}
	for key, name := range config.DatabaseEnv {
		env[key] = name
	}
	err := config.Load(v, configFile, env, &c)
	return c, err
}
