package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/app"
	"github.com/lomoval/otus-golang/eventrsvp/internal/auth"
	"github.com/lomoval/otus-golang/eventrsvp/internal/config"
	"github.com/lomoval/otus-golang/eventrsvp/internal/logger"
	internalgrpc "github.com/lomoval/otus-golang/eventrsvp/internal/server/grpc"
	internalhttp "github.com/lomoval/otus-golang/eventrsvp/internal/server/http"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storagebuilder"
	log "github.com/sirupsen/logrus"
)

const stopTimeout = 3 * time.Second

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/config.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	cfg, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	err = logger.PrepareLogger(cfg.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	ttl, err := auth.ParseTTL(cfg.Auth.TokenTTL)
	if err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	stor, err := storagebuilder.New(cfg.Storage)
	if err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	verifier, err := auth.NewVerifier(cfg.Auth, stor)
	if err != nil {
		closeStorage(stor)
		log.Errorf("failed to start %v", err)
		os.Exit(1) //nolint:gocritic
	}

	events := app.New(stor, app.WithAuth(verifier, auth.NewTokenIssuer(cfg.Auth.Secret, ttl)))
	httpServer := internalhttp.NewServer(cfg.HTTPServer, events)
	grpcServer := internalgrpc.NewServer(cfg.GrpcServer, events)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()

		if err := httpServer.Stop(ctx); err != nil {
			log.Error("failed to stop http server: " + err.Error())
		}
		if err := grpcServer.Stop(ctx); err != nil {
			log.Error("failed to stop grpc server: " + err.Error())
		}
	}()

	go func() {
		if err := grpcServer.Start(ctx); err != nil {
			log.Error("failed to start grpc server: " + err.Error())
			cancel()
		}
	}()

	log.Info("events service is running...")

	if err := httpServer.Start(ctx); err != nil {
		log.Error("failed to start http server: " + err.Error())
		cancel()
		closeStorage(stor)
		os.Exit(1)
	}
	closeStorage(stor)
}

func closeStorage(stor interface{ Close(context.Context) error }) {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := stor.Close(ctx); err != nil {
		log.Errorf("failed to close storage: %v", err)
	}
}
