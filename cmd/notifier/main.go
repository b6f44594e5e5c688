package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lomoval/otus-golang/eventrsvp/internal/config"
	"github.com/lomoval/otus-golang/eventrsvp/internal/logger"
	"github.com/lomoval/otus-golang/eventrsvp/internal/rabbit"
	log "github.com/sirupsen/logrus"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/notifier.yaml", "Path to configuration file")
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

	r := rabbit.New(cfg.Rabbit)
	if err := r.Connect(); err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	defer r.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	log.Infof("waiting for notifications from %s", r.Address())
	if err := r.Consume(ctx, handle); err != nil {
		log.Errorf("failed to consume notifications: %v", err)
	}
}
