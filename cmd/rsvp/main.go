package main

import (
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			log.Error(err)
		}
		os.Exit(1)
	}
}
