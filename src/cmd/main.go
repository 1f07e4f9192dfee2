package main

import (
	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/logger"
	"customer-dashboard-svc/src/internal/server"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

func main() {
	cfg := config.Load()
	logger.Init(cfg)

	log.Infof("Application %s is starting....", cfg.App.Name)

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		log.WithError(err).Fatal("Error starting server")
	}
}
