package main

import (
	"context"
	"coursell/backend/internal/bootstrap"
	"coursell/backend/internal/config"
	"coursell/backend/internal/logger"
	"coursell/backend/internal/service"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}

	store, err := bootstrap.OpenStore(cfg.Database, appLog)
	if err != nil {
		appLog.Fatal("could not open repositories", zap.Error(err))
	}

	tokens := service.NewTokenService(service.TokenConfig{
		UserSecret:  cfg.JWT.UserSecret,
		AdminSecret: cfg.JWT.AdminSecret,
		Issuer:      cfg.JWT.Issuer,
	})
	cli := commandLine{
		adminSvc: service.NewAdminService(store.Admins, tokens),
		out:      os.Stdout,
	}

	err = cli.run(context.Background(), os.Args)
	store.Close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			appLog.Error("admin command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
