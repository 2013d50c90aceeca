package main

import (
	"log/slog"
	"os"

	"github.com/Cyberod/Taskify-Backend/config"
	"github.com/Cyberod/Taskify-Backend/mailer"
	"github.com/Cyberod/Taskify-Backend/models"
	"github.com/Cyberod/Taskify-Backend/routes"
	"github.com/Cyberod/Taskify-Backend/services"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()

	db, err := config.ConnectDB(cfg.DBDSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.EmailCode{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectInvite{},
		&models.Task{},
	); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	var notifier services.Notifier
	if cfg.Email.ResendAPIKey != "" || cfg.Email.SMTPEnabled {
		notifier = mailer.New(cfg.Email, logger)
	} else {
		notifier = mailer.LogOnly{Logger: logger}
	}

	r := routes.SetupRouter(db, cfg, notifier, services.NewClock(), logger)

	logger.Info("listening", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
