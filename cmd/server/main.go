package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinstore/config"
	"coinstore/internal/database"
	"coinstore/internal/events"
	"coinstore/internal/logger"
	"coinstore/internal/router"
	"coinstore/internal/service"
	"coinstore/pkg/cloudinary"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(os.Getenv("COINSTORE_CONFIG"))
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(&cfg.Log)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	if err := database.SeedAdmin(db, &cfg.Admin, log); err != nil {
		log.WithError(err).Fatal("seed admin")
	}

	deps := router.Deps{Log: log, Publisher: events.New(&cfg.AMQP, log)}
	defer deps.Publisher.Close()

	if cfg.Cloudinary.Enabled() {
		cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.WithError(err).Fatal("cloudinary")
		}
		deps.Cloud = cloud
	} else {
		log.Info("receipt uploads disabled: cloudinary credentials not set")
	}
	if fcm := service.NewFCMService(cfg.Firebase.ServiceAccountPath, log); fcm != nil {
		deps.Push = fcm
	}

	server := router.Setup(cfg, db, deps)
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Reconcile.Interval > 0 {
		go server.Reconciler.Run(ctx, cfg.Reconcile.Interval)
	} else {
		log.Info("balance reconciler disabled: reconcile.interval is 0")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}
