package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hotel-ops/auth"
	"hotel-ops/config"
	"hotel-ops/controllers"
	"hotel-ops/routes"
	"hotel-ops/services"
)

func main() {
	cfg, notes, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}
	log := config.NewLogger(cfg.Log, os.Stdout)
	for _, note := range notes {
		log.Warn().Msg(note)
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	log.Info().Msg("database connection established and migrations applied")

	tokens, err := auth.NewTokens(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}

	var revoker auth.Revoker = auth.NopRevoker{}
	rdb, err := config.ConnectRedis(context.Background(), cfg.Redis)
	switch {
	case err != nil:
		log.Fatal().Err(err).Msg("redis connect failed")
	case rdb != nil:
		revoker = auth.NewRedisRevoker(rdb)
		defer rdb.Close()
	default:
		log.Warn().Msg("REDIS_URL not set; logout will not revoke tokens")
	}

	billing := services.NewBillingService(db, log)
	authSvc, err := services.NewAuthService(db, tokens, revoker, log)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service")
	}

	ctl := routes.Controllers{
		Auth:         controllers.NewAuthController(authSvc),
		Users:        controllers.NewUserController(services.NewUserService(db, log)),
		Rooms:        controllers.NewRoomController(services.NewRoomService(db, log)),
		Guests:       controllers.NewGuestController(services.NewGuestService(db, log)),
		Reservations: controllers.NewReservationController(services.NewReservationService(db, billing, log), billing),
		Bills:        controllers.NewBillController(billing),
	}
	router := routes.SetupRouter(ctl, authSvc, cfg.Server.CorsOrigins, log)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
