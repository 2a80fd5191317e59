package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/patrimonio-cl/console-activos/internal/application/assets"
	"github.com/patrimonio-cl/console-activos/internal/application/session"
	"github.com/patrimonio-cl/console-activos/internal/infrastructure/api"
	"github.com/patrimonio-cl/console-activos/internal/infrastructure/store"
	"github.com/patrimonio-cl/console-activos/pkg/config"
	"github.com/patrimonio-cl/console-activos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando consola")

	prefs, err := store.OpenPreferences(cfg.Store.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento local")
	}
	defer prefs.Close()

	client := api.New(api.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		DownloadDir: cfg.API.DownloadDir,
		Logger:      log,
	})

	credentials := store.NewCredentialFile(cfg.Store.DataDir)
	sess := session.NewManager(api.NewAuthService(client), credentials, log)
	client.UseTokens(sess)

	engine := assets.NewEngine(api.NewAssetService(client), sess, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Session.Email != "" {
		user, err := sess.Login(ctx, cfg.Session.Email, cfg.Session.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("login inicial")
		}
		log.Info().Str("user", user.Name).Str("role", user.Role).Msg("operador autenticado")
	} else if !sess.Authenticated() {
		log.Warn().Msg("sin credencial persistida ni SESSION_EMAIL; la consola parte sin sesión")
	}

	// Calentar el catálogo de motivos si hay sesión.
	if sess.Authenticated() {
		if cat, err := engine.ReasonCodes(ctx); err != nil {
			log.Warn().Err(err).Msg("no se pudo traer el catálogo de motivos")
		} else {
			log.Info().
				Int("transfer", len(cat.Transfer)).
				Int("status_change", len(cat.StatusChange)).
				Int("restore", len(cat.Restore)).
				Msg("catálogo de motivos cargado")
		}
	}

	go sess.KeepAlive(ctx, cfg.Session.RefreshInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando consola...")
	cancel()
	log.Info().Msg("consola detenida")
}
