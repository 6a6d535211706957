package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"sitewatch/internal/api"
	"sitewatch/internal/config"
	"sitewatch/internal/lifecycle"
	"sitewatch/internal/logging"
	"sitewatch/internal/poller"
	"sitewatch/internal/routeguard"
	"sitewatch/internal/session"
	"sitewatch/internal/session/bolt"
	"sitewatch/internal/session/memory"
	"sitewatch/internal/session/redisstore"
	"sitewatch/internal/webui"
)

func main() {
	cfg := config.Load()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("session_store_open_failed", zap.Error(err))
	}
	defer closeStore()

	engine := api.New(cfg.EngineURL, cfg.HTTPTimeout, logger)
	sessions := session.NewManager(store, engine, logger)

	guard := routeguard.New(sessions)
	logger.Info("session_resolved", zap.String("state", guard.Resolve(ctx).String()))

	p := poller.New(logger, engine, cfg.PollInterval, cfg.HTTPTimeout)
	srv := webui.NewServer(logger, sessions, guard, lifecycle.NewCoordinator(engine, engine, logger), p, engine)
	p.OnSnapshot = srv.BroadcastSnapshot
	p.OnError = srv.BroadcastError
	go p.Run(ctx)

	logger.Info("webui_listen", zap.String("addr", cfg.Addr))
	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Router(cfg.AllowedOrigins)}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("webui_serve_failed", zap.Error(err))
	}
}

func openStore(cfg config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		s := redisstore.New(cfg.RedisAddr, "sitewatch:")
		return s, func() { _ = s.Close() }, nil
	case "memory":
		return memory.New(), func() {}, nil
	default:
		s, err := bolt.Open(cfg.SessionPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
}
