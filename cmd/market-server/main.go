package main

import (
	"context"
	"net/http"
	"time"

	appsession "smp-market/internal/app/session"
	"smp-market/internal/config"
	"smp-market/internal/logging"
	"smp-market/internal/scheduler"
	"smp-market/internal/store"
	httptransport "smp-market/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	appCfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(appCfg.Log)
	cfg := appCfg.Server

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	if cfg.SessionSchedulerEnabled {
		sched, err := scheduler.NewSessionScheduler(appsession.NewService(st), cfg.SessionCron, cfg.DefaultSessionFee)
		if err != nil {
			log.Fatal().Err(err).Str("spec", cfg.SessionCron).Msg("bad session cron spec")
		}
		sched.EnsureToday(context.Background())
		sched.Start()
		defer sched.Stop()
	}

	r := httptransport.NewRouter(st, cfg)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
