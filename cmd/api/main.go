package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	scenarioapi "dcf_valuation/pkg/api/scenario"
	valuationapi "dcf_valuation/pkg/api/valuation"
	"dcf_valuation/pkg/core/config"
	"dcf_valuation/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	cfg, err := config.Load("config/server.yaml")
	if err != nil {
		log.WithField("error", err).Fatal("failed to load config")
	}

	// Persistence is optional: without DATABASE_URL the API still serves
	// valuations, it just cannot save scenarios or runs.
	var runs *store.RunRepo
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		log.WithField("error", err).Warn("running without persistence")
	} else {
		defer store.Close()
		runs = store.NewRunRepo()

		scenarioHandler := scenarioapi.NewHandler(log, store.NewScenarioRepo())
		http.HandleFunc("/api/scenarios", scenarioHandler.HandleScenarios)
		http.HandleFunc("/api/scenarios/get", scenarioHandler.HandleGet)
	}

	valuationHandler := valuationapi.NewHandler(log, runs)
	http.HandleFunc("/api/valuation/run", valuationHandler.HandleRun)
	http.HandleFunc("/api/valuation/sensitivity", valuationHandler.HandleSensitivity)
	http.HandleFunc("/api/valuation/wacc", valuationHandler.HandleWACC)
	http.HandleFunc("/api/valuation/report", valuationHandler.HandleReport)
	http.HandleFunc("/api/valuation/export", valuationHandler.HandleExport)

	log.WithField("addr", cfg.Addr).Info("DCF valuation API listening")
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.WithField("error", err).Fatal("server stopped")
	}
}
