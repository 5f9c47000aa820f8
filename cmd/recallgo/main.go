package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"recallgo/internal/api"
	"recallgo/pkg/audio"
	"recallgo/pkg/config"
	"recallgo/pkg/db"
	"recallgo/pkg/genmedia"
	"recallgo/pkg/itinerary"
	"recallgo/pkg/library"
	"recallgo/pkg/llm/gemini"
	"recallgo/pkg/llm/prompts"
	"recallgo/pkg/logging"
	"recallgo/pkg/premiere"
	"recallgo/pkg/probe"
	"recallgo/pkg/request"
	"recallgo/pkg/session"
	"recallgo/pkg/store"
	"recallgo/pkg/tracker"
	"recallgo/pkg/tts"
	ttsgemini "recallgo/pkg/tts/gemini"
	"recallgo/pkg/version"
)

const defaultConfigPath = "configs/recall.yaml"

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(defaultConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", defaultConfigPath)
		return
	}

	if err := run(context.Background(), defaultConfigPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Secrets may live in a local .env during development.
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log, &appCfg.History)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	logging.SetEventLogPath(appCfg.Log.Events.Path)
	if appCfg.History.TTS.Enabled {
		tts.SetLogPath(appCfg.History.TTS.Path)
	}

	slog.Info("RecallGo Started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	st := store.NewSQLiteStore(dbConn)

	tr := tracker.New()
	reqClient := request.New(st, tr)

	// One Gemini client for the whole process; every provider component
	// borrows it.
	var genaiClient *genai.Client
	if appCfg.LLM.Key != "" {
		genaiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: appCfg.LLM.Key,
		})
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
	}

	llmLogPath := ""
	if appCfg.History.LLM.Enabled {
		llmLogPath = appCfg.History.LLM.Path
	}
	llmClient := gemini.NewClient(appCfg.LLM, genaiClient, llmLogPath, tr)

	promptMgr, err := prompts.NewManager("prompts")
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	ttsProv := ttsgemini.NewProvider(appCfg.TTS, genaiClient, tr)
	generator := genmedia.New(appCfg.Video, genaiClient, reqClient, st, tr)

	audioSvc := audio.New()
	defer audioSvc.Shutdown()

	assembler := premiere.New(llmClient, ttsProv, promptMgr, appCfg.TTS.Voice)
	studio := session.NewStudio(
		library.New(),
		itinerary.New(llmClient, promptMgr, appCfg.Itinerary.DedupeRadius),
		assembler,
		audioSvc,
	)
	defer studio.Close()

	// Startup probes: the key must work or nothing downstream will.
	results := probe.Run(ctx, []probe.Probe{
		{Name: "Gemini API", Check: llmClient.HealthCheck, Critical: true},
	})
	if err := probe.AnalyzeResults(results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	return runServer(ctx, cancel, appCfg, studio, llmClient, generator, audioSvc, tr)
}

func runServer(ctx context.Context, cancel context.CancelFunc, appCfg *config.Config, studio *session.Studio, llmClient *gemini.Client, generator *genmedia.Generator, audioSvc audio.Service, tr *tracker.Tracker) error {
	server := api.NewServer(
		appCfg.Server.Address,
		api.NewConfigHandler(appCfg, audioSvc),
		api.NewStatsHandler(tr, studio),
		api.NewMediaHandler(studio, generator),
		api.NewTranscribeHandler(llmClient),
		api.NewItineraryHandler(studio),
		api.NewPremiereHandler(studio),
		api.NewPlayerHandler(studio),
		api.NewEventsHandler(studio),
		api.NewWSHandler(studio),
		cancel,
	)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Shutdown requested")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
