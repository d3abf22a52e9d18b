package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shopassist/internal/catalog"
	"shopassist/internal/config"
	"shopassist/internal/gateway"
	"shopassist/internal/logger"
	"shopassist/internal/policy"
	"shopassist/internal/provider"
	"shopassist/internal/server"
	"shopassist/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(env.Log); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().With().Str("component", "main").Logger()

	settings, err := config.LoadSettings(env.ConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Providers are constructed once at startup. A missing credential means
	// the matching features run on their deterministic path for the life of
	// the process; no call-then-discover.
	var chatModel provider.ConversationalModel
	if env.GeminiAPIKey != "" {
		chatModel = provider.NewGeminiClient(provider.GeminiConfig{
			APIKey:          env.GeminiAPIKey,
			BaseURL:         settings.Providers.Gemini.BaseURL,
			Model:           settings.Providers.Gemini.Model,
			MaxOutputTokens: settings.Providers.Gemini.MaxOutputTokens,
			Temperature:     settings.Providers.Gemini.Temperature,
		})
	} else {
		log.Info().Msg("GEMINI_API_KEY not set, chat and describe use fallback path")
	}

	var completer provider.CompletionModel
	if env.OpenAIAPIKey != "" || settings.Providers.Completion.Backend == "ollama" {
		completer, err = provider.NewCompletionModel(ctx, provider.CompletionConfig{
			Backend:     settings.Providers.Completion.Backend,
			APIKey:      env.OpenAIAPIKey,
			BaseURL:     settings.Providers.Completion.BaseURL,
			Model:       settings.Providers.Completion.Model,
			MaxTokens:   settings.Providers.Completion.MaxTokens,
			Temperature: settings.Providers.Completion.Temperature,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create completion model")
		}
	} else {
		log.Info().Msg("OPENAI_API_KEY not set, recommend, search and sentiment use fallback path")
	}

	engine := policy.NewEngine(logger.Get().With().Str("component", "policy").Logger(), policy.Config{
		Timeouts: map[policy.Feature]time.Duration{
			policy.FeatureChat:      time.Duration(settings.Timeouts.ChatSecs) * time.Second,
			policy.FeatureRecommend: time.Duration(settings.Timeouts.RecommendSecs) * time.Second,
			policy.FeatureSearch:    time.Duration(settings.Timeouts.SearchSecs) * time.Second,
			policy.FeatureDescribe:  time.Duration(settings.Timeouts.DescribeSecs) * time.Second,
			policy.FeatureSentiment: time.Duration(settings.Timeouts.SentimentSecs) * time.Second,
		},
		Credentials: map[policy.Feature]bool{
			policy.FeatureChat:      chatModel != nil,
			policy.FeatureDescribe:  chatModel != nil,
			policy.FeatureRecommend: completer != nil,
			policy.FeatureSearch:    completer != nil,
			policy.FeatureSentiment: completer != nil,
		},
	})

	gw := gateway.New(
		logger.Get().With().Str("component", "gateway").Logger(),
		engine, chatModel, completer, settings,
	)

	cat := catalog.Seed()
	if env.CatalogPath != "" {
		cat, err = catalog.LoadFile(env.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", env.CatalogPath).Msg("failed to load catalog")
		}
	}
	log.Info().Int("products", cat.Len()).Msg("catalog loaded")

	var sessions *session.Store
	if env.RedisURL != "" {
		sessions, err = session.NewStore(ctx, session.Config{
			RedisURL: env.RedisURL,
			MaxTurns: settings.Chat.MaxHistoryTurns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to session store")
		}
		defer sessions.Close()
	} else {
		log.Info().Msg("REDIS_URL not set, chat sessions are caller-managed")
	}

	srv := server.New(logger.Get().With().Str("component", "server").Logger(), gw, cat, sessions)
	httpServer := &http.Server{
		Addr:         env.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", env.ListenAddr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
