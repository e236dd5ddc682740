package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"talktalk/internal/ai"
	"talktalk/internal/audio"
	"talktalk/internal/config"
	"talktalk/internal/database"
	"talktalk/internal/handlers"
	"talktalk/internal/repository"
	"talktalk/internal/security"
	"talktalk/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env if present; real env vars win
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, AI routes will fail")
	}

	store, results, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer cleanup()

	log.Printf("Progress store ready (type: %s)", cfg.StoreType)

	// AI clients
	aiClient := ai.New(cfg.OpenAIAPIKey,
		ai.WithBaseURL(cfg.OpenAIBaseURL),
		ai.WithModel(cfg.ChatModel),
		ai.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	transcriber := audio.NewTranscriber(cfg.OpenAIAPIKey, audio.WithTranscriberBaseURL(cfg.OpenAIBaseURL))
	synthesizer := audio.NewSynthesizer(cfg.OpenAIAPIKey, audio.WithSynthesizerBaseURL(cfg.OpenAIBaseURL))

	// Services
	chatService := service.NewChatService(aiClient, cfg.ChatModel)
	grammarService := service.NewGrammarService(aiClient, cfg.AnalysisModel, cfg.ChatModel, store)
	speakingService := service.NewSpeakingService(aiClient, cfg.AnalysisModel)
	toeicService := service.NewToeicService(aiClient, cfg.AnalysisModel, service.Fallback)
	progressService := service.NewProgressService(store, results)
	gameService := service.NewGameService()

	// Handlers
	chatHandler := handlers.NewChatHandler(chatService)
	grammarHandler := handlers.NewGrammarHandler(grammarService)
	speakingHandler := handlers.NewSpeakingHandler(speakingService)
	speechHandler := handlers.NewSpeechHandler(transcriber, synthesizer, cfg.UploadMaxSize)
	toeicHandler := handlers.NewToeicHandler(toeicService)
	progressHandler := handlers.NewProgressHandler(progressService)
	gameHandler := handlers.NewGameHandler(gameService)

	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)

	// Routes
	mux := http.NewServeMux()

	// AI-backed routes, rate limited per client IP
	mux.HandleFunc("POST /api/chat", handlers.RateLimit(limiter, chatHandler.Chat))
	mux.HandleFunc("POST /api/chat/role-play", handlers.RateLimit(limiter, chatHandler.RolePlay))
	mux.HandleFunc("POST /api/grammar", handlers.RateLimit(limiter, grammarHandler.Analyze))
	mux.HandleFunc("POST /api/grammar/follow-up", handlers.RateLimit(limiter, grammarHandler.FollowUp))
	mux.HandleFunc("POST /api/grammar/suggest-questions", handlers.RateLimit(limiter, grammarHandler.SuggestQuestions))
	mux.HandleFunc("POST /api/grammar/translate-explanation", handlers.RateLimit(limiter, grammarHandler.TranslateExplanation))
	mux.HandleFunc("POST /api/practice-speaking/question", handlers.RateLimit(limiter, speakingHandler.Question))
	mux.HandleFunc("POST /api/practice-speaking/evaluate", handlers.RateLimit(limiter, speakingHandler.Evaluate))
	mux.HandleFunc("POST /api/speech-to-text", handlers.RateLimit(limiter, speechHandler.SpeechToText))
	mux.HandleFunc("POST /api/text-to-speech", handlers.RateLimit(limiter, speechHandler.TextToSpeech))
	mux.HandleFunc("POST /api/toeic-practice/generate", handlers.RateLimit(limiter, toeicHandler.Generate))

	// Progress, settings and results
	mux.HandleFunc("GET /api/progress", progressHandler.Status)
	mux.HandleFunc("POST /api/progress/practice", progressHandler.RecordPractice)
	mux.HandleFunc("GET /api/topic/today", progressHandler.TodayTopic)
	mux.HandleFunc("GET /api/grammar/recent", grammarHandler.Recent)
	mux.HandleFunc("POST /api/results", progressHandler.SaveResult)
	mux.HandleFunc("GET /api/results", progressHandler.RecentResults)
	mux.HandleFunc("GET /api/settings/voice", progressHandler.VoiceSetting)
	mux.HandleFunc("POST /api/settings/voice", progressHandler.UpdateVoiceSetting)

	// Practice game sessions
	mux.HandleFunc("POST /api/game/session", gameHandler.CreateSession)
	mux.HandleFunc("GET /api/game/session/{id}", gameHandler.GetSession)
	mux.HandleFunc("POST /api/game/session/{id}/answer", gameHandler.SubmitAnswer)
	mux.HandleFunc("POST /api/game/session/{id}/reset", gameHandler.ResetSession)

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
		// Write timeout stays generous so chat streams are not cut off.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// buildStore creates the key/value store and result log for the configured
// backend. The returned cleanup closes any underlying connection.
func buildStore(cfg *config.Config) (repository.Store, repository.ResultLog, func(), error) {
	switch strings.ToLower(cfg.StoreType) {
	case "memory":
		return repository.NewMemoryStore(), repository.NewMemoryResultLog(), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, nil, err
		}
		store := repository.NewRedisStore(client, repository.WithPrefix("talktalk"))
		return store, repository.NewMemoryResultLog(), func() { client.Close() }, nil

	default:
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, nil, nil, err
		}

		migrations := filepath.Join(cfg.MigrationsPath, db.Dialect.MigrationsSubdir())
		if err := db.RunMigrations(migrations); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		log.Println("Migrations completed successfully")

		return repository.NewSQLStore(db), repository.NewResultRepository(db), func() { db.Close() }, nil
	}
}
