package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/ai"
	"github.com/spigell/jale-assistant/internal/ai/gemini"
	"github.com/spigell/jale-assistant/internal/assistant"
	"github.com/spigell/jale-assistant/internal/dialogue"
	"github.com/spigell/jale-assistant/internal/knowledge"
	"github.com/spigell/jale-assistant/internal/logger"
	"github.com/spigell/jale-assistant/internal/secrets"
	"github.com/spigell/jale-assistant/internal/store"
	"github.com/spigell/jale-assistant/internal/threadlock"
)

// runtimeEnv is what every command starts from: a logger, the parsed config and the
// record store.
type runtimeEnv struct {
	logger *zap.Logger
	config *Config
	store  *store.SQLite
}

func setup(ctx context.Context) *runtimeEnv {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.Store == nil {
		logger.Fatal("config is required")
	}

	logger.Debug("starting", zap.String("version", version), zap.String("store", config.Store.Path))

	s, err := store.OpenSQLite(ctx, config.Store.Path)
	if err != nil {
		logger.Fatal("opening the record store", zap.Error(err), zap.String("path", config.Store.Path))
	}

	return &runtimeEnv{logger: logger, config: config, store: s}
}

func (e *runtimeEnv) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing the record store", zap.Error(err))
	}
	e.logger.Sync()
}

// newAssistant builds the per-message pipeline. Dialogue state and thread locks live
// in Redis when redis.url is configured, in process otherwise.
func (e *runtimeEnv) newAssistant(ctx context.Context) (*assistant.Assistant, func(), error) {
	cfg := e.config

	kb, err := knowledge.Load(cfg.KnowledgeFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading knowledge base: %w", err)
	}
	e.logger.Debug("knowledge base loaded", zap.Int("entries", kb.Len()))

	lockTimeout, lockTTL, stateTTL := time.Duration(0), time.Duration(0), time.Duration(0)
	if cfg.Lock != nil {
		lockTimeout, lockTTL = cfg.Lock.Timeout, cfg.Lock.TTL
	}
	if cfg.State != nil {
		stateTTL = cfg.State.TTL
	}

	var (
		states  dialogue.StateStore
		locks   threadlock.Locker
		cleanup = func() {}
	)
	if cfg.Redis != nil && strings.TrimSpace(cfg.Redis.URL) != "" {
		client, err := newRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		states = dialogue.NewRedisStore(client, stateTTL)
		locks = threadlock.NewRedis(client, lockTTL, lockTimeout, e.logger)
		cleanup = func() { client.Close() }
		e.logger.Info("using redis for dialogue state and thread locks")
	} else {
		states = dialogue.NewMemoryStore(stateTTL)
		locks = threadlock.NewLocal(lockTimeout)
	}

	duration := 0
	if cfg.Interview != nil {
		duration = cfg.Interview.Duration
	}
	booker := dialogue.NewStoreBooker(e.store, duration, e.logger)
	dlg := dialogue.New(states, booker, e.logger)

	var opts []assistant.Option
	responder, err := newResponder(ctx, cfg.AI, e.logger)
	if err != nil {
		e.logger.Warn("generative fallback disabled", zap.Error(err))
	} else if responder != nil {
		opts = append(opts, assistant.WithResponder(responder))
	}

	return assistant.New(kb, dlg, locks, e.logger, opts...), cleanup, nil
}

func newRedisClient(ctx context.Context, cfg *RedisConfig) (*redis.Client, error) {
	password := ""
	if strings.TrimSpace(cfg.PasswordFile) != "" || os.Getenv("JALE_REDIS_PASSWORD") != "" {
		var err error
		password, err = secrets.Load(secrets.Source{Name: "redis password", File: cfg.PasswordFile, Env: "JALE_REDIS_PASSWORD"})
		if err != nil {
			return nil, err
		}
	}

	client, err := threadlock.NewRedisClient(ctx, cfg.URL, password)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// newResponder returns nil without error when the fallback is not enabled.
func newResponder(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Responder, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(log, logger.AIFields("gemini", cfg.Gemini.Model)...).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewResponder(generator, cfg.Gemini.MaxLogLength, logger.WithFields(log, logger.AIFields("gemini", generator.Model())...)), nil
}
