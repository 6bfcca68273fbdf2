package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
	"github.com/zwinglabs/support-chat/internal/domain/faq"
	"github.com/zwinglabs/support-chat/internal/domain/user"
	"github.com/zwinglabs/support-chat/internal/infra/chatrepo"
	"github.com/zwinglabs/support-chat/internal/infra/config"
	"github.com/zwinglabs/support-chat/internal/infra/embedder"
	"github.com/zwinglabs/support-chat/internal/infra/extract"
	"github.com/zwinglabs/support-chat/internal/infra/faqstats"
	"github.com/zwinglabs/support-chat/internal/infra/faqstore"
	"github.com/zwinglabs/support-chat/internal/infra/llm"
	"github.com/zwinglabs/support-chat/internal/infra/llm/chatgpt"
	"github.com/zwinglabs/support-chat/internal/infra/storage"
	"github.com/zwinglabs/support-chat/internal/infra/userrepo"
	"github.com/zwinglabs/support-chat/internal/interface/ws"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		Model:               cfg.LLM.Model,
		EmbeddingModel:      cfg.LLM.EmbeddingModel,
		Temperature:         cfg.LLM.Temperature,
		MatchStrategy:       faq.Strategy(cfg.FAQ.MatchStrategy),
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
		MaxRelated:          cfg.FAQ.MaxRelated,
		FallbackMessage:     cfg.FAQ.FallbackMessage,
	}
}

// providePgxPool returns a shared connection pool, or nil when Postgres is
// not configured or unreachable. Repositories fall back to memory when nil.
func providePgxPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideFAQStore(pool *pgxpool.Pool) faq.Store {
	if pool == nil {
		return faqstore.NewMemoryStore()
	}
	return faqstore.NewPostgresStore(pool)
}

func provideUserRepository(pool *pgxpool.Pool) user.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideRoomRepository(pool *pgxpool.Pool) chat.RoomRepository {
	if pool == nil {
		return chatrepo.NewMemoryRoomRepository()
	}
	return chatrepo.NewPostgresRoomRepository(pool)
}

func provideMessageRepository(pool *pgxpool.Pool) chat.MessageRepository {
	if pool == nil {
		return chatrepo.NewMemoryMessageRepository()
	}
	return chatrepo.NewPostgresMessageRepository(pool)
}

func provideQueryStats(cfg *config.Config, logger *slog.Logger) faq.QueryStats {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory stats", "error", err)
			return faqstats.NewMemoryStats()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory stats", "error", err)
			return faqstats.NewMemoryStats()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory stats", "error", err)
		} else {
			logger.Info("valkey trending stats enabled", "addr", cfg.Valkey.Addr)
			return faqstats.NewValkeyStats(client, "faq")
		}
	}
	return faqstats.NewMemoryStats()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) chat.ObjectStorage {
	if strings.TrimSpace(cfg.Storage.Endpoint) == "" {
		logger.Info("object storage endpoint not set, using memory storage")
		return storage.NewMemoryStorage()
	}
	s3, err := storage.NewS3Storage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.Region, logger)
	if err != nil {
		logger.Error("failed to initialize object storage, using memory storage", "error", err)
		return storage.NewMemoryStorage()
	}
	return s3
}

// provideChatGPTClient returns nil when no API key is set; downstream
// providers then switch to offline fallbacks.
func provideChatGPTClient(cfg *config.Config, logger *slog.Logger) *chatgpt.Client {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, using offline fallbacks")
		return nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Error("failed to initialize llm client, using offline fallbacks", "error", err)
		return nil
	}
	return client
}

func provideEmbedder(cfg *config.Config, client *chatgpt.Client) faq.Embedder {
	if client == nil {
		return embedder.NewDeterministicEmbedder(64)
	}
	return embedder.NewChatGPTEmbedder(client, cfg.LLM.EmbeddingModel)
}

func providePairExtractor(cfg *config.Config, client *chatgpt.Client, logger *slog.Logger) faq.PairExtractor {
	if client == nil {
		return extract.NewLLMPairExtractor(llm.OfflineCompleter{}, 0, logger)
	}
	completer := llm.NewCompleter(client, cfg.LLM.Model)
	return extract.NewLLMPairExtractor(completer, cfg.FAQ.MaxExtractionTokens, logger)
}

func provideMatcher(faqCfg faq.Config, cfg *config.Config, store faq.Store, emb faq.Embedder, client *chatgpt.Client, logger *slog.Logger) faq.Matcher {
	if faqCfg.MatchStrategy == faq.StrategyLLM {
		if client != nil {
			return faq.NewLLMMatcher(faqCfg, store, llm.NewCompleter(client, cfg.LLM.Model), logger)
		}
		logger.Warn("llm match strategy requested without api key, using embedding matcher")
	}
	return faq.NewEmbeddingMatcher(faqCfg, store, emb, logger)
}

func providePipeline(store faq.Store, emb faq.Embedder, extractor faq.PairExtractor, logger *slog.Logger) *faq.Pipeline {
	return faq.NewPipeline(store, emb, extractor, logger)
}

func provideDocumentParser() faq.DocumentParser {
	return extract.NewPDFParser()
}

func provideChatService(cfg *config.Config, rooms chat.RoomRepository, messages chat.MessageRepository, objects chat.ObjectStorage, hub *ws.Hub, users user.Service, logger *slog.Logger) chat.Service {
	return chat.NewService(rooms, messages, objects, hub, users, cfg.Chat.MaxAttachmentBytes, logger)
}

func provideWSHandler(cfg *config.Config, hub *ws.Hub, chats chat.Service, logger *slog.Logger) *ws.Handler {
	return ws.NewHandler(hub, chats, cfg.HTTP.AllowedOrigins, logger)
}
