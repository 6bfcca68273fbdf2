//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/zwinglabs/support-chat/internal/bootstrap"
	"github.com/zwinglabs/support-chat/internal/domain/faq"
	"github.com/zwinglabs/support-chat/internal/domain/user"
	"github.com/zwinglabs/support-chat/internal/infra/config"
	httpiface "github.com/zwinglabs/support-chat/internal/interface/http"
	"github.com/zwinglabs/support-chat/internal/interface/ws"
	"github.com/zwinglabs/support-chat/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		providePgxPool,
		provideFAQStore,
		provideUserRepository,
		provideRoomRepository,
		provideMessageRepository,
		provideQueryStats,
		provideObjectStorage,
		provideChatGPTClient,
		provideEmbedder,
		providePairExtractor,
		provideMatcher,
		providePipeline,
		provideDocumentParser,
		user.NewService,
		faq.NewService,
		ws.NewHub,
		provideChatService,
		provideWSHandler,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
