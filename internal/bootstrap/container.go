package bootstrap

import (
	"context"

	"td-generator-be/internal/config"
	"td-generator-be/internal/controller"
	"td-generator-be/internal/handler"
	"td-generator-be/internal/pkg/logger"
	"td-generator-be/internal/repository/contract"
	"td-generator-be/internal/repository/kv"
	"td-generator-be/internal/repository/memory"
	"td-generator-be/internal/repository/unitofwork"
	"td-generator-be/internal/service"
	"td-generator-be/internal/websocket"
	"td-generator-be/pkg/generator"
	pktNats "td-generator-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WorkspaceController  controller.IWorkspaceController
	GenerationController controller.IGenerationController
	CatalogController    controller.ICatalogController
	SnapshotController   controller.ISnapshotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventHandler *handler.EventHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every component. db may be nil, which disables
// snapshots. Redis and NATS are optional and only used when configured.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		sysLogger.Warn("Bootstrap", "No database configured, snapshots disabled", nil)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	rdb := newRedis(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err})
		} else {
			natsPub = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	var workspaceRepo contract.WorkspaceRepository
	if cfg.Workspace.Store == "redis" && rdb != nil {
		workspaceRepo = kv.NewWorkspaceRepository(rdb, cfg.Workspace.TTL)
		sysLogger.Info("Bootstrap", "Workspace store: redis", nil)
	} else {
		if cfg.Workspace.Store == "redis" {
			sysLogger.Warn("Bootstrap", "WORKSPACE_STORE=redis but Redis is unavailable, using memory", nil)
		}
		workspaceRepo = memory.NewWorkspaceRepository(cfg.Workspace.TTL)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()
	c.closers = append(c.closers, wsHub.Stop)
	c.WebSocketHub = wsHub

	// 4. Services
	client := generator.NewHTTPClient(cfg.Generator.BaseURL, cfg.Generator.Timeout)
	access := service.NewWorkspaceAccess(workspaceRepo)

	publisherService := service.NewPublisherService(service.EventsTopic, pubSub)
	sinks := []service.EventSink{service.NewHubSink(wsHub)}
	if natsPub != nil {
		sinks = append(sinks, service.NewNatsSink(natsPub))
	}
	c.ConsumerService = service.NewConsumerService(pubSub, service.EventsTopic, wsLogger, sinks...)

	catalogService := service.NewCatalogService(client, cfg.Generator.CatalogCache, sysLogger)
	workbenchService := service.NewWorkbenchService(access, catalogService, client, publisherService, cfg.Workspace.ForcedChips, sysLogger)
	generationService := service.NewGenerationService(access, catalogService, client, publisherService, sysLogger)
	snapshotService := service.NewSnapshotService(uowFactory, access, sysLogger)

	// 5. Controllers
	c.WorkspaceController = controller.NewWorkspaceController(workbenchService)
	c.GenerationController = controller.NewGenerationController(generationService)
	c.CatalogController = controller.NewCatalogController(catalogService)
	c.SnapshotController = controller.NewSnapshotController(snapshotService)
	c.EventHandler = handler.NewEventHandler(workbenchService, wsHub, wsLogger)

	return c
}

// Close releases the connections opened by NewContainer, last opened first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}

func newRedis(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err})
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Warn("Bootstrap", "Failed to connect to Redis, continuing without it", map[string]interface{}{"error": err})
		rdb.Close()
		return nil
	}
	return rdb
}
