package bootstrap

import (
	"context"
	"log"

	"datahub-portal-be/internal/config"
	"datahub-portal-be/internal/controller"
	"datahub-portal-be/internal/handler"
	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/internal/pkg/mailer"
	"datahub-portal-be/internal/pkg/serverutils"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/implementation"
	"datahub-portal-be/internal/repository/memory"
	"datahub-portal-be/internal/repository/mongostore"
	"datahub-portal-be/internal/repository/redisstore"
	"datahub-portal-be/internal/repository/unitofwork"
	"datahub-portal-be/internal/service"
	"datahub-portal-be/internal/websocket"
	"datahub-portal-be/pkg/bulk"
	"datahub-portal-be/pkg/database"
	pktNats "datahub-portal-be/pkg/nats"
	"datahub-portal-be/pkg/pagination"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NodeController         controller.INodeController
	SelectionController    controller.ISelectionController
	OrganizationController controller.IOrganizationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	// nil when NATS is unreachable
	ActivityService *service.ActivityService

	// WebSockets
	WebSocketHandler *handler.WebSocketHandler
	WebSocketHub     *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var auditPublisher service.IEventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		// assigned only on success so a nil *Publisher never hides in the interface
		auditPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// Selection storage
	var selectionStore contract.SelectionStore
	if cfg.Selection.Store == "redis" && rdb != nil {
		selectionStore = redisstore.NewSelectionStore(rdb, cfg.Selection.TTL)
		log.Printf("[INFO] Using Selection Store: REDIS")
	} else {
		selectionStore = memory.NewSelectionStore(cfg.Selection.TTL)
		log.Printf("[INFO] Using Selection Store: MEMORY")
	}

	// Record storage
	var nodeRepo contract.SubmissionNodeRepository
	if cfg.Bulk.RecordStore == "mongo" {
		mdb, err := database.NewMongoDatabase(context.Background(), database.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to Mongo: %v", err)
		}
		c.closers = append(c.closers, func() { _ = mdb.Client().Disconnect(context.Background()) })
		nodeRepo = mongostore.NewSubmissionNodeRepository(mdb)
		log.Printf("[INFO] Using Record Store: MONGO (%s)", cfg.Mongo.Database)
	} else {
		nodeRepo = implementation.NewSubmissionNodeRepository(db)
		log.Printf("[INFO] Using Record Store: POSTGRES")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Services
	direction, err := pagination.ParseDirection(cfg.Pagination.DefaultSortDirection, pagination.Desc)
	if err != nil {
		log.Fatalf("[FATAL] Invalid DEFAULT_SORT_DIRECTION %q", cfg.Pagination.DefaultSortDirection)
	}
	builder := pagination.NewBuilder(pagination.Config{
		DefaultPageSize:  cfg.Pagination.DefaultPageSize,
		MaxPageSize:      cfg.Pagination.MaxPageSize,
		DefaultDirection: direction,
		DefaultSortField: cfg.Pagination.DefaultSortField,
	})
	dispatcher := bulk.NewDispatcher(bulk.Config{MaxIDsLimit: cfg.Bulk.MaxIDsLimit})

	audit := service.NewAuditPublisher(auditPublisher, sysLogger)
	publisherService := service.NewPublisherService(pubSub, cfg.Bulk.DeletedTopic)

	selectionService := service.NewSelectionService(selectionStore, sysLogger)
	nodeService := service.NewNodeService(
		nodeRepo,
		uowFactory,
		selectionService,
		builder,
		dispatcher,
		publisherService,
		audit,
		sysLogger,
	)
	bulkService := service.NewBulkService(selectionService, nodeService, sysLogger)
	organizationService := service.NewOrganizationService(uowFactory, builder, emailService, audit, sysLogger)

	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Bulk.DeletedTopic,
		selectionService,
		wsHub,
		sysLogger,
	)
	if natsSub != nil {
		c.ActivityService = service.NewActivityService(natsSub, wsHub, logger.NewIsolatedLogger("logs/audit.log"), sysLogger)
	}

	// 5. Controllers
	auth := serverutils.JwtMiddleware(cfg.App.JwtSecret)

	c.NodeController = controller.NewNodeController(nodeService, auth)
	c.SelectionController = controller.NewSelectionController(selectionService, bulkService, auth)
	c.OrganizationController = controller.NewOrganizationController(organizationService, auth)
	c.WebSocketHandler = handler.NewWebSocketHandler(wsHub, cfg.App.JwtSecret, wsLogger)
	c.WebSocketHub = wsHub

	return c
}

// Close releases broker and cache connections in reverse order of opening.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
