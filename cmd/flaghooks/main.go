package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	addonApp "github.com/davicafu/flaghooks/internal/addon/application"
	addonDomain "github.com/davicafu/flaghooks/internal/addon/domain"
	addonHttp "github.com/davicafu/flaghooks/internal/addon/infra/inbound/http"
	addonClickHouse "github.com/davicafu/flaghooks/internal/addon/infra/outbound/analytics/clickhouse"
	addonMongo "github.com/davicafu/flaghooks/internal/addon/infra/outbound/db/mongodb"
	addonPostgres "github.com/davicafu/flaghooks/internal/addon/infra/outbound/db/postgres"
	addonSQLite "github.com/davicafu/flaghooks/internal/addon/infra/outbound/db/sqlite"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/flags"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/formatter"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/httpclient"
	"github.com/davicafu/flaghooks/internal/addon/infra/outbound/template"
	"github.com/davicafu/flaghooks/internal/config"
	eventApp "github.com/davicafu/flaghooks/internal/event/application"
	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	eventConsumer "github.com/davicafu/flaghooks/internal/event/infra/inbound/events"
	eventHttp "github.com/davicafu/flaghooks/internal/event/infra/inbound/http"
	eventPostgres "github.com/davicafu/flaghooks/internal/event/infra/outbound/db/postgres"
	eventSQLite "github.com/davicafu/flaghooks/internal/event/infra/outbound/db/sqlite"
	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
	infraEvents "github.com/davicafu/flaghooks/internal/shared/infra/events"
	sharedBus "github.com/davicafu/flaghooks/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/flaghooks/internal/shared/infra/platform/cache"
	sharedPostgres "github.com/davicafu/flaghooks/internal/shared/infra/platform/db/postgres"
	sharedSQLite "github.com/davicafu/flaghooks/internal/shared/infra/platform/db/sqlite"
	"github.com/davicafu/flaghooks/internal/shared/infra/relayer"
	"github.com/davicafu/flaghooks/pkg/logger"
)

// stores agrupa los repositorios que dependen del driver SQL elegido.
type stores struct {
	db                *sql.DB
	events            eventDomain.EventRepository
	outbox            sharedDomain.OutboxRepository
	addons            addonDomain.AddonRepository
	integrationEvents addonDomain.IntegrationEventRepository
}

// ---------------- Main ----------------
func main() {
	cfg, cfgErr := config.LoadConfig()
	level := "info"
	if cfgErr == nil {
		level = cfg.LogLevel
	}

	logger.Init(level)     // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	if cfgErr != nil {
		log.Fatal("invalid configuration", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- DB ----------------
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open store", zap.String("driver", cfg.Store), zap.Error(err))
	}
	defer st.db.Close()
	log.Info("✅ Store ready", zap.String("driver", cfg.Store))

	if cfg.IntegrationEventsStore == config.EventsStoreMongo {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(context.Background())

		repo, err := addonMongo.NewIntegrationEventRepoMongoDB(ctx, client, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to open MongoDB", zap.Error(err))
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn("⚠️ Could not create MongoDB indexes", zap.Error(err))
		}
		st.integrationEvents = repo
		log.Info("✅ Integration events stored in MongoDB", zap.String("db", cfg.MongoDB))
	}

	// ---------------- Analytics ----------------
	var analytics addonDomain.DeliveryAnalytics
	if cfg.ClickHouseAddr != "" {
		repo, err := addonClickHouse.NewDeliveryAnalyticsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, analítica desactivada", zap.Error(err))
		} else if err := repo.InitSchema(ctx); err != nil {
			log.Warn("⚠️ ClickHouse schema failed, analítica desactivada", zap.Error(err))
		} else {
			defer repo.Close()
			analytics = repo
			log.Info("✅ ClickHouse conectado, analítica habilitada")
		}
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		} else {
			defer rdb.Close()
			cacheInstance = sharedCache.NewRedisCache(rdb, cfg.CacheTTL)
			log.Info("✅ Redis conectado, cache habilitado")
		}
	}
	if cacheInstance == nil {
		mem := sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		defer mem.Stop()
		cacheInstance = mem
	}

	// --------------- Servicios --------------
	eventService := eventApp.NewEventService(st.events, log)
	integrationEvents := addonApp.NewIntegrationEventsService(st.integrationEvents, analytics, cfg.EventsRetention, log)

	webhook := addonApp.NewWebhookAddon(
		httpclient.NewRetryClient(httpclient.Options{
			Retries:         cfg.WebhookRetries,
			InitialInterval: cfg.WebhookInitialInterval,
			MaxInterval:     cfg.WebhookMaxInterval,
			Timeout:         cfg.WebhookTimeout,
		}, log),
		template.NewMustacheRenderer(),
		formatter.NewMarkdownFormatter(cfg.BaseURL, formatter.LinkStyleMarkdown, log),
		flags.NewStaticResolver(cfg.EnabledFlags),
		integrationEvents,
		log,
	)
	addonService := addonApp.NewAddonService(st.addons, cacheInstance, eventService, []addonDomain.Provider{webhook}, log)

	// ---------------- Events ---------------
	consumer := eventConsumer.NewDomainEventConsumer(addonService, cfg.DeliveryTimeout, log)
	var publisher sharedBus.EventBus

	if len(cfg.KafkaBrokers) > 0 {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))

		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.Hash{},
		}
		defer writer.Close()
		publisher = infraEvents.NewKafkaPublisher(writer, log)

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		defer reader.Close()
		infraEvents.NewConsumerAdapter(reader, consumer, log).Start(ctx)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		bus := infraEvents.NewInMemoryEventBus(eventDomain.DomainEventTopic)
		publisher = bus
		infraEvents.BackgroundConsumerChan(ctx, bus.Subscribe(100), consumer, log)
	}

	// ------------ Workers ------------
	worker := relayer.NewOutboxWorker(st.outbox, publisher, eventDomain.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log)
	go worker.Start(ctx)
	go addonApp.NewJanitor(integrationEvents, cfg.JanitorInterval, log).Start(ctx)

	// ---------------- HTTP ----------------
	router := gin.Default()
	addonHttp.RegisterAddonRoutes(router, addonHttp.NewAddonHandler(addonService, integrationEvents))
	eventHttp.RegisterEventRoutes(router, eventHttp.NewEventHandler(eventService))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := sharedPostgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := eventPostgres.InitEventSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		if err := addonPostgres.InitAddonSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			db:                db,
			events:            eventPostgres.NewEventRepoPostgres(db),
			outbox:            sharedPostgres.NewOutboxRepoPostgres(db),
			addons:            addonPostgres.NewAddonRepoPostgres(db),
			integrationEvents: addonPostgres.NewIntegrationEventRepoPostgres(db),
		}, nil

	default:
		db, err := sharedSQLite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := eventSQLite.InitEventSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		if err := addonSQLite.InitAddonSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			db:                db,
			events:            eventSQLite.NewEventRepoSQLite(db),
			outbox:            sharedSQLite.NewOutboxRepoSQLite(db),
			addons:            addonSQLite.NewAddonRepoSQLite(db),
			integrationEvents: addonSQLite.NewIntegrationEventRepoSQLite(db),
		}, nil
	}
}
