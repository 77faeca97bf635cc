package app

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	geoclient "github.com/you-humble/farm-connect/internal/client/http/geocoder"
	tgclient "github.com/you-humble/farm-connect/internal/client/http/telegram"
	"github.com/you-humble/farm-connect/internal/config"
	"github.com/you-humble/farm-connect/internal/converter"
	"github.com/you-humble/farm-connect/internal/model"
	invrepository "github.com/you-humble/farm-connect/internal/repository/inventory"
	purrepository "github.com/you-humble/farm-connect/internal/repository/purchase"
	lstconsumer "github.com/you-humble/farm-connect/internal/service/consumer/listing"
	listingsvc "github.com/you-humble/farm-connect/internal/service/listing"
	nearbysvc "github.com/you-humble/farm-connect/internal/service/nearby"
	lstproducer "github.com/you-humble/farm-connect/internal/service/producer/listing"
	purchasesvc "github.com/you-humble/farm-connect/internal/service/purchase"
	sweepersvc "github.com/you-humble/farm-connect/internal/service/sweeper"
	tgsvc "github.com/you-humble/farm-connect/internal/service/telegram"
	thttp "github.com/you-humble/farm-connect/internal/transport/http/marketplace/v1"
	"github.com/you-humble/farm-connect/platform/closer"
	"github.com/you-humble/farm-connect/platform/db/migrator"
	"github.com/you-humble/farm-connect/platform/kafka"
	"github.com/you-humble/farm-connect/platform/kafka/consumer"
	"github.com/you-humble/farm-connect/platform/kafka/middleware"
	"github.com/you-humble/farm-connect/platform/kafka/producer"
	"github.com/you-humble/farm-connect/platform/logger"
)

type InventoryRepository interface {
	nearbysvc.CandidateRepository
	purchasesvc.StockRepository
	listingsvc.ListingRepository
	sweepersvc.DepletionRepository
	invrepository.BatchCreator
}

type KafkaConverter interface {
	ListingTouchedToPayload(m model.ListingTouched) ([]byte, error)
	PayloadToListingTouched(data []byte) (model.ListingTouched, error)
}

type ListingNotifier interface {
	NotifyListingTouched(ctx context.Context, event model.ListingTouched)
}

type Sweeper interface {
	ListingNotifier
	lstconsumer.Sweeper
	Run(ctx context.Context) error
}

type ListingConsumer interface {
	RunListingTouchedConsume(ctx context.Context) error
}

type TelegramService interface {
	purchasesvc.ActivityNotifier
	AddChatID(ctx context.Context, chatID int64)
}

type di struct {
	mongo      *mongo.Client
	collection *mongo.Collection
	dbPool     *pgxpool.Pool
	migrator   *migrator.Migrator

	inventoryRepository InventoryRepository
	purchaseRepository  purchasesvc.PurchaseRepository

	conv KafkaConverter

	consumerGroup          sarama.ConsumerGroup
	listingTouchedConsumer kafka.Consumer
	listingConsumer        ListingConsumer

	syncProducer           sarama.SyncProducer
	listingTouchedProducer kafka.Producer
	listingNotifier        ListingNotifier

	geocoder listingsvc.Geocoder

	tgBot     *bot.Bot
	tgClient  tgsvc.MessageSender
	tgService TelegramService

	sweeper         Sweeper
	nearbyService   thttp.NearbyService
	purchaseService thttp.PurchaseService
	listingService  thttp.ListingService

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) MongoDB(ctx context.Context) *mongo.Client {
	if d.mongo == nil {
		cfg := config.C()

		mongoClient, err := mongo.Connect(
			options.Client().ApplyURI(cfg.Mongo.DSN()),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create mongodb client: %v\n", err))
		}
		closer.AddNamed("Mongo Client",
			func(ctx context.Context) error {
				return mongoClient.Disconnect(ctx)
			})

		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			panic(fmt.Sprintf("failed to ping database: %v\n", err))
		}

		d.mongo = mongoClient
	}

	return d.mongo
}

func (d *di) InventoryCollection(ctx context.Context) *mongo.Collection {
	if d.collection == nil {
		d.collection = d.MongoDB(ctx).
			Database(config.C().Mongo.DatabaseName()).
			Collection(config.C().Mongo.InventoryCollection())
	}

	return d.collection
}

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

func (d *di) InventoryRepository(ctx context.Context) InventoryRepository {
	if d.inventoryRepository == nil {
		d.inventoryRepository = invrepository.NewInventoryRepository(d.InventoryCollection(ctx))
	}

	return d.inventoryRepository
}

func (d *di) PurchaseRepository(ctx context.Context) purchasesvc.PurchaseRepository {
	if d.purchaseRepository == nil {
		d.purchaseRepository = purrepository.NewPurchaseRepository(d.DBPool(ctx))
	}

	return d.purchaseRepository
}

func (d *di) KafkaConverter(_ context.Context) KafkaConverter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter()
	}

	return d.conv
}

func (d *di) ConsumerGroup(_ context.Context) sarama.ConsumerGroup {
	if d.consumerGroup == nil {
		cfg := config.C()

		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ConsumerGroupID(),
			cfg.Kafka.ListingTouchedConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka consumer group", func(ctx context.Context) error {
			return consumerGroup.Close()
		})

		d.consumerGroup = consumerGroup
	}

	return d.consumerGroup
}

func (d *di) ListingTouchedConsumer(ctx context.Context) kafka.Consumer {
	if d.listingTouchedConsumer == nil {
		d.listingTouchedConsumer = consumer.NewConsumer(
			d.ConsumerGroup(ctx),
			[]string{
				config.C().Kafka.ListingTouchedTopic(),
			},
			logger.L(),
			middleware.Recovery(logger.L()),
			middleware.Logging(logger.L()),
		)
	}

	return d.listingTouchedConsumer
}

func (d *di) ListingConsumer(ctx context.Context) ListingConsumer {
	if d.listingConsumer == nil {
		d.listingConsumer = lstconsumer.NewListingConsumer(
			d.ListingTouchedConsumer(ctx),
			d.KafkaConverter(ctx),
			d.Sweeper(ctx),
		)
	}

	return d.listingConsumer
}

func (d *di) SyncProducer(_ context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ListingTouchedProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) ListingTouchedProducer(ctx context.Context) kafka.Producer {
	if d.listingTouchedProducer == nil {
		d.listingTouchedProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.ListingTouchedTopic(),
			logger.L(),
		)
	}

	return d.listingTouchedProducer
}

// ListingNotifier publishes to Kafka when brokers are configured and feeds the
// in-process sweeper queue otherwise.
func (d *di) ListingNotifier(ctx context.Context) ListingNotifier {
	if d.listingNotifier == nil {
		if config.C().Kafka.Enabled() {
			d.listingNotifier = lstproducer.NewListingProducer(
				d.ListingTouchedProducer(ctx),
				d.KafkaConverter(ctx),
			)
		} else {
			d.listingNotifier = d.Sweeper(ctx)
		}
	}

	return d.listingNotifier
}

func (d *di) Sweeper(ctx context.Context) Sweeper {
	if d.sweeper == nil {
		cfg := config.C()

		d.sweeper = sweepersvc.NewSweeperService(
			d.InventoryRepository(ctx),
			sweepersvc.Config{
				QueueSize: cfg.Sweeper.QueueSize(),
				Interval:  cfg.Sweeper.Interval(),
				DBTimeout: cfg.Server.DBWriteTimeout(),
			},
		)
	}

	return d.sweeper
}

// Geocoder is nil unless GEOCODER_BASE_URL is set.
func (d *di) Geocoder(_ context.Context) listingsvc.Geocoder {
	if !config.C().Geocoder.Enabled() {
		return nil
	}
	if d.geocoder == nil {
		cfg := config.C().Geocoder
		d.geocoder = geoclient.NewClient(cfg.BaseURL(), cfg.UserAgent(), cfg.Timeout())
	}

	return d.geocoder
}

func (d *di) TelegramBot(_ context.Context) *bot.Bot {
	if d.tgBot == nil {
		b, err := bot.New(config.C().Telegram.BotToken())
		if err != nil {
			panic(fmt.Sprintf("failed to create telegram bot: %s\n", err.Error()))
		}
		closer.AddNamed("Telegram Bot", func(ctx context.Context) error {
			_, err := b.Close(ctx)
			return err
		})

		d.tgBot = b
	}

	return d.tgBot
}

func (d *di) TelegramClient(ctx context.Context) tgsvc.MessageSender {
	if d.tgClient == nil {
		d.tgClient = tgclient.NewClient(d.TelegramBot(ctx))
	}

	return d.tgClient
}

func (d *di) TelegramService(ctx context.Context) TelegramService {
	if d.tgService == nil {
		d.tgService = tgsvc.NewTgService(
			d.TelegramClient(ctx),
			config.C().Telegram.ChatIDs()...,
		)
	}

	return d.tgService
}

// ActivityNotifier is nil unless a Telegram bot token is configured.
func (d *di) ActivityNotifier(ctx context.Context) purchasesvc.ActivityNotifier {
	if !config.C().Telegram.Enabled() {
		return nil
	}

	return d.TelegramService(ctx)
}

func (d *di) NearbyService(ctx context.Context) thttp.NearbyService {
	if d.nearbyService == nil {
		d.nearbyService = nearbysvc.NewNearbyService(
			d.InventoryRepository(ctx),
			config.C().Server.DBReadTimeout(),
		)
	}

	return d.nearbyService
}

func (d *di) PurchaseService(ctx context.Context) thttp.PurchaseService {
	if d.purchaseService == nil {
		cfg := config.C()

		svc := purchasesvc.NewPurchaseService(
			d.InventoryRepository(ctx),
			d.PurchaseRepository(ctx),
			d.ListingNotifier(ctx),
			d.ActivityNotifier(ctx),
			purchasesvc.Timeouts{
				Read:     cfg.Server.DBReadTimeout(),
				Write:    cfg.Server.DBWriteTimeout(),
				Purchase: cfg.Server.PurchaseTimeout(),
				Notify:   cfg.Server.NotifyTimeout(),
			},
		)
		closer.AddNamed("Purchase notifications", svc.Drain)

		d.purchaseService = svc
	}

	return d.purchaseService
}

func (d *di) ListingService(ctx context.Context) thttp.ListingService {
	if d.listingService == nil {
		d.listingService = listingsvc.NewListingService(
			d.InventoryRepository(ctx),
			d.Geocoder(ctx),
			d.ListingNotifier(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.listingService
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
