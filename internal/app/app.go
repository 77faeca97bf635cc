package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/you-humble/farm-connect/internal/config"
	invrepository "github.com/you-humble/farm-connect/internal/repository/inventory"
	"github.com/you-humble/farm-connect/internal/transport/http/health"
	thttp "github.com/you-humble/farm-connect/internal/transport/http/marketplace/v1"
	httpmw "github.com/you-humble/farm-connect/internal/transport/http/middleware"
	"github.com/you-humble/farm-connect/platform/closer"
	"github.com/you-humble/farm-connect/platform/logger"
)

type app struct {
	di     *di
	server *http.Server
}

func New(ctx context.Context) (*app, error) {
	a := &app{}

	if err := a.init(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) Run(ctx context.Context) error { return a.run(ctx) }

func (a *app) init(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initLogger,
		a.initCloser,
		a.initDI,
		a.initTables,
		a.initTelegramBot,
		a.initServer,
	}

	for _, initFn := range inits {
		if err := initFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) initConfig(_ context.Context) error {
	return config.Load()
}

func (a *app) initLogger(_ context.Context) error {
	return logger.Init(
		config.C().Logger.Level(),
		config.C().Logger.AsJSON(),
	)
}

func (a *app) initCloser(_ context.Context) error {
	closer.SetLogger(logger.L())
	return nil
}

func (a *app) initDI(_ context.Context) error {
	a.di = NewDI()
	return nil
}

func (a *app) initTables(ctx context.Context) error {
	if err := a.di.Migrator(ctx).Up(ctx); err != nil {
		logger.Error(ctx, "failed to apply migrations", logger.ErrorF(err))
		return err
	}

	if err := invrepository.EnsureIndexes(ctx, a.di.InventoryCollection(ctx)); err != nil {
		logger.Error(ctx, "failed to ensure inventory indexes", logger.ErrorF(err))
		return err
	}

	if config.C().Server.BootstrapDemoData() {
		if err := invrepository.InventoriesBootstrap(ctx, a.di.InventoryRepository(ctx)); err != nil {
			logger.Error(ctx, "failed to bootstrap demo inventories", logger.ErrorF(err))
			return err
		}
	}
	return nil
}

func (a *app) initTelegramBot(ctx context.Context) error {
	if !config.C().Telegram.Enabled() {
		return nil
	}

	const startMsg = `
	👋 *FarmConnect activity bot*

	This chat will receive a message for every purchase recorded on the marketplace.
	`

	telegramBot := a.di.TelegramBot(ctx)
	tgSvc := a.di.TelegramService(ctx)

	telegramBot.RegisterHandler(
		bot.HandlerTypeMessageText,
		"/start",
		bot.MatchTypeExact,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			logger.Info(ctx, "New chat",
				logger.String("username", update.Message.From.Username),
				logger.Int64("chat_id", update.Message.Chat.ID),
			)

			_, err := b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    update.Message.Chat.ID,
				Text:      startMsg,
				ParseMode: models.ParseModeMarkdownV1,
			})
			if err != nil {
				logger.Error(ctx, "Failed to send activation message", logger.ErrorF(err))
			}

			tgSvc.AddChatID(ctx, update.Message.Chat.ID)
		})

	go func() {
		logger.Info(ctx, "🤖 Telegram bot started...")
		telegramBot.Start(ctx)
	}()

	return nil
}

func (a *app) initServer(ctx context.Context) error {
	cfg := config.C()

	r := a.di.Router(ctx)
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		httpmw.RequestLogger,
		middleware.Recoverer,
	)

	r.HandleFunc("/health", health.HealthCheck)
	r.Handle("/ready", health.Readiness(cfg.Server.DBReadTimeout(),
		health.Check{
			Name: "mongo",
			Ping: func(ctx context.Context) error {
				return a.di.MongoDB(ctx).Ping(ctx, readpref.Primary())
			},
		},
		health.Check{
			Name: "postgres",
			Ping: func(ctx context.Context) error {
				return a.di.DBPool(ctx).Ping(ctx)
			},
		},
	))

	thttp.NewMarketplaceHandler(
		a.di.NearbyService(ctx),
		a.di.PurchaseService(ctx),
		a.di.ListingService(ctx),
	).Register(r, cfg.Auth.JWTSecret())

	a.server = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadTimeout(),
	}
	closer.AddNamed("HTTP Server", func(ctx context.Context) error {
		return a.server.Shutdown(ctx)
	})

	return nil
}

func (a *app) run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info(egCtx, "🧹 depletion sweeper running")
		return a.di.Sweeper(egCtx).Run(egCtx)
	})

	if config.C().Kafka.Enabled() {
		eg.Go(func() error {
			logger.Info(egCtx,
				"🚀 listing.touched consumer running",
				logger.String("kafka_broker", config.C().Kafka.Brokers()[0]),
			)
			if err := a.di.ListingConsumer(egCtx).RunListingTouchedConsume(egCtx); err != nil {
				return err
			}

			return nil
		})
	}

	eg.Go(func() error {
		logger.Info(egCtx,
			"🚀 marketplace server listening",
			logger.String("address", config.C().Server.Address()),
		)
		err := a.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		gracefulShutdown()
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	return nil
}

//nolint:contextcheck
func gracefulShutdown() {
	ctx, cancel := context.WithTimeout(
		context.Background(), // do not inherit cancellation from ctx
		config.C().Server.ShutdownTimeout(),
	)
	defer cancel()

	err := closer.CloseAll(ctx)
	if err != nil {
		logger.Error(ctx, "❌ Error during server shutdown", logger.ErrorF(err))
		logger.Error(ctx, "❌😵‍💫 Server stopped")
		return
	}
	logger.Info(ctx, "✅ Server stopped")
}
