package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant/cmd"
	"restaurant/internal/adapters/out/mongo"
	"restaurant/internal/adapters/out/postgres"
	"restaurant/internal/adapters/out/rabbitmq"
	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.SlogLevel()}))
	slog.SetDefault(logger)

	if err = run(configs, logger); err != nil {
		logger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(configs cmd.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, configs.DSN()); err != nil {
		return err
	}

	gormDB, err := gorm.Open(gormpg.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	mongoClient, err := mongo.Connect(ctx, configs.MongoURI)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	conversations := mongo.NewConversationRepository(mongoClient.Database(configs.MongoDatabase))
	if err = conversations.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("create conversation indexes: %w", err)
	}

	var publisher ports.OrderEventPublisher = rabbitmq.NopPublisher{}
	if configs.AMQPURL != "" {
		amqpPublisher, dialErr := rabbitmq.Dial(configs.AMQPURL, rabbitmq.DefaultExchange, logger)
		if dialErr != nil {
			return fmt.Errorf("connect rabbitmq: %w", dialErr)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	} else {
		logger.InfoContext(ctx, "AMQP_URL is empty, order events are not published")
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, conversations, publisher, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Dispatcher().Disconnect()
	}()

	connectPrinter(ctx, app, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e, err := newWebServer(app)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "HTTP server listening", "port", configs.HTTPPort)
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newWebServer(app *cmd.CompositionRoot) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)

	if err := app.CreateServer().Register(e); err != nil {
		return nil, err
	}
	e.GET("/ws/chat", app.Hub().Handler(app.CreateRouter()))
	return e, nil
}

// connectPrinter makes the first connection attempt to the configured printer.
// Failure is not fatal: the reconnect job and the HTTP API retry later.
func connectPrinter(ctx context.Context, app *cmd.CompositionRoot, logger *slog.Logger) {
	err := app.CreatePrinterCommandHandler().HandleConnect(ctx, commands.NewConnectPrinterCommand(nil))
	if err != nil {
		logger.WarnContext(ctx, "Printer not connected at startup", "error", err)
		return
	}
	logger.InfoContext(ctx, "Printer connected", "device", app.Dispatcher().Status().Device.String())
}
