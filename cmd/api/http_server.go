package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giovaniif/cart/domain/item"
	"github.com/giovaniif/cart/infra/config"
	"github.com/giovaniif/cart/infra/gateways"
	"github.com/giovaniif/cart/infra/logger"
	"github.com/giovaniif/cart/infra/loki"
	"github.com/giovaniif/cart/infra/metrics"
	"github.com/giovaniif/cart/infra/repositories"
	"github.com/giovaniif/cart/infra/tracing"
	protocols "github.com/giovaniif/cart/protocols"
	"github.com/giovaniif/cart/use_cases/createcart"
	"github.com/giovaniif/cart/use_cases/deletecart"
	"github.com/giovaniif/cart/use_cases/getcart"
	"github.com/giovaniif/cart/use_cases/listitems"
	"github.com/giovaniif/cart/use_cases/sweep"
	"github.com/giovaniif/cart/use_cases/updatecart"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "cart"
	shutdownTimeout = 10 * time.Second
)

// StartServer runs the service until SIGINT or SIGTERM. Every resource it
// opened is released before it returns.
func StartServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CART_CONFIG"))
	if err != nil {
		return err
	}

	var lokiSink io.Writer
	lokiWriter := loki.NewWriter(cfg.LokiURL, map[string]string{"job": serviceName})
	if lokiWriter != nil {
		lokiSink = lokiWriter
		defer lokiWriter.Close()
	}
	log, err := logger.New(serviceName, cfg.LogLevel, lokiSink)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	shutdownTracing, err := tracing.Init(ctx, serviceName)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}
	if shutdownTracing != nil {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	catalog, err := buildCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}

	clock := gateways.NewSystemClock()
	cartRepository := repositories.NewCartRepositoryMemory(gateways.NewSequenceGenerator(0), clock)
	if err := metrics.RegisterActiveCarts(prometheus.DefaultRegisterer, cartRepository.Count); err != nil {
		return err
	}

	var publisher protocols.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := gateways.NewEventPublisherKafka(gateways.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("cart events: kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		publisher = gateways.NewEventPublisherLog(log)
		log.Info("cart events: log only (set KAFKA_BROKERS for kafka)")
	}
	publisher = metrics.NewEventPublisher(publisher)

	healthChecks := map[string]HealthCheck{}
	var idempotencyGateway protocols.IdempotencyGateway
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed, using in-memory idempotency", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			idempotencyGateway = gateways.NewIdempotencyGatewayMemory(clock)
		} else {
			idempotencyGateway = gateways.NewIdempotencyGatewayRedis(rdb)
			log.Info("cart idempotency: redis (TTL 24h)", zap.String("addr", cfg.RedisAddr))
		}
		healthChecks["redis"] = func(ctx context.Context) string {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return "down"
			}
			return "up"
		}
	} else {
		idempotencyGateway = gateways.NewIdempotencyGatewayMemory(clock)
		log.Info("cart idempotency: in-memory (set REDIS_ADDR for redis)")
	}

	handlers := &Handlers{
		CreateCart:   createcart.NewCreateCart(cartRepository, idempotencyGateway, publisher, clock, log),
		GetCart:      getcart.NewGetCart(cartRepository),
		UpdateCart:   updatecart.NewUpdateCart(cartRepository, catalog, publisher, clock, log),
		DeleteCart:   deletecart.NewDeleteCart(cartRepository, publisher, clock, log),
		ListItems:    listitems.NewListItems(catalog),
		HealthChecks: healthChecks,
		Logger:       log,
	}
	sweeper := sweep.NewSweeper(cartRepository, publisher, clock, cfg.InactivityThreshold, log)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: NewRouter(handlers),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("cart is running", zap.Int("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("sweeper started",
			zap.Duration("interval", cfg.SweepInterval),
			zap.Duration("threshold", cfg.InactivityThreshold),
		)
		sweeper.Run(gctx, cfg.SweepInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repositories.ItemRepositoryMemory, error) {
	if cfg.DatabaseURL == "" {
		log.Info("catalog: built-in seed")
		return repositories.NewItemRepositoryMemory(item.DefaultSeed()), nil
	}
	items, err := repositories.LoadCatalogFromPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("catalog: postgres", zap.Int("items", len(items)))
	return repositories.NewItemRepositoryFromItems(items), nil
}
